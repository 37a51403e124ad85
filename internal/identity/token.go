// Package identity turns a bearer credential into the Actor that performs an operation.
package identity

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/domain"
)

// Claims are the JWT claims of an access token. The subject is the user id.
type Claims struct {
	Role        domain.Role `json:"role"`
	WarehouseID *int64      `json:"warehouse_id,omitempty"`
	CarrierID   *int64      `json:"carrier_id,omitempty"`
	jwt.RegisteredClaims
}

// Token is a signed access token.
type Token struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

// TokenService signs and verifies access tokens with HMAC-SHA256.
type TokenService struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
	now        func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces the clock used to stamp and verify tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTokenService creates a TokenService. A non-positive ttl means one hour.
func NewTokenService(secret, issuer string, ttl time.Duration, opts ...TokenOption) *TokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	s := &TokenService{
		signingKey: []byte(secret),
		issuer:     issuer,
		ttl:        ttl,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token for the user.
func (s *TokenService) Issue(u domain.User) (Token, error) {
	actor := u.Actor()
	now := s.now()
	exp := now.Add(s.ttl)
	id := uuid.NewString()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:        actor.Role,
		WarehouseID: actor.WarehouseID,
		CarrierID:   actor.CarrierID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        id,
		},
	})

	signed, err := t.SignedString(s.signingKey)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ID: id, ExpiresAt: exp.Truncate(time.Second)}, nil
}

// Parse verifies the signature, issuer and expiry of raw and returns its claims.
// Every rejection is an unauthenticated error.
func (s *TokenService) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return s.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, unauthenticated()
	}
	if claims.ID == "" || !claims.Role.Valid() {
		return nil, unauthenticated()
	}
	return claims, nil
}

// Actor rebuilds the actor carried by the claims.
func (c *Claims) Actor() (domain.Actor, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return domain.Actor{}, unauthenticated()
	}
	return domain.Actor{
		ID:          id,
		Role:        c.Role,
		WarehouseID: c.WarehouseID,
		CarrierID:   c.CarrierID,
	}, nil
}

func unauthenticated() error {
	return apperr.New(apperr.ErrUnauthenticated, apperr.ReasonUnauthenticated)
}

// IsUnauthenticated reports whether err rejects the credential itself.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, apperr.ErrUnauthenticated)
}
