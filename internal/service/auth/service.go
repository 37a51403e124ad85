package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/identity"
	"shipment-tracker/internal/logx"
)

// dummyHash is compared against when the user does not exist, so both paths cost one bcrypt run.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("unused"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("auth: dummy hash: %v", err))
	}
	return h
})

// Service logs users in and out.
type Service struct {
	users   UserFinder
	tokens  TokenIssuer
	revoker Revoker
	logger  logx.Logger
	now     func() time.Time
}

// NewService creates a new auth Service.
func NewService(users UserFinder, tokens TokenIssuer, revoker Revoker, logger logx.Logger) *Service {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		users:   users,
		tokens:  tokens,
		revoker: revoker,
		logger:  logger,
		now:     time.Now,
	}
}

// Login checks the password and issues a token. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (identity.Token, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return identity.Token{}, apperr.New(apperr.ErrInvalid, apperr.ReasonBadRequest)
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return identity.Token{}, err
	}

	hash := dummyHash()
	if u != nil {
		hash = []byte(u.PasswordHash)
	}
	err = bcrypt.CompareHashAndPassword(hash, []byte(password))
	if u == nil || err != nil {
		if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) && u != nil {
			s.logger.Error("password hash unusable", logx.Int64("user_id", u.ID), logx.Err(err))
		}
		return identity.Token{}, apperr.New(apperr.ErrUnauthenticated, apperr.ReasonInvalidCredentials)
	}
	if !u.Role.Valid() {
		return identity.Token{}, apperr.New(apperr.ErrUnauthenticated, apperr.ReasonInvalidCredentials)
	}

	tok, err := s.tokens.Issue(*u)
	if err != nil {
		return identity.Token{}, err
	}

	s.logger.Info("user logged in", logx.Int64("user_id", u.ID), logx.String("role", string(u.Role)))
	return tok, nil
}

// Logout revokes the principal's token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, p identity.Principal) error {
	ttl := p.ExpiresAt.Sub(s.now())
	if err := s.revoker.Revoke(ctx, p.TokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info("user logged out", logx.Int64("user_id", p.Actor.ID))
	return nil
}

// HashPassword returns the bcrypt hash stored for a password.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
