package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shipment-tracker/internal/domain"
)

// Principal is the verified caller of one request.
type Principal struct {
	Actor     domain.Actor
	TokenID   string
	ExpiresAt time.Time
}

// Resolver turns a bearer credential into a Principal.
type Resolver struct {
	tokens  *TokenService
	revoked RevocationList
}

// NewResolver creates a Resolver. A nil revocation list accepts every unexpired token.
func NewResolver(tokens *TokenService, revoked RevocationList) *Resolver {
	return &Resolver{tokens: tokens, revoked: revoked}
}

// Resolve verifies the credential, an Authorization header value with or without
// the "Bearer " prefix, and checks it was not revoked.
func (r *Resolver) Resolve(ctx context.Context, credential string) (Principal, error) {
	raw := bearer(credential)
	if raw == "" {
		return Principal{}, unauthenticated()
	}

	claims, err := r.tokens.Parse(raw)
	if err != nil {
		return Principal{}, err
	}
	actor, err := claims.Actor()
	if err != nil {
		return Principal{}, err
	}

	if r.revoked != nil {
		revoked, err := r.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return Principal{}, fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			return Principal{}, unauthenticated()
		}
	}

	return Principal{Actor: actor, TokenID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// ResolveActor is Resolve without the token details.
func (r *Resolver) ResolveActor(ctx context.Context, credential string) (domain.Actor, error) {
	p, err := r.Resolve(ctx, credential)
	if err != nil {
		return domain.Actor{}, err
	}
	return p.Actor, nil
}

func bearer(credential string) string {
	credential = strings.TrimSpace(credential)
	const prefix = "bearer "
	if len(credential) >= len(prefix) && strings.EqualFold(credential[:len(prefix)], prefix) {
		credential = credential[len(prefix):]
	}
	return strings.TrimSpace(credential)
}

type principalKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored in ctx.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// ActorFrom returns the actor stored in ctx.
func ActorFrom(ctx context.Context) (domain.Actor, bool) {
	p, ok := PrincipalFrom(ctx)
	return p.Actor, ok
}
