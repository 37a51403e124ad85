package auth

import (
	"context"
	"time"

	"shipment-tracker/internal/domain"
	"shipment-tracker/internal/identity"
)

// UserFinder finds accounts by login name.
type UserFinder interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(u domain.User) (identity.Token, error)
}

// Revoker revokes token ids until they expire.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}
