package identity_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/domain"
	"shipment-tracker/internal/identity"
)

var issuedAt = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time { return func() time.Time { return t } }

func newTokens(now time.Time) *identity.TokenService {
	return identity.NewTokenService("secret", "shipment-tracker", time.Hour, identity.WithClock(clockAt(now)))
}

func TestTokenService_IssueAndParse(t *testing.T) {
	t.Parallel()

	w := int64(3)
	users := []domain.User{
		{ID: 5, Role: domain.RoleWarehouseStaff, WarehouseID: &w},
		{ID: 7, Role: domain.RoleCarrier},
		{ID: 9, Role: domain.RoleGlobalManager},
	}

	for _, u := range users {
		t.Run(string(u.Role), func(t *testing.T) {
			t.Parallel()
			svc := newTokens(issuedAt)

			tok, err := svc.Issue(u)
			require.NoError(t, err)
			require.NotEmpty(t, tok.ID)
			require.True(t, tok.ExpiresAt.Equal(issuedAt.Add(time.Hour)))

			claims, err := svc.Parse(tok.Value)
			require.NoError(t, err)
			require.Equal(t, tok.ID, claims.ID)

			actor, err := claims.Actor()
			require.NoError(t, err)
			require.Equal(t, u.Actor(), actor)
		})
	}
}

func TestTokenService_Rejects(t *testing.T) {
	t.Parallel()

	u := domain.User{ID: 5, Role: domain.RoleCarrier}
	tok, err := newTokens(issuedAt).Issue(u)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "5",
		Issuer:    "shipment-tracker",
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		ID:        "x",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, identity.Claims{
		Role: "auditor",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "5",
			Issuer:    "shipment-tracker",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
			ID:        "x",
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name string
		svc  *identity.TokenService
		raw  string
	}{
		{"expired", newTokens(issuedAt.Add(2 * time.Hour)), tok.Value},
		{"wrong secret", identity.NewTokenService("other", "shipment-tracker", time.Hour, identity.WithClock(clockAt(issuedAt))), tok.Value},
		{"wrong issuer", identity.NewTokenService("secret", "someone-else", time.Hour, identity.WithClock(clockAt(issuedAt))), tok.Value},
		{"alg none", newTokens(issuedAt), noneToken},
		{"unknown role", newTokens(issuedAt), badRole},
		{"garbage", newTokens(issuedAt), "not.a.token"},
		{"tampered", newTokens(issuedAt), tok.Value + "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tt.svc.Parse(tt.raw)
			require.ErrorIs(t, err, apperr.ErrUnauthenticated)
			require.True(t, identity.IsUnauthenticated(err))
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	svc := newTokens(issuedAt)
	revoked := identity.NewMemoryRevocations()
	r := identity.NewResolver(svc, revoked)
	ctx := context.Background()

	w := int64(2)
	tok, err := svc.Issue(domain.User{ID: 11, Role: domain.RoleStoreManager, WarehouseID: &w})
	require.NoError(t, err)

	for _, cred := range []string{"Bearer " + tok.Value, "bearer " + tok.Value, tok.Value, "  Bearer   " + tok.Value + " "} {
		p, err := r.Resolve(ctx, cred)
		require.NoError(t, err)
		require.Equal(t, int64(11), p.Actor.ID)
		require.Equal(t, domain.RoleStoreManager, p.Actor.Role)
		require.Equal(t, w, *p.Actor.WarehouseID)
		require.Equal(t, tok.ID, p.TokenID)
	}

	for _, cred := range []string{"", "Bearer ", "Basic abc", strings.ToUpper(tok.Value)} {
		_, err := r.ResolveActor(ctx, cred)
		require.ErrorIs(t, err, apperr.ErrUnauthenticated, "credential %q", cred)
	}

	require.NoError(t, revoked.Revoke(ctx, tok.ID, time.Hour))
	_, err = r.Resolve(ctx, "Bearer "+tok.Value)
	require.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

type failingRevocations struct{}

func (failingRevocations) Revoke(context.Context, string, time.Duration) error { return nil }
func (failingRevocations) IsRevoked(context.Context, string) (bool, error) {
	return false, context.DeadlineExceeded
}

func TestResolver_RevocationStoreFailureIsNotAuthError(t *testing.T) {
	t.Parallel()

	svc := newTokens(issuedAt)
	tok, err := svc.Issue(domain.User{ID: 1, Role: domain.RoleGlobalManager})
	require.NoError(t, err)

	_, err = identity.NewResolver(svc, failingRevocations{}).Resolve(context.Background(), tok.Value)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.False(t, identity.IsUnauthenticated(err))
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	_, ok := identity.ActorFrom(context.Background())
	require.False(t, ok)

	p := identity.Principal{Actor: domain.Actor{ID: 3, Role: domain.RoleCarrier}, TokenID: "jti"}
	ctx := identity.WithPrincipal(context.Background(), p)

	got, ok := identity.PrincipalFrom(ctx)
	require.True(t, ok)
	require.Equal(t, p, got)

	actor, ok := identity.ActorFrom(ctx)
	require.True(t, ok)
	require.Equal(t, int64(3), actor.ID)
}
