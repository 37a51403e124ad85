package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/identity"
	"shipment-tracker/internal/logx"
)

// PrincipalResolver verifies the Authorization header value.
type PrincipalResolver interface {
	Resolve(ctx context.Context, credential string) (identity.Principal, error)
}

// Authenticate resolves the caller and stores the principal in the request
// context. Requests without a valid token get 401 before reaching next.
func Authenticate(logger logx.Logger, resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				status, body := http.StatusUnauthorized, `{"error":"unauthenticated"}`
				if !errors.Is(err, apperr.ErrUnauthenticated) {
					status, body = http.StatusInternalServerError, `{"error":"internal_error"}`
					logger.Error("resolve principal failed",
						logx.String("request_id", chimw.GetReqID(r.Context())),
						logx.Err(err),
					)
				}
				w.Header().Set("Content-Type", "application/json")
				if status == http.StatusUnauthorized {
					w.Header().Set("WWW-Authenticate", "Bearer")
				}
				w.WriteHeader(status)
				_, _ = io.WriteString(w, body)
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.WithPrincipal(r.Context(), p)))
		})
	}
}
