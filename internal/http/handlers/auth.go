package handlers

import (
	"net/http"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/identity"
	"shipment-tracker/internal/logx"
)

// AuthHandler serves login and logout.
type AuthHandler struct {
	usecase authUsecase
	logger  logx.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(logger logx.Logger, uc authUsecase) *AuthHandler {
	return &AuthHandler{usecase: uc, logger: logger}
}

// Login handles POST /auth/login.
// @Summary Exchange credentials for an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Credentials"
// @Success 200 {object} loginResponse
// @Failure 400 {object} ErrorResponse "bad_request"
// @Failure 401 {object} ErrorResponse "invalid_credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	tok, err := h.usecase.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, loginResponse{
		AccessToken: tok.Value,
		TokenType:   "Bearer",
		ExpiresAt:   tok.ExpiresAt.UTC(),
	})
}

// Logout handles POST /auth/logout and revokes the presented token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p, ok := identity.PrincipalFrom(r.Context())
	if !ok {
		writeError(h.logger, w, r, http.StatusUnauthorized, string(apperr.ReasonUnauthenticated))
		return
	}
	if err := h.usecase.Logout(r.Context(), p); err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
