package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"shipment-tracker/internal/apperr"
	"shipment-tracker/internal/logx"
)

func reqID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

func writeJSON(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil && logger != nil {
		logger.Warn("json encode error",
			logx.String("request_id", reqID(r.Context())),
			logx.Err(err),
		)
	}
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, reason string) {
	if logger != nil {
		logger.Info("http error",
			logx.String("request_id", reqID(r.Context())),
			logx.Int("status", status),
			logx.String("reason", reason),
		)
	}
	writeJSON(logger, w, r, status, ErrorResponse{Error: reason})
}

// writeFailure maps a service error onto a status and its reason code.
// Anything that is not a typed rejection is logged and hidden behind 500.
func writeFailure(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.Error("request failed",
				logx.String("request_id", reqID(r.Context())),
				logx.String("method", r.Method),
				logx.String("path", r.URL.Path),
				logx.Err(err),
			)
		}
		writeJSON(logger, w, r, status, ErrorResponse{Error: "internal_error"})
		return
	}

	reason, ok := apperr.ReasonOf(err)
	if !ok {
		reason = fallbackReason[status]
	}
	writeError(logger, w, r, status, string(reason))
}

var fallbackReason = map[int]apperr.Reason{
	http.StatusBadRequest:   apperr.ReasonBadRequest,
	http.StatusUnauthorized: apperr.ReasonUnauthenticated,
	http.StatusForbidden:    "forbidden",
	http.StatusNotFound:     apperr.ReasonNotFound,
	http.StatusConflict:     "conflict",
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

const (
	bodyLimit = 1 << 20
)

func decodeJSON[T any](logger logx.Logger, w http.ResponseWriter, r *http.Request, dst *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(logger, w, r, http.StatusBadRequest, string(apperr.ReasonBadRequest))
		return false
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		writeError(logger, w, r, http.StatusBadRequest, string(apperr.ReasonBadRequest))
		return false
	}
	return true
}

func idFromURL(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
