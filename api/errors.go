package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/garnizeh/ustabul/internal/auth"
	"github.com/garnizeh/ustabul/pkg/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// statusFor maps domain errors to HTTP status codes; unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateApplication),
		errors.Is(err, models.ErrDuplicateUsername),
		errors.Is(err, models.ErrDuplicateMedia),
		errors.Is(err, models.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrInvalidScore),
		errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// writeError sends err as a JSON error body. Internal errors are logged and
// replaced with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("err", err),
		)
		msg = "internal server error"
	}
	writeJSON(w, errorResponse{Error: msg}, status)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, errorResponse{Error: msg}, http.StatusBadRequest)
}
