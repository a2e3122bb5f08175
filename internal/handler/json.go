package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/futurenote/futurenote/internal/service"
	"github.com/futurenote/futurenote/internal/validation"
)

const maxBodyBytes = 64 << 10

const (
	msgProfanity = "Your goal contains inappropriate language. Please revise it."
	msgPII       = "Please do not include personal information (phone numbers, emails, etc.) in your goal."
	msgInternal  = "Something went wrong. Please try again."
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to write json response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// writeServiceError maps service errors to status codes. Unexpected errors
// are logged and answered with a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErr *validation.FieldError
	switch {
	case errors.As(err, &fieldErr):
		writeError(w, http.StatusBadRequest, fieldErr.Message)
	case errors.Is(err, validation.ErrProfanity):
		writeError(w, http.StatusBadRequest, msgProfanity)
	case errors.Is(err, validation.ErrPII):
		writeError(w, http.StatusBadRequest, msgPII)
	case errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusBadRequest, "Invalid token")
	case errors.Is(err, service.ErrUnknownFilter):
		writeError(w, http.StatusBadRequest, "Unknown filter")
	case errors.Is(err, service.ErrGoalNotFound):
		writeError(w, http.StatusNotFound, "Goal not found")
	case errors.Is(err, service.ErrReportNotFound):
		writeError(w, http.StatusNotFound, "Report not found")
	case errors.Is(err, service.ErrAlreadyResponded):
		writeError(w, http.StatusConflict, "Already responded")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, service.ErrExportDisabled):
		writeError(w, http.StatusServiceUnavailable, "Export storage is not configured")
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

// queryInt returns the integer query parameter or 0 when absent or malformed.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}
