package handler

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/futurenote/futurenote/internal/service"
)

type CronHandler struct {
	reminderService *service.ReminderService
	secret          string
}

// NewCronHandler rejects every call when secret is empty.
func NewCronHandler(reminderService *service.ReminderService, secret string) *CronHandler {
	return &CronHandler{
		reminderService: reminderService,
		secret:          secret,
	}
}

type sweepResponse struct {
	Success bool `json:"success"`
	*service.SweepResult
}

// CheckReminders runs one reminder sweep for an external scheduler.
func (h *CronHandler) CheckReminders(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		slog.Warn("unauthorized cron call", "path", r.URL.Path)
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	res, err := h.reminderService.Sweep(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sweepResponse{Success: true, SweepResult: res})
}

func (h *CronHandler) authorized(r *http.Request) bool {
	if h.secret == "" {
		return false
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) == 1
}
