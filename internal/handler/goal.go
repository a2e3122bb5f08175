package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/futurenote/futurenote/internal/ctxkeys"
	"github.com/futurenote/futurenote/internal/model"
	"github.com/futurenote/futurenote/internal/service"
	"github.com/futurenote/futurenote/internal/ui"
	"github.com/futurenote/futurenote/internal/ui/pages"
	"github.com/futurenote/futurenote/internal/validation"
)

type GoalHandler struct {
	goalService       *service.GoalService
	moderationService *service.ModerationService
	site              pages.Site
}

func NewGoalHandler(goalService *service.GoalService, moderationService *service.ModerationService, site pages.Site) *GoalHandler {
	return &GoalHandler{
		goalService:       goalService,
		moderationService: moderationService,
		site:              site,
	}
}

type submitResponse struct {
	Success   bool                    `json:"success"`
	Message   string                  `json:"message"`
	GoalID    string                  `json:"goalId"`
	NewBadges []model.BadgeDefinition `json:"newBadges"`
}

func (h *GoalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in validation.GoalSubmission
	if !decodeJSON(w, r, &in) {
		return
	}

	res, err := h.goalService.Submit(r.Context(), in, ctxkeys.ClientIP(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Success:   true,
		Message:   "Goal saved successfully! Check your email for confirmation.",
		GoalID:    res.GoalID,
		NewBadges: res.NewBadges,
	})
}

type goalsResponse struct {
	Goals   []*model.PublicGoal `json:"goals"`
	HasMore bool                `json:"hasMore"`
	Page    int                 `json:"page"`
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.goalService.PublicGoals(r.Context(), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goalsResponse{
		Goals:   page.Goals,
		HasMore: page.HasMore,
		Page:    page.Page,
	})
}

type reportRequest struct {
	GoalID string `json:"goalId"`
	Reason string `json:"reason"`
}

func (h *GoalHandler) Report(w http.ResponseWriter, r *http.Request) {
	var in reportRequest
	if !decodeJSON(w, r, &in) {
		return
	}

	_, err := h.moderationService.SubmitReport(r.Context(), in.GoalID, in.Reason, ctxkeys.ClientIP(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "Report submitted successfully"})
}

// Respond handles the yes/no links in the reminder email.
func (h *GoalHandler) Respond(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	answer := r.URL.Query().Get("achieved")
	if token == "" || (answer != "yes" && answer != "no") {
		ui.RenderStatus(w, r, http.StatusBadRequest,
			pages.Error(h.site, "Invalid link", "Token and achieved status are required."))
		return
	}

	res, err := h.goalService.Respond(r.Context(), token, answer == "yes")
	if errors.Is(err, service.ErrAlreadyResponded) {
		ui.Render(w, r, pages.AlreadyResponded(h.site))
		return
	}
	if err != nil {
		h.renderTokenError(w, r, err)
		return
	}

	ui.Render(w, r, pages.ResponseRecorded(h.site, res.Goal.GoalText, answer == "yes"))
}

// Delete handles the link in the confirmation email. A used link shows the 404 page.
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, err := h.goalService.DeleteByToken(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		h.renderTokenError(w, r, err)
		return
	}

	ui.Render(w, r, pages.GoalDeleted(h.site))
}

func (h *GoalHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	_, err := h.goalService.Unsubscribe(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		h.renderTokenError(w, r, err)
		return
	}

	ui.Render(w, r, pages.Unsubscribed(h.site))
}

func (h *GoalHandler) renderTokenError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidToken):
		ui.RenderStatus(w, r, http.StatusBadRequest,
			pages.Error(h.site, "Invalid link", "This link is malformed. Please use the link from your email."))
	case errors.Is(err, service.ErrGoalNotFound):
		ui.RenderStatus(w, r, http.StatusNotFound,
			pages.Error(h.site, "Goal not found", "This link is invalid or has already been used."))
	default:
		slog.Error("token action failed", "path", r.URL.Path, "error", err)
		ui.RenderStatus(w, r, http.StatusInternalServerError,
			pages.Error(h.site, "Something went wrong", "Please try again later."))
	}
}
