package handler

import (
	"net/http"

	"github.com/futurenote/futurenote/internal/ctxkeys"
	"github.com/futurenote/futurenote/internal/model"
	"github.com/futurenote/futurenote/internal/service"
)

// AdminHandler serves the moderation console API. Every route except
// login sits behind RequireAdmin.
type AdminHandler struct {
	authService       *service.AdminAuthService
	moderationService *service.ModerationService
	exportService     *service.ExportService
}

func NewAdminHandler(
	authService *service.AdminAuthService,
	moderationService *service.ModerationService,
	exportService *service.ExportService,
) *AdminHandler {
	return &AdminHandler{
		authService:       authService,
		moderationService: moderationService,
		exportService:     exportService,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

type loginResponse struct {
	Success bool          `json:"success"`
	Admin   adminResponse `json:"admin"`
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Email == "" || in.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	admin, err := h.authService.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, expiry, err := h.authService.GenerateJWT(admin)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.authService.SetJWTCookie(w, token, expiry)

	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Admin: adminResponse{
			ID:    admin.ID,
			Email: admin.Email,
			Name:  admin.Name,
			Role:  admin.Role,
		},
	})
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Me returns the signed-in admin.
func (h *AdminHandler) Me(w http.ResponseWriter, r *http.Request) {
	admin := ctxkeys.AdminFrom(r.Context())
	writeJSON(w, http.StatusOK, adminResponse{
		ID:    admin.ID,
		Email: admin.Email,
		Role:  admin.Role,
	})
}

type adminGoalsResponse struct {
	Goals      []*model.AdminGoal `json:"goals"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
}

func (h *AdminHandler) Goals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.moderationService.ListGoals(r.Context(), q.Get("filter"), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, adminGoalsResponse{
		Goals:      res.Items,
		Total:      res.Total,
		Page:       res.Page,
		TotalPages: res.TotalPages,
	})
}

type goalActionRequest struct {
	GoalID string `json:"goalId"`
	Action string `json:"action"`
}

func (h *AdminHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	var in goalActionRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.GoalID == "" {
		writeError(w, http.StatusBadRequest, "Goal ID is required")
		return
	}

	err := h.moderationService.DeleteGoal(r.Context(), in.GoalID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// UpdateGoal applies "flag" or "unflag".
func (h *AdminHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	var in goalActionRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.GoalID == "" {
		writeError(w, http.StatusBadRequest, "Goal ID is required")
		return
	}

	var flagged bool
	switch in.Action {
	case "flag":
		flagged = true
	case "unflag":
		flagged = false
	default:
		writeError(w, http.StatusBadRequest, "Unknown action")
		return
	}

	err := h.moderationService.SetFlag(r.Context(), in.GoalID, flagged)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

type adminReportsResponse struct {
	Reports    []*model.ReportWithGoal `json:"reports"`
	Total      int                     `json:"total"`
	Page       int                     `json:"page"`
	TotalPages int                     `json:"totalPages"`
}

func (h *AdminHandler) Reports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.moderationService.ListReports(r.Context(), q.Get("filter"), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, adminReportsResponse{
		Reports:    res.Items,
		Total:      res.Total,
		Page:       res.Page,
		TotalPages: res.TotalPages,
	})
}

type reportActionRequest struct {
	ReportID string `json:"reportId"`
	Action   string `json:"action"`
}

func (h *AdminHandler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	var in reportActionRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.ReportID == "" {
		writeError(w, http.StatusBadRequest, "Report ID is required")
		return
	}
	if in.Action != "resolve" {
		writeError(w, http.StatusBadRequest, "Unknown action")
		return
	}

	err := h.moderationService.ResolveReport(r.Context(), in.ReportID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.moderationService.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	res, err := h.exportService.Export(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}
