package handler

import (
	"net/http"

	"github.com/futurenote/futurenote/internal/model"
	"github.com/futurenote/futurenote/internal/service"
)

type AchieversHandler struct {
	badgeService *service.BadgeService
}

func NewAchieversHandler(badgeService *service.BadgeService) *AchieversHandler {
	return &AchieversHandler{
		badgeService: badgeService,
	}
}

type achieversResponse struct {
	Achievers []*model.Achiever       `json:"achievers"`
	Badges    []model.BadgeDefinition `json:"badges"`
}

func (h *AchieversHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	achievers, err := h.badgeService.Leaderboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	badges, err := h.badgeService.Catalog(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, achieversResponse{
		Achievers: achievers,
		Badges:    badges,
	})
}
