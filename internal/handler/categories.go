package handler

import (
	"net/http"

	"github.com/futurenote/futurenote/internal/model"
)

type categoriesResponse struct {
	Categories []model.Category `json:"categories"`
}

// Categories serves the planner catalog with goal templates.
func Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: model.Categories})
}
