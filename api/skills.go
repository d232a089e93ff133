package api

import (
	"net/http"

	"github.com/garnizeh/ustabul/internal/marketplace"
)

type SkillsHandler struct {
	svc *marketplace.Service
}

func NewSkillsHandler(svc *marketplace.Service) *SkillsHandler {
	return &SkillsHandler{svc: svc}
}

func (h *SkillsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, list, http.StatusOK)
}

func (h *SkillsHandler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.svc.CategoryTree(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, tree, http.StatusOK)
}
