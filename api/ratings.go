package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/ustabul/internal/marketplace"
	"github.com/garnizeh/ustabul/pkg/models"
)

type RatingsHandler struct {
	svc *marketplace.Service
	v   *Validator
}

func NewRatingsHandler(svc *marketplace.Service, v *Validator) *RatingsHandler {
	return &RatingsHandler{svc: svc, v: v}
}

type userRatingsResponse struct {
	UserID        string          `json:"user_id"`
	AverageRating float64         `json:"average_rating"`
	Ratings       []models.Rating `json:"ratings"`
}

func (h *RatingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := mustCaller(w, r)
	if !ok {
		return
	}
	var in marketplace.RatingInput
	if !h.v.decode(w, r, "rating", &in) {
		return
	}

	rt, err := h.svc.RecordRating(r.Context(), c.UserID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, messageResponse{Message: "Rating submitted", ID: rt.ID}, http.StatusCreated)
}

func (h *RatingsHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	ratings, err := h.svc.ListRatings(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	avg, err := h.svc.AverageRating(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ratings == nil {
		ratings = []models.Rating{}
	}
	writeJSON(w, userRatingsResponse{UserID: userID, AverageRating: avg, Ratings: ratings}, http.StatusOK)
}
