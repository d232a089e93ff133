package api

import (
	"net/http"

	"github.com/garnizeh/ustabul/internal/marketplace"
	"github.com/garnizeh/ustabul/pkg/models"
)

type AuthHandler struct {
	svc *marketplace.Service
	v   *Validator
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(svc *marketplace.Service, v *Validator) *AuthHandler {
	return &AuthHandler{svc: svc, v: v}
}

type registerRequest struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.v.decode(w, r, "register", &req) {
		return
	}

	res, err := h.svc.Register(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, res, http.StatusOK)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.v.decode(w, r, "login", &req) {
		return
	}

	res, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, res, http.StatusOK)
}
