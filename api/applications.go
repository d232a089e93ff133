package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/ustabul/internal/marketplace"
)

type ApplicationsHandler struct {
	svc *marketplace.Service
	v   *Validator
}

func NewApplicationsHandler(svc *marketplace.Service, v *Validator) *ApplicationsHandler {
	return &ApplicationsHandler{svc: svc, v: v}
}

type withdrawRequest struct {
	Reason *string `json:"reason"`
}

func (h *ApplicationsHandler) Accept(w http.ResponseWriter, r *http.Request) {
	c, ok := mustCaller(w, r)
	if !ok {
		return
	}
	a, err := h.svc.Accept(r.Context(), mux.Vars(r)["id"], c.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, a, http.StatusOK)
}

func (h *ApplicationsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	c, ok := mustCaller(w, r)
	if !ok {
		return
	}
	a, err := h.svc.Reject(r.Context(), mux.Vars(r)["id"], c.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, a, http.StatusOK)
}

// Withdraw takes an optional JSON body with a reason; an empty body is allowed.
func (h *ApplicationsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	c, ok := mustCaller(w, r)
	if !ok {
		return
	}
	var req withdrawRequest
	if r.ContentLength != 0 && !h.v.decode(w, r, "withdraw", &req) {
		return
	}
	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}

	a, err := h.svc.Withdraw(r.Context(), mux.Vars(r)["id"], c.UserID, reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, a, http.StatusOK)
}
