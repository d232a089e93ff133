package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/ustabul/internal/marketplace"
)

type EmployersHandler struct {
	svc *marketplace.Service
	v   *Validator
}

func NewEmployersHandler(svc *marketplace.Service, v *Validator) *EmployersHandler {
	return &EmployersHandler{svc: svc, v: v}
}

func (h *EmployersHandler) CreateDetails(w http.ResponseWriter, r *http.Request) {
	c, ok := mustCaller(w, r)
	if !ok {
		return
	}
	var in marketplace.EmployerProfileInput
	if !h.v.decode(w, r, "employer_details", &in) {
		return
	}

	p, err := h.svc.CreateEmployerProfile(r.Context(), c.UserID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, p, http.StatusCreated)
}

func (h *EmployersHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := pageFromQuery(w, r)
	if !ok {
		return
	}
	list, err := h.svc.ListEmployerProfiles(r.Context(), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, list, http.StatusOK)
}

func (h *EmployersHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetEmployerProfile(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, p, http.StatusOK)
}
