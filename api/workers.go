package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/garnizeh/ustabul/internal/marketplace"
)

type WorkersHandler struct {
	svc *marketplace.Service
	v   *Validator
}

func NewWorkersHandler(svc *marketplace.Service, v *Validator) *WorkersHandler {
	return &WorkersHandler{svc: svc, v: v}
}

// CreateDetails attaches a worker profile to the calling worker account.
func (h *WorkersHandler) CreateDetails(w http.ResponseWriter, r *http.Request) {
	c, ok := mustCaller(w, r)
	if !ok {
		return
	}
	var in marketplace.WorkerProfileInput
	if !h.v.decode(w, r, "worker_details", &in) {
		return
	}

	p, err := h.svc.CreateWorkerProfile(r.Context(), c.UserID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, p, http.StatusCreated)
}

func (h *WorkersHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := pageFromQuery(w, r)
	if !ok {
		return
	}
	list, err := h.svc.ListWorkerProfiles(r.Context(), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, list, http.StatusOK)
}

func (h *WorkersHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetWorkerProfile(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, p, http.StatusOK)
}

// AddSkill records a skill for {id}; workers may only edit their own skills.
func (h *WorkersHandler) AddSkill(w http.ResponseWriter, r *http.Request) {
	c, ok := mustCaller(w, r)
	if !ok {
		return
	}
	workerID := mux.Vars(r)["id"]
	if c.UserID != workerID {
		writeJSON(w, errorResponse{Error: "cannot edit another worker's skills"}, http.StatusForbidden)
		return
	}
	var in marketplace.WorkerSkillInput
	if !h.v.decode(w, r, "worker_skill", &in) {
		return
	}

	s, err := h.svc.AddWorkerSkill(r.Context(), workerID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, s, http.StatusCreated)
}

func (h *WorkersHandler) ListSkills(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListWorkerSkills(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, list, http.StatusOK)
}

// pageFromQuery reads skip and limit; missing values fall back to service defaults.
func pageFromQuery(w http.ResponseWriter, r *http.Request) (marketplace.Page, bool) {
	var p marketplace.Page
	q := r.URL.Query()
	if s := q.Get("skip"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			badRequest(w, "invalid skip")
			return p, false
		}
		p.Skip = n
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			badRequest(w, "invalid limit")
			return p, false
		}
		p.Limit = n
	}
	return p, true
}
