package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/ustabul/internal/marketplace"
	"github.com/garnizeh/ustabul/pkg/models"
)

type JobsHandler struct {
	svc *marketplace.Service
	v   *Validator
}

func NewJobsHandler(svc *marketplace.Service, v *Validator) *JobsHandler {
	return &JobsHandler{svc: svc, v: v}
}

type applyRequest struct {
	JobID string `json:"job_id"`
}

type statusRequest struct {
	Status models.JobStatus `json:"status"`
}

func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := mustCaller(w, r)
	if !ok {
		return
	}
	var in marketplace.JobInput
	if !h.v.decode(w, r, "job", &in) {
		return
	}

	j, err := h.svc.CreateJob(r.Context(), c.UserID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, j, http.StatusCreated)
}

// List filters by the optional status query parameter.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := pageFromQuery(w, r)
	if !ok {
		return
	}
	jobs, err := h.svc.ListJobs(r.Context(), models.JobStatus(r.URL.Query().Get("status")), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, jobs, http.StatusOK)
}

// Get returns a job and counts the read as a view.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	j, err := h.svc.GetJob(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, j, http.StatusOK)
}

func (h *JobsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	c, ok := mustCaller(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !h.v.decode(w, r, "job_status", &req) {
		return
	}

	j, err := h.svc.TransitionJob(r.Context(), mux.Vars(r)["id"], c.UserID, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, j, http.StatusOK)
}

func (h *JobsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	c, ok := mustCaller(w, r)
	if !ok {
		return
	}
	var req applyRequest
	if !h.v.decode(w, r, "apply", &req) {
		return
	}

	a, err := h.svc.Apply(r.Context(), req.JobID, c.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, messageResponse{Message: "Application submitted", ID: a.ID}, http.StatusCreated)
}

func (h *JobsHandler) Applications(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListApplications(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, list, http.StatusOK)
}
