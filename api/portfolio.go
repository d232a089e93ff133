package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/ustabul/internal/marketplace"
	"github.com/garnizeh/ustabul/pkg/models"
)

type PortfolioHandler struct {
	svc      *marketplace.Service
	maxBytes int64
}

// NewPortfolioHandler limits uploads to maxBytes per request.
func NewPortfolioHandler(svc *marketplace.Service, maxBytes int64) *PortfolioHandler {
	return &PortfolioHandler{svc: svc, maxBytes: maxBytes}
}

// Upload accepts a multipart form with a "file" part plus optional
// description, material_tag, technique_tag and verification_source fields.
func (h *PortfolioHandler) Upload(w http.ResponseWriter, r *http.Request) {
	c, ok := mustCaller(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, errorResponse{Error: "file too large"}, http.StatusRequestEntityTooLarge)
			return
		}
		badRequest(w, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "missing file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		badRequest(w, "failed to read file")
		return
	}

	item, err := h.svc.UploadPortfolio(r.Context(), marketplace.PortfolioUpload{
		WorkerID:           c.UserID,
		ContentType:        header.Header.Get("Content-Type"),
		Data:               data,
		Description:        r.FormValue("description"),
		MaterialTag:        r.FormValue("material_tag"),
		TechniqueTag:       r.FormValue("technique_tag"),
		VerificationSource: models.VerificationSource(r.FormValue("verification_source")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, item, http.StatusCreated)
}

func (h *PortfolioHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListPortfolio(r.Context(), mux.Vars(r)["workerId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, items, http.StatusOK)
}
