package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/ustabul/internal/marketplace"
	"github.com/garnizeh/ustabul/pkg/models"
)

type NotificationsHandler struct {
	svc *marketplace.Service
}

func NewNotificationsHandler(svc *marketplace.Service) *NotificationsHandler {
	return &NotificationsHandler{svc: svc}
}

// List returns the inbox of {userId}. Only the owner or an admin may read it.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	c, ok := mustCaller(w, r)
	if !ok {
		return
	}
	userID := mux.Vars(r)["userId"]
	if c.UserID != userID && c.Role != models.RoleAdmin {
		writeJSON(w, errorResponse{Error: models.ErrForbidden.Error()}, http.StatusForbidden)
		return
	}

	list, err := h.svc.ListNotifications(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, list, http.StatusOK)
}

// MarkRead marks {id} as read. Only the addressee or an admin may do so.
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	c, ok := mustCaller(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	if err := h.svc.MarkNotificationRead(r.Context(), id, c.UserID, c.Role); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, messageResponse{Message: "Notification marked as read", ID: id}, http.StatusOK)
}
