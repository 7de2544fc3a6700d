package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"internportal-backend/internal/hybrid"
	"internportal-backend/internal/middleware"
)

type NotificationsHandler struct {
	coordinator *hybrid.Coordinator
}

func NewNotificationsHandler(coordinator *hybrid.Coordinator) *NotificationsHandler {
	return &NotificationsHandler{coordinator: coordinator}
}

func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user := h.coordinator.GetUserData(r.Context(), userID)
	if user == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	writeJSON(w, http.StatusOK, user.Notifications)
}

// MarkRead flips the read flag. An unknown notification id is a no-op,
// matching the data layer.
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	notificationID := chi.URLParam(r, "id")

	h.coordinator.MarkNotificationRead(userID, notificationID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}
