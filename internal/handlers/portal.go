package handlers

import (
	"net/http"

	"internportal-backend/internal/hybrid"
	"internportal-backend/internal/middleware"
)

type PortalHandler struct {
	coordinator *hybrid.Coordinator
}

func NewPortalHandler(coordinator *hybrid.Coordinator) *PortalHandler {
	return &PortalHandler{coordinator: coordinator}
}

func (h *PortalHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user := h.coordinator.GetUserData(r.Context(), userID)
	if user == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	writeJSON(w, http.StatusOK, user.Sanitized())
}

func (h *PortalHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user := h.coordinator.GetUserData(r.Context(), userID)
	if user == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	writeJSON(w, http.StatusOK, user.Stats)
}

// Sync forces a merge of the remote snapshot over the local record.
func (h *PortalHandler) Sync(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	synced := h.coordinator.SyncWithBackend(r.Context(), userID)
	user := h.coordinator.GetUserData(r.Context(), userID)
	if user == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"synced": synced,
		"user":   user.Sanitized(),
	})
}

func (h *PortalHandler) Connection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":         h.coordinator.ConnectionState(),
		"using_backend": h.coordinator.IsUsingBackend(),
	})
}

// Reconnect re-probes the backend on demand; there is no automatic retry
// loop anywhere else. The user's cached remote status is dropped so a
// regained connection serves fresh state.
func (h *PortalHandler) Reconnect(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	h.coordinator.InvalidateRemoteCache(r.Context(), userID)
	h.coordinator.RecheckBackend(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":         h.coordinator.ConnectionState(),
		"using_backend": h.coordinator.IsUsingBackend(),
	})
}
