package handlers

import (
	"net/http"

	"internportal-backend/internal/hybrid"
	"internportal-backend/internal/websocket"
)

type FeedHandler struct {
	coordinator *hybrid.Coordinator
	hub         *websocket.Hub
}

func NewFeedHandler(coordinator *hybrid.Coordinator, hub *websocket.Hub) *FeedHandler {
	return &FeedHandler{coordinator: coordinator, hub: hub}
}

func (h *FeedHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.coordinator.GetLiveUpdates())
}

// Refresh synthesizes fresh peer activity on demand and pushes the
// result to connected dashboards.
func (h *FeedHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.coordinator.RefreshLiveUpdates()

	updates := h.coordinator.GetLiveUpdates()
	if h.hub != nil {
		h.hub.Broadcast(map[string]interface{}{
			"type":    "feed",
			"updates": updates,
		})
	}

	writeJSON(w, http.StatusOK, updates)
}
