package services

import (
	"log"
	"time"

	"internportal-backend/internal/hybrid"
	"internportal-backend/internal/websocket"
)

// FeedScheduler keeps the live feed moving: on an interval it asks the
// coordinator to synthesize fresh peer activity and pushes the recomputed
// ring to every connected dashboard.
type FeedScheduler struct {
	coordinator *hybrid.Coordinator
	hub         *websocket.Hub
	interval    time.Duration
	stopChan    chan struct{}
}

func NewFeedScheduler(coordinator *hybrid.Coordinator, hub *websocket.Hub, interval time.Duration) *FeedScheduler {
	return &FeedScheduler{
		coordinator: coordinator,
		hub:         hub,
		interval:    interval,
		stopChan:    make(chan struct{}),
	}
}

func (s *FeedScheduler) Start() {
	if s.coordinator == nil {
		return
	}

	go s.loop()
	log.Printf("Feed scheduler started (every %s)", s.interval)
}

func (s *FeedScheduler) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *FeedScheduler) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.refresh()
		}
	}
}

func (s *FeedScheduler) refresh() {
	s.coordinator.RefreshLiveUpdates()

	if s.hub != nil {
		s.hub.Broadcast(map[string]interface{}{
			"type":    "feed",
			"updates": s.coordinator.GetLiveUpdates(),
		})
	}
}
