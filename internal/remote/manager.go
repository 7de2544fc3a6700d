package remote

import (
	"context"
	"log"

	"internportal-backend/internal/cache"
	"internportal-backend/internal/models"
)

// DataManager mirrors the local manager's assignment read/write surface
// against the remote status service. Notifications have no remote
// counterpart and the credential never crosses this boundary. A
// short-lived status cache avoids refetching on every read; successful
// writes invalidate it so the next read reflects the mutation.
type DataManager struct {
	client *Client
	cache  cache.StatusCache
}

func NewDataManager(client *Client, statusCache cache.StatusCache) *DataManager {
	return &DataManager{client: client, cache: statusCache}
}

// GetUserData fetches the remote status (cache first) converted into the
// local record shape. Returns nil without error when the remote has no
// record for the user.
func (m *DataManager) GetUserData(ctx context.Context, userID string) (*models.User, error) {
	if status, ok := m.cache.Get(ctx, userID); ok {
		return status.ToUser(), nil
	}

	status, err := m.client.GetUserStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, nil
	}

	m.cache.Set(ctx, userID, status)
	return status.ToUser(), nil
}

// StartAssignment reports whether the remote accepted the write.
func (m *DataManager) StartAssignment(ctx context.Context, userID, assignmentID string) bool {
	if err := m.client.StartAssignment(ctx, userID, assignmentID); err != nil {
		log.Printf("remote: failed to start assignment: %v", err)
		return false
	}
	m.cache.Delete(ctx, userID)
	return true
}

// SubmitAssignment reports whether the remote accepted the write.
func (m *DataManager) SubmitAssignment(ctx context.Context, userID, assignmentID string, sub models.SubmitRequest) bool {
	if err := m.client.SubmitAssignment(ctx, userID, assignmentID, sub); err != nil {
		log.Printf("remote: failed to submit assignment: %v", err)
		return false
	}
	m.cache.Delete(ctx, userID)
	return true
}

// IsBackendAvailable probes the health endpoint. Any failure reads as
// unreachable.
func (m *DataManager) IsBackendAvailable(ctx context.Context) bool {
	if err := m.client.Health(ctx); err != nil {
		log.Printf("remote: health check failed: %v", err)
		return false
	}
	return true
}

func (m *DataManager) ClearCache(ctx context.Context, userID string) {
	m.cache.Delete(ctx, userID)
}
