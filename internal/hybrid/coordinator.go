package hybrid

import (
	"context"
	"log"
	"sync"
	"time"

	"internportal-backend/internal/local"
	"internportal-backend/internal/models"
)

// Connection states. The coordinator re-enters checking only during an
// explicit recheck; there is no automatic retry loop.
const (
	StateChecking = "checking"
	StateOnline   = "online"
	StateOffline  = "offline"
)

const mirrorTimeout = 15 * time.Second

// RemoteManager is the remote-side surface the coordinator arbitrates
// against. Satisfied by remote.DataManager; tests substitute fakes.
type RemoteManager interface {
	GetUserData(ctx context.Context, userID string) (*models.User, error)
	StartAssignment(ctx context.Context, userID, assignmentID string) bool
	SubmitAssignment(ctx context.Context, userID, assignmentID string, sub models.SubmitRequest) bool
	IsBackendAvailable(ctx context.Context) bool
	ClearCache(ctx context.Context, userID string)
}

// Coordinator decides per call whether to use the remote manager or fall
// back to local. Writes always land locally first so the portal reflects
// the action immediately; the remote mirror is best effort and its
// failures are only logged. Constructed once at startup and passed to
// consumers explicitly.
type Coordinator struct {
	local  *local.Manager
	remote RemoteManager

	mu    sync.RWMutex
	state string
}

func NewCoordinator(localMgr *local.Manager, remoteMgr RemoteManager) *Coordinator {
	return &Coordinator{
		local:  localMgr,
		remote: remoteMgr,
		state:  StateChecking,
	}
}

// RecheckBackend probes the remote service and records reachability.
// Called at startup and on manual refresh.
func (c *Coordinator) RecheckBackend(ctx context.Context) {
	c.setState(StateChecking)

	if c.remote.IsBackendAvailable(ctx) {
		c.setState(StateOnline)
		log.Println("Using backend data manager")
		return
	}

	c.setState(StateOffline)
	log.Println("Backend not available, falling back to local storage")
}

func (c *Coordinator) IsUsingBackend() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == StateOnline
}

func (c *Coordinator) ConnectionState() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Authenticate always runs against the local manager; credential material
// never reaches the remote boundary.
func (c *Coordinator) Authenticate(username, password string) (*models.User, error) {
	return c.local.Authenticate(username, password)
}

// GetUserData prefers the remote record when the backend is reachable,
// mirroring assignments, submissions and stats into the local store so
// later offline reads see the latest known state. Any remote failure
// falls back to the local record.
func (c *Coordinator) GetUserData(ctx context.Context, userID string) *models.User {
	if c.IsUsingBackend() {
		remoteUser, err := c.remote.GetUserData(ctx, userID)
		if err != nil {
			log.Printf("hybrid: backend failed, falling back to local data: %v", err)
		} else if remoteUser != nil {
			c.local.UpdateUser(userID, models.UserPatch{
				Assignments: remoteUser.Assignments,
				Submissions: remoteUser.Submissions,
				Stats:       &remoteUser.Stats,
			})
		}
	}

	return c.local.GetUser(userID)
}

// StartAssignment writes locally, then mirrors to the remote in the
// background when reachable. A mirror failure is logged and discarded; it
// never rolls back the local write.
func (c *Coordinator) StartAssignment(ctx context.Context, userID, assignmentID string) {
	c.local.StartAssignment(userID, assignmentID)

	if c.IsUsingBackend() {
		go func() {
			mctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
			defer cancel()
			if !c.remote.StartAssignment(mctx, userID, assignmentID) {
				log.Printf("hybrid: failed to sync assignment start with backend")
			}
		}()
	}
}

// SubmitAssignment writes locally, then mirrors to the remote in the
// background when reachable.
func (c *Coordinator) SubmitAssignment(ctx context.Context, userID, assignmentID string, sub models.SubmitRequest) {
	c.local.SubmitAssignment(userID, assignmentID, sub)

	if c.IsUsingBackend() {
		go func() {
			mctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
			defer cancel()
			if !c.remote.SubmitAssignment(mctx, userID, assignmentID, sub) {
				log.Printf("hybrid: failed to sync assignment submission with backend")
			}
		}()
	}
}

// SyncWithBackend pulls the remote snapshot and merges it over the local
// record, remote assignments/submissions/stats taking precedence while
// identity and credential stay local. Reports whether a sync occurred.
func (c *Coordinator) SyncWithBackend(ctx context.Context, userID string) bool {
	if !c.IsUsingBackend() {
		return false
	}

	localUser := c.local.GetUser(userID)
	remoteUser, err := c.remote.GetUserData(ctx, userID)
	if err != nil {
		log.Printf("hybrid: failed to sync with backend: %v", err)
		return false
	}

	if localUser == nil || remoteUser == nil {
		return false
	}

	c.local.UpdateUser(userID, models.UserPatch{
		Assignments: remoteUser.Assignments,
		Submissions: remoteUser.Submissions,
		Stats:       &remoteUser.Stats,
	})
	return true
}

// InvalidateRemoteCache drops the user's cached remote status so the
// next read refetches. Used when connectivity is re-established and a
// stale snapshot should not be served.
func (c *Coordinator) InvalidateRemoteCache(ctx context.Context, userID string) {
	c.remote.ClearCache(ctx, userID)
}

// Notification and live-update operations are local-only; the remote
// service has no counterpart for them.

func (c *Coordinator) AddNotification(userID string, n models.Notification) {
	c.local.AddNotification(userID, n)
}

func (c *Coordinator) MarkNotificationRead(userID, notificationID string) {
	c.local.MarkNotificationRead(userID, notificationID)
}

func (c *Coordinator) GetLiveUpdates() []models.LiveUpdate {
	return c.local.GetLiveUpdates()
}

func (c *Coordinator) RefreshLiveUpdates() {
	c.local.RefreshLiveUpdates()
}

func (c *Coordinator) setState(state string) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}
