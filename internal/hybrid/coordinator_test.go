package hybrid

import (
	"context"
	"math/rand"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"internportal-backend/internal/feed"
	"internportal-backend/internal/local"
	"internportal-backend/internal/models"
	"internportal-backend/internal/store"
)

const testPassword = "sarat erripuku"

type fakeRemote struct {
	mu        sync.Mutex
	available bool
	user      *models.User
	err       error
	started   chan string
	submitted chan string
	fetches   int
	cleared   []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		started:   make(chan string, 8),
		submitted: make(chan string, 8),
	}
}

func (f *fakeRemote) GetUserData(ctx context.Context, userID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	if f.user == nil {
		return nil, nil
	}
	return f.user.Clone(), nil
}

func (f *fakeRemote) StartAssignment(ctx context.Context, userID, assignmentID string) bool {
	f.started <- assignmentID
	return true
}

func (f *fakeRemote) SubmitAssignment(ctx context.Context, userID, assignmentID string, sub models.SubmitRequest) bool {
	f.submitted <- assignmentID
	return true
}

func (f *fakeRemote) IsBackendAvailable(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available
}

func (f *fakeRemote) ClearCache(ctx context.Context, userID string) {
	f.mu.Lock()
	f.cleared = append(f.cleared, userID)
	f.mu.Unlock()
}

func (f *fakeRemote) setAvailable(v bool) {
	f.mu.Lock()
	f.available = v
	f.mu.Unlock()
}

func newTestCoordinator(t *testing.T) (*Coordinator, *local.Manager, *fakeRemote) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "portal.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	localMgr := local.NewManager(st, feed.NewGenerator(rand.New(rand.NewSource(1))), testPassword)
	remote := newFakeRemote()
	return NewCoordinator(localMgr, remote), localMgr, remote
}

func remoteSnapshot() *models.User {
	started := "2025-08-01T10:00:00Z"
	score := 88.0
	user := &models.User{
		UserID:   "sarat",
		Username: "sarat",
		Assignments: map[string]models.Assignment{
			"frontend-challenge": {
				ID:        "frontend-challenge",
				Title:     "Static Website File Uploader using EC2 and S3",
				Status:    models.StatusCompleted,
				StartedAt: &started,
				Score:     &score,
			},
		},
		Submissions: map[string]models.Submission{
			"remote-sub": {AssignmentID: "frontend-challenge", Type: models.SubmissionURL, Content: "https://remote", SubmittedAt: started},
		},
		Notifications: []models.Notification{},
	}
	user.ComputeStats()
	return user
}

func TestConnectionStateTransitions(t *testing.T) {
	c, _, remote := newTestCoordinator(t)

	if c.ConnectionState() != StateChecking {
		t.Errorf("Expected initial state checking, got %q", c.ConnectionState())
	}

	c.RecheckBackend(context.Background())
	if c.ConnectionState() != StateOffline || c.IsUsingBackend() {
		t.Errorf("Expected offline, got %q", c.ConnectionState())
	}

	remote.setAvailable(true)
	c.RecheckBackend(context.Background())
	if c.ConnectionState() != StateOnline || !c.IsUsingBackend() {
		t.Errorf("Expected online, got %q", c.ConnectionState())
	}
}

func TestAuthenticateNeverTouchesRemote(t *testing.T) {
	c, _, remote := newTestCoordinator(t)
	remote.setAvailable(true)
	c.RecheckBackend(context.Background())

	user, err := c.Authenticate("sarat", testPassword)
	if err != nil || user == nil {
		t.Fatalf("Expected local auth success, got %v", err)
	}
	if remote.fetches != 0 {
		t.Error("Authenticate must not consult the remote manager")
	}

	if _, err := c.Authenticate("sarat", "wrong"); err == nil {
		t.Error("Expected auth failure for wrong password")
	}
}

func TestGetUserDataMirrorsRemoteForOfflineReads(t *testing.T) {
	c, _, remote := newTestCoordinator(t)
	remote.user = remoteSnapshot()
	remote.setAvailable(true)
	c.RecheckBackend(context.Background())

	user := c.GetUserData(context.Background(), "sarat")
	if user == nil {
		t.Fatal("Expected a user record")
	}
	if user.Assignments["frontend-challenge"].Status != models.StatusCompleted {
		t.Errorf("Expected remote-derived status, got %q", user.Assignments["frontend-challenge"].Status)
	}

	// Backend goes away; the mirrored state must still be readable.
	remote.setAvailable(false)
	c.RecheckBackend(context.Background())

	offline := c.GetUserData(context.Background(), "sarat")
	if offline.Assignments["frontend-challenge"].Status != models.StatusCompleted {
		t.Error("Expected mirrored state to survive offline")
	}
	if len(offline.Submissions) != 1 {
		t.Error("Expected mirrored submissions to survive offline")
	}
}

func TestGetUserDataFallsBackOnRemoteFailure(t *testing.T) {
	c, _, remote := newTestCoordinator(t)
	remote.err = context.DeadlineExceeded
	remote.setAvailable(true)
	c.RecheckBackend(context.Background())

	user := c.GetUserData(context.Background(), "sarat")
	if user == nil {
		t.Fatal("Expected local fallback record")
	}
	if user.Assignments["frontend-challenge"].Status != models.StatusNotStarted {
		t.Error("Expected untouched local state on remote failure")
	}
}

func TestWritesLandLocallyFirstThenMirror(t *testing.T) {
	c, localMgr, remote := newTestCoordinator(t)
	remote.setAvailable(true)
	c.RecheckBackend(context.Background())

	c.StartAssignment(context.Background(), "sarat", "frontend-challenge")

	// Local state reflects the action immediately.
	if localMgr.GetUser("sarat").Assignments["frontend-challenge"].Status != models.StatusInProgress {
		t.Error("Expected immediate local write")
	}

	select {
	case id := <-remote.started:
		if id != "frontend-challenge" {
			t.Errorf("Mirrored wrong assignment %q", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected best-effort mirror to reach the remote")
	}

	c.SubmitAssignment(context.Background(), "sarat", "frontend-challenge",
		models.SubmitRequest{Type: models.SubmissionURL, Content: "https://x"})

	if localMgr.GetUser("sarat").Assignments["frontend-challenge"].Status != models.StatusSubmitted {
		t.Error("Expected immediate local submit")
	}

	select {
	case <-remote.submitted:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected submission mirror to reach the remote")
	}
}

func TestWritesSkipMirrorWhenOffline(t *testing.T) {
	c, localMgr, remote := newTestCoordinator(t)
	c.RecheckBackend(context.Background())

	c.StartAssignment(context.Background(), "sarat", "frontend-challenge")

	if localMgr.GetUser("sarat").Assignments["frontend-challenge"].Status != models.StatusInProgress {
		t.Error("Expected local write while offline")
	}

	select {
	case <-remote.started:
		t.Error("Offline writes must not reach the remote")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSyncWithBackendMergesRemoteOverLocal(t *testing.T) {
	c, localMgr, remote := newTestCoordinator(t)
	remote.user = remoteSnapshot()
	remote.setAvailable(true)
	c.RecheckBackend(context.Background())

	// Local diverges first.
	localMgr.StartAssignment("sarat", "frontend-challenge")

	if !c.SyncWithBackend(context.Background(), "sarat") {
		t.Fatal("Expected sync to occur")
	}

	user := localMgr.GetUser("sarat")
	if user.Assignments["frontend-challenge"].Status != models.StatusCompleted {
		t.Error("Expected remote assignments to take precedence")
	}
	if user.Stats.CompletedAssignments != 1 {
		t.Errorf("Expected remote stats, got %+v", user.Stats)
	}
	if user.Username != "sarat" {
		t.Error("Expected identity to remain local")
	}

	// Credential stays local: login still works after sync.
	if _, err := c.Authenticate("sarat", testPassword); err != nil {
		t.Errorf("Expected credential to survive sync: %v", err)
	}
}

func TestInvalidateRemoteCache(t *testing.T) {
	c, _, remote := newTestCoordinator(t)

	c.InvalidateRemoteCache(context.Background(), "sarat")

	remote.mu.Lock()
	defer remote.mu.Unlock()
	if len(remote.cleared) != 1 || remote.cleared[0] != "sarat" {
		t.Errorf("Expected the user's remote cache entry to be dropped, got %v", remote.cleared)
	}
}

func TestSyncWithBackendOffline(t *testing.T) {
	c, _, _ := newTestCoordinator(t)
	c.RecheckBackend(context.Background())

	if c.SyncWithBackend(context.Background(), "sarat") {
		t.Error("Expected no sync while offline")
	}
}
