package local

import (
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"internportal-backend/internal/feed"
	"internportal-backend/internal/models"
	"internportal-backend/internal/store"
)

const initialFeedSize = 8

// Manager owns the persistent store and the in-memory working copies of
// the user table and the live-update ring. Every mutation writes through
// to the store immediately; store failures are logged, never surfaced
// (the local side is treated as always succeeding).
type Manager struct {
	mu      sync.Mutex
	store   *store.Store
	gen     *feed.Generator
	users   map[string]*models.User
	updates []models.LiveUpdate
	now     func() time.Time
}

func NewManager(st *store.Store, gen *feed.Generator, seedPassword string) *Manager {
	m := &Manager{
		store: st,
		gen:   gen,
		now:   time.Now,
	}

	m.users = st.LoadUsers()
	if m.users == nil {
		m.users = seedUsers(seedPassword, m.now())
	}

	m.updates = st.LoadFeed()
	if m.updates == nil {
		for i := 0; i < initialFeedSize; i++ {
			m.updates = append(m.updates, gen.Peer())
		}
		sort.Slice(m.updates, func(i, j int) bool {
			return m.updates[i].Timestamp > m.updates[j].Timestamp
		})
	}

	m.persist()
	return m
}

// Authenticate verifies the credential against the stored hash. Unknown
// user and wrong secret are indistinguishable to the caller.
func (m *Manager) Authenticate(username, password string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[username]
	if !ok || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, &models.UnauthorizedError{Message: "Invalid username or password"}
	}
	return user.Clone(), nil
}

func (m *Manager) GetUser(userID string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return nil
	}
	return user.Clone()
}

// UpdateUser shallow-merges the patch into the stored record and
// persists. Nil patch fields leave the existing value alone. Missing
// user is a silent no-op.
func (m *Manager) UpdateUser(userID string, patch models.UserPatch) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return
	}

	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Assignments != nil {
		user.Assignments = patch.Assignments
	}
	if patch.Submissions != nil {
		user.Submissions = patch.Submissions
	}
	if patch.Notifications != nil {
		user.Notifications = patch.Notifications
	}
	if patch.Stats != nil {
		user.Stats = *patch.Stats
	}

	m.persist()
}

// StartAssignment moves the assignment to in_progress, stamps the start
// time, and records one notification plus one user-authored feed entry.
// Missing user or assignment is a silent no-op.
func (m *Manager) StartAssignment(userID, assignmentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return
	}
	assignment, ok := user.Assignments[assignmentID]
	if !ok {
		return
	}

	now := m.now()
	started := now.UTC().Format(time.RFC3339)
	assignment.Status = models.StatusInProgress
	assignment.StartedAt = &started
	user.Assignments[assignmentID] = assignment

	m.addNotification(user, models.Notification{
		ID:        uuid.New().String(),
		Message:   `Started working on "` + assignment.Title + `"`,
		Timestamp: started,
		Read:      false,
		Type:      models.NotificationAssignment,
	})

	m.addLiveUpdate(models.LiveUpdate{
		ID:           "user_start_" + uuid.New().String(),
		Name:         displayName(user.Username),
		Action:       "started working on " + assignment.Title,
		Type:         models.UpdateStart,
		Time:         "Just now",
		Timestamp:    now.UnixMilli(),
		IsUserAction: true,
	})

	m.persist()
}

// SubmitAssignment moves the assignment to submitted, stores the
// submission under a fresh id, records a notification and a user-authored
// feed entry, and recomputes stats. Missing user or assignment is a
// silent no-op.
func (m *Manager) SubmitAssignment(userID, assignmentID string, sub models.SubmitRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return
	}
	assignment, ok := user.Assignments[assignmentID]
	if !ok {
		return
	}

	now := m.now()
	submitted := now.UTC().Format(time.RFC3339)
	assignment.Status = models.StatusSubmitted
	assignment.SubmittedAt = &submitted
	user.Assignments[assignmentID] = assignment

	user.Submissions[uuid.New().String()] = models.Submission{
		AssignmentID: assignmentID,
		Type:         sub.Type,
		Content:      sub.Content,
		SubmittedAt:  submitted,
	}

	m.addNotification(user, models.Notification{
		ID:        uuid.New().String(),
		Message:   `Successfully submitted "` + assignment.Title + `"`,
		Timestamp: submitted,
		Read:      false,
		Type:      models.NotificationSubmission,
	})

	m.addLiveUpdate(models.LiveUpdate{
		ID:           "user_submit_" + uuid.New().String(),
		Name:         displayName(user.Username),
		Action:       "submitted " + assignment.Title,
		Type:         models.UpdateSubmission,
		Time:         "Just now",
		Timestamp:    now.UnixMilli(),
		IsUserAction: true,
	})

	user.ComputeStats()
	m.persist()
}

// AddNotification prepends a notification to the user's feed.
func (m *Manager) AddNotification(userID string, n models.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return
	}
	m.addNotification(user, n)
	m.persist()
}

// MarkNotificationRead flips the read flag if the notification exists;
// silent no-op otherwise.
func (m *Manager) MarkNotificationRead(userID, notificationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return
	}
	for i := range user.Notifications {
		if user.Notifications[i].ID == notificationID {
			user.Notifications[i].Read = true
			m.persist()
			return
		}
	}
}

// RefreshLiveUpdates appends 1-3 synthetic peer entries to keep the feed
// looking alive, trimming the ring to capacity.
func (m *Manager) RefreshLiveUpdates() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.gen.Batch() {
		m.addLiveUpdate(u)
	}
	m.persist()
}

// GetLiveUpdates returns the ring, newest first, with relative-time
// labels recomputed from the absolute timestamps.
func (m *Manager) GetLiveUpdates() []models.LiveUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	out := make([]models.LiveUpdate, len(m.updates))
	for i, u := range m.updates {
		u.Time = feed.FormatTimeAgo(u.Timestamp, now)
		out[i] = u
	}
	return out
}

// Callers hold m.mu.
func (m *Manager) addNotification(user *models.User, n models.Notification) {
	user.Notifications = append([]models.Notification{n}, user.Notifications...)
}

// Callers hold m.mu.
func (m *Manager) addLiveUpdate(u models.LiveUpdate) {
	m.updates = append([]models.LiveUpdate{u}, m.updates...)
	if len(m.updates) > models.FeedCapacity {
		m.updates = m.updates[:models.FeedCapacity]
	}
}

// Callers hold m.mu.
func (m *Manager) persist() {
	if err := m.store.SaveUsers(m.users); err != nil {
		log.Printf("local: failed to persist user table: %v", err)
	}
	if err := m.store.SaveFeed(m.updates); err != nil {
		log.Printf("local: failed to persist live updates: %v", err)
	}
}

func displayName(username string) string {
	if username == "" {
		return username
	}
	return strings.ToUpper(username[:1]) + username[1:]
}
