package store

import (
	"path/filepath"
	"testing"

	bolt "go.etcd.io/bbolt"

	"internportal-backend/internal/models"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portal.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st, path
}

func TestLoadAbsentKeys(t *testing.T) {
	st, _ := openTestStore(t)

	if users := st.LoadUsers(); users != nil {
		t.Errorf("Expected nil user table on fresh store, got %v", users)
	}
	if feed := st.LoadFeed(); feed != nil {
		t.Errorf("Expected nil feed on fresh store, got %v", feed)
	}
	if session := st.LoadSession(); session != "" {
		t.Errorf("Expected empty session on fresh store, got %q", session)
	}
}

func TestUsersRoundTrip(t *testing.T) {
	st, _ := openTestStore(t)

	users := map[string]*models.User{
		"sarat": {
			UserID:       "sarat",
			Username:     "sarat",
			PasswordHash: "hash",
			Assignments: map[string]models.Assignment{
				"frontend-challenge": {ID: "frontend-challenge", Status: models.StatusNotStarted},
			},
			Submissions:   map[string]models.Submission{},
			Notifications: []models.Notification{{ID: "1", Message: "hi"}},
		},
	}

	if err := st.SaveUsers(users); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got := st.LoadUsers()
	if got == nil {
		t.Fatal("Expected stored user table")
	}
	if got["sarat"].PasswordHash != "hash" {
		t.Error("Expected credential hash to round-trip through storage")
	}
	if got["sarat"].Assignments["frontend-challenge"].Status != models.StatusNotStarted {
		t.Error("Expected assignment state to round-trip")
	}
}

func TestFeedRoundTrip(t *testing.T) {
	st, _ := openTestStore(t)

	feed := []models.LiveUpdate{
		{ID: "u1", Name: "Priya Sharma", Type: models.UpdateSuccess, Timestamp: 100},
		{ID: "u2", Name: "Rahul Kumar", Type: models.UpdateStart, Timestamp: 50},
	}
	if err := st.SaveFeed(feed); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got := st.LoadFeed()
	if len(got) != 2 || got[0].ID != "u1" {
		t.Errorf("Unexpected feed %+v", got)
	}
}

func TestSessionMarker(t *testing.T) {
	st, _ := openTestStore(t)

	if err := st.SaveSession("sarat"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got := st.LoadSession(); got != "sarat" {
		t.Errorf("Expected session sarat, got %q", got)
	}

	if err := st.ClearSession(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := st.LoadSession(); got != "" {
		t.Errorf("Expected cleared session, got %q", got)
	}
}

func TestMalformedBlobReadsAsAbsent(t *testing.T) {
	st, _ := openTestStore(t)

	err := st.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketPortal)).Put([]byte(keyUsers), []byte("{corrupt"))
	})
	if err != nil {
		t.Fatalf("Failed to plant corrupt blob: %v", err)
	}

	if users := st.LoadUsers(); users != nil {
		t.Errorf("Expected malformed blob to read as absent, got %v", users)
	}
}

func TestSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.db")

	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	st.SaveSession("sarat")
	st.Close()

	st2, err := Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer st2.Close()

	if got := st2.LoadSession(); got != "sarat" {
		t.Errorf("Expected durable session, got %q", got)
	}
}
