package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"internportal-backend/internal/models"
)

const (
	bucketPortal = "portal"

	keyUsers   = "intern_portal_data"
	keyFeed    = "live_updates_data"
	keySession = "current_user"
)

// Store is the durable local medium behind the portal: a single-file
// key-value store holding two opaque JSON blobs (the user-record table
// and the live-update ring) plus the current-session marker. A malformed
// blob reads as absent so a corrupted file degrades to seed state instead
// of failing.
type Store struct {
	db *bolt.DB
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 10 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketPortal))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create portal bucket: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// LoadUsers returns the stored user table, or nil when absent or
// unreadable.
func (s *Store) LoadUsers() map[string]*models.User {
	var users map[string]*models.User
	if !s.load(keyUsers, &users) {
		return nil
	}
	return users
}

func (s *Store) SaveUsers(users map[string]*models.User) error {
	return s.save(keyUsers, users)
}

// LoadFeed returns the stored live-update ring, or nil when absent or
// unreadable.
func (s *Store) LoadFeed() []models.LiveUpdate {
	var feed []models.LiveUpdate
	if !s.load(keyFeed, &feed) {
		return nil
	}
	return feed
}

func (s *Store) SaveFeed(feed []models.LiveUpdate) error {
	return s.save(keyFeed, feed)
}

// LoadSession returns the last authenticated user id, or "" when no
// session is marked.
func (s *Store) LoadSession() string {
	var userID string
	if !s.load(keySession, &userID) {
		return ""
	}
	return userID
}

func (s *Store) SaveSession(userID string) error {
	return s.save(keySession, userID)
}

func (s *Store) ClearSession() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketPortal)).Delete([]byte(keySession))
	})
}

func (s *Store) load(key string, out interface{}) bool {
	var raw []byte
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucketPortal)).Get([]byte(key)); v != nil {
			raw = append(raw, v...)
		}
		return nil
	})
	if raw == nil {
		return false
	}
	// Malformed stored state is treated as absent, not as an error.
	return json.Unmarshal(raw, out) == nil
}

func (s *Store) save(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketPortal)).Put([]byte(key), raw)
	})
}
