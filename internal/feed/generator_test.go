package feed

import (
	"math/rand"
	"testing"
	"time"

	"internportal-backend/internal/models"
)

func TestPeerFieldsWithinPools(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(42)))

	kinds := map[string]bool{
		models.UpdateSuccess:    true,
		models.UpdateSubmission: true,
		models.UpdateFeedback:   true,
		models.UpdateStart:      true,
		models.UpdateScore:      true,
	}

	for i := 0; i < 50; i++ {
		u := gen.Peer()
		if u.Name == "" || u.Action == "" {
			t.Fatalf("Expected populated entry, got %+v", u)
		}
		if !kinds[u.Type] {
			t.Errorf("Unexpected entry type %q", u.Type)
		}
		if u.IsUserAction {
			t.Error("Synthetic entries must not be user actions")
		}

		age := time.Since(time.UnixMilli(u.Timestamp))
		if age < 0 || age > 121*time.Minute {
			t.Errorf("Expected recency within 1-120 minutes, got %v", age)
		}
	}
}

func TestBatchSize(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(7)))

	for i := 0; i < 20; i++ {
		batch := gen.Batch()
		if len(batch) < 1 || len(batch) > 3 {
			t.Errorf("Expected batch of 1-3 entries, got %d", len(batch))
		}
	}
}

func TestDeterministicWithSeededSource(t *testing.T) {
	a := NewGenerator(rand.New(rand.NewSource(9)))
	b := NewGenerator(rand.New(rand.NewSource(9)))

	ua, ub := a.Peer(), b.Peer()
	if ua.Name != ub.Name || ua.Action != ub.Action || ua.Type != ub.Type {
		t.Error("Expected identical output for identical seeds")
	}
}

func TestFormatMinutesAgo(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		want    string
	}{
		{"just now", 0, "Just now"},
		{"minutes", 45, "45m ago"},
		{"one hour", 60, "1h ago"},
		{"hours", 150, "2h ago"},
		{"days", 60 * 49, "2d ago"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatMinutesAgo(tc.minutes); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFormatTimeAgoClampsFuture(t *testing.T) {
	now := time.Now()
	future := now.Add(10 * time.Minute).UnixMilli()
	if got := FormatTimeAgo(future, now); got != "Just now" {
		t.Errorf("Expected future timestamps to read as Just now, got %q", got)
	}
}
