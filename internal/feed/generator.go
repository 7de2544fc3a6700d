package feed

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"internportal-backend/internal/models"
)

var peerNames = []string{
	"Priya Sharma", "Rahul Kumar", "Ananya Mehta", "Vikash Patel", "Sneha Reddy",
	"Arjun Tiwari", "Kavya Lakshmi", "Harsh Wadhwa", "Divya Singh", "Rohan Gupta",
	"Ishita Jain", "Karthik Nair", "Pooja Agarwal", "Siddharth Roy", "Meera Iyer",
	"Aarav Malhotra", "Riya Chopra", "Nikhil Verma", "Tanvi Bhatt", "Akash Sinha",
	"Shreya Pandey", "Varun Khanna", "Nisha Bansal", "Deepak Yadav", "Kritika Saxena",
	"Manish Joshi", "Swati Mishra", "Abhishek Sharma", "Preeti Kumari", "Gaurav Singh",
}

var peerActions = []struct {
	action string
	kind   string
}{
	{"completed React E-commerce Project ahead of schedule!", models.UpdateSuccess},
	{"received excellent mentor feedback on API design", models.UpdateFeedback},
	{"started working on Machine Learning Assignment", models.UpdateStart},
	{"submitted Full-Stack Web Application", models.UpdateSubmission},
	{"achieved 98% in Database Optimization project", models.UpdateScore},
	{"completed Mobile App Development challenge", models.UpdateSuccess},
	{"received client appreciation for UI/UX design", models.UpdateFeedback},
	{"submitted Cloud Infrastructure project", models.UpdateSubmission},
	{"started working on DevOps Pipeline Assignment", models.UpdateStart},
	{"achieved 92% in System Design project", models.UpdateScore},
	{"completed Data Analytics Dashboard", models.UpdateSuccess},
	{"received outstanding performance review", models.UpdateFeedback},
	{"submitted Blockchain Implementation project", models.UpdateSubmission},
	{"started working on AI Chatbot Development", models.UpdateStart},
	{"achieved 96% in Microservices Architecture", models.UpdateScore},
}

// Generator produces synthetic peer activity for the live feed. The
// random source is injected so tests can pin the output.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng, now: time.Now}
}

// Peer returns one synthetic entry: a random peer, a random action, and a
// recency between 1 and 120 minutes ago.
func (g *Generator) Peer() models.LiveUpdate {
	g.mu.Lock()
	name := peerNames[g.rng.Intn(len(peerNames))]
	act := peerActions[g.rng.Intn(len(peerActions))]
	minutesAgo := g.rng.Intn(120) + 1
	g.mu.Unlock()

	ts := g.now().Add(-time.Duration(minutesAgo) * time.Minute).UnixMilli()

	return models.LiveUpdate{
		ID:        fmt.Sprintf("update_%d_%s", ts, uuid.New().String()[:8]),
		Name:      name,
		Action:    act.action,
		Type:      act.kind,
		Time:      FormatMinutesAgo(minutesAgo),
		Timestamp: ts,
	}
}

// Batch returns between 1 and 3 synthetic entries.
func (g *Generator) Batch() []models.LiveUpdate {
	g.mu.Lock()
	n := g.rng.Intn(3) + 1
	g.mu.Unlock()

	updates := make([]models.LiveUpdate, 0, n)
	for i := 0; i < n; i++ {
		updates = append(updates, g.Peer())
	}
	return updates
}

// FormatMinutesAgo renders the relative-time label used across the feed.
func FormatMinutesAgo(minutes int) string {
	if minutes < 1 {
		return "Just now"
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		if hours == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hours)
	}
	return fmt.Sprintf("%dd ago", hours/24)
}

// FormatTimeAgo renders the label for an absolute millisecond timestamp,
// relative to now.
func FormatTimeAgo(timestampMillis int64, now time.Time) string {
	minutes := int(now.Sub(time.UnixMilli(timestampMillis)).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	return FormatMinutesAgo(minutes)
}
