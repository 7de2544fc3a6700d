package models

// Assignment status lifecycle. Transitions move forward through these
// values; the data layer applies whatever transition an operation names
// and does not guard against regression.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
	StatusCompleted  = "completed"
)

// Submission kinds.
const (
	SubmissionFile = "file"
	SubmissionURL  = "url"
)

// Notification categories.
const (
	NotificationAssignment = "assignment"
	NotificationSubmission = "submission"
	NotificationFeedback   = "feedback"
	NotificationGeneral    = "general"
)

type Assignment struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	StartedAt   *string  `json:"startedAt,omitempty"`
	SubmittedAt *string  `json:"submittedAt,omitempty"`
	Score       *float64 `json:"score,omitempty"`
	Feedback    *string  `json:"feedback,omitempty"`
}

type Submission struct {
	AssignmentID string `json:"assignmentId"`
	Type         string `json:"type"`
	Content      string `json:"content"`
	SubmittedAt  string `json:"submittedAt"`
}

type Notification struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Read      bool   `json:"read"`
	Type      string `json:"type"`
}

type Stats struct {
	TotalAssignments     int     `json:"totalAssignments"`
	CompletedAssignments int     `json:"completedAssignments"`
	PendingAssignments   int     `json:"pendingAssignments"`
	AverageScore         float64 `json:"averageScore"`
}

// User is the full local record for one intern: identity, assignment and
// submission state, the notification feed, and derived stats. Stats are
// always recomputed from assignments, never edited directly.
type User struct {
	UserID        string                `json:"userId"`
	Username      string                `json:"username"`
	PasswordHash  string                `json:"passwordHash,omitempty"`
	Assignments   map[string]Assignment `json:"assignments"`
	Submissions   map[string]Submission `json:"submissions"`
	Notifications []Notification        `json:"notifications"`
	Stats         Stats                 `json:"stats"`
}

// UserPatch is a shallow merge into a stored User. Nil fields are left
// untouched; the credential hash is deliberately not patchable.
type UserPatch struct {
	Username      *string
	Assignments   map[string]Assignment
	Submissions   map[string]Submission
	Notifications []Notification
	Stats         *Stats
}

// Sanitized returns a copy safe to hand past the trust boundary: the
// credential hash is stripped. It shares assignment/submission maps with
// the receiver, so callers must not mutate them.
func (u *User) Sanitized() *User {
	out := *u
	out.PasswordHash = ""
	return &out
}

// Clone returns a deep copy. Handlers run concurrently, so the data
// managers never hand out their internal maps directly.
func (u *User) Clone() *User {
	out := *u
	out.Assignments = make(map[string]Assignment, len(u.Assignments))
	for k, v := range u.Assignments {
		out.Assignments[k] = v
	}
	out.Submissions = make(map[string]Submission, len(u.Submissions))
	for k, v := range u.Submissions {
		out.Submissions[k] = v
	}
	out.Notifications = append([]Notification(nil), u.Notifications...)
	return &out
}

// ComputeStats derives Stats from the current assignment set. Pending
// counts both not_started and in_progress; the average covers scored
// assignments only and is 0 when none are scored.
func (u *User) ComputeStats() {
	stats := Stats{TotalAssignments: len(u.Assignments)}
	scored := 0
	var total float64
	for _, a := range u.Assignments {
		switch a.Status {
		case StatusCompleted:
			stats.CompletedAssignments++
		case StatusNotStarted, StatusInProgress:
			stats.PendingAssignments++
		}
		if a.Score != nil {
			scored++
			total += *a.Score
		}
	}
	if scored > 0 {
		stats.AverageScore = total / float64(scored)
	}
	u.Stats = stats
}
