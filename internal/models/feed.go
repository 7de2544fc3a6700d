package models

// Live feed entry categories.
const (
	UpdateSuccess    = "success"
	UpdateSubmission = "submission"
	UpdateFeedback   = "feedback"
	UpdateStart      = "start"
	UpdateScore      = "score"
)

// FeedCapacity bounds the live-update ring; the oldest entries fall off
// once it is exceeded.
const FeedCapacity = 20

// LiveUpdate is one entry in the ambient activity feed. Time is a
// relative label ("5m ago") recomputed from Timestamp at read time and
// never trusted from storage. IsUserAction marks entries produced by the
// signed-in intern's own start/submit actions.
type LiveUpdate struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Action       string `json:"action"`
	Type         string `json:"type"`
	Time         string `json:"time"`
	Timestamp    int64  `json:"timestamp"`
	IsUserAction bool   `json:"isUserAction"`
}
