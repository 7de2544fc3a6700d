package models

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	User        *User  `json:"user"`
}

type SubmitRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// UserStatus is the remote service's view of an intern: assignment and
// submission state plus derived stats. It carries no credential and no
// notifications; those never cross the remote boundary.
type UserStatus struct {
	UserID       string                `json:"userId"`
	Username     string                `json:"username"`
	Assignments  map[string]Assignment `json:"assignments"`
	Submissions  map[string]Submission `json:"submissions"`
	Stats        Stats                 `json:"stats"`
	LastActivity string                `json:"lastActivity"`
	UpdatedAt    string                `json:"updatedAt"`
}

// ToUser maps the remote shape into the local record shape. The result
// has no credential and an empty notification feed.
func (s *UserStatus) ToUser() *User {
	return &User{
		UserID:        s.UserID,
		Username:      s.Username,
		Assignments:   s.Assignments,
		Submissions:   s.Submissions,
		Notifications: []Notification{},
		Stats:         s.Stats,
	}
}

type AssignmentUpdate struct {
	Status   *string  `json:"status,omitempty"`
	Score    *float64 `json:"score,omitempty"`
	Feedback *string  `json:"feedback,omitempty"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
