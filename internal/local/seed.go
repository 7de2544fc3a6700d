package local

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"internportal-backend/internal/models"
)

const (
	seedUserID       = "sarat"
	seedAssignmentID = "frontend-challenge"
)

// seedUsers builds the first-run user table: one intern with one
// unstarted assignment and the two welcome notifications. The seed
// credential is hashed here so plaintext never reaches the store.
func seedUsers(seedPassword string, now time.Time) map[string]*models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("seed: failed to hash credential: %v", err)
		hash = nil
	}

	title := "Static Website File Uploader using EC2 and S3"

	user := &models.User{
		UserID:       seedUserID,
		Username:     seedUserID,
		PasswordHash: string(hash),
		Assignments: map[string]models.Assignment{
			seedAssignmentID: {
				ID:          seedAssignmentID,
				Title:       title,
				Description: "The objective of this project is to build a basic cloud application using only essential AWS services: EC2 and S3.",
				Status:      models.StatusNotStarted,
			},
		},
		Submissions: map[string]models.Submission{},
		Notifications: []models.Notification{
			{
				ID:        "1",
				Message:   "Welcome to Inncircles Intern Portal! Your journey begins here.",
				Timestamp: now.UTC().Format(time.RFC3339),
				Read:      false,
				Type:      models.NotificationGeneral,
			},
			{
				ID:        "2",
				Message:   `New assignment "` + title + `" has been assigned to you.`,
				Timestamp: now.Add(-1 * time.Hour).UTC().Format(time.RFC3339),
				Read:      false,
				Type:      models.NotificationAssignment,
			},
		},
	}
	user.ComputeStats()

	return map[string]*models.User{seedUserID: user}
}
