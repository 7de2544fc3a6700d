package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"internportal-backend/internal/hybrid"
	"internportal-backend/internal/middleware"
	"internportal-backend/internal/models"
	"internportal-backend/internal/websocket"
)

const maxUploadBytes = 25 * 1024 * 1024 // 25MB

type AssignmentsHandler struct {
	coordinator *hybrid.Coordinator
	hub         *websocket.Hub
	storagePath string
}

func NewAssignmentsHandler(coordinator *hybrid.Coordinator, hub *websocket.Hub, storagePath string) *AssignmentsHandler {
	return &AssignmentsHandler{coordinator: coordinator, hub: hub, storagePath: storagePath}
}

func (h *AssignmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user := h.coordinator.GetUserData(r.Context(), userID)
	if user == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	writeJSON(w, http.StatusOK, user.Assignments)
}

func (h *AssignmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	assignmentID := chi.URLParam(r, "id")

	assignment, ok := h.lookup(r, userID, assignmentID)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Assignment not found", r))
		return
	}

	writeJSON(w, http.StatusOK, assignment)
}

// Brief streams a downloadable text brief for the assignment.
func (h *AssignmentsHandler) Brief(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	assignmentID := chi.URLParam(r, "id")

	assignment, ok := h.lookup(r, userID, assignmentID)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Assignment not found", r))
		return
	}

	filename := strings.ReplaceAll(assignment.Title, " ", "_") + "_Brief.txt"
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, buildBrief(assignment))
}

// Start moves the assignment to in_progress through the coordinator and
// pushes the refreshed feed to connected dashboards.
func (h *AssignmentsHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	assignmentID := chi.URLParam(r, "id")

	if _, ok := h.lookup(r, userID, assignmentID); !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Assignment not found", r))
		return
	}

	h.coordinator.StartAssignment(r.Context(), userID, assignmentID)
	h.pushFeed()
	h.pushUserEvent(userID, "assignment_started", assignmentID)

	user := h.coordinator.GetUserData(r.Context(), userID)
	writeJSON(w, http.StatusOK, user.Sanitized())
}

func (h *AssignmentsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	assignmentID := chi.URLParam(r, "id")

	var req models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fieldErrors := make(map[string]string)
	if req.Type != models.SubmissionFile && req.Type != models.SubmissionURL {
		fieldErrors["type"] = "Type must be file or url"
	}
	if req.Content == "" {
		fieldErrors["content"] = "Content is required"
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fieldErrors, r))
		return
	}

	if _, ok := h.lookup(r, userID, assignmentID); !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Assignment not found", r))
		return
	}

	h.coordinator.SubmitAssignment(r.Context(), userID, assignmentID, req)
	h.pushFeed()
	h.pushUserEvent(userID, "assignment_submitted", assignmentID)

	user := h.coordinator.GetUserData(r.Context(), userID)
	writeJSON(w, http.StatusOK, user.Sanitized())
}

// Upload stores a submission artifact under the local storage path and
// returns the stored location for use as submission content.
func (h *AssignmentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > maxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File size exceeds 25MB limit", r))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No file provided", r))
		return
	}
	defer file.Close()

	userID := middleware.GetUserID(r.Context())
	fileID := uuid.New().String()
	ext := filepath.Ext(header.Filename)
	relPath := filepath.Join("users", userID, "uploads", fileID+ext)
	absPath := filepath.Join(h.storagePath, relPath)

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store file", r))
		return
	}

	dst, err := os.Create(absPath)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store file", r))
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store file", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"path":     relPath,
		"filename": header.Filename,
	})
}

func (h *AssignmentsHandler) lookup(r *http.Request, userID, assignmentID string) (models.Assignment, bool) {
	user := h.coordinator.GetUserData(r.Context(), userID)
	if user == nil {
		return models.Assignment{}, false
	}
	assignment, ok := user.Assignments[assignmentID]
	return assignment, ok
}

func (h *AssignmentsHandler) pushFeed() {
	if h.hub == nil {
		return
	}
	h.hub.Broadcast(map[string]interface{}{
		"type":    "feed",
		"updates": h.coordinator.GetLiveUpdates(),
	})
}

func (h *AssignmentsHandler) pushUserEvent(userID, event, assignmentID string) {
	if h.hub == nil {
		return
	}
	h.hub.SendToUser(userID, map[string]interface{}{
		"type":         "user",
		"event":        event,
		"assignmentId": assignmentID,
	})
}

func buildBrief(a models.Assignment) string {
	var b strings.Builder

	b.WriteString("INNCIRCLES INTERN PORTAL\n")
	b.WriteString("========================\n\n")
	fmt.Fprintf(&b, "Assignment: %s\n\n", a.Title)
	b.WriteString("DESCRIPTION:\n")
	b.WriteString(a.Description)
	b.WriteString("\n\n")
	b.WriteString("SUBMISSION GUIDELINES:\n")
	b.WriteString("• Ensure your code is well-commented and follows best practices\n")
	b.WriteString("• Include a README.md with setup instructions\n")
	b.WriteString("• Test your application thoroughly before submission\n")
	b.WriteString("• ZIP files should contain the complete project structure\n\n")
	b.WriteString("EVALUATION CRITERIA:\n")
	b.WriteString("• Code quality and organization (25%)\n")
	b.WriteString("• Functionality and user experience (30%)\n")
	b.WriteString("• Best practices implementation (25%)\n")
	b.WriteString("• Documentation and presentation (20%)\n\n")
	b.WriteString("Contact: intern-support@inncircles.com for any queries\n\n")
	b.WriteString("Good luck with your assignment!\n")

	return b.String()
}
