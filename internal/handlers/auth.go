package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"internportal-backend/internal/hybrid"
	"internportal-backend/internal/middleware"
	"internportal-backend/internal/models"
	"internportal-backend/internal/store"
)

type AuthHandler struct {
	coordinator *hybrid.Coordinator
	store       *store.Store
	jwt         *middleware.JWTAuth
}

func NewAuthHandler(coordinator *hybrid.Coordinator, st *store.Store, jwt *middleware.JWTAuth) *AuthHandler {
	return &AuthHandler{coordinator: coordinator, store: st, jwt: jwt}
}

// Login authenticates locally, then pulls the latest record through the
// coordinator so a reachable backend is reflected immediately. The
// session marker records the signed-in user for later restoration.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fieldErrors := make(map[string]string)
	if req.Username == "" {
		fieldErrors["username"] = "Username is required"
	}
	if req.Password == "" {
		fieldErrors["password"] = "Password is required"
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fieldErrors, r))
		return
	}

	user, err := h.coordinator.Authenticate(req.Username, req.Password)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if latest := h.coordinator.GetUserData(r.Context(), user.UserID); latest != nil {
		user = latest
	}

	token, err := h.jwt.GenerateAccessToken(user.UserID, user.Username)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to issue token", r))
		return
	}

	if err := h.store.SaveSession(user.UserID); err != nil {
		log.Printf("auth: failed to persist session marker: %v", err)
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{
		AccessToken: token,
		ExpiresIn:   900,
		User:        user.Sanitized(),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearSession(); err != nil {
		log.Printf("auth: failed to clear session marker: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Session reports the last authenticated user id, if a session marker
// exists. The client still needs a valid token to read any data.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	userID := h.store.LoadSession()
	if userID == "" {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No active session", r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"userId": userID})
}
