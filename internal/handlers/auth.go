package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/wanderlog/wanderlog-backend/internal/logger"
	"github.com/wanderlog/wanderlog-backend/pkg/utils"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Success     bool           `json:"success"`
	Message     string         `json:"message,omitempty"`
	Token       string         `json:"token,omitempty"`
	RedirectURL string         `json:"redirectUrl,omitempty"`
	User        map[string]any `json:"user,omitempty"`
}

// Register creates a new user account.
func Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if !validateBody(w, &req) {
		return
	}

	taken, err := store.EmailTaken(r.Context(), req.Email)
	if err != nil {
		logger.Error.Printf("register: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Registration failed")
		return
	}
	if taken {
		writeMessage(w, http.StatusBadRequest, false, "This email is already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error.Printf("register: hash password: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Registration failed")
		return
	}

	if _, err := store.CreateUser(r.Context(), req.Username, req.Email, hash); err != nil {
		logger.Error.Printf("register: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Registration failed")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true})
}

// Login verifies credentials and opens a session. Both unknown-user and
// wrong-password answer with the same message so usernames cannot be probed.
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if !validateBody(w, &req) {
		return
	}

	user, err := store.GetUserByUsername(r.Context(), req.Username)
	if errors.Is(err, sql.ErrNoRows) {
		writeMessage(w, http.StatusUnauthorized, false, "Username or password incorrect")
		return
	}
	if err != nil {
		logger.Error.Printf("login: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Server error, please try again later")
		return
	}

	match, err := utils.VerifyPassword(req.Password, user.Password)
	if err != nil || !match {
		writeMessage(w, http.StatusUnauthorized, false, "Username or password incorrect")
		return
	}

	token, err := sessions.Create(r.Context(), user.ID)
	if err != nil {
		logger.Error.Printf("login: create session: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Server error, please try again later")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success:     true,
		Token:       token,
		RedirectURL: "/PageOne",
		User: map[string]any{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}

// Logout invalidates the caller's session token.
func Logout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if err := sessions.Invalidate(r.Context(), token); err != nil {
		logger.Error.Printf("logout: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Logout failed")
		return
	}
	writeMessage(w, http.StatusOK, true, "Logged out")
}

// CheckAuth reports whether the caller holds a valid session.
func CheckAuth(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"isLoggedIn": false})
		return
	}

	user, err := store.GetUserByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"isLoggedIn": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"isLoggedIn": true,
		"user": map[string]any{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}
