package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wanderlog/wanderlog-backend/internal/database"
	"github.com/wanderlog/wanderlog-backend/internal/logger"
	"github.com/wanderlog/wanderlog-backend/internal/services"
	"github.com/wanderlog/wanderlog-backend/internal/validation"
)

// SessionStore is the identity collaborator: it answers "which user holds
// this token", issues tokens on login and revokes them on logout.
type SessionStore interface {
	Create(ctx context.Context, userID int64) (string, error)
	Validate(ctx context.Context, token string) (int64, bool, error)
	Invalidate(ctx context.Context, token string) error
}

var (
	store    *database.Store
	journals *services.JournalService
	sessions SessionStore
)

// Init wires the handler package's collaborators. Called once from main
// before routes are served.
func Init(st *database.Store, js *services.JournalService, ss SessionStore) {
	store = st
	journals = js
	sessions = ss
}

func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// requireAuth validates the session and returns the authenticated user's id.
// Returns (0, false) if not authenticated.
func requireAuth(r *http.Request) (int64, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return 0, false
	}
	userID, ok, err := sessions.Validate(r.Context(), token)
	if err != nil || !ok {
		return 0, false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error.Printf("encode response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, map[string]any{
		"success": success,
		"message": message,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Invalid request body")
		return err
	}
	return nil
}

// validateBody runs struct validation and writes a 400 with the first field
// message when it fails. Returns true when the body is valid.
func validateBody(w http.ResponseWriter, s interface{}) bool {
	errs := validation.Struct(s)
	if len(errs) > 0 {
		writeMessage(w, http.StatusBadRequest, false, errs[0].Message)
		return false
	}
	return true
}

func unauthorized(w http.ResponseWriter) {
	writeMessage(w, http.StatusUnauthorized, false, "Authentication required")
}
