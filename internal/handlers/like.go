package handlers

import (
	"net/http"

	"github.com/wanderlog/wanderlog-backend/internal/logger"
)

// LikeJournal toggles the caller's like on a journal: first call likes,
// second call removes it.
func LikeJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	journalID, okID := journalIDParam(r, "journalID")
	if !okID {
		writeMessage(w, http.StatusBadRequest, false, "Invalid journal id")
		return
	}

	liked, err := store.ToggleLike(r.Context(), journalID, userID)
	if err != nil {
		logger.Error.Printf("journal like: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Operation failed")
		return
	}

	message := "Like removed"
	if liked {
		message = "Liked"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
		"liked":   liked,
	})
}

// CheckLike reports whether the caller has liked a journal.
func CheckLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	journalID, okID := journalIDParam(r, "journalID")
	if !okID {
		writeMessage(w, http.StatusBadRequest, false, "Invalid journal id")
		return
	}

	liked, err := store.HasLiked(r.Context(), journalID, userID)
	if err != nil {
		logger.Error.Printf("check like: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to check like status")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"liked":   liked,
	})
}

type RateJournalRequest struct {
	RatingValue int `json:"rating_value" validate:"required,min=1,max=5"`
}

// RateJournal records the caller's rating for a journal, replacing any
// earlier one. The average is computed at read time, never stored.
func RateJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	journalID, okID := journalIDParam(r, "journalID")
	if !okID {
		writeMessage(w, http.StatusBadRequest, false, "Invalid journal id")
		return
	}

	var req RateJournalRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if !validateBody(w, &req) {
		return
	}

	if err := store.UpsertRating(r.Context(), journalID, userID, req.RatingValue); err != nil {
		logger.Error.Printf("rate journal: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to save rating")
		return
	}

	writeMessage(w, http.StatusOK, true, "Rating saved")
}

// CheckRating returns the caller's rating for a journal, null if absent.
func CheckRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	journalID, okID := journalIDParam(r, "journalID")
	if !okID {
		writeMessage(w, http.StatusBadRequest, false, "Invalid journal id")
		return
	}

	rating, err := store.GetRating(r.Context(), journalID, userID)
	if err != nil {
		logger.Error.Printf("check rating: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to check rating")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"rating":  rating,
	})
}
