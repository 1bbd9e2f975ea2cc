package handlers

import (
	"net/http"

	"github.com/wanderlog/wanderlog-backend/internal/logger"
)

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// CreateComment posts a comment on a journal.
func CreateComment(w http.ResponseWriter, r *http.Request) {
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

	var req CreateCommentRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if !validateBody(w, &req) {
		return
	}

	id, err := store.InsertComment(r.Context(), journalID, userID, req.Content)
	if err != nil {
		logger.Error.Printf("create comment: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to post comment")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Comment posted successfully",
		"commentId": id,
	})
}

// CreateReply posts a reply under a comment. Replies render oldest first
// within their comment.
func CreateReply(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	commentID, okID := journalIDParam(r, "commentID")
	if !okID {
		writeMessage(w, http.StatusBadRequest, false, "Invalid comment id")
		return
	}

	var req CreateCommentRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if !validateBody(w, &req) {
		return
	}

	id, err := store.InsertReply(r.Context(), commentID, userID, req.Content)
	if err != nil {
		logger.Error.Printf("create reply: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to post reply")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Reply posted successfully",
		"replyId": id,
	})
}

// LikeComment toggles the caller's like on a comment.
func LikeComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	commentID, okID := journalIDParam(r, "commentID")
	if !okID {
		writeMessage(w, http.StatusBadRequest, false, "Invalid comment id")
		return
	}

	liked, err := store.ToggleCommentLike(r.Context(), commentID, userID)
	if err != nil {
		logger.Error.Printf("comment like: %v", err)
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
