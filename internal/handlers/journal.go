package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlog/wanderlog-backend/internal/logger"
	"github.com/wanderlog/wanderlog-backend/internal/models"
	"github.com/wanderlog/wanderlog-backend/internal/services"
)

type CreateJournalRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Content     string `json:"content"`
	Destination string `json:"destination" validate:"max=255"`
	Tag         string `json:"tag" validate:"max=100"`
}

type CreateJournalResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	JournalID int64  `json:"journalId,omitempty"`
}

type JournalListResponse struct {
	Success  bool                    `json:"success"`
	Message  string                  `json:"message,omitempty"`
	Journals []models.JournalSummary `json:"journals"`
}

type JournalDetailResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Journal *models.JournalView `json:"journal,omitempty"`
}

func journalIDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// CreateJournal publishes a new journal entry for the logged-in user. The
// content is compressed before it is stored; a compression failure aborts
// the publish rather than persisting a broken row.
func CreateJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	var req CreateJournalRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if !validateBody(w, &req) {
		return
	}

	id, err := journals.CreateJournal(r.Context(), models.Journal{
		UserID:      userID,
		Title:       req.Title,
		Content:     req.Content,
		Destination: req.Destination,
		Tag:         req.Tag,
	})
	if err != nil {
		logger.Error.Printf("create journal: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to publish journal")
		return
	}

	writeJSON(w, http.StatusOK, CreateJournalResponse{
		Success:   true,
		Message:   "Journal published successfully",
		JournalID: id,
	})
}

// GetJournals returns all journals, newest first, each with decoded content
// and its images.
func GetJournals(w http.ResponseWriter, r *http.Request) {
	list, err := journals.ListJournals(r.Context())
	if err != nil {
		logger.Error.Printf("list journals: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to fetch journals")
		return
	}
	writeJSON(w, http.StatusOK, JournalListResponse{Success: true, Journals: list})
}

// GetJournalDetail returns the assembled detail view for one journal:
// decoded content, author, like/rating aggregates, images, and the comment
// thread with nested replies.
func GetJournalDetail(w http.ResponseWriter, r *http.Request) {
	journalID, ok := journalIDParam(r, "journalID")
	if !ok {
		writeMessage(w, http.StatusBadRequest, false, "Invalid journal id")
		return
	}

	view, err := journals.GetJournalDetail(r.Context(), journalID)
	if errors.Is(err, services.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, false, "Journal does not exist")
		return
	}
	if err != nil {
		logger.Error.Printf("journal detail: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to fetch journal")
		return
	}

	writeJSON(w, http.StatusOK, JournalDetailResponse{Success: true, Journal: view})
}

// DeleteJournal removes a journal and everything attached to it. Only the
// author may delete; "not found" and "not yours" both answer 403 so ids
// cannot be probed.
func DeleteJournal(w http.ResponseWriter, r *http.Request) {
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

	err := journals.DeleteJournal(r.Context(), journalID, userID)
	if errors.Is(err, services.ErrForbidden) {
		writeMessage(w, http.StatusForbidden, false, "You do not have permission to delete this journal")
		return
	}
	if err != nil {
		logger.Error.Printf("delete journal: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to delete journal")
		return
	}

	writeMessage(w, http.StatusOK, true, "Journal deleted successfully")
}

// GetFavorites returns the journals a user has liked.
func GetFavorites(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		writeMessage(w, http.StatusBadRequest, false, "Invalid user id")
		return
	}

	list, err := journals.ListFavorites(r.Context(), userID)
	if err != nil {
		logger.Error.Printf("list favorites: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to fetch favorites")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"favorites": list,
	})
}
