package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlog/wanderlog-backend/internal/logger"
	"github.com/wanderlog/wanderlog-backend/internal/models"
)

type UpdateInterestRequest struct {
	Tag string `json:"tag" validate:"required,max=100"`
}

// maxInterest returns the tag with the highest count, nil when there are
// no counters yet.
func maxInterest(interests []models.Interest) *models.Interest {
	var top *models.Interest
	for i := range interests {
		if top == nil || interests[i].Count > top.Count {
			top = &interests[i]
		}
	}
	return top
}

// UpdateInterest bumps the caller's counter for a tag and reports their
// current top interest.
func UpdateInterest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	var req UpdateInterestRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}
	if !validateBody(w, &req) {
		return
	}

	if err := store.UpsertInterest(r.Context(), userID, req.Tag); err != nil {
		logger.Error.Printf("update interest: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to update interests")
		return
	}

	interests, err := store.ListInterests(r.Context(), userID)
	if err != nil {
		logger.Error.Printf("update interest: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to update interests")
		return
	}

	top := maxInterest(interests)
	resp := map[string]any{
		"success":    true,
		"message":    "Interests updated",
		"currentTag": req.Tag,
	}
	if top != nil {
		resp["maxTag"] = top.Tag
		resp["count"] = top.Count
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetInterest returns a user's top interest tag and all their counters.
func GetInterest(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		writeMessage(w, http.StatusBadRequest, false, "Invalid user id")
		return
	}

	interests, err := store.ListInterests(r.Context(), userID)
	if err != nil {
		logger.Error.Printf("get interest: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to fetch interests")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"interests": maxInterest(interests),
		"allTags":   interests,
	})
}
