package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlog/wanderlog-backend/internal/logger"
)

// SearchSpots matches a free-text query against spot names, addresses and
// tags.
func SearchSpots(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeMessage(w, http.StatusBadRequest, false, "Search query cannot be empty")
		return
	}

	results, err := store.SearchSpots(r.Context(), query)
	if err != nil {
		logger.Error.Printf("spot search: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Search failed")
		return
	}

	if len(results) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    results,
			"message": fmt.Sprintf("No places found for %q", query),
			"suggestions": []string{
				"Try a different keyword",
				"Check the spelling",
				"Search for a more general name",
			},
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    results,
	})
}

// ListSpots returns the spot catalog, optionally filtered by comma-separated
// tags and sorted by popularity ("fire") or rating ("score").
func ListSpots(w http.ResponseWriter, r *http.Request) {
	var tags []string
	if tagParam := strings.TrimSpace(r.URL.Query().Get("tag")); tagParam != "" {
		for _, t := range strings.Split(tagParam, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	spots, err := store.ListSpots(r.Context(), tags, r.URL.Query().Get("filter"))
	if err != nil {
		logger.Error.Printf("list spots: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to fetch spots")
		return
	}

	writeJSON(w, http.StatusOK, spots)
}

// SpotFire increments a spot's popularity counter and returns the new value.
func SpotFire(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeMessage(w, http.StatusBadRequest, false, "Spot name is required")
		return
	}

	fire, err := store.IncrementSpotFire(r.Context(), name)
	if errors.Is(err, sql.ErrNoRows) {
		writeMessage(w, http.StatusNotFound, false, "Spot not found")
		return
	}
	if err != nil {
		logger.Error.Printf("spot fire: %v", err)
		writeMessage(w, http.StatusInternalServerError, false, "Failed to update popularity")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"newFireCount": fire,
	})
}
