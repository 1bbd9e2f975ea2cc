package handlers

import (
	"net/http"
	"strings"

	"github.com/wanderlog/wanderlog-backend/internal/config"
	"github.com/wanderlog/wanderlog-backend/internal/logger"
	"github.com/wanderlog/wanderlog-backend/internal/services"
)

var cloudinaryService *services.CloudinaryService

func InitCloudinaryService(cfg *config.Config) error {
	service, err := services.NewCloudinaryService(
		cfg.CloudinaryName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)
	if err != nil {
		return err
	}
	cloudinaryService = service
	return nil
}

const (
	maxUploadBytes = 50 << 20 // 50MB, videos included
	maxUploadFiles = 5
)

type uploadedFile struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// mediaKind classifies an upload from its MIME type. Extensions are
// untrusted; a renamed .jpg that is really a video still lands as "video".
func mediaKind(contentType string) string {
	if strings.HasPrefix(contentType, "video/") {
		return "video"
	}
	return "image"
}

// UploadJournalImages attaches up to five image/video files to a journal.
// Files go to Cloudinary; the hosted URL and media kind are persisted per
// attachment.
func UploadJournalImages(w http.ResponseWriter, r *http.Request) {
	_, ok := requireAuth(r)
	if !ok {
		unauthorized(w)
		return
	}

	if cloudinaryService == nil {
		writeMessage(w, http.StatusInternalServerError, false, "File uploads are not available")
		return
	}

	journalID, okID := journalIDParam(r, "journalID")
	if !okID {
		writeMessage(w, http.StatusBadRequest, false, "Invalid journal id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeMessage(w, http.StatusBadRequest, false, "Failed to parse upload")
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		writeMessage(w, http.StatusBadRequest, false, "No files uploaded")
		return
	}
	if len(files) > maxUploadFiles {
		files = files[:maxUploadFiles]
	}

	uploaded := make([]uploadedFile, 0, len(files))
	for _, fh := range files {
		kind := mediaKind(fh.Header.Get("Content-Type"))

		url, err := cloudinaryService.UploadFileFromHeader(r.Context(), fh, "journals")
		if err != nil {
			logger.Error.Printf("upload journal file: %v", err)
			writeMessage(w, http.StatusInternalServerError, false, "File upload failed")
			return
		}

		if err := store.InsertImage(r.Context(), journalID, url, kind); err != nil {
			logger.Error.Printf("save journal file: %v", err)
			writeMessage(w, http.StatusInternalServerError, false, "File upload failed")
			return
		}

		uploaded = append(uploaded, uploadedFile{URL: url, Type: kind})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Files uploaded successfully",
		"files":   uploaded,
	})
}
