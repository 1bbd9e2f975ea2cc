package models

import "time"

// Image is a media attachment on a journal. FileType is "image" or "video",
// decided by the upload's MIME type, never by file extension.
type Image struct {
	ImageID   int64     `json:"image_id"`
	JournalID int64     `json:"journal_id"`
	ImageURL  string    `json:"image_url"`
	FileType  string    `json:"file_type"`
	CreatedAt time.Time `json:"created_at"`
}
