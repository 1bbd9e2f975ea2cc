package models

import "time"

// Journal is one travel diary entry together with the read-time aggregates
// (author name, like count, average rating) attached to every journal fetch.
// Content holds decoded plaintext on the way out; the stored form is the
// codec's encoded blob.
type Journal struct {
	JournalID   int64     `json:"journal_id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Destination string    `json:"destination,omitempty"`
	Tag         string    `json:"tag,omitempty"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `json:"created_at"`

	Author     string   `json:"author"`
	LikesCount int64    `json:"likes_count"`
	AvgRating  *float64 `json:"avg_rating"` // nil when nobody has rated yet
}

// JournalSummary is the listing shape: journal fields plus images, no
// comment thread.
type JournalSummary struct {
	Journal
	Images []Image `json:"images"`
}

// JournalView is the full detail shape returned by the journal detail page.
type JournalView struct {
	Journal
	Images   []Image   `json:"images"`
	Comments []Comment `json:"comments"`
}
