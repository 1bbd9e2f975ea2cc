package models

import "time"

// Comment belongs to one journal. LikesCount is computed at read time from
// comment_likes; Replies are ordered oldest first, unlike comments and
// journals which list newest first.
type Comment struct {
	CommentID  int64     `json:"comment_id"`
	JournalID  int64     `json:"journal_id"`
	UserID     int64     `json:"user_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	Author     string    `json:"author"`
	LikesCount int64     `json:"likes_count"`
	Replies    []Reply   `json:"replies"`
}

type Reply struct {
	ReplyID   int64     `json:"reply_id"`
	CommentID int64     `json:"comment_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author"`
}
