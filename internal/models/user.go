package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // argon2id hash, never returned in JSON
	CreatedAt time.Time `json:"created_at"`
}
