package database

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"github.com/wanderlog/wanderlog-backend/internal/logger"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL and initializes the schema.
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	// Set connection pool settings
	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err = PostgresDB.Ping(); err != nil {
		return err
	}

	logger.Info.Println("Connected to PostgreSQL")

	// Initialize tables
	if err = InitPostgresTables(); err != nil {
		return err
	}

	return nil
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables() error {
	queries := []string{
		// Users table
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(50) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Journals table. Content is stored in the codec's encoded form;
		// rows created before compression stay as plaintext.
		`CREATE TABLE IF NOT EXISTS journals (
			journal_id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			title VARCHAR(255) NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			destination VARCHAR(255),
			tag VARCHAR(100),
			views BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Images table (image or video attachments, one journal each)
		`CREATE TABLE IF NOT EXISTS images (
			image_id BIGSERIAL PRIMARY KEY,
			journal_id BIGINT NOT NULL REFERENCES journals(journal_id),
			image_url TEXT NOT NULL,
			file_type VARCHAR(10) NOT NULL DEFAULT 'image',
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Comments table
		`CREATE TABLE IF NOT EXISTS comments (
			comment_id BIGSERIAL PRIMARY KEY,
			journal_id BIGINT NOT NULL REFERENCES journals(journal_id),
			user_id BIGINT NOT NULL REFERENCES users(id),
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Comment likes table (unique per comment and user)
		`CREATE TABLE IF NOT EXISTS comment_likes (
			comment_id BIGINT NOT NULL REFERENCES comments(comment_id),
			user_id BIGINT NOT NULL REFERENCES users(id),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE(comment_id, user_id)
		)`,

		// Replies table
		`CREATE TABLE IF NOT EXISTS replies (
			reply_id BIGSERIAL PRIMARY KEY,
			comment_id BIGINT NOT NULL REFERENCES comments(comment_id),
			user_id BIGINT NOT NULL REFERENCES users(id),
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Journal likes table (unique per journal and user)
		`CREATE TABLE IF NOT EXISTS likes (
			journal_id BIGINT NOT NULL REFERENCES journals(journal_id),
			user_id BIGINT NOT NULL REFERENCES users(id),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE(journal_id, user_id)
		)`,

		// Ratings table (unique per journal and user, value kept on the row)
		`CREATE TABLE IF NOT EXISTS ratings (
			journal_id BIGINT NOT NULL REFERENCES journals(journal_id),
			user_id BIGINT NOT NULL REFERENCES users(id),
			rating_value INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE(journal_id, user_id)
		)`,

		// Tourist spots catalog
		`CREATE TABLE IF NOT EXISTS spots (
			spot_id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			address VARCHAR(255),
			tag VARCHAR(100),
			description TEXT,
			fire BIGINT NOT NULL DEFAULT 0,
			score DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,

		// Per-user interest tag counters
		`CREATE TABLE IF NOT EXISTS interests (
			user_id BIGINT NOT NULL REFERENCES users(id),
			tag VARCHAR(100) NOT NULL,
			count BIGINT NOT NULL DEFAULT 1,
			UNIQUE(user_id, tag)
		)`,

		// Create indexes for better performance
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_journals_user_id ON journals(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_journals_created_at ON journals(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_images_journal_id ON images(journal_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_journal_id ON comments(journal_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_created_at ON comments(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_comment_likes_comment_id ON comment_likes(comment_id)`,
		`CREATE INDEX IF NOT EXISTS idx_replies_comment_id ON replies(comment_id)`,
		`CREATE INDEX IF NOT EXISTS idx_replies_created_at ON replies(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_likes_journal_id ON likes(journal_id)`,
		`CREATE INDEX IF NOT EXISTS idx_likes_user_id ON likes(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_journal_id ON ratings(journal_id)`,
		`CREATE INDEX IF NOT EXISTS idx_spots_name ON spots(name)`,
		`CREATE INDEX IF NOT EXISTS idx_spots_tag ON spots(tag)`,
		`CREATE INDEX IF NOT EXISTS idx_interests_user_id ON interests(user_id)`,
	}

	for _, query := range queries {
		if _, err := PostgresDB.Exec(query); err != nil {
			return err
		}
	}

	logger.Info.Println("PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
