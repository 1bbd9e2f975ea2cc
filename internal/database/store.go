package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/wanderlog/wanderlog-backend/internal/models"
)

// Store is the storage client handed to services and handlers. Every method
// acquires a pooled connection for the duration of one call; nothing holds a
// connection across requests. Single-row lookups report absence with
// sql.ErrNoRows for the caller to map.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// journalSelect is the shared projection for journal reads: the row, the
// author's username, and the read-time like/rating aggregates.
const journalSelect = `
	SELECT j.journal_id, j.user_id, j.title, j.content, j.destination, j.tag,
	       j.views, j.created_at, u.username AS author,
	       (SELECT COUNT(*) FROM likes WHERE journal_id = j.journal_id) AS likes_count,
	       (SELECT AVG(rating_value) FROM ratings WHERE journal_id = j.journal_id) AS avg_rating
	FROM journals j
	JOIN users u ON j.user_id = u.id`

func scanJournal(row interface{ Scan(...any) error }) (models.Journal, error) {
	var (
		j           models.Journal
		destination sql.NullString
		tag         sql.NullString
		avgRating   sql.NullFloat64
	)
	err := row.Scan(&j.JournalID, &j.UserID, &j.Title, &j.Content, &destination,
		&tag, &j.Views, &j.CreatedAt, &j.Author, &j.LikesCount, &avgRating)
	if err != nil {
		return models.Journal{}, err
	}
	j.Destination = destination.String
	j.Tag = tag.String
	if avgRating.Valid {
		j.AvgRating = &avgRating.Float64
	}
	return j, nil
}

// IncrementViews bumps the journal's view counter. Missing counters coalesce
// to zero, so legacy rows with NULL views still count from zero.
func (s *Store) IncrementViews(ctx context.Context, journalID int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE journals SET views = COALESCE(views, 0) + 1 WHERE journal_id = $1`,
		journalID)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// GetJournal returns one journal row with author and aggregates attached.
func (s *Store) GetJournal(ctx context.Context, journalID int64) (models.Journal, error) {
	row := s.db.QueryRowContext(ctx, journalSelect+` WHERE j.journal_id = $1`, journalID)
	return scanJournal(row)
}

// ListJournals returns every journal, newest first.
func (s *Store) ListJournals(ctx context.Context) ([]models.Journal, error) {
	rows, err := s.db.QueryContext(ctx, journalSelect+` ORDER BY j.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}
	defer rows.Close()
	return collectJournals(rows)
}

// ListFavorites returns the journals a user has liked, most recently liked
// first.
func (s *Store) ListFavorites(ctx context.Context, userID int64) ([]models.Journal, error) {
	rows, err := s.db.QueryContext(ctx, journalSelect+`
		JOIN likes l ON j.journal_id = l.journal_id
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()
	return collectJournals(rows)
}

func collectJournals(rows *sql.Rows) ([]models.Journal, error) {
	out := make([]models.Journal, 0)
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// InsertJournal persists a journal whose content is already encoded and
// returns the generated id.
func (s *Store) InsertJournal(ctx context.Context, j models.Journal) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO journals (user_id, title, content, destination, tag, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 RETURNING journal_id`,
		j.UserID, j.Title, j.Content, nullable(j.Destination), nullable(j.Tag)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert journal: %w", err)
	}
	return id, nil
}

// JournalOwner returns the author's user id, or sql.ErrNoRows if the journal
// does not exist.
func (s *Store) JournalOwner(ctx context.Context, journalID int64) (int64, error) {
	var owner int64
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id FROM journals WHERE journal_id = $1`, journalID).Scan(&owner)
	return owner, err
}

// DeleteJournalCascade removes the journal and every dependent row in one
// transaction, children before parent so foreign keys never dangle. Replies
// and comment likes hang off the journal's comments and go first.
func (s *Store) DeleteJournalCascade(ctx context.Context, journalID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	steps := []string{
		`DELETE FROM replies WHERE comment_id IN (SELECT comment_id FROM comments WHERE journal_id = $1)`,
		`DELETE FROM comment_likes WHERE comment_id IN (SELECT comment_id FROM comments WHERE journal_id = $1)`,
		`DELETE FROM comments WHERE journal_id = $1`,
		`DELETE FROM images WHERE journal_id = $1`,
		`DELETE FROM likes WHERE journal_id = $1`,
		`DELETE FROM ratings WHERE journal_id = $1`,
		`DELETE FROM journals WHERE journal_id = $1`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, journalID); err != nil {
			return fmt.Errorf("cascade delete: %w", err)
		}
	}
	return tx.Commit()
}

// ListImages returns a journal's attachments in creation order.
func (s *Store) ListImages(ctx context.Context, journalID int64) ([]models.Image, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT image_id, journal_id, image_url, file_type, created_at
		 FROM images WHERE journal_id = $1 ORDER BY image_id`, journalID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	out := make([]models.Image, 0)
	for rows.Next() {
		var img models.Image
		if err := rows.Scan(&img.ImageID, &img.JournalID, &img.ImageURL,
			&img.FileType, &img.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (s *Store) InsertImage(ctx context.Context, journalID int64, url, fileType string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO images (journal_id, image_url, file_type) VALUES ($1, $2, $3)`,
		journalID, url, fileType)
	if err != nil {
		return fmt.Errorf("insert image: %w", err)
	}
	return nil
}

// ListComments returns a journal's comments newest first, each with its
// author name and like count. Replies are not attached here; the aggregator
// fetches them per comment.
func (s *Store) ListComments(ctx context.Context, journalID int64) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.comment_id, c.journal_id, c.user_id, c.content, c.created_at,
		       u.username AS author,
		       (SELECT COUNT(*) FROM comment_likes WHERE comment_id = c.comment_id) AS likes_count
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.journal_id = $1
		ORDER BY c.created_at DESC`, journalID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	out := make([]models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.CommentID, &c.JournalID, &c.UserID, &c.Content,
			&c.CreatedAt, &c.Author, &c.LikesCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListReplies returns a comment's replies oldest first.
func (s *Store) ListReplies(ctx context.Context, commentID int64) ([]models.Reply, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.reply_id, r.comment_id, r.user_id, r.content, r.created_at,
		       u.username AS author
		FROM replies r
		JOIN users u ON r.user_id = u.id
		WHERE r.comment_id = $1
		ORDER BY r.created_at ASC`, commentID)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	defer rows.Close()

	out := make([]models.Reply, 0)
	for rows.Next() {
		var r models.Reply
		if err := rows.Scan(&r.ReplyID, &r.CommentID, &r.UserID, &r.Content,
			&r.CreatedAt, &r.Author); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) InsertComment(ctx context.Context, journalID, userID int64, content string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO comments (journal_id, user_id, content, created_at)
		 VALUES ($1, $2, $3, NOW()) RETURNING comment_id`,
		journalID, userID, content).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert comment: %w", err)
	}
	return id, nil
}

func (s *Store) InsertReply(ctx context.Context, commentID, userID int64, content string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO replies (comment_id, user_id, content, created_at)
		 VALUES ($1, $2, $3, NOW()) RETURNING reply_id`,
		commentID, userID, content).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert reply: %w", err)
	}
	return id, nil
}

// ToggleLike flips the (journal, user) like fact and returns the new state.
func (s *Store) ToggleLike(ctx context.Context, journalID, userID int64) (bool, error) {
	liked, err := s.HasLiked(ctx, journalID, userID)
	if err != nil {
		return false, err
	}
	if liked {
		_, err = s.db.ExecContext(ctx,
			`DELETE FROM likes WHERE journal_id = $1 AND user_id = $2`, journalID, userID)
		if err != nil {
			return false, fmt.Errorf("remove like: %w", err)
		}
		return false, nil
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO likes (journal_id, user_id) VALUES ($1, $2)
		 ON CONFLICT (journal_id, user_id) DO NOTHING`, journalID, userID)
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}
	return true, nil
}

func (s *Store) HasLiked(ctx context.Context, journalID, userID int64) (bool, error) {
	var liked bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM likes WHERE journal_id = $1 AND user_id = $2)`,
		journalID, userID).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return liked, nil
}

// ToggleCommentLike flips the (comment, user) like fact and returns the new
// state.
func (s *Store) ToggleCommentLike(ctx context.Context, commentID, userID int64) (bool, error) {
	var liked bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM comment_likes WHERE comment_id = $1 AND user_id = $2)`,
		commentID, userID).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("check comment like: %w", err)
	}
	if liked {
		_, err = s.db.ExecContext(ctx,
			`DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2`, commentID, userID)
		if err != nil {
			return false, fmt.Errorf("remove comment like: %w", err)
		}
		return false, nil
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO comment_likes (comment_id, user_id) VALUES ($1, $2)
		 ON CONFLICT (comment_id, user_id) DO NOTHING`, commentID, userID)
	if err != nil {
		return false, fmt.Errorf("insert comment like: %w", err)
	}
	return true, nil
}

// UpsertRating records or replaces the user's rating for a journal.
func (s *Store) UpsertRating(ctx context.Context, journalID, userID int64, value int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ratings (journal_id, user_id, rating_value) VALUES ($1, $2, $3)
		 ON CONFLICT (journal_id, user_id) DO UPDATE SET rating_value = EXCLUDED.rating_value`,
		journalID, userID, value)
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

// GetRating returns the user's rating for a journal, or nil if none exists.
func (s *Store) GetRating(ctx context.Context, journalID, userID int64) (*int, error) {
	var value int
	err := s.db.QueryRowContext(ctx,
		`SELECT rating_value FROM ratings WHERE journal_id = $1 AND user_id = $2`,
		journalID, userID).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return &value, nil
}

// SearchSpots matches the query against spot name, address and tag.
func (s *Store) SearchSpots(ctx context.Context, query string) ([]models.Spot, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT spot_id, name, address, tag, description, fire, score
		FROM spots
		WHERE name ILIKE $1 OR address ILIKE $1 OR tag ILIKE $1
		ORDER BY fire DESC`, pattern)
	if err != nil {
		return nil, fmt.Errorf("search spots: %w", err)
	}
	defer rows.Close()
	return collectSpots(rows)
}

// ListSpots returns the catalog, optionally filtered by tags and sorted by
// the whitelisted column ("fire" or "score").
func (s *Store) ListSpots(ctx context.Context, tags []string, sortBy string) ([]models.Spot, error) {
	q := `SELECT spot_id, name, address, tag, description, fire, score FROM spots`
	args := make([]any, 0, len(tags))
	if len(tags) > 0 {
		conds := make([]string, len(tags))
		for i, t := range tags {
			args = append(args, "%"+t+"%")
			conds[i] = fmt.Sprintf("tag ILIKE $%d", i+1)
		}
		q += " WHERE " + strings.Join(conds, " OR ")
	}
	switch sortBy {
	case "fire":
		q += " ORDER BY fire DESC"
	case "score":
		q += " ORDER BY score DESC"
	default:
		q += " ORDER BY spot_id"
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list spots: %w", err)
	}
	defer rows.Close()
	return collectSpots(rows)
}

func collectSpots(rows *sql.Rows) ([]models.Spot, error) {
	out := make([]models.Spot, 0)
	for rows.Next() {
		var (
			sp          models.Spot
			address     sql.NullString
			tag         sql.NullString
			description sql.NullString
		)
		if err := rows.Scan(&sp.SpotID, &sp.Name, &address, &tag, &description,
			&sp.Fire, &sp.Score); err != nil {
			return nil, err
		}
		sp.Address = address.String
		sp.Tag = tag.String
		sp.Description = description.String
		out = append(out, sp)
	}
	return out, rows.Err()
}

// IncrementSpotFire bumps a spot's popularity counter and returns the new
// value, or sql.ErrNoRows for an unknown spot.
func (s *Store) IncrementSpotFire(ctx context.Context, name string) (int64, error) {
	var fire int64
	err := s.db.QueryRowContext(ctx,
		`UPDATE spots SET fire = fire + 1 WHERE name = $1 RETURNING fire`, name).Scan(&fire)
	if err != nil {
		return 0, err
	}
	return fire, nil
}

// UpsertInterest bumps the per-user counter for a tag, creating it at 1.
func (s *Store) UpsertInterest(ctx context.Context, userID int64, tag string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interests (user_id, tag, count) VALUES ($1, $2, 1)
		 ON CONFLICT (user_id, tag) DO UPDATE SET count = interests.count + 1`,
		userID, tag)
	if err != nil {
		return fmt.Errorf("upsert interest: %w", err)
	}
	return nil
}

// ListInterests returns all of a user's tag counters.
func (s *Store) ListInterests(ctx context.Context, userID int64) ([]models.Interest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag, count FROM interests WHERE user_id = $1 ORDER BY count DESC, tag`, userID)
	if err != nil {
		return nil, fmt.Errorf("list interests: %w", err)
	}
	defer rows.Close()

	out := make([]models.Interest, 0)
	for rows.Next() {
		var in models.Interest
		if err := rows.Scan(&in.Tag, &in.Count); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// CreateUser inserts a user and returns the generated id.
func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		username, email, passwordHash).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

// GetUserByUsername returns a user with the password hash populated, or
// sql.ErrNoRows.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE username = $1`,
		username).Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.CreatedAt)
	return u, err
}

// GetUserByID returns a user without the password hash, or sql.ErrNoRows.
func (s *Store) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, created_at FROM users WHERE id = $1`,
		id).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	return u, err
}

// EmailTaken reports whether a user already registered with the email.
func (s *Store) EmailTaken(ctx context.Context, email string) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return taken, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
