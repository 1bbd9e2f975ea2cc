package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/wanderlog/wanderlog-backend/internal/logger"
	"github.com/wanderlog/wanderlog-backend/internal/models"
	"github.com/wanderlog/wanderlog-backend/pkg/codec"
)

// JournalStore is the storage capability the journal service needs. It is
// implemented by database.Store; single-row lookups report absence with an
// error satisfying errors.Is(err, sql.ErrNoRows).
type JournalStore interface {
	IncrementViews(ctx context.Context, journalID int64) error
	GetJournal(ctx context.Context, journalID int64) (models.Journal, error)
	ListJournals(ctx context.Context) ([]models.Journal, error)
	ListFavorites(ctx context.Context, userID int64) ([]models.Journal, error)
	InsertJournal(ctx context.Context, j models.Journal) (int64, error)
	JournalOwner(ctx context.Context, journalID int64) (int64, error)
	DeleteJournalCascade(ctx context.Context, journalID int64) error
	ListImages(ctx context.Context, journalID int64) ([]models.Image, error)
	ListComments(ctx context.Context, journalID int64) ([]models.Comment, error)
	ListReplies(ctx context.Context, commentID int64) ([]models.Reply, error)
}

// JournalService composes journal views: it reverses the content codec on
// reads and stitches the dependent collections (images, comments with nested
// replies, like/rating aggregates) into one response object.
type JournalService struct {
	store JournalStore
}

func NewJournalService(store JournalStore) *JournalService {
	return &JournalService{store: store}
}

// GetJournalDetail assembles the full detail view for one journal. The view
// counter increments as a side effect of the read; a failed increment is
// logged and never fails the page. Returns ErrNotFound when the journal is
// absent, in which case no counter is touched.
func (s *JournalService) GetJournalDetail(ctx context.Context, journalID int64) (*models.JournalView, error) {
	j, err := s.store.GetJournal(ctx, journalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get journal: %w", err)
	}

	if err := s.store.IncrementViews(ctx, journalID); err != nil {
		logger.Warn.Printf("journal %d: view counter increment failed: %v", journalID, err)
	} else {
		j.Views++
	}

	j.Content = codec.Decode(j.Content)

	images, err := s.store.ListImages(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("journal images: %w", err)
	}

	comments, err := s.store.ListComments(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("journal comments: %w", err)
	}

	// Reply fetches are independent per comment; fan out and land each
	// result in its comment's slot so the newest-first comment order holds.
	g, gctx := errgroup.WithContext(ctx)
	for i := range comments {
		i := i
		g.Go(func() error {
			replies, err := s.store.ListReplies(gctx, comments[i].CommentID)
			if err != nil {
				// A lost reply thread degrades one comment, not the page.
				logger.Warn.Printf("comment %d: reply fetch failed: %v", comments[i].CommentID, err)
				comments[i].Replies = []models.Reply{}
				return nil
			}
			comments[i].Replies = replies
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("journal replies: %w", err)
	}

	return &models.JournalView{
		Journal:  j,
		Images:   images,
		Comments: comments,
	}, nil
}

// ListJournals returns every journal as a summary (decoded content plus
// images, no comment threads), newest first. One journal's corrupt content
// never fails the listing; the codec falls back to the stored form.
func (s *JournalService) ListJournals(ctx context.Context) ([]models.JournalSummary, error) {
	journals, err := s.store.ListJournals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}
	return s.summarize(ctx, journals)
}

// ListFavorites returns the journals a user has liked, in the same summary
// shape as ListJournals.
func (s *JournalService) ListFavorites(ctx context.Context, userID int64) ([]models.JournalSummary, error) {
	journals, err := s.store.ListFavorites(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return s.summarize(ctx, journals)
}

func (s *JournalService) summarize(ctx context.Context, journals []models.Journal) ([]models.JournalSummary, error) {
	out := make([]models.JournalSummary, 0, len(journals))
	for _, j := range journals {
		j.Content = codec.Decode(j.Content)
		images, err := s.store.ListImages(ctx, j.JournalID)
		if err != nil {
			return nil, fmt.Errorf("journal %d images: %w", j.JournalID, err)
		}
		out = append(out, models.JournalSummary{Journal: j, Images: images})
	}
	return out, nil
}

// CreateJournal encodes the content and persists the journal, returning the
// generated id. A codec failure aborts the write; plaintext is never stored
// half-encoded.
func (s *JournalService) CreateJournal(ctx context.Context, j models.Journal) (int64, error) {
	encoded, err := codec.Encode(j.Content)
	if err != nil {
		return 0, fmt.Errorf("encode journal content: %w", err)
	}
	j.Content = encoded

	id, err := s.store.InsertJournal(ctx, j)
	if err != nil {
		return 0, fmt.Errorf("create journal: %w", err)
	}
	return id, nil
}

// DeleteJournal removes a journal and all dependent rows. Only the author
// may delete; a missing journal also yields ErrForbidden so the endpoint
// does not leak which ids exist.
func (s *JournalService) DeleteJournal(ctx context.Context, journalID, requesterID int64) error {
	owner, err := s.store.JournalOwner(ctx, journalID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrForbidden
	}
	if err != nil {
		return fmt.Errorf("journal owner: %w", err)
	}
	if owner != requesterID {
		return ErrForbidden
	}

	if err := s.store.DeleteJournalCascade(ctx, journalID); err != nil {
		return fmt.Errorf("delete journal: %w", err)
	}
	return nil
}
