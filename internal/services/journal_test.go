package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlog/wanderlog-backend/internal/models"
	"github.com/wanderlog/wanderlog-backend/pkg/codec"
)

// fakeStore is an in-memory JournalStore. Reply fetches may run
// concurrently, so every method takes the mutex.
type fakeStore struct {
	mu sync.Mutex

	journals  map[int64]models.Journal
	images    map[int64][]models.Image
	comments  map[int64][]models.Comment
	replies   map[int64][]models.Reply
	favorites map[int64][]int64 // user id -> liked journal ids

	viewIncrements []int64
	cascadeDeleted []int64
	inserted       []models.Journal

	incrementErr error
	repliesErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		journals:  make(map[int64]models.Journal),
		images:    make(map[int64][]models.Image),
		comments:  make(map[int64][]models.Comment),
		replies:   make(map[int64][]models.Reply),
		favorites: make(map[int64][]int64),
	}
}

func (f *fakeStore) IncrementViews(_ context.Context, journalID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.incrementErr != nil {
		return f.incrementErr
	}
	f.viewIncrements = append(f.viewIncrements, journalID)
	return nil
}

func (f *fakeStore) GetJournal(_ context.Context, journalID int64) (models.Journal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.journals[journalID]
	if !ok {
		return models.Journal{}, sql.ErrNoRows
	}
	return j, nil
}

func (f *fakeStore) ListJournals(_ context.Context) ([]models.Journal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Journal, 0, len(f.journals))
	for _, j := range f.journals {
		out = append(out, j)
	}
	// newest first, the store's contract
	for i := 0; i < len(out); i++ {
		for k := i + 1; k < len(out); k++ {
			if out[k].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[k] = out[k], out[i]
			}
		}
	}
	return out, nil
}

func (f *fakeStore) ListFavorites(_ context.Context, userID int64) ([]models.Journal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Journal, 0)
	for _, id := range f.favorites[userID] {
		if j, ok := f.journals[id]; ok {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertJournal(_ context.Context, j models.Journal) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, j)
	id := int64(len(f.inserted))
	j.JournalID = id
	f.journals[id] = j
	return id, nil
}

func (f *fakeStore) JournalOwner(_ context.Context, journalID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.journals[journalID]
	if !ok {
		return 0, sql.ErrNoRows
	}
	return j.UserID, nil
}

func (f *fakeStore) DeleteJournalCascade(_ context.Context, journalID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cascadeDeleted = append(f.cascadeDeleted, journalID)
	for _, c := range f.comments[journalID] {
		delete(f.replies, c.CommentID)
	}
	delete(f.comments, journalID)
	delete(f.images, journalID)
	delete(f.journals, journalID)
	return nil
}

func (f *fakeStore) ListImages(_ context.Context, journalID int64) ([]models.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.images[journalID], nil
}

func (f *fakeStore) ListComments(_ context.Context, journalID int64) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.comments[journalID], nil
}

func (f *fakeStore) ListReplies(_ context.Context, commentID int64) ([]models.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.repliesErr != nil {
		return nil, f.repliesErr
	}
	return f.replies[commentID], nil
}

func mustEncode(t *testing.T, s string) string {
	t.Helper()
	enc, err := codec.Encode(s)
	require.NoError(t, err)
	return enc
}

func TestGetJournalDetail(t *testing.T) {
	store := newFakeStore()
	store.journals[1] = models.Journal{
		JournalID: 1,
		UserID:    10,
		Title:     "Beihai Park",
		Content:   mustEncode(t, "The white pagoda reflected in the lake."),
		Views:     4,
		Author:    "alice",
		CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	store.images[1] = []models.Image{
		{ImageID: 1, JournalID: 1, ImageURL: "https://cdn.example/pagoda.jpg", FileType: "image"},
	}
	// Comments arrive from the store newest first.
	store.comments[1] = []models.Comment{
		{CommentID: 8, JournalID: 1, Author: "carol", Content: "Adding this to my list",
			CreatedAt: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)},
		{CommentID: 7, JournalID: 1, Author: "bob", Content: "Lovely photos",
			CreatedAt: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
	}
	store.replies[7] = []models.Reply{
		{ReplyID: 1, CommentID: 7, Author: "alice", Content: "Thanks!"},
	}

	svc := NewJournalService(store)
	view, err := svc.GetJournalDetail(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "The white pagoda reflected in the lake.", view.Content)
	assert.Equal(t, "alice", view.Author)
	assert.Equal(t, int64(5), view.Views, "increment reflected in the response")
	assert.Equal(t, []int64{1}, store.viewIncrements)

	require.Len(t, view.Images, 1)
	require.Len(t, view.Comments, 2)
	assert.Equal(t, int64(8), view.Comments[0].CommentID, "newest comment first")
	assert.Empty(t, view.Comments[0].Replies)
	require.Len(t, view.Comments[1].Replies, 1)
	assert.Equal(t, "Thanks!", view.Comments[1].Replies[0].Content)
}

func TestGetJournalDetailNotFound(t *testing.T) {
	store := newFakeStore()
	svc := NewJournalService(store)

	_, err := svc.GetJournalDetail(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.viewIncrements, "no counter touched for a missing journal")
}

func TestGetJournalDetailViewIncrementFailureIsNonFatal(t *testing.T) {
	store := newFakeStore()
	store.journals[1] = models.Journal{JournalID: 1, UserID: 10, Views: 3,
		Content: mustEncode(t, "x")}
	store.incrementErr = sql.ErrConnDone

	svc := NewJournalService(store)
	view, err := svc.GetJournalDetail(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), view.Views, "stale count returned when the bump fails")
}

func TestGetJournalDetailReplyFailureDegradesOneComment(t *testing.T) {
	store := newFakeStore()
	store.journals[1] = models.Journal{JournalID: 1, Content: mustEncode(t, "x")}
	store.comments[1] = []models.Comment{{CommentID: 7, JournalID: 1}}
	store.repliesErr = sql.ErrConnDone

	svc := NewJournalService(store)
	view, err := svc.GetJournalDetail(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, view.Comments, 1)
	assert.Empty(t, view.Comments[0].Replies)
}

func TestGetJournalDetailLegacyPlaintext(t *testing.T) {
	store := newFakeStore()
	store.journals[1] = models.Journal{JournalID: 1, Content: "written before compression"}

	svc := NewJournalService(store)
	view, err := svc.GetJournalDetail(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "written before compression", view.Content)
}

func TestListJournalsCorruptContentDoesNotFailListing(t *testing.T) {
	corrupt := codec.EncodedPrefix + "!!corrupt!!"
	store := newFakeStore()
	store.journals[1] = models.Journal{JournalID: 1, Content: mustEncode(t, "fine"),
		CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
	store.journals[2] = models.Journal{JournalID: 2, Content: corrupt,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	svc := NewJournalService(store)
	list, err := svc.ListJournals(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "fine", list[0].Content)
	assert.Equal(t, corrupt, list[1].Content, "corrupt row falls back to the stored form")
}

func TestCreateJournalEncodesContent(t *testing.T) {
	store := newFakeStore()
	svc := NewJournalService(store)

	id, err := svc.CreateJournal(context.Background(), models.Journal{
		UserID:  10,
		Title:   "Day one",
		Content: "plain text diary entry",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	require.Len(t, store.inserted, 1)
	stored := store.inserted[0].Content
	assert.True(t, codec.Encoded(stored), "stored content carries the encoded prefix")
	assert.Equal(t, "plain text diary entry", codec.Decode(stored))
}

func TestDeleteJournal(t *testing.T) {
	tests := []struct {
		name        string
		journalID   int64
		requesterID int64
		wantErr     error
		wantDeleted bool
	}{
		{"Owner", 1, 10, nil, true},
		{"NotOwner", 1, 11, ErrForbidden, false},
		{"Missing", 99, 10, ErrForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.journals[1] = models.Journal{JournalID: 1, UserID: 10}

			svc := NewJournalService(store)
			err := svc.DeleteJournal(context.Background(), tt.journalID, tt.requesterID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			if tt.wantDeleted {
				assert.Equal(t, []int64{tt.journalID}, store.cascadeDeleted)
				_, err := svc.GetJournalDetail(context.Background(), tt.journalID)
				assert.ErrorIs(t, err, ErrNotFound, "deleted journal is gone")
			} else {
				assert.Empty(t, store.cascadeDeleted, "nothing deleted on refusal")
				assert.Contains(t, store.journals, int64(1))
			}
		})
	}
}

func TestListFavorites(t *testing.T) {
	store := newFakeStore()
	store.journals[1] = models.Journal{JournalID: 1, Content: mustEncode(t, "liked")}
	store.journals[2] = models.Journal{JournalID: 2, Content: mustEncode(t, "not liked")}
	store.favorites[10] = []int64{1}

	svc := NewJournalService(store)
	list, err := svc.ListFavorites(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].JournalID)
	assert.Equal(t, "liked", list[0].Content)
}
