package handlers_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlog/wanderlog-backend/internal/handlers"
	"github.com/wanderlog/wanderlog-backend/internal/models"
	"github.com/wanderlog/wanderlog-backend/internal/routes"
	"github.com/wanderlog/wanderlog-backend/internal/services"
	"github.com/wanderlog/wanderlog-backend/pkg/codec"
)

// memStore backs the journal service with maps so handlers can be exercised
// over real routes without a database.
type memStore struct {
	mu       sync.Mutex
	journals map[int64]models.Journal
	nextID   int64
	deleted  []int64
}

func newMemStore() *memStore {
	return &memStore{journals: make(map[int64]models.Journal), nextID: 1}
}

func (m *memStore) IncrementViews(context.Context, int64) error { return nil }

func (m *memStore) GetJournal(_ context.Context, id int64) (models.Journal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.journals[id]
	if !ok {
		return models.Journal{}, sql.ErrNoRows
	}
	return j, nil
}

func (m *memStore) ListJournals(context.Context) ([]models.Journal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Journal, 0, len(m.journals))
	for _, j := range m.journals {
		out = append(out, j)
	}
	return out, nil
}

func (m *memStore) ListFavorites(context.Context, int64) ([]models.Journal, error) {
	return nil, nil
}

func (m *memStore) InsertJournal(_ context.Context, j models.Journal) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j.JournalID = m.nextID
	m.journals[j.JournalID] = j
	m.nextID++
	return j.JournalID, nil
}

func (m *memStore) JournalOwner(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.journals[id]
	if !ok {
		return 0, sql.ErrNoRows
	}
	return j.UserID, nil
}

func (m *memStore) DeleteJournalCascade(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.journals, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *memStore) ListImages(context.Context, int64) ([]models.Image, error) {
	return nil, nil
}

func (m *memStore) ListComments(context.Context, int64) ([]models.Comment, error) {
	return nil, nil
}

func (m *memStore) ListReplies(context.Context, int64) ([]models.Reply, error) {
	return nil, nil
}

// memSessions maps fixed tokens to user ids.
type memSessions struct {
	tokens map[string]int64
}

func (m *memSessions) Create(_ context.Context, userID int64) (string, error) {
	return "tok", nil
}

func (m *memSessions) Validate(_ context.Context, token string) (int64, bool, error) {
	id, ok := m.tokens[token]
	return id, ok, nil
}

func (m *memSessions) Invalidate(context.Context, string) error { return nil }

func newTestServer(store *memStore) *httptest.Server {
	handlers.Init(nil, services.NewJournalService(store), &memSessions{
		tokens: map[string]int64{"alice-token": 10, "bob-token": 11},
	})
	r := chi.NewRouter()
	routes.SetupRoutes(r)
	return httptest.NewServer(r)
}

func doJSON(t *testing.T, method, url, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestCreateJournalEndpoint(t *testing.T) {
	store := newMemStore()
	srv := newTestServer(store)
	defer srv.Close()

	t.Run("Unauthenticated", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/journals", "",
			`{"title":"Sanya","content":"beach day"}`)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, false, body["success"])
	})

	t.Run("MissingTitle", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/journals", "alice-token",
			`{"content":"no title"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Published", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/journals", "alice-token",
			`{"title":"Sanya","content":"beach day","tag":"beach"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["success"])
		assert.EqualValues(t, 1, body["journalId"])

		stored := store.journals[1]
		assert.Equal(t, int64(10), stored.UserID)
		assert.True(t, codec.Encoded(stored.Content), "content stored compressed")
	})
}

func TestGetJournalDetailEndpoint(t *testing.T) {
	store := newMemStore()
	enc, err := codec.Encode("hotpot in Chongqing")
	require.NoError(t, err)
	store.journals[1] = models.Journal{JournalID: 1, UserID: 10, Title: "Chongqing",
		Content: enc, Author: "alice"}
	store.nextID = 2

	srv := newTestServer(store)
	defer srv.Close()

	t.Run("Found", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/journals/1", "", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		journal, ok := body["journal"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "hotpot in Chongqing", journal["content"], "content served decoded")
		assert.Equal(t, "alice", journal["author"])
	})

	t.Run("NotFound", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/journals/999", "", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Journal does not exist", body["message"])
	})

	t.Run("BadID", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/journals/abc", "", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeleteJournalEndpoint(t *testing.T) {
	store := newMemStore()
	store.journals[1] = models.Journal{JournalID: 1, UserID: 10}
	store.nextID = 2

	srv := newTestServer(store)
	defer srv.Close()

	t.Run("Unauthenticated", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/api/journals/1", "", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("NotOwner", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/api/journals/1", "bob-token", "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Empty(t, store.deleted)
	})

	t.Run("Missing", func(t *testing.T) {
		// Same answer as NotOwner so ids cannot be probed.
		resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/api/journals/999", "alice-token", "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Owner", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodDelete, srv.URL+"/api/journals/1", "alice-token", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, []int64{1}, store.deleted)
	})
}

func TestGetJournalsEndpoint(t *testing.T) {
	store := newMemStore()
	enc, err := codec.Encode("sunrise at Mount Tai")
	require.NoError(t, err)
	store.journals[1] = models.Journal{JournalID: 1, UserID: 10, Title: "Mount Tai", Content: enc}
	store.nextID = 2

	srv := newTestServer(store)
	defer srv.Close()

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/journals", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	list, ok := body["journals"].([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	assert.Equal(t, "sunrise at Mount Tai", first["content"])
}
