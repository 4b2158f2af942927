package rerum_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldnotes/internal/station/adapters/rerum"
	"fieldnotes/internal/station/config"
	"fieldnotes/internal/station/domain/entities"
	"fieldnotes/internal/station/ports/api"
)

func newTestClient(t *testing.T, handler http.Handler, pageSize int) *rerum.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return rerum.NewClient(&config.APIConfig{
		BaseURL:        server.URL,
		PageSize:       pageSize,
		RequestTimeout: 5 * time.Second,
	})
}

// corpusHandler serves a fixed corpus of note documents page by page,
// honoring the limit and skip query parameters.
func corpusHandler(t *testing.T, corpus []map[string]any, requests *int) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/query", r.URL.Path)
		*requests++

		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		require.NoError(t, err)
		skip, err := strconv.Atoi(r.URL.Query().Get("skip"))
		require.NoError(t, err)

		end := skip + limit
		if end > len(corpus) {
			end = len(corpus)
		}
		if skip > len(corpus) {
			skip = len(corpus)
		}

		require.NoError(t, json.NewEncoder(w).Encode(corpus[skip:end]))
	})
}

func makeCorpus(size int) []map[string]any {
	corpus := make([]map[string]any, 0, size)
	for i := 0; i < size; i++ {
		corpus = append(corpus, map[string]any{
			"@id":   fmt.Sprintf("note/%d", i),
			"type":  "message",
			"title": fmt.Sprintf("note %d", i),
		})
	}
	return corpus
}

func TestFetchAll_SinglePage(t *testing.T) {
	requests := 0
	client := newTestClient(t, corpusHandler(t, makeCorpus(3), &requests), 10)

	notes, err := client.FetchAll(context.Background(), api.GlobalScope())

	require.NoError(t, err)
	assert.Len(t, notes, 3)
	assert.Equal(t, 1, requests, "short page should stop pagination")
}

func TestFetchAll_PaginatesWithoutDuplicates(t *testing.T) {
	requests := 0
	client := newTestClient(t, corpusHandler(t, makeCorpus(5), &requests), 2)

	notes, err := client.FetchAll(context.Background(), api.GlobalScope())

	require.NoError(t, err)
	require.Len(t, notes, 5)
	assert.Equal(t, 3, requests)

	seen := make(map[string]bool)
	for _, note := range notes {
		assert.False(t, seen[note.ID], "duplicate note %s", note.ID)
		seen[note.ID] = true
	}
}

func TestFetchAll_FullLastPageIssuesOneMoreRequest(t *testing.T) {
	requests := 0
	client := newTestClient(t, corpusHandler(t, makeCorpus(4), &requests), 2)

	notes, err := client.FetchAll(context.Background(), api.GlobalScope())

	require.NoError(t, err)
	assert.Len(t, notes, 4)
	// Two full pages plus the empty page that terminates the loop.
	assert.Equal(t, 3, requests)
}

func TestFetchAll_ScopeFilters(t *testing.T) {
	tests := []struct {
		name     string
		scope    api.Scope
		wantBody map[string]any
	}{
		{
			name:     "global",
			scope:    api.GlobalScope(),
			wantBody: map[string]any{"type": "message"},
		},
		{
			name:     "published",
			scope:    api.PublishedScope(),
			wantBody: map[string]any{"type": "message", "published": true},
		},
		{
			name:     "owner",
			scope:    api.OwnerScope("user-1"),
			wantBody: map[string]any{"type": "message", "creator": "user-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody map[string]any
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
				_, _ = w.Write([]byte("[]"))
			})
			client := newTestClient(t, handler, 10)

			_, err := client.FetchAll(context.Background(), tt.scope)

			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, gotBody)
		})
	}
}

func TestFetchAll_StoreError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client := newTestClient(t, handler, 10)

	notes, err := client.FetchAll(context.Background(), api.GlobalScope())

	require.Error(t, err)
	assert.Nil(t, notes, "no partial results on failure")
	assert.ErrorIs(t, err, rerum.ErrFetch)

	var statusErr *rerum.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Status)
}

func TestSearch_MatchesTitleAndTagsCaseInsensitive(t *testing.T) {
	corpus := []map[string]any{
		{"@id": "note/1", "title": "Morning Ritual"},
		{"@id": "note/2", "title": "lunch", "tags": []string{"Ritual", "food"}},
		{"@id": "note/3", "title": "unrelated"},
	}
	requests := 0
	client := newTestClient(t, corpusHandler(t, corpus, &requests), 10)

	notes, err := client.Search(context.Background(), "rItUaL")

	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "note/1", notes[0].ID)
	assert.Equal(t, "note/2", notes[1].ID)
}

func TestSearch_NoMatchesIsNotAnError(t *testing.T) {
	requests := 0
	client := newTestClient(t, corpusHandler(t, makeCorpus(2), &requests), 10)

	notes, err := client.Search(context.Background(), "nothing here")

	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestCreate_ReturnsAssignedID(t *testing.T) {
	var gotBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/create", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"@id":"note/assigned"}`))
	})
	client := newTestClient(t, handler, 10)

	id, err := client.Create(context.Background(), &entities.Note{
		Title:   "field note",
		Text:    "observed gathering",
		Creator: "user-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "note/assigned", id)

	assert.Equal(t, "message", gotBody["type"])
	assert.Equal(t, "field note", gotBody["title"])
	assert.Equal(t, "observed gathering", gotBody["BodyText"])
	assert.NotContains(t, gotBody, "@id", "store assigns the id")
	assert.NotEmpty(t, gotBody["time"], "empty time is filled on create")
}

func TestCreate_MissingIDInResponse(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	})
	client := newTestClient(t, handler, 10)

	_, err := client.Create(context.Background(), &entities.Note{Title: "x"})

	assert.ErrorIs(t, err, rerum.ErrMissingID)
}

func TestOverwrite_SendsFullDocument(t *testing.T) {
	var gotBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/overwrite", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
	})
	client := newTestClient(t, handler, 10)

	err := client.Overwrite(context.Background(), &entities.Note{
		ID:    "note/7",
		Title: "updated",
		Time:  "2024-01-01T00:00:00Z",
	})

	require.NoError(t, err)
	assert.Equal(t, "note/7", gotBody["@id"])
	assert.Equal(t, "updated", gotBody["title"])
}

func TestOverwrite_StatusError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	client := newTestClient(t, handler, 10)

	err := client.Overwrite(context.Background(), &entities.Note{ID: "note/7"})

	var statusErr *rerum.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Status)
}

func TestDelete_NoContentIsTheOnlySuccess(t *testing.T) {
	var gotBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/delete", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	})
	client := newTestClient(t, handler, 10)

	err := client.Delete(context.Background(), "note/7", "user-1")

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"type":    "message",
		"creator": "user-1",
		"@id":     "note/7",
	}, gotBody)
}

func TestDelete_UnexpectedStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "ok is not enough", status: http.StatusOK},
		{name: "forbidden", status: http.StatusForbidden},
		{name: "not found", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})
			client := newTestClient(t, handler, 10)

			err := client.Delete(context.Background(), "note/7", "user-1")

			var statusErr *rerum.StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.Status)
			assert.Equal(t, "delete", statusErr.Op)
		})
	}
}

// statefulStoreHandler keeps created documents in memory so a sequence of
// operations can be observed end to end.
func statefulStoreHandler(t *testing.T) http.Handler {
	t.Helper()

	var mu sync.Mutex
	docs := make(map[string]map[string]any)
	nextID := 0

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch r.URL.Path {
		case "/create":
			nextID++
			id := fmt.Sprintf("note/%d", nextID)
			body["@id"] = id
			docs[id] = body
			w.WriteHeader(http.StatusCreated)
			require.NoError(t, json.NewEncoder(w).Encode(map[string]string{"@id": id}))
		case "/overwrite":
			id, _ := body["@id"].(string)
			_, known := docs[id]
			require.True(t, known, "overwrite of unknown document %q", id)
			docs[id] = body
		case "/query":
			page := make([]map[string]any, 0)
			for _, doc := range docs {
				if creator, ok := body["creator"]; ok && doc["creator"] != creator {
					continue
				}
				page = append(page, doc)
			}
			require.NoError(t, json.NewEncoder(w).Encode(page))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})
}

func TestCreateOverwriteFetchRoundTrip(t *testing.T) {
	client := newTestClient(t, statefulStoreHandler(t), 10)
	ctx := context.Background()

	id, err := client.Create(ctx, &entities.Note{
		Title:   "field note",
		Text:    "original",
		Creator: "user-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, client.Overwrite(ctx, &entities.Note{
		ID:      id,
		Title:   "field note",
		Text:    "modified",
		Creator: "user-1",
		Time:    "2024-01-01T00:00:00Z",
	}))

	notes, err := client.FetchAll(ctx, api.OwnerScope("user-1"))

	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, id, notes[0].ID)
	assert.Equal(t, "modified", notes[0].Text)
	assert.Equal(t, "user-1", notes[0].Creator)
}

func TestCreateOverwriteFetch_OtherOwnersAreFilteredOut(t *testing.T) {
	client := newTestClient(t, statefulStoreHandler(t), 10)
	ctx := context.Background()

	_, err := client.Create(ctx, &entities.Note{Title: "mine", Creator: "user-1"})
	require.NoError(t, err)
	_, err = client.Create(ctx, &entities.Note{Title: "theirs", Creator: "user-2"})
	require.NoError(t, err)

	notes, err := client.FetchAll(ctx, api.OwnerScope("user-1"))

	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "mine", notes[0].Title)
}

func TestNewClient_NonPositivePageSizeFallsBackToDefault(t *testing.T) {
	var limits []string
	requests := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		limits = append(limits, r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[{"@id":"note/1","type":"message"}]`))
	})
	client := newTestClient(t, handler, 0)

	notes, err := client.FetchAll(context.Background(), api.GlobalScope())

	require.NoError(t, err)
	assert.Len(t, notes, 1)
	// A limit=0 page would never be short and the loop would spin forever.
	assert.Equal(t, 1, requests)
	assert.Equal(t, []string{"150"}, limits)
}

func TestFetchAll_ContextCancellation(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})
	client := newTestClient(t, handler, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchAll(ctx, api.GlobalScope())

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
