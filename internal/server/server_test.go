package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/repository/memory"
	"github.com/sakif/notekeeper/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	kv := memory.New()
	engine, err := service.NewEngine(context.Background(), kv, logger)
	require.NoError(t, err)

	ts := httptest.NewServer(New(Config{Port: 0, Backend: "memory"}, engine, kv, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) *http.Response {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func viewTitles(t *testing.T, resp *http.Response) []string {
	t.Helper()
	var titles []string
	for _, n := range decodeBody[[]model.Note](t, resp) {
		titles = append(titles, n.Title)
	}
	return titles
}

// TestServer_Scenario runs the reference flow through the real router:
// create A and B, pin A, search "milk", delete B.
func TestServer_Scenario(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodPost, "/api/notes", `{"title":"Groceries","content":"Milk, eggs"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	a := decodeBody[model.Note](t, resp)

	resp = do(t, ts, http.MethodPost, "/api/notes", `{"title":"Work","content":"Finish report"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	b := decodeBody[model.Note](t, resp)

	assert.Equal(t, []string{"Work", "Groceries"}, viewTitles(t, do(t, ts, http.MethodGet, "/api/notes", "")))

	resp = do(t, ts, http.MethodPost, "/api/notes/"+a.ID+"/pin", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []string{"Groceries", "Work"}, viewTitles(t, do(t, ts, http.MethodGet, "/api/notes", "")))

	assert.Equal(t, []string{"Groceries"}, viewTitles(t, do(t, ts, http.MethodPut, "/api/search", `{"query":"milk"}`)))
	assert.Equal(t, []string{"Groceries", "Work"}, viewTitles(t, do(t, ts, http.MethodGet, "/api/notes?q=", "")))

	resp = do(t, ts, http.MethodDelete, "/api/notes/"+b.ID, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []string{"Groceries"}, viewTitles(t, do(t, ts, http.MethodGet, "/api/notes", "")))
}

func TestServer_DraftRoutes(t *testing.T) {
	ts := newTestServer(t)

	require.Equal(t, http.StatusOK, do(t, ts, http.MethodPost, "/api/draft", "").StatusCode)
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodPatch, "/api/draft", `{"title":"Plan"}`).StatusCode)
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodPost, "/api/draft/tags", `{"tag":"a/b"}`).StatusCode)
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodPost, "/api/draft/tags", `{"tag":"keep"}`).StatusCode)

	resp := do(t, ts, http.MethodDelete, "/api/draft/tags/a%2Fb", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, ts, http.MethodPost, "/api/draft/commit", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	note := decodeBody[model.Note](t, resp)
	assert.Equal(t, []string{"keep"}, note.Tags)

	resp = do(t, ts, http.MethodPost, "/api/draft/edit/"+note.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, http.StatusNoContent, do(t, ts, http.MethodDelete, "/api/draft", "").StatusCode)

	assert.Equal(t, http.StatusNotFound, do(t, ts, http.MethodPost, "/api/draft/edit/ghost", "").StatusCode)
}

func TestServer_ThemeAndState(t *testing.T) {
	ts := newTestServer(t)

	require.Equal(t, http.StatusOK, do(t, ts, http.MethodPut, "/api/theme", `{"dark":true}`).StatusCode)

	resp := do(t, ts, http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state struct {
		Notes []model.Note `json:"notes"`
		Dark  bool         `json:"dark"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.True(t, state.Dark)
	assert.NotNil(t, state.Notes)
}

func TestServer_RequestIDHeaderIsAccepted(t *testing.T) {
	ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/theme", nil)
	req.Header.Set("X-Request-Id", "abc")
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_UnknownRoute(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, do(t, ts, http.MethodGet, "/api/nope", "").StatusCode)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, ts, http.MethodPatch, "/api/theme", "").StatusCode)
}

// Many clients creating notes at once must all land, each with its own id.
func TestServer_ConcurrentCreates(t *testing.T) {
	ts := newTestServer(t)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/notes", bytes.NewBufferString(`{"title":"n"}`))
			resp, err := ts.Client().Do(req)
			if err == nil {
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	notes := decodeBody[[]model.Note](t, do(t, ts, http.MethodGet, "/api/notes", ""))
	assert.Len(t, notes, n)

	seen := make(map[string]bool)
	for _, note := range notes {
		seen[note.ID] = true
	}
	assert.Len(t, seen, n)
}
