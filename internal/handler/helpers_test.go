package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sakif/notekeeper/internal/handler"
	"github.com/sakif/notekeeper/internal/repository"
	"github.com/sakif/notekeeper/internal/repository/memory"
	"github.com/sakif/notekeeper/internal/service"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

// brokenKV loads fine but refuses every save.
type brokenKV struct{ repository.KVStore }

func (brokenKV) Save(context.Context, string, string) error { return errors.New("disk full") }

func newShared(t *testing.T, kv repository.KVStore) (*handler.SharedEngine, *service.Engine) {
	t.Helper()
	engine, err := service.NewEngine(context.Background(), kv, logger)
	require.NoError(t, err)
	return handler.NewSharedEngine(engine), engine
}

func newMemoryShared(t *testing.T) (*handler.SharedEngine, *service.Engine) {
	t.Helper()
	return newShared(t, memory.New())
}

// newRequest builds a request with an optional JSON body and chi URL params
// given as name/value pairs.
func newRequest(t *testing.T, method, target, body string, params ...string) *http.Request {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(params); i += 2 {
			rctx.URLParams.Add(params[i], params[i+1])
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return req
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v))
	return v
}
