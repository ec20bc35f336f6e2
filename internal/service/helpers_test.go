package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sakif/notekeeper/internal/model"
)

// =========================================================================
// FAKE KV STORE
// =========================================================================
//
// fakeKV implements repository.KVStore with a map. It also counts saves and can
// be told to fail, which a real medium cannot easily be made to do on demand.

type fakeKV struct {
	data    map[string]string
	saves   int
	loadErr error
	saveErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Load(_ context.Context, key string) (string, bool, error) {
	if f.loadErr != nil {
		return "", false, f.loadErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

// Save fails on a cancelled context the way a database driver does.
func (f *fakeKV) Save(ctx context.Context, key, value string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.saves++
	f.data[key] = value
	return nil
}

func (f *fakeKV) Close() error { return nil }

var errDiskFull = errors.New("disk full")

// =========================================================================
// CLOCK & IDS
// =========================================================================

// stepClock starts at a fixed instant and moves forward one minute per call,
// so every create/update gets a distinct, predictable timestamp.
type stepClock struct {
	t time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func counterIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("note-%d", n)
	}
}

// =========================================================================
// CONSTRUCTORS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestStore(t *testing.T) (*NoteStore, *fakeKV) {
	t.Helper()
	kv := newFakeKV()
	return NewNoteStore(kv, testLogger(), newStepClock().Now, counterIDs()), kv
}

func newTestEngine(t *testing.T, kv *fakeKV) *Engine {
	t.Helper()
	e, err := NewEngine(context.Background(), kv, testLogger(),
		WithClock(newStepClock().Now),
		WithIDGenerator(counterIDs()),
	)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func ids(notes []model.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}
