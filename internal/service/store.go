// Package service contains the note management engine.
//
// THE PIECES:
//
//	NoteStore    → the ordered note collection; create/update/delete/pin, persisted after every change
//	Project      → pure filter + sort producing the visible list
//	DraftEditor  → the uncommitted create/edit buffer
//	Engine       → owns one of each plus the search query and theme preference
//
// Presentation code (the HTTP handlers, the CLI) only ever talks to Engine.
//
// SINGLE ACTOR:
// Nothing in this package locks. The engine is driven by one caller at a time;
// callers that may be concurrent (an HTTP server) serialize access themselves.
//
// DEPENDENCY INJECTION:
// Storage arrives as a repository.KVStore interface, time as a Clock and IDs
// as an IDGenerator. Tests pass an in-memory fake, a fixed clock and a counter.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/sakif/notekeeper/internal/apperror"
	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/repository"
)

// NoteStore is the in-memory ordered note collection, mirrored to a KVStore.
//
// Notes keep insertion order; display order is Project's job.
type NoteStore struct {
	kv     repository.KVStore
	logger *slog.Logger
	now    Clock
	newID  IDGenerator
	notes  []model.Note
}

// NewNoteStore creates an empty store. Call Load to read the persisted collection.
func NewNoteStore(kv repository.KVStore, logger *slog.Logger, clock Clock, ids IDGenerator) *NoteStore {
	return &NoteStore{
		kv:     kv,
		logger: logger,
		now:    clock,
		newID:  ids,
		notes:  []model.Note{},
	}
}

// Load replaces the in-memory collection with the persisted one.
//
// ERROR HANDLING:
//   - nothing stored yet          → empty collection, nil error
//   - stored data is malformed    → empty collection, logged at WARN, nil error
//   - the medium itself fails     → error returned, collection untouched
func (s *NoteStore) Load(ctx context.Context) error {
	raw, found, err := s.kv.Load(ctx, repository.NotesKey)
	if err != nil {
		return fmt.Errorf("loading notes: %w", err)
	}
	if !found {
		s.notes = []model.Note{}
		return nil
	}

	notes, dropped, err := decodeNotes(raw)
	if err != nil {
		s.logger.Warn("stored notes are malformed, starting with an empty collection",
			slog.String("key", repository.NotesKey),
			slog.String("error", err.Error()),
		)
		s.notes = []model.Note{}
		return nil
	}
	if dropped > 0 {
		s.logger.Warn("skipped stored notes with a missing id, a repeated id or an unreadable timestamp",
			slog.Int("dropped", dropped),
		)
	}

	s.notes = notes
	s.logger.Debug("notes loaded", slog.Int("count", len(notes)))
	return nil
}

// Notes returns a copy of the collection in insertion order.
func (s *NoteStore) Notes() []model.Note {
	out := make([]model.Note, len(s.notes))
	for i, n := range s.notes {
		out[i] = n.Clone()
	}
	return out
}

// Len reports how many notes are stored.
func (s *NoteStore) Len() int {
	return len(s.notes)
}

// Get returns a copy of the note with the given id.
// Returns apperror.ErrNotFound if no such note exists.
func (s *NoteStore) Get(id string) (*model.Note, error) {
	i := s.index(id)
	if i < 0 {
		return nil, apperror.NotFound("note", id)
	}
	n := s.notes[i].Clone()
	return &n, nil
}

// Create appends a new note and persists the collection.
//
// BLANK GUARD:
// If title and content are both empty after trimming, nothing happens and
// Create returns (nil, nil). That is a skipped mutation, not a failure.
//
// Title and content are stored exactly as given; only the guard trims.
func (s *NoteStore) Create(ctx context.Context, title, content string, tags []string) (*model.Note, error) {
	if isBlank(title, content) {
		return nil, nil
	}

	id := s.newID()
	if s.index(id) >= 0 {
		return nil, fmt.Errorf("creating note: generated id %s is already in use", id)
	}

	now := s.now().UTC()
	note := model.Note{
		ID:        id,
		Title:     title,
		Content:   content,
		Tags:      normalizeTags(tags),
		CreatedAt: now,
		UpdatedAt: now,
		IsPinned:  false,
	}
	before := slices.Clone(s.notes)
	s.notes = append(s.notes, note)

	if err := s.commit(ctx, before); err != nil {
		return nil, err
	}

	out := note.Clone()
	return &out, nil
}

// Update replaces title, content and tags of an existing note and persists.
//
// The same blank guard as Create applies and returns (nil, nil).
// CreatedAt and IsPinned are kept; UpdatedAt moves to now (never earlier
// than CreatedAt, even if the clock went backwards).
// Returns apperror.ErrNotFound if no note has that id.
func (s *NoteStore) Update(ctx context.Context, id, title, content string, tags []string) (*model.Note, error) {
	if isBlank(title, content) {
		return nil, nil
	}

	i := s.index(id)
	if i < 0 {
		return nil, apperror.NotFound("note", id)
	}

	before := slices.Clone(s.notes)
	note := &s.notes[i]
	note.Title = title
	note.Content = content
	note.Tags = normalizeTags(tags)
	note.UpdatedAt = s.now().UTC()
	if note.UpdatedAt.Before(note.CreatedAt) {
		note.UpdatedAt = note.CreatedAt
	}

	out := note.Clone()
	if err := s.commit(ctx, before); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the note with the given id, if present, and persists.
// Deleting an absent id is not an error.
func (s *NoteStore) Delete(ctx context.Context, id string) error {
	before := slices.Clone(s.notes)
	s.notes = slices.DeleteFunc(s.notes, func(n model.Note) bool {
		return n.ID == id
	})
	return s.commit(ctx, before)
}

// TogglePin flips IsPinned on the matching note, if present, and persists.
// Pinning does not count as an edit: UpdatedAt is left alone.
func (s *NoteStore) TogglePin(ctx context.Context, id string) error {
	before := slices.Clone(s.notes)
	if i := s.index(id); i >= 0 {
		s.notes[i].IsPinned = !s.notes[i].IsPinned
	}
	return s.commit(ctx, before)
}

// commit persists the collection, or puts before back if that fails, so the
// in-memory collection never holds a change the medium does not.
func (s *NoteStore) commit(ctx context.Context, before []model.Note) error {
	if err := s.persist(ctx); err != nil {
		s.notes = before
		return err
	}
	return nil
}

// persist writes the whole collection. No batching, no debounce: every
// committed change is one synchronous Save.
//
// The Save runs under context.WithoutCancel: once a mutation is applied, a
// caller that goes away (an HTTP client hanging up) must not abort its write.
func (s *NoteStore) persist(ctx context.Context) error {
	raw, err := encodeNotes(s.notes)
	if err != nil {
		return err
	}

	if err := s.kv.Save(context.WithoutCancel(ctx), repository.NotesKey, raw); err != nil {
		s.logger.Error("failed to persist notes",
			slog.Int("count", len(s.notes)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("persisting notes: %w", err)
	}
	return nil
}

func (s *NoteStore) index(id string) int {
	return slices.IndexFunc(s.notes, func(n model.Note) bool {
		return n.ID == id
	})
}

// isBlank reports whether a note with this title and content must not be stored.
func isBlank(title, content string) bool {
	return strings.TrimSpace(title) == "" && strings.TrimSpace(content) == ""
}
