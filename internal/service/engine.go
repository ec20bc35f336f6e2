package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/repository"
)

// Engine is the single entry point presentation code drives.
//
// It owns the note collection, the draft buffer, the current search query and
// the theme preference. Everything it knows comes from the injected KVStore at
// construction time; everything it changes goes back to it right away.
type Engine struct {
	kv     repository.KVStore
	logger *slog.Logger
	store  *NoteStore
	draft  *DraftEditor
	query  string
	theme  model.Theme
}

// Option customises an Engine at construction.
type Option func(*engineOptions)

type engineOptions struct {
	clock Clock
	ids   IDGenerator
}

// WithClock replaces the wall clock used for CreatedAt/UpdatedAt.
func WithClock(c Clock) Option {
	return func(o *engineOptions) { o.clock = c }
}

// WithIDGenerator replaces xid-based note IDs.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *engineOptions) { o.ids = g }
}

// NewEngine builds an engine and loads the persisted notes and theme once.
//
// Malformed stored data is not an error: it is logged and replaced by an
// empty collection or the light theme. Only a failing storage medium makes
// NewEngine return an error.
func NewEngine(ctx context.Context, kv repository.KVStore, logger *slog.Logger, opts ...Option) (*Engine, error) {
	o := engineOptions{clock: SystemClock, ids: NewXID}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		kv:     kv,
		logger: logger,
		store:  NewNoteStore(kv, logger, o.clock, o.ids),
		draft:  NewDraftEditor(),
	}

	if err := e.store.Load(ctx); err != nil {
		return nil, err
	}
	if err := e.loadTheme(ctx); err != nil {
		return nil, err
	}

	logger.Info("engine ready",
		slog.Int("notes", e.store.Len()),
		slog.String("theme", e.theme.Name()),
	)
	return e, nil
}

// =========================================================================
// NOTE COMMANDS
// =========================================================================

// Create adds a note. Returns (nil, nil) when title and content are both blank.
func (e *Engine) Create(ctx context.Context, title, content string, tags []string) (*model.Note, error) {
	note, err := e.store.Create(ctx, title, content, tags)
	if err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}
	if note == nil {
		e.logger.Debug("blank note skipped")
		return nil, nil
	}

	e.logger.Info("note created",
		slog.String("id", note.ID),
		slog.String("title", note.Title),
	)
	return note, nil
}

// Update edits a note. Returns (nil, nil) for blank input and
// apperror.ErrNotFound for an unknown id.
func (e *Engine) Update(ctx context.Context, id, title, content string, tags []string) (*model.Note, error) {
	note, err := e.store.Update(ctx, id, title, content, tags)
	if err != nil {
		return nil, fmt.Errorf("updating note: %w", err)
	}
	if note == nil {
		e.logger.Debug("blank update skipped", slog.String("id", id))
		return nil, nil
	}

	e.logger.Info("note updated", slog.String("id", note.ID))
	return note, nil
}

// Delete removes a note; unknown ids are ignored.
func (e *Engine) Delete(ctx context.Context, id string) error {
	_, getErr := e.store.Get(id)
	if err := e.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	if getErr != nil {
		e.logger.Debug("delete skipped, no such note", slog.String("id", id))
		return nil
	}
	e.logger.Info("note deleted", slog.String("id", id))
	return nil
}

// TogglePin flips a note's pin; unknown ids are ignored.
func (e *Engine) TogglePin(ctx context.Context, id string) error {
	if err := e.store.TogglePin(ctx, id); err != nil {
		return fmt.Errorf("toggling pin: %w", err)
	}
	e.logger.Info("note pin toggled", slog.String("id", id))
	return nil
}

// Get returns one note by id.
func (e *Engine) Get(id string) (*model.Note, error) {
	return e.store.Get(id)
}

// Notes returns the whole collection in insertion order.
func (e *Engine) Notes() []model.Note {
	return e.store.Notes()
}

// =========================================================================
// DRAFT COMMANDS
// =========================================================================

// BeginCreate opens an empty create session, discarding any open draft.
func (e *Engine) BeginCreate() {
	e.draft.BeginCreate()
}

// BeginEdit opens an edit session on n.
func (e *Engine) BeginEdit(n model.Note) {
	e.draft.BeginEdit(n)
}

// BeginEditID looks the note up first. Returns apperror.ErrNotFound if it is missing.
func (e *Engine) BeginEditID(id string) error {
	n, err := e.store.Get(id)
	if err != nil {
		return err
	}
	e.draft.BeginEdit(*n)
	return nil
}

// Cancel closes the session without saving anything.
func (e *Engine) Cancel() {
	e.draft.Cancel()
}

// SetDraftTitle replaces the draft title.
func (e *Engine) SetDraftTitle(title string) { e.draft.SetTitle(title) }

// SetDraftContent replaces the draft content.
func (e *Engine) SetDraftContent(content string) { e.draft.SetContent(content) }

// AddTag adds a trimmed, non-duplicate tag to the draft.
func (e *Engine) AddTag(tag string) { e.draft.AddTag(tag) }

// RemoveTag removes tag from the draft, if staged.
func (e *Engine) RemoveTag(tag string) { e.draft.RemoveTag(tag) }

// Commit closes the session and applies the draft: a create when it had no
// target, an update otherwise.
//
// The session closes in every case, including a blank draft (nothing is
// saved and the typed text is gone) and an update whose target disappeared
// (apperror.ErrNotFound is returned). Commit while idle returns (nil, nil).
func (e *Engine) Commit(ctx context.Context) (*model.Note, error) {
	staged, ok := e.draft.Commit()
	if !ok {
		return nil, nil
	}

	if staged.TargetID == "" {
		return e.Create(ctx, staged.Title, staged.Content, staged.Tags)
	}
	return e.Update(ctx, staged.TargetID, staged.Title, staged.Content, staged.Tags)
}

// Draft returns the current buffer.
func (e *Engine) Draft() model.Draft {
	return e.draft.Draft()
}

// Editing reports whether a create/edit session is open.
func (e *Engine) Editing() bool {
	return e.draft.Editing()
}

// =========================================================================
// VIEW & PREFERENCES
// =========================================================================

// SetSearchQuery changes the filter CurrentView applies. It is not persisted.
func (e *Engine) SetSearchQuery(q string) {
	e.query = q
}

// SearchQuery returns the filter currently applied by CurrentView.
func (e *Engine) SearchQuery() string {
	return e.query
}

// CurrentView projects the collection through the current search query.
func (e *Engine) CurrentView() []model.Note {
	return Project(e.store.notes, e.query)
}

// SetThemePreference stores the dark/light choice.
//
// If the save fails the previous preference stays in effect.
func (e *Engine) SetThemePreference(ctx context.Context, dark bool) error {
	theme := model.Theme{Dark: dark}
	if err := e.kv.Save(context.WithoutCancel(ctx), repository.ThemeKey, encodeTheme(theme)); err != nil {
		e.logger.Error("failed to persist theme", slog.String("error", err.Error()))
		return fmt.Errorf("persisting theme: %w", err)
	}
	e.theme = theme
	e.logger.Info("theme changed", slog.String("theme", e.theme.Name()))
	return nil
}

// Theme returns the active theme preference.
func (e *Engine) Theme() model.Theme {
	return e.theme
}

// loadTheme falls back to the light theme when nothing or garbage is stored.
func (e *Engine) loadTheme(ctx context.Context) error {
	raw, found, err := e.kv.Load(ctx, repository.ThemeKey)
	if err != nil {
		return fmt.Errorf("loading theme: %w", err)
	}
	if !found {
		e.theme = model.Theme{}
		return nil
	}

	theme, err := decodeTheme(raw)
	if err != nil {
		e.logger.Warn("stored theme is malformed, using light theme",
			slog.String("key", repository.ThemeKey),
			slog.String("error", err.Error()),
		)
		e.theme = model.Theme{}
		return nil
	}
	e.theme = theme
	return nil
}
