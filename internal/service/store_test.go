package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/notekeeper/internal/apperror"
	"github.com/sakif/notekeeper/internal/repository"
)

// =========================================================================
// CREATE
// =========================================================================

func TestCreate_Success(t *testing.T) {
	s, kv := newTestStore(t)

	note, err := s.Create(context.Background(), "Groceries", "Milk, eggs", []string{"home"})
	require.NoError(t, err)
	require.NotNil(t, note)

	assert.Equal(t, "note-1", note.ID)
	assert.Equal(t, "Groceries", note.Title)
	assert.Equal(t, "Milk, eggs", note.Content)
	assert.Equal(t, []string{"home"}, note.Tags)
	assert.False(t, note.IsPinned)
	assert.Equal(t, note.CreatedAt, note.UpdatedAt, "UpdatedAt must equal CreatedAt until the first edit")
	assert.Equal(t, 1, kv.saves)
	assert.Equal(t, 1, s.Len())
}

func TestCreate_KeepsTitleAndContentAsGiven(t *testing.T) {
	s, _ := newTestStore(t)

	note, err := s.Create(context.Background(), "  spaced  ", "\tbody\n", nil)
	require.NoError(t, err)

	assert.Equal(t, "  spaced  ", note.Title)
	assert.Equal(t, "\tbody\n", note.Content)
	assert.NotNil(t, note.Tags)
	assert.Empty(t, note.Tags)
}

func TestCreate_OnlyOneFieldNeeded(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "title only", "", nil)
	require.NoError(t, err)
	_, err = s.Create(ctx, "", "content only", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
}

func TestCreate_DeduplicatesTags(t *testing.T) {
	s, _ := newTestStore(t)

	note, err := s.Create(context.Background(), "t", "", []string{"a", " b ", "a", "", "B"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "B"}, note.Tags)
}

func TestCreate_UniqueIDs(t *testing.T) {
	kv := newFakeKV()
	s := NewNoteStore(kv, testLogger(), newStepClock().Now, NewXID)

	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		note, err := s.Create(context.Background(), "n", "", nil)
		require.NoError(t, err)
		require.False(t, seen[note.ID], "duplicate id %s", note.ID)
		seen[note.ID] = true
	}
}

func TestCreate_RejectsReusedID(t *testing.T) {
	kv := newFakeKV()
	s := NewNoteStore(kv, testLogger(), newStepClock().Now, func() string { return "same" })
	ctx := context.Background()

	_, err := s.Create(ctx, "first", "", nil)
	require.NoError(t, err)

	_, err = s.Create(ctx, "second", "", nil)
	assert.Error(t, err)
	assert.Equal(t, 1, s.Len())
}

// =========================================================================
// BLANK GUARD
// =========================================================================

func TestBlankGuard_LeavesCollectionUnchanged(t *testing.T) {
	blanks := []struct {
		name    string
		title   string
		content string
	}{
		{"both empty", "", ""},
		{"spaces", "   ", "  "},
		{"tabs and newlines", "\t", "\n\r\n"},
		{"unicode space", "\u3000", "\u00a0"},
	}

	for _, tt := range blanks {
		t.Run(tt.name, func(t *testing.T) {
			s, kv := newTestStore(t)
			ctx := context.Background()

			existing, err := s.Create(ctx, "keep", "me", []string{"x"})
			require.NoError(t, err)
			before := s.Notes()
			savesBefore := kv.saves

			created, err := s.Create(ctx, tt.title, tt.content, []string{"tag"})
			require.NoError(t, err)
			assert.Nil(t, created)

			updated, err := s.Update(ctx, existing.ID, tt.title, tt.content, nil)
			require.NoError(t, err)
			assert.Nil(t, updated)

			assert.Equal(t, before, s.Notes())
			assert.Equal(t, savesBefore, kv.saves, "a skipped mutation must not persist")
		})
	}
}

// =========================================================================
// UPDATE
// =========================================================================

func TestUpdate_ReplacesFieldsKeepsCreatedAndPin(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	original, err := s.Create(ctx, "old", "old body", []string{"a"})
	require.NoError(t, err)
	require.NoError(t, s.TogglePin(ctx, original.ID))

	updated, err := s.Update(ctx, original.ID, "new", "new body", []string{"b", "c"})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, "new body", updated.Content)
	assert.Equal(t, []string{"b", "c"}, updated.Tags)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.IsPinned)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	assert.Equal(t, 3, kv.saves)
}

func TestUpdate_NotFound(t *testing.T) {
	s, kv := newTestStore(t)

	_, err := s.Update(context.Background(), "nonexistent", "title", "body", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.Equal(t, 0, kv.saves)
}

func TestUpdate_ClockBehindCreatedAt(t *testing.T) {
	clock := newStepClock()
	s := NewNoteStore(newFakeKV(), testLogger(), clock.Now, counterIDs())
	ctx := context.Background()

	created, err := s.Create(ctx, "t", "", nil)
	require.NoError(t, err)

	clock.t = created.CreatedAt.AddDate(0, 0, -1)

	updated, err := s.Update(ctx, created.ID, "t2", "", nil)
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

// =========================================================================
// DELETE & PIN
// =========================================================================

func TestDelete_Idempotent(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	a, _ := s.Create(ctx, "a", "", nil)
	b, _ := s.Create(ctx, "b", "", nil)

	require.NoError(t, s.Delete(ctx, a.ID))
	once := s.Notes()

	require.NoError(t, s.Delete(ctx, a.ID))
	assert.Equal(t, once, s.Notes())
	assert.Equal(t, []string{b.ID}, ids(s.Notes()))

	// both deletes persisted, even the one that removed nothing
	assert.Equal(t, 4, kv.saves)
}

func TestTogglePin_EvenTimesRestores(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	note, _ := s.Create(ctx, "a", "", nil)

	for i := 1; i <= 4; i++ {
		require.NoError(t, s.TogglePin(ctx, note.ID))
		got, err := s.Get(note.ID)
		require.NoError(t, err)
		assert.Equal(t, i%2 == 1, got.IsPinned, "after %d toggles", i)
	}
}

func TestTogglePin_DoesNotTouchUpdatedAt(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	note, _ := s.Create(ctx, "a", "", nil)
	require.NoError(t, s.TogglePin(ctx, note.ID))

	got, _ := s.Get(note.ID)
	assert.Equal(t, note.UpdatedAt, got.UpdatedAt)
}

func TestTogglePin_MissingIsNotAnError(t *testing.T) {
	s, kv := newTestStore(t)

	require.NoError(t, s.TogglePin(context.Background(), "ghost"))
	assert.Equal(t, 1, kv.saves)
}

// =========================================================================
// COPIES & PERSISTENCE
// =========================================================================

func TestNotes_ReturnsCopies(t *testing.T) {
	s, _ := newTestStore(t)
	note, _ := s.Create(context.Background(), "a", "", []string{"x"})

	list := s.Notes()
	list[0].Title = "mutated"
	list[0].Tags[0] = "mutated"

	got, _ := s.Get(note.ID)
	assert.Equal(t, "a", got.Title)
	assert.Equal(t, []string{"x"}, got.Tags)
}

func TestPersist_RoundTrip(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	_, _ = s.Create(ctx, "Groceries", "Milk, eggs", nil)
	b, _ := s.Create(ctx, "Work", "Finish report", []string{"job", "q2"})
	require.NoError(t, s.TogglePin(ctx, b.ID))

	reloaded := NewNoteStore(kv, testLogger(), newStepClock().Now, counterIDs())
	require.NoError(t, reloaded.Load(ctx))

	assert.Equal(t, s.Notes(), reloaded.Notes())
}

func TestPersist_SaveFailure(t *testing.T) {
	s, kv := newTestStore(t)
	kv.saveErr = errDiskFull

	_, err := s.Create(context.Background(), "a", "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errDiskFull))
}

func TestPersist_SaveFailureRollsBack(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(s *NoteStore, id string) error
	}{
		{
			name: "create",
			mutate: func(s *NoteStore, _ string) error {
				_, err := s.Create(ctx, "new", "", nil)
				return err
			},
		},
		{
			name: "update",
			mutate: func(s *NoteStore, id string) error {
				_, err := s.Update(ctx, id, "changed", "changed", []string{"x"})
				return err
			},
		},
		{
			name: "delete",
			mutate: func(s *NoteStore, id string) error {
				return s.Delete(ctx, id)
			},
		},
		{
			name: "toggle pin",
			mutate: func(s *NoteStore, id string) error {
				return s.TogglePin(ctx, id)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, kv := newTestStore(t)
			existing, err := s.Create(ctx, "kept", "as is", []string{"home"})
			require.NoError(t, err)
			before := s.Notes()
			saved := kv.data[repository.NotesKey]

			kv.saveErr = context.Canceled
			err = tt.mutate(s, existing.ID)

			require.Error(t, err)
			assert.True(t, errors.Is(err, context.Canceled))
			assert.Equal(t, before, s.Notes())
			assert.Equal(t, saved, kv.data[repository.NotesKey])
		})
	}
}

func TestPersist_SurvivesCancelledCaller(t *testing.T) {
	s, kv := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	note, err := s.Create(ctx, "a", "", nil)
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, 1, kv.saves)
	assert.Contains(t, kv.data[repository.NotesKey], note.ID)
}

func TestLoad_NothingStored(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 0, s.Len())
}

func TestLoad_MalformedIsEmpty(t *testing.T) {
	s, kv := newTestStore(t)
	kv.data[repository.NotesKey] = "{not json"

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 0, s.Len())
}

func TestLoad_MediumFailure(t *testing.T) {
	s, kv := newTestStore(t)
	kv.loadErr = errDiskFull

	err := s.Load(context.Background())
	assert.True(t, errors.Is(err, errDiskFull))
}

func TestLoad_LegacyRecordsRewrittenOnNextSave(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	kv.data[repository.NotesKey] = `[{"id":1714554000000,"title":"Old","content":"from the browser",` +
		`"tags":["home"],"createdAt":"5/1/2024, 9:00:00 AM","updatedAt":"5/1/2024, 9:00:00 AM","isPinned":true}]`

	require.NoError(t, s.Load(ctx))
	require.Equal(t, 1, s.Len())

	_, err := s.Create(ctx, "New", "", nil)
	require.NoError(t, err)

	raw := kv.data[repository.NotesKey]
	assert.Contains(t, raw, `"id":"1714554000000"`)
	assert.NotContains(t, raw, "AM")
}
