// Package kvtest holds the behaviour every repository.KVStore implementation must share.
//
// Each backend's own _test.go calls Run with a constructor, so sqlite, redis
// and memory are held to the exact same contract.
package kvtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/notekeeper/internal/repository"
)

// Run exercises newStore against the KVStore contract.
// newStore must return an empty store; Run does not close it.
func Run(t *testing.T, newStore func(t *testing.T) repository.KVStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key is not found", func(t *testing.T) {
		kv := newStore(t)

		value, found, err := kv.Load(ctx, repository.NotesKey)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, value)
	})

	t.Run("save then load", func(t *testing.T) {
		kv := newStore(t)

		require.NoError(t, kv.Save(ctx, repository.ThemeKey, "true"))

		value, found, err := kv.Load(ctx, repository.ThemeKey)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "true", value)
	})

	t.Run("save overwrites", func(t *testing.T) {
		kv := newStore(t)

		require.NoError(t, kv.Save(ctx, repository.NotesKey, "[]"))
		require.NoError(t, kv.Save(ctx, repository.NotesKey, `[{"id":"a"}]`))

		value, found, err := kv.Load(ctx, repository.NotesKey)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `[{"id":"a"}]`, value)
	})

	t.Run("empty value is still found", func(t *testing.T) {
		kv := newStore(t)

		require.NoError(t, kv.Save(ctx, repository.NotesKey, ""))

		_, found, err := kv.Load(ctx, repository.NotesKey)
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("keys are independent", func(t *testing.T) {
		kv := newStore(t)

		require.NoError(t, kv.Save(ctx, repository.NotesKey, "[]"))
		require.NoError(t, kv.Save(ctx, repository.ThemeKey, "false"))

		notes, _, err := kv.Load(ctx, repository.NotesKey)
		require.NoError(t, err)
		theme, _, err := kv.Load(ctx, repository.ThemeKey)
		require.NoError(t, err)

		assert.Equal(t, "[]", notes)
		assert.Equal(t, "false", theme)
	})
}
