package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	// Missing key
	_, ok, err := store.Get("favorites")
	require.NoError(t, err)
	assert.False(t, ok)

	// Set then get
	require.NoError(t, store.Set("favorites", "[1,7,25]"))
	val, ok, err := store.Get("favorites")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[1,7,25]", val)

	// Overwrite
	require.NoError(t, store.Set("favorites", "[]"))
	val, ok, err = store.Get("favorites")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", val)
}

func TestDelete(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("k", "v"))
	require.NoError(t, store.Delete("k"))

	_, ok, err := store.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing key is fine.
	require.NoError(t, store.Delete("k"))
}

func TestPersistsAcrossOpens(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "dexview.db")

	store, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Set("favorites", "[4]"))
	require.NoError(t, store.Close())

	store, err = Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	val, ok, err := store.Get("favorites")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[4]", val)
}
