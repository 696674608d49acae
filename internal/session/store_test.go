package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()

	_, ok := store.Get()
	assert.False(t, ok, "empty store should report no pair")

	pair := TokenPair{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(15 * time.Minute),
	}
	store.Set(pair)

	got, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, pair, got)

	store.Clear()
	_, ok = store.Get()
	assert.False(t, ok)

	// Clearing an already-empty store is a no-op, not an error.
	store.Clear()
	_, ok = store.Get()
	assert.False(t, ok)
}

func TestMemoryStoreIgnoresZeroPair(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	store.Set(TokenPair{})

	_, ok := store.Get()
	assert.False(t, ok, "a zero pair should read back as absent")
}

func TestFileStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	_, ok := store.Get()
	assert.False(t, ok)

	pair := TokenPair{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(15 * time.Minute).UTC().Truncate(time.Second),
	}
	store.Set(pair)

	got, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, pair.AccessToken, got.AccessToken)
	assert.Equal(t, pair.RefreshToken, got.RefreshToken)

	store.Clear()
	_, ok = store.Get()
	assert.False(t, ok)

	store.Clear()
}

func TestFileStoreMalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, ok := store.Get()
	assert.False(t, ok, "malformed persisted state should read as absent")
}
