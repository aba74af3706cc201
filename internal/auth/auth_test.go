package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eshaffer321/wealth-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	store := NewStore(nil)
	saved := store.SetToken("abc123", time.Now().Add(time.Hour))
	require.NoError(t, store.SaveSession(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded := NewStore(nil)
	require.NoError(t, loaded.LoadSession(path))

	session, err := loaded.GetSession()
	require.NoError(t, err)
	assert.Equal(t, "abc123", session.Token)
	assert.Equal(t, saved.DeviceUUID, session.DeviceUUID)
}

func TestStore_SetTokenKeepsDeviceUUID(t *testing.T) {
	store := NewStore(nil)
	first := store.SetToken("one", time.Time{})
	second := store.SetToken("two", time.Time{})

	assert.NotEmpty(t, first.DeviceUUID)
	assert.Equal(t, first.DeviceUUID, second.DeviceUUID)
	assert.Equal(t, "two", second.Token)
}

func TestStore_LoadSession_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		err := NewStore(nil).LoadSession(filepath.Join(dir, "missing.json"))
		assert.ErrorIs(t, err, types.ErrNotAuthenticated)
	})

	t.Run("expired", func(t *testing.T) {
		path := filepath.Join(dir, "expired.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"token":"x","expiresAt":"2001-01-01T00:00:00Z"}`), 0600))

		err := NewStore(nil).LoadSession(path)
		assert.ErrorIs(t, err, types.ErrSessionExpired)
	})

	t.Run("corrupt", func(t *testing.T) {
		path := filepath.Join(dir, "corrupt.json")
		require.NoError(t, os.WriteFile(path, []byte(`{`), 0600))

		err := NewStore(nil).LoadSession(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal session")
	})
}

func TestStore_ClearAndSaveWithoutSession(t *testing.T) {
	store := NewStore(nil)
	store.SetToken("x", time.Time{})
	store.Clear()

	_, err := store.GetSession()
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)
	assert.ErrorIs(t, store.SaveSession(filepath.Join(t.TempDir(), "s.json")), types.ErrNotAuthenticated)
}
