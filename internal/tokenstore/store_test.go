package tokenstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/twinhealth/healthdash/pkg/model"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := Open(dir, zap.NewNop())
	require.NoError(t, err)
	return store, dir
}

func TestOpen_RequiresDirectory(t *testing.T) {
	_, err := Open("", zap.NewNop())
	assert.Error(t, err)
}

func TestOpen_CreatesDirectoryAndKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := Open(dir, zap.NewNop())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	keyInfo, err := os.Stat(filepath.Join(dir, "credentials.key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), keyInfo.Mode().Perm())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, store.Save(model.Tokens{Access: "acc-1", Refresh: "ref-1"}))

	tokens, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "acc-1", tokens.Access)
	assert.Equal(t, "ref-1", tokens.Refresh)

	info, err := os.Stat(filepath.Join(dir, "credentials.enc"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSave_EncryptsAtRest(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, store.Save(model.Tokens{Access: "secret-access-token", Refresh: "secret-refresh-token"}))

	raw, err := os.ReadFile(filepath.Join(dir, "credentials.enc"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-access-token")
	assert.NotContains(t, string(raw), "secret-refresh-token")
}

func TestLoad_EmptyStore(t *testing.T) {
	store, _ := newTestStore(t)

	tokens, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, tokens)
}

func TestClear(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(model.Tokens{Access: "a", Refresh: "r"}))
	require.NoError(t, store.Clear())

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing again is a no-op.
	require.NoError(t, store.Clear())
}

func TestReopen_ReusesKey(t *testing.T) {
	store, dir := newTestStore(t)
	require.NoError(t, store.Save(model.Tokens{Access: "persisted", Refresh: "pair"}))

	reopened, err := Open(dir, zap.NewNop())
	require.NoError(t, err)

	tokens, ok, err := reopened.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "persisted", tokens.Access)
}

func TestOpen_CorruptKey(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.key"), []byte("short"), 0o600))

	_, err := Open(dir, zap.NewNop())
	assert.Error(t, err)
}

func TestSave_OverwritesPreviousPair(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(model.Tokens{Access: "old", Refresh: "old-r"}))
	require.NoError(t, store.Save(model.Tokens{Access: "new", Refresh: "new-r"}))

	tokens, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", tokens.Access)
	assert.Equal(t, "new-r", tokens.Refresh)
}
