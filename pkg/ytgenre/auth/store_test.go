package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissingFile(t *testing.T) {
	store := &FileStore{Path: filepath.Join(t.TempDir(), "token.json")}

	token, found, err := store.Load()
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, token.AccessToken)
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	store := &FileStore{Path: filepath.Join(t.TempDir(), "nested", "token.json")}

	saved := StoredToken{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Scopes:       []string{ScopeYouTubeReadonly},
		Expiry:       time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		IDToken:      "id-token",
	}
	require.NoError(t, store.Save(saved))

	loaded, found, err := store.Load()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, saved, loaded)
}

func TestFileStore_SaveRestrictsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := &FileStore{Path: path}
	require.NoError(t, store.Save(StoredToken{AccessToken: "secret"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := &FileStore{Path: path}
	_, _, err := store.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse token file")
}

func TestFileStore_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := &FileStore{Path: path}
	require.NoError(t, store.Save(StoredToken{AccessToken: "x"}))

	require.NoError(t, store.Delete())
	_, found, err := store.Load()
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting a missing token is not an error.
	require.NoError(t, store.Delete())
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name     string
		backend  string
		path     string
		wantErr  bool
		wantType any
	}{
		{name: "default is file", backend: "", path: "token.json", wantType: &FileStore{}},
		{name: "explicit file", backend: StorageFile, path: "token.json", wantType: &FileStore{}},
		{name: "keyring", backend: StorageKeyring, wantType: &KeyringStore{}},
		{name: "file without path", backend: StorageFile, wantErr: true},
		{name: "unknown backend", backend: "vault", path: "token.json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.backend, tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, store)
		})
	}
}
