package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

const (
	StorageFile    = "file"
	StorageKeyring = "keyring"

	keyringService = "ytgenre"
	keyringUser    = "oauth-token"
)

// TokenStore persists a single credential between runs.
type TokenStore interface {
	Load() (StoredToken, bool, error)
	Save(StoredToken) error
	Delete() error
}

// NewStore builds the configured storage backend. An empty backend selects
// file storage.
func NewStore(backend, path string) (TokenStore, error) {
	switch backend {
	case "", StorageFile:
		if path == "" {
			return nil, errors.New("token file path is required")
		}
		return &FileStore{Path: path}, nil
	case StorageKeyring:
		return &KeyringStore{Service: keyringService, User: keyringUser}, nil
	default:
		return nil, fmt.Errorf("unknown token storage backend: %s", backend)
	}
}

// FileStore keeps the token as JSON on disk, readable only by the owner.
type FileStore struct {
	Path string
}

func (s *FileStore) Load() (StoredToken, bool, error) {
	content, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return StoredToken{}, false, nil
		}
		return StoredToken{}, false, fmt.Errorf("failed to read token file: %w", err)
	}
	var token StoredToken
	if err := json.Unmarshal(content, &token); err != nil {
		return StoredToken{}, false, fmt.Errorf("failed to parse token file: %w", err)
	}
	return token, true, nil
}

func (s *FileStore) Save(token StoredToken) error {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create token dir: %w", err)
		}
	}
	content, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := os.WriteFile(s.Path, content, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete() error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}

// KeyringStore keeps the token in the OS keychain.
type KeyringStore struct {
	Service string
	User    string
}

func (s *KeyringStore) Load() (StoredToken, bool, error) {
	secret, err := keyring.Get(s.Service, s.User)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return StoredToken{}, false, nil
		}
		return StoredToken{}, false, fmt.Errorf("failed to read token from keyring: %w", err)
	}
	var token StoredToken
	if err := json.Unmarshal([]byte(secret), &token); err != nil {
		return StoredToken{}, false, fmt.Errorf("failed to parse keyring token: %w", err)
	}
	return token, true, nil
}

func (s *KeyringStore) Save(token StoredToken) error {
	content, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := keyring.Set(s.Service, s.User, string(content)); err != nil {
		return fmt.Errorf("failed to write token to keyring: %w", err)
	}
	return nil
}

func (s *KeyringStore) Delete() error {
	if err := keyring.Delete(s.Service, s.User); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}
