package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"trainhub-session/internal/models"
)

// FileStore keeps the token pair in a JSON file, the CLI analogue of the
// browser's local storage. Tokens are credentials, so the file is 0600.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed token store at the given path. Parent
// directories are created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context) (*models.TokenPair, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var pair models.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	if pair.Access == "" {
		return nil, ErrNotFound
	}

	return &pair, nil
}

func (s *FileStore) Save(_ context.Context, pair *models.TokenPair) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("failed to encode tokens: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
