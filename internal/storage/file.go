package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/garrettladley/whoopy/internal/oauth"
)

const (
	backendFile = "file"
	dirPerm     = 0o700
	filePerm    = 0o600
)

var _ Store = (*FileStore)(nil)

// FileStore keeps the token in a single JSON file readable only by its owner.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(_ context.Context) (*oauth.Token, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, s.fail(OpLoad, fmt.Errorf("%w: %w", ErrNotFound, err))
	}
	if err != nil {
		return nil, s.fail(OpLoad, err)
	}

	token, err := Unmarshal(data)
	if err != nil {
		return nil, s.fail(OpLoad, err)
	}
	return token, nil
}

// Save writes to a temporary file in the same directory and renames it over
// the destination, so readers see either the old or the new token.
func (s *FileStore) Save(_ context.Context, token *oauth.Token) (err error) {
	data, err := Marshal(token)
	if err != nil {
		return s.fail(OpSave, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return s.fail(OpSave, fmt.Errorf("failed to create directory: %w", err))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return s.fail(OpSave, fmt.Errorf("failed to create temp file: %w", err))
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return s.fail(OpSave, fmt.Errorf("failed to write token: %w", err))
	}
	if err = tmp.Sync(); err != nil {
		return s.fail(OpSave, fmt.Errorf("failed to sync token: %w", err))
	}
	if err = tmp.Close(); err != nil {
		return s.fail(OpSave, fmt.Errorf("failed to close token file: %w", err))
	}
	if err = os.Chmod(tmpPath, filePerm); err != nil {
		return s.fail(OpSave, fmt.Errorf("failed to set permissions: %w", err))
	}
	if err = os.Rename(tmpPath, s.path); err != nil {
		return s.fail(OpSave, fmt.Errorf("failed to replace token file: %w", err))
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return s.fail(OpDelete, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) fail(op Op, err error) *StorageError {
	return &StorageError{Op: op, Backend: backendFile, Location: s.path, Err: err}
}
