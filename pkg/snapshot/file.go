package snapshot

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vango-dev/minifiber/internal/errors"
)

// FileStore keeps snapshots as <key>.html files in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore, creating dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.New("E150").WithDetail(dir).Wrap(err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory snapshots are written to.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".html")
}

// Put implements Store.
func (s *FileStore) Put(_ context.Context, key string, html []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := os.WriteFile(s.path(key), html, 0o644); err != nil {
		return errors.New("E150").WithDetail(key).Wrap(err)
	}
	return nil
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, errors.New("E151").WithDetail(key)
	}
	if err != nil {
		return nil, errors.New("E150").WithDetail(key).Wrap(err)
	}
	return data, nil
}
