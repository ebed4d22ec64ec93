package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FSStore keeps blobs as UTF-8 files under a root directory. Blob names are
// interpreted as root-relative paths.
type FSStore struct {
	root string
}

// NewFSStore creates a store rooted at dir.
func NewFSStore(dir string) *FSStore {
	return &FSStore{root: dir}
}

func (s *FSStore) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// ReadText reads a blob, returning ErrNotFound when it does not exist.
func (s *FSStore) ReadText(ctx context.Context, name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("storage: read %s: %w", name, err)
	}
	return string(data), nil
}

// WriteText writes a blob, creating parent directories as needed.
func (s *FSStore) WriteText(ctx context.Context, name, content string) error {
	p := s.path(name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir for %s: %w", name, err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", name, err)
	}
	return nil
}

// DeleteText removes a blob, returning ErrNotFound when it does not exist.
func (s *FSStore) DeleteText(ctx context.Context, name string) error {
	err := os.Remove(s.path(name))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", name, err)
	}
	return nil
}

// Close implements Store. The filesystem store holds no resources.
func (s *FSStore) Close() error { return nil }

var _ Store = (*FSStore)(nil)
