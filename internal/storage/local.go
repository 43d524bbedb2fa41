package storage

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// LocalStore writes images to a directory on disk and serves them from
// /images/{name}.
type LocalStore struct {
	dir string
}

var _ ImageStore = (*LocalStore)(nil)

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the image under a fresh name and returns its serving path.
func (s *LocalStore) Save(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	name, err := objectName(filename, contentType)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("writing image: %w", err)
	}

	return "/images/" + name, nil
}

// Handler serves the stored images. Mounted at /images/ when the local
// backend is active.
func (s *LocalStore) Handler() http.Handler {
	return http.StripPrefix("/images/", http.FileServer(http.Dir(s.dir)))
}
