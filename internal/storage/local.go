package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/mambagroup/inventory-backend/internal/constants"
)

// LocalStore writes images below a directory and serves them under UploadsPath.
type LocalStore struct {
	dir       string
	publicURL string
}

// NewLocalStore creates the directory if needed. An empty publicURL serves
// files relative to the API host.
func NewLocalStore(dir, publicURL string) (*LocalStore, error) {
	if dir == "" {
		dir = constants.DefaultLocalUploadDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if publicURL == "" {
		publicURL = constants.UploadsPath
	}
	return &LocalStore{dir: dir, publicURL: publicURL}, nil
}

// Put writes body to key and returns its public URL.
func (s *LocalStore) Put(_ context.Context, key, _ string, body io.Reader, size int64) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	target := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	file, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}

	written, err := io.Copy(file, body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	if size > 0 && written != size {
		log.Warn().Str("key", key).Int64("expected", size).Int64("written", written).Msg("Image size mismatch")
	}

	return joinURL(s.publicURL, key), nil
}

// Delete removes key. Missing files are not an error.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}

	err = os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image file: %w", err)
	}
	return nil
}

// Handler serves stored files. Mount it at UploadsPath.
func (s *LocalStore) Handler() http.Handler {
	return http.StripPrefix(constants.UploadsPath, http.FileServer(http.Dir(s.dir)))
}
