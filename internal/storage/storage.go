// Package storage persists product images.
//
// Two backends are provided: an S3-compatible bucket for deployments and a
// directory on local disk for development. Both return the public URL of the
// stored object, which is what products reference.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mambagroup/inventory-backend/internal/config"
	"github.com/mambagroup/inventory-backend/internal/constants"
)

var (
	// ErrNotImage is returned for uploads whose content type is not image/*.
	ErrNotImage = errors.New("storage: content type is not an image")

	// ErrTooLarge is returned for uploads above the configured size limit.
	ErrTooLarge = errors.New("storage: image exceeds size limit")

	// ErrInvalidKey is returned for empty keys or keys escaping the store root.
	ErrInvalidKey = errors.New("storage: invalid object key")
)

// ImageStore stores and removes objects by key.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

// New returns the ImageStore configured by settings.Driver.
func New(ctx context.Context, settings *config.StorageSettings) (ImageStore, error) {
	switch settings.Driver {
	case constants.StorageDriverS3:
		return NewS3Store(ctx, settings)
	case constants.StorageDriverLocal, "":
		return NewLocalStore(settings.LocalDir, settings.PublicURL)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", settings.Driver)
	}
}

// ObjectKey builds the key of a new product image: products/{userID}/{uuid}{ext}.
func ObjectKey(userID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return path.Join(constants.ProductImagePrefix, userID, uuid.New().String()+ext)
}

// ValidateImage checks the content type and size of an upload.
func ValidateImage(contentType string, size, maxSize int64) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return ErrNotImage
	}
	if maxSize > 0 && size > maxSize {
		return ErrTooLarge
	}
	return nil
}

// cleanKey normalises a key and rejects anything that would leave the store root.
func cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || cleaned != strings.TrimPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// joinURL appends key to base with exactly one slash between them.
func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
