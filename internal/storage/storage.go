// Package storage persists uploaded recipe images. Two backends are
// provided: local disk (the default, served by this process) and S3.
package storage

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedType is returned for uploads that are not images.
var ErrUnsupportedType = errors.New("only images are allowed")

// ImageStore saves an uploaded image and returns the URL it will be served
// from.
type ImageStore interface {
	Save(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// allowedExtensions mirrors the classic image upload whitelist.
var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".bmp": true, ".svg": true,
}

// objectName builds a collision-free stored name for an upload, keeping the
// original extension. It rejects non-image uploads.
func objectName(filename, contentType string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if !allowedExtensions[ext] || !strings.HasPrefix(contentType, "image/") {
		return "", ErrUnsupportedType
	}
	return uuid.New().String() + ext, nil
}
