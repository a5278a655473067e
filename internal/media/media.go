// Package media stores recipe images and decodes inline data-URI uploads.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ImageDir is the key prefix every recipe image is stored under
const ImageDir = "recipes/images"

// ErrInvalidImage is returned for data URIs that cannot be decoded
var ErrInvalidImage = errors.New("invalid image")

// Store persists image bytes under a key and resolves keys to public URLs
type Store interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Image is a decoded upload ready to be stored
type Image struct {
	Ext         string
	ContentType string
	Data        []byte
}

var extPattern = regexp.MustCompile(`^[a-z0-9.+-]{1,16}$`)

// DecodeDataURI decodes "data:image/<ext>;base64,<payload>"
func DecodeDataURI(uri string) (*Image, error) {
	header, payload, ok := strings.Cut(uri, ";base64,")
	if !ok || !strings.HasPrefix(header, "data:image/") {
		return nil, fmt.Errorf("%w: expected data:image/<ext>;base64,<payload>", ErrInvalidImage)
	}
	ext := strings.ToLower(strings.TrimPrefix(header, "data:image/"))
	if !extPattern.MatchString(ext) {
		return nil, fmt.Errorf("%w: bad image type %q", ErrInvalidImage, ext)
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	return &Image{Ext: fileExt(ext), ContentType: "image/" + ext, Data: data}, nil
}

// FromUpload wraps raw uploaded bytes whose type is known only by file
// extension, e.g. ".png" from a multipart filename.
func FromUpload(ext string, data []byte) (*Image, error) {
	subtype := strings.ToLower(strings.TrimPrefix(ext, "."))
	if subtype == "jpg" {
		subtype = "jpeg"
	}
	if !extPattern.MatchString(subtype) {
		return nil, fmt.Errorf("%w: bad image type %q", ErrInvalidImage, ext)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", ErrInvalidImage)
	}
	return &Image{Ext: fileExt(subtype), ContentType: "image/" + subtype, Data: data}, nil
}

// fileExt maps a MIME subtype to the extension used on disk
func fileExt(subtype string) string {
	switch subtype {
	case "jpeg":
		return "jpg"
	case "svg+xml":
		return "svg"
	}
	return subtype
}

// NewKey generates a fresh storage key for an image with the given extension
func NewKey(ext string) string {
	return path.Join(ImageDir, uuid.NewString()+"."+ext)
}

// SaveImage stores img under a generated key and returns the key
func SaveImage(ctx context.Context, store Store, img *Image) (string, error) {
	key := NewKey(img.Ext)
	if err := store.Save(ctx, key, img.Data, img.ContentType); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return key, nil
}
