package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidImage = errors.New("invalid image")

var allowedImageTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// DecodeDataURI parses "data:image/<type>;base64,<payload>".
func DecodeDataURI(uri string) (data []byte, contentType, ext string, err error) {
	header, payload, ok := strings.Cut(uri, ";base64,")
	if !ok || !strings.HasPrefix(header, "data:") {
		return nil, "", "", ErrInvalidImage
	}

	contentType = strings.ToLower(strings.TrimPrefix(header, "data:"))
	ext, ok = allowedImageTypes[contentType]
	if !ok {
		return nil, "", "", ErrInvalidImage
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, "", "", ErrInvalidImage
	}
	return data, contentType, ext, nil
}

// Upload is a stored image: its object key and public URL.
type Upload struct {
	Key string
	URL string
}

// UploadDataURI decodes a data URI and stores it under prefix/<uuid>.<ext>.
func UploadDataURI(ctx context.Context, store ImageStore, prefix, uri string) (Upload, error) {
	data, contentType, ext, err := DecodeDataURI(uri)
	if err != nil {
		return Upload{}, err
	}

	key := strings.TrimRight(prefix, "/") + "/" + uuid.NewString() + "." + ext
	url, err := store.Put(ctx, key, contentType, data)
	if err != nil {
		return Upload{}, err
	}
	return Upload{Key: key, URL: url}, nil
}
