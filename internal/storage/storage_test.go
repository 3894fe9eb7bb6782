package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// 1x1 transparent PNG
const pixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

func TestDecodeDataURI(t *testing.T) {
	data, contentType, ext, err := DecodeDataURI(pixelPNG)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contentType != "image/png" || ext != "png" || len(data) == 0 {
		t.Fatalf("unexpected decode result %q %q %d", contentType, ext, len(data))
	}
}

func TestDecodeDataURIRejects(t *testing.T) {
	cases := []string{
		"",
		"not a data uri",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/png;base64,%%%",
		"data:image/png;base64,",
	}
	for _, c := range cases {
		if _, _, _, err := DecodeDataURI(c); !errors.Is(err, ErrInvalidImage) {
			t.Errorf("%q: expected ErrInvalidImage, got %v", c, err)
		}
	}
}

func TestUploadDataURIToLocalStore(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "/media/")

	up, err := UploadDataURI(context.Background(), store, "recipes/images", pixelPNG)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(up.URL, "/media/recipes/images/") || !strings.HasSuffix(up.URL, ".png") {
		t.Fatalf("unexpected url %q", up.URL)
	}
	if up.URL != "/media/"+up.Key {
		t.Fatalf("url %q does not match key %q", up.URL, up.Key)
	}

	path := filepath.Join(root, filepath.FromSlash(up.Key))
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}

	if err := store.Delete(context.Background(), up.Key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file to be removed, stat err=%v", err)
	}
	if err := store.Delete(context.Background(), up.Key); err != nil {
		t.Fatalf("deleting a missing key should succeed, got %v", err)
	}
}
