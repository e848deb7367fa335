package storage

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned when a key does not exist in the store
var ErrBlobNotFound = errors.New("blob not found")

// BlobStorage reads and writes raw image bytes by key
type BlobStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores data under key and returns a URL (or path) for it
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Location returns the URL (or path) of key without touching the store
	Location(key string) (string, error)
}
