package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/anime-shed/spectral-inspector-go/internal/storage"
)

// StorageImageRepository implements ImageRepository on top of an HTTP
// fetcher and a blob store
type StorageImageRepository struct {
	fetcher storage.ImageFetcher
	blobs   storage.BlobStorage
}

// NewStorageImageRepository creates a new image repository. blobs may be
// nil, in which case key based operations report ErrRepositoryUnavailable.
func NewStorageImageRepository(fetcher storage.ImageFetcher, blobs storage.BlobStorage) ImageRepository {
	return &StorageImageRepository{
		fetcher: fetcher,
		blobs:   blobs,
	}
}

// FetchImage retrieves an image from a URL
func (r *StorageImageRepository) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	if r.fetcher == nil {
		return nil, ErrRepositoryUnavailable
	}
	return r.fetcher.FetchImage(ctx, imageURL)
}

// LoadImage retrieves a stored image by key
func (r *StorageImageRepository) LoadImage(ctx context.Context, key string) ([]byte, error) {
	if r.blobs == nil {
		return nil, ErrRepositoryUnavailable
	}
	data, err := r.blobs.Get(ctx, key)
	if errors.Is(err, storage.ErrBlobNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, key)
	}
	return data, err
}

// StoreImage persists an image under key
func (r *StorageImageRepository) StoreImage(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if r.blobs == nil {
		return "", ErrRepositoryUnavailable
	}
	return r.blobs.Put(ctx, key, data, contentType)
}

// ImageLocation resolves the URL of a stored image key
func (r *StorageImageRepository) ImageLocation(key string) (string, error) {
	if r.blobs == nil {
		return "", ErrRepositoryUnavailable
	}
	return r.blobs.Location(key)
}
