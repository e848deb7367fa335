package repository

import (
	"context"

	"github.com/anime-shed/spectral-inspector-go/pkg/models"
)

// ImageRepository defines the interface for raw image access
type ImageRepository interface {
	// FetchImage downloads an image from a URL
	FetchImage(ctx context.Context, imageURL string) ([]byte, error)

	// LoadImage reads a stored image by blob key
	LoadImage(ctx context.Context, key string) ([]byte, error)

	// StoreImage persists an image and returns where it can be found
	StoreImage(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// ImageLocation returns where a stored image can be found
	ImageLocation(key string) (string, error)
}

// ObservationRepository defines the interface for observation records
type ObservationRepository interface {
	// Save stores an observation, replacing any record with the same ID
	Save(ctx context.Context, obs *models.Observation) error

	// Get retrieves an observation by ID
	Get(ctx context.Context, id string) (*models.Observation, error)

	// ListByDevice returns a device's observations, newest first
	ListByDevice(ctx context.Context, deviceID string, limit int) ([]*models.Observation, error)
}

// DeviceRepository defines the interface for device bookkeeping
type DeviceRepository interface {
	// Touch records the latest observation of a device
	Touch(ctx context.Context, deviceID, observationID string) error

	// Get retrieves a device by ID
	Get(ctx context.Context, deviceID string) (*models.Device, error)
}
