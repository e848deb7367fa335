package models

import "time"

// ObservationStatus tracks an observation through processing
type ObservationStatus string

const (
	ObservationProcessed ObservationStatus = "processed"
	ObservationFailed    ObservationStatus = "failed"
)

// Observation is a persisted spectral analysis of one device capture
type Observation struct {
	ObservationID string            `json:"observationId"`
	DeviceID      string            `json:"deviceId"`
	UserID        string            `json:"userId"`
	Timestamp     time.Time         `json:"timestamp"`
	ImageKey      string            `json:"imageKey,omitempty"`
	ImageURL      string            `json:"imageUrl,omitempty"`
	SpectralData  SpectralResult    `json:"spectralData"`
	Status        ObservationStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// Device is the last-known state of a capture device
type Device struct {
	DeviceID        string    `json:"deviceId"`
	LastUpdate      time.Time `json:"lastUpdate"`
	LastObservation string    `json:"lastObservation,omitempty"`
}
