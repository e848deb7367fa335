package repository

import "errors"

var (
	// ErrImageNotFound indicates the image was not found
	ErrImageNotFound = errors.New("image not found")

	// ErrObservationNotFound indicates the observation was not found
	ErrObservationNotFound = errors.New("observation not found")

	// ErrDeviceNotFound indicates the device was not found
	ErrDeviceNotFound = errors.New("device not found")

	// ErrRepositoryUnavailable indicates the repository is unavailable
	ErrRepositoryUnavailable = errors.New("repository unavailable")
)
