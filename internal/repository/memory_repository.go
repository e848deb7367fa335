package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anime-shed/spectral-inspector-go/pkg/models"
)

// MemoryObservationRepository keeps observations in process memory
type MemoryObservationRepository struct {
	mu    sync.RWMutex
	byID  map[string]*models.Observation
	order map[string][]string // device -> observation IDs
}

// NewMemoryObservationRepository creates an empty observation store
func NewMemoryObservationRepository() *MemoryObservationRepository {
	return &MemoryObservationRepository{
		byID:  make(map[string]*models.Observation),
		order: make(map[string][]string),
	}
}

func (r *MemoryObservationRepository) Save(ctx context.Context, obs *models.Observation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cp := *obs
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[obs.ObservationID]; !exists {
		r.order[obs.DeviceID] = append(r.order[obs.DeviceID], obs.ObservationID)
	}
	r.byID[obs.ObservationID] = &cp
	return nil
}

func (r *MemoryObservationRepository) Get(ctx context.Context, id string) (*models.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	obs, ok := r.byID[id]
	if !ok {
		return nil, ErrObservationNotFound
	}
	cp := *obs
	return &cp, nil
}

func (r *MemoryObservationRepository) ListByDevice(ctx context.Context, deviceID string, limit int) ([]*models.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	ids := r.order[deviceID]
	out := make([]*models.Observation, 0, len(ids))
	for _, id := range ids {
		cp := *r.byID[id]
		out = append(out, &cp)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MemoryDeviceRepository keeps device state in process memory
type MemoryDeviceRepository struct {
	mu      sync.RWMutex
	devices map[string]models.Device
}

// NewMemoryDeviceRepository creates an empty device store
func NewMemoryDeviceRepository() *MemoryDeviceRepository {
	return &MemoryDeviceRepository{devices: make(map[string]models.Device)}
}

func (r *MemoryDeviceRepository) Touch(ctx context.Context, deviceID, observationID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.devices[deviceID] = models.Device{
		DeviceID:        deviceID,
		LastUpdate:      time.Now().UTC(),
		LastObservation: observationID,
	}
	return nil
}

func (r *MemoryDeviceRepository) Get(ctx context.Context, deviceID string) (*models.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.devices[deviceID]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	return &d, nil
}
