package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anime-shed/spectral-inspector-go/internal/analyzer"
	apperrors "github.com/anime-shed/spectral-inspector-go/internal/errors"
	"github.com/anime-shed/spectral-inspector-go/internal/logger"
	"github.com/anime-shed/spectral-inspector-go/internal/observer"
	"github.com/anime-shed/spectral-inspector-go/internal/repository"
	"github.com/anime-shed/spectral-inspector-go/internal/storage"
	"github.com/anime-shed/spectral-inspector-go/internal/strategy"
	"github.com/anime-shed/spectral-inspector-go/pkg/models"
	"github.com/anime-shed/spectral-inspector-go/pkg/validation"

	"github.com/sirupsen/logrus"
)

const (
	unknownUser    = "unknown"
	keyTimeLayout  = "20060102_150405"
	idTimeLayout   = "20060102150405"
	defaultTimeout = 20 * time.Second
)

// SpectralAnalysisService analyzes spectral captures and records observations
type SpectralAnalysisService interface {
	// Process analyzes a device capture and persists it as an observation
	Process(ctx context.Context, req models.ProcessRequest) (*models.ObservationResponse, error)

	// Analyze runs a one-off analysis with optional parameter overrides
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.SpectralResult, error)

	GetObservation(ctx context.Context, id string) (*models.Observation, error)
	ListDeviceObservations(ctx context.Context, deviceID string, limit int) ([]*models.Observation, error)

	// ReferenceLines returns the reference table in matching order
	ReferenceLines() []analyzer.ReferenceLine
	// LookupReferenceLine finds a reference line by (approximate) element name
	LookupReferenceLine(name string) (analyzer.ReferenceLine, bool, bool)
}

// Dependencies groups the collaborators of the service
type Dependencies struct {
	Images       repository.ImageRepository
	Observations repository.ObservationRepository
	Devices      repository.DeviceRepository
	Analyzer     analyzer.SpectralAnalyzer
	Events       observer.Subject

	// AnalysisTimeout bounds a single analysis (20s when zero)
	AnalysisTimeout time.Duration
	// Now is the clock used for keys and IDs (time.Now when nil)
	Now func() time.Time
}

type spectralAnalysisService struct {
	images       repository.ImageRepository
	observations repository.ObservationRepository
	devices      repository.DeviceRepository
	analyzer     analyzer.SpectralAnalyzer
	events       observer.Subject
	sources      *validation.SourceValidator
	review       *validation.SpectrumValidator
	timeout      time.Duration
	now          func() time.Time
	log          *logrus.Entry
}

// NewSpectralAnalysisService creates a new spectral analysis service
func NewSpectralAnalysisService(deps Dependencies) SpectralAnalysisService {
	s := &spectralAnalysisService{
		images:       deps.Images,
		observations: deps.Observations,
		devices:      deps.Devices,
		analyzer:     deps.Analyzer,
		events:       deps.Events,
		sources:      validation.NewSourceValidator(),
		review:       validation.NewSpectrumValidator(),
		timeout:      deps.AnalysisTimeout,
		now:          deps.Now,
		log:          logger.WithComponent("spectral_service"),
	}
	if s.timeout <= 0 {
		s.timeout = defaultTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.events == nil {
		s.events = observer.NewEventPublisher()
	}
	return s
}

func (s *spectralAnalysisService) Process(ctx context.Context, req models.ProcessRequest) (*models.ObservationResponse, error) {
	if err := s.sources.ValidateDeviceID(req.DeviceID); err != nil {
		return nil, err
	}
	if err := s.sources.ValidateSources(req.ImageData, req.ImageKey, req.ImageURL); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	source := sourceName(req.ImageData, req.ImageKey)

	data, err := s.loadImage(ctx, req.DeviceID, req.ImageData, req.ImageKey, req.ImageURL)
	if err != nil {
		return nil, err
	}

	result, format, err := s.analyzeBytes(ctx, req.DeviceID, source, data, s.analyzer.Config())
	if err != nil {
		return nil, err
	}

	obs := &models.Observation{
		ObservationID: fmt.Sprintf("obs_%s_%s", req.DeviceID, now.Format(idTimeLayout)),
		DeviceID:      req.DeviceID,
		UserID:        req.UserID,
		Timestamp:     now,
		ImageKey:      req.ImageKey,
		ImageURL:      req.ImageURL,
		SpectralData:  result,
		Status:        models.ObservationProcessed,
		CreatedAt:     now,
	}
	if obs.UserID == "" {
		obs.UserID = unknownUser
	}
	if result.Failed() {
		obs.Status = models.ObservationFailed
	}

	if req.ImageKey != "" {
		location, err := s.images.ImageLocation(req.ImageKey)
		if err != nil {
			s.log.WithError(err).WithField("image_key", req.ImageKey).Warn("Failed to resolve image location")
		} else {
			obs.ImageURL = location
		}
	}

	if req.ImageData != "" {
		key := fmt.Sprintf("observations/%s/%s_spectrum.jpg", req.DeviceID, now.Format(keyTimeLayout))
		location, err := s.images.StoreImage(ctx, key, data, storage.ContentType(format))
		switch {
		case errors.Is(err, repository.ErrRepositoryUnavailable):
			s.log.WithField("device_id", req.DeviceID).Warn("No blob store configured, inline image not kept")
		case err != nil:
			return nil, apperrors.NewInternalError("failed to store image", err)
		default:
			obs.ImageKey = key
			obs.ImageURL = location
		}
	}

	if err := s.observations.Save(ctx, obs); err != nil {
		return nil, apperrors.NewInternalError("failed to save observation", err)
	}
	s.events.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType:     observer.ObservationSaved,
		DeviceID:      obs.DeviceID,
		ObservationID: obs.ObservationID,
		Success:       !result.Failed(),
	})

	if err := s.devices.Touch(ctx, obs.DeviceID, obs.ObservationID); err != nil {
		s.log.WithError(err).WithField("device_id", obs.DeviceID).Warn("Failed to update device state")
	}

	return &models.ObservationResponse{
		Success:       true,
		ObservationID: obs.ObservationID,
		ImageURL:      obs.ImageURL,
		SpectralData:  result,
	}, nil
}

func (s *spectralAnalysisService) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.SpectralResult, error) {
	if err := s.sources.ValidateSources(req.ImageData, "", req.ImageURL); err != nil {
		return nil, err
	}

	cfg, err := applyOverrides(s.analyzer.Config(), req)
	if err != nil {
		return nil, err
	}

	data, err := s.loadImage(ctx, "", req.ImageData, "", req.ImageURL)
	if err != nil {
		return nil, err
	}

	result, _, err := s.analyzeBytes(ctx, "", sourceName(req.ImageData, ""), data, cfg)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *spectralAnalysisService) GetObservation(ctx context.Context, id string) (*models.Observation, error) {
	obs, err := s.observations.Get(ctx, id)
	if errors.Is(err, repository.ErrObservationNotFound) {
		return nil, apperrors.NewNotFoundError("observation not found", err).WithDetails("id %s", id)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load observation", err)
	}
	return obs, nil
}

func (s *spectralAnalysisService) ListDeviceObservations(ctx context.Context, deviceID string, limit int) ([]*models.Observation, error) {
	if err := s.sources.ValidateDeviceID(deviceID); err != nil {
		return nil, err
	}
	list, err := s.observations.ListByDevice(ctx, deviceID, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list observations", err)
	}
	return list, nil
}

func (s *spectralAnalysisService) ReferenceLines() []analyzer.ReferenceLine {
	return s.analyzer.Config().ReferenceLines
}

func (s *spectralAnalysisService) LookupReferenceLine(name string) (analyzer.ReferenceLine, bool, bool) {
	return analyzer.LookupReferenceLine(s.analyzer.Config().ReferenceLines, name)
}

// loadImage obtains raw bytes from whichever source the request carries
func (s *spectralAnalysisService) loadImage(ctx context.Context, deviceID, imageData, imageKey, imageURL string) ([]byte, error) {
	var (
		data   []byte
		err    error
		source = sourceName(imageData, imageKey)
	)

	switch {
	case imageData != "":
		data, err = decodeBase64Image(imageData)
		if err != nil {
			return nil, err
		}
	case imageKey != "":
		data, err = s.images.LoadImage(ctx, imageKey)
	default:
		data, err = s.images.FetchImage(ctx, imageURL)
	}

	if err != nil {
		s.events.NotifyObservers(ctx, observer.AnalysisEvent{
			EventType:    observer.ImageFetchFailed,
			DeviceID:     deviceID,
			Source:       source,
			ErrorMessage: err.Error(),
		})
		return nil, classifyFetchError(err)
	}

	s.events.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType: observer.ImageFetched,
		DeviceID:  deviceID,
		Source:    source,
		Success:   true,
		Metadata:  map[string]interface{}{"bytes": len(data)},
	})
	return data, nil
}

// analyzeBytes decodes, analyzes and reviews an image
func (s *spectralAnalysisService) analyzeBytes(ctx context.Context, deviceID, source string, data []byte, cfg analyzer.Config) (models.SpectralResult, string, error) {
	s.events.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType: observer.AnalysisStarted,
		DeviceID:  deviceID,
		Source:    source,
	})

	fail := func(err error) (models.SpectralResult, string, error) {
		s.events.NotifyObservers(ctx, observer.AnalysisEvent{
			EventType:    observer.AnalysisFailed,
			DeviceID:     deviceID,
			Source:       source,
			ErrorMessage: err.Error(),
		})
		return models.SpectralResult{}, "", err
	}

	img, format, err := storage.DecodeImage(data)
	if err != nil {
		return fail(err)
	}
	raster, err := analyzer.FromImage(img)
	if err != nil {
		return fail(err)
	}

	result, err := s.runAnalysis(ctx, raster, cfg)
	if err != nil {
		return fail(err)
	}
	if result.Failed() {
		s.events.NotifyObservers(ctx, observer.AnalysisEvent{
			EventType:      observer.AnalysisFailed,
			DeviceID:       deviceID,
			Source:         source,
			ProcessingTime: seconds(result.ProcessingTimeSec),
			Quality:        string(result.Quality),
			ErrorMessage:   result.Error,
		})
		return result, format, nil
	}

	s.review.Annotate(&result)

	elements := make([]string, len(result.SpectralLines))
	for i, l := range result.SpectralLines {
		elements[i] = l.Element
	}
	s.events.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType:      observer.AnalysisCompleted,
		DeviceID:       deviceID,
		Source:         source,
		ProcessingTime: seconds(result.ProcessingTimeSec),
		Success:        true,
		Quality:        string(result.Quality),
		PeakCount:      result.PeakCount,
		Elements:       elements,
	})
	return result, format, nil
}

// runAnalysis bounds the analysis by the service timeout and the caller's context
func (s *spectralAnalysisService) runAnalysis(ctx context.Context, raster analyzer.Raster, cfg analyzer.Config) (models.SpectralResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type outcome struct {
		result models.SpectralResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := s.analyzer.AnalyzeWithConfig(raster, cfg)
		done <- outcome{r, err}
	}()

	select {
	case o := <-done:
		return o.result, o.err
	case <-ctx.Done():
		return models.SpectralResult{}, apperrors.NewTimeoutError("spectral analysis timed out", ctx.Err())
	}
}

// applyOverrides layers request parameters over the service defaults
func applyOverrides(cfg analyzer.Config, req models.AnalysisRequest) (analyzer.Config, error) {
	if req.Preset != "" {
		preset, err := strategy.Get(req.Preset)
		if err != nil {
			return cfg, apperrors.NewValidationError("invalid preset", err)
		}
		cfg = preset.Configure(cfg)
	}
	if req.Threshold != nil {
		cfg = cfg.WithThreshold(*req.Threshold)
	}
	if req.ToleranceNm != nil {
		cfg = cfg.WithTolerance(*req.ToleranceNm)
	}
	if req.WavelengthMin != nil || req.WavelengthMax != nil {
		wr := cfg.WavelengthRange
		if req.WavelengthMin != nil {
			wr.MinNm = *req.WavelengthMin
		}
		if req.WavelengthMax != nil {
			wr.MaxNm = *req.WavelengthMax
		}
		cfg = cfg.WithWavelengthRange(wr.MinNm, wr.MaxNm)
	}
	if req.MatchPolicy != "" {
		policy, err := analyzer.ParseMatchPolicy(req.MatchPolicy)
		if err != nil {
			return cfg, apperrors.NewValidationError("invalid matchPolicy", err)
		}
		cfg = cfg.WithMatchPolicy(policy)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// decodeBase64Image accepts plain base64 or a data URL
func decodeBase64Image(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, apperrors.NewValidationError("imageData is not valid base64", err)
	}
	return data, nil
}

func classifyFetchError(err error) error {
	switch {
	case errors.Is(err, repository.ErrImageNotFound):
		return apperrors.NewNotFoundError("image not found", err)
	case errors.Is(err, repository.ErrRepositoryUnavailable):
		return apperrors.NewValidationError("image keys are not supported by the configured storage", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError("image fetch timeout", err)
	default:
		return apperrors.NewNetworkError("failed to fetch image", err)
	}
}

func sourceName(imageData, imageKey string) string {
	switch {
	case imageData != "":
		return "inline"
	case imageKey != "":
		return "blob"
	default:
		return "url"
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
