package container

import (
	"fmt"
	"net/http"

	"github.com/anime-shed/spectral-inspector-go/internal/analyzer"
	"github.com/anime-shed/spectral-inspector-go/internal/config"
	"github.com/anime-shed/spectral-inspector-go/internal/factory"
	"github.com/anime-shed/spectral-inspector-go/internal/logger"
	"github.com/anime-shed/spectral-inspector-go/internal/observer"
	"github.com/anime-shed/spectral-inspector-go/internal/repository"
	"github.com/anime-shed/spectral-inspector-go/internal/service"
	"github.com/anime-shed/spectral-inspector-go/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config           *config.Config
	spectralAnalyzer analyzer.SpectralAnalyzer
	metrics          *observer.MetricsObserver
	service          service.SpectralAnalysisService
	handler          http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	components := factory.NewComponentFactory()

	// Build dependency graph
	spectralAnalyzer, err := components.AnalyzerFactory.CreateAnalyzer(cfg.AnalyzerConfig(), "")
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}

	blobs, err := components.StorageFactory.CreateBlobStorage(cfg.Storage)
	if err != nil {
		spectralAnalyzer.Close()
		return nil, fmt.Errorf("failed to create blob storage: %w", err)
	}
	images := repository.NewStorageImageRepository(components.StorageFactory.CreateFetcher(cfg), blobs)

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	svc := service.NewSpectralAnalysisService(service.Dependencies{
		Images:          images,
		Observations:    repository.NewMemoryObservationRepository(),
		Devices:         repository.NewMemoryDeviceRepository(),
		Analyzer:        spectralAnalyzer,
		Events:          events,
		AnalysisTimeout: cfg.AnalysisTimeout,
	})

	logger.WithFields(map[string]interface{}{
		"storage":      cfg.Storage.Type,
		"match_policy": cfg.Analysis.MatchPolicy,
		"lines":        len(spectralAnalyzer.Config().ReferenceLines),
	}).Info("Container initialized")

	return &Container{
		config:           cfg,
		spectralAnalyzer: spectralAnalyzer,
		metrics:          metrics,
		service:          svc,
		handler:          transport.NewHandler(svc, metrics, cfg),
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Service returns the spectral analysis service
func (c *Container) Service() service.SpectralAnalysisService {
	return c.service
}

// Metrics returns the metrics observer
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases the analyzer's worker pool
func (c *Container) Close() error {
	return c.spectralAnalyzer.Close()
}
