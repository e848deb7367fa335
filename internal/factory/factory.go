package factory

import (
	"fmt"

	"github.com/anime-shed/spectral-inspector-go/internal/analyzer"
	"github.com/anime-shed/spectral-inspector-go/internal/config"
	"github.com/anime-shed/spectral-inspector-go/internal/storage"
	"github.com/anime-shed/spectral-inspector-go/internal/strategy"
)

// StorageType represents different types of storage backends
type StorageType string

const (
	// HTTPStorage fetches images by URL only; no blob store
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
	// LocalStorage for local file system
	LocalStorage StorageType = "local"
)

// AnalyzerFactory creates spectral analyzers
type AnalyzerFactory interface {
	CreateAnalyzer(cfg analyzer.Config, preset string) (analyzer.SpectralAnalyzer, error)
}

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateFetcher(cfg *config.Config) storage.ImageFetcher
	CreateBlobStorage(cfg config.StorageConfig) (storage.BlobStorage, error)
}

// analyzerFactory implements AnalyzerFactory
type analyzerFactory struct{}

// NewAnalyzerFactory creates a new analyzer factory
func NewAnalyzerFactory() AnalyzerFactory {
	return &analyzerFactory{}
}

// CreateAnalyzer creates an analyzer with the named preset applied to cfg
func (f *analyzerFactory) CreateAnalyzer(cfg analyzer.Config, preset string) (analyzer.SpectralAnalyzer, error) {
	s, err := strategy.Get(preset)
	if err != nil {
		return nil, err
	}
	return analyzer.NewSpectralAnalyzer(s.Configure(cfg))
}

// storageFactory implements StorageFactory
type storageFactory struct{}

// NewStorageFactory creates a new storage factory
func NewStorageFactory() StorageFactory {
	return &storageFactory{}
}

// CreateFetcher creates the HTTP fetcher used for URL sources
func (f *storageFactory) CreateFetcher(cfg *config.Config) storage.ImageFetcher {
	return storage.NewHTTPImageFetcher(cfg.ImageFetchTimeout).WithMaxBytes(cfg.MaxRequestBodySize)
}

// CreateBlobStorage creates the blob store for the configured type. The
// http type has no blob store and yields nil.
func (f *storageFactory) CreateBlobStorage(cfg config.StorageConfig) (storage.BlobStorage, error) {
	switch StorageType(cfg.Type) {
	case HTTPStorage, "":
		return nil, nil
	case AzureStorage:
		return storage.NewAzureStorage(cfg.AzureAccount, cfg.AzureKey, cfg.AzureContainer)
	case LocalStorage:
		return storage.NewLocalStorage(cfg.LocalDir)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	AnalyzerFactory AnalyzerFactory
	StorageFactory  StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory() *ComponentFactory {
	return &ComponentFactory{
		AnalyzerFactory: NewAnalyzerFactory(),
		StorageFactory:  NewStorageFactory(),
	}
}
