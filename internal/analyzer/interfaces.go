package analyzer

import (
	"image"

	"github.com/anime-shed/spectral-inspector-go/pkg/models"
)

// SpectralAnalyzer turns spectrograph images into calibrated-by-assumption
// spectra with labelled lines
type SpectralAnalyzer interface {
	// Analyze runs the pipeline with the analyzer's own configuration.
	// The result is always structurally valid; the error is non-nil only
	// for an InvalidImageError.
	Analyze(r Raster) (models.SpectralResult, error)
	AnalyzeImage(img image.Image) (models.SpectralResult, error)

	// AnalyzeWithConfig runs the pipeline with per-call overrides
	AnalyzeWithConfig(r Raster, cfg Config) (models.SpectralResult, error)

	// AnalyzeBatch analyzes independent rasters concurrently, preserving order
	AnalyzeBatch(rasters []Raster) []BatchResult

	Config() Config

	// Lifecycle management
	Close() error
}

// BatchResult pairs one batch entry's result with its error
type BatchResult struct {
	Result models.SpectralResult
	Err    error
}
