package analyzer

import (
	"fmt"
	"image"
	"sync"
	"time"

	apperrors "github.com/anime-shed/spectral-inspector-go/internal/errors"
	"github.com/anime-shed/spectral-inspector-go/pkg/models"
)

// coreAnalyzer implements SpectralAnalyzer and orchestrates all components
type coreAnalyzer struct {
	config     Config
	matcher    *LineMatcher
	workerPool *WorkerPool
}

// NewSpectralAnalyzer validates cfg and creates an analyzer around it
func NewSpectralAnalyzer(cfg Config) (SpectralAnalyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithReferenceLines(cfg.ReferenceLines)

	workerPool := NewWorkerPool(cfg.MaxWorkers)
	workerPool.Start()

	return &coreAnalyzer{
		config:     cfg,
		matcher:    NewLineMatcher(cfg.ReferenceLines, cfg.ToleranceNm, cfg.MatchPolicy),
		workerPool: workerPool,
	}, nil
}

// Analyze runs the pipeline with the analyzer's configuration
func (ca *coreAnalyzer) Analyze(r Raster) (models.SpectralResult, error) {
	return ca.run(r, ca.config, ca.matcher)
}

// AnalyzeImage converts a decoded image and analyzes it
func (ca *coreAnalyzer) AnalyzeImage(img image.Image) (models.SpectralResult, error) {
	start := time.Now()
	r, err := FromImage(img)
	if err != nil {
		return degradedResult(r, start, err), err
	}
	return ca.Analyze(r)
}

// AnalyzeWithConfig runs the pipeline with a per-call configuration
func (ca *coreAnalyzer) AnalyzeWithConfig(r Raster, cfg Config) (models.SpectralResult, error) {
	if err := cfg.Validate(); err != nil {
		return degradedResult(r, time.Now(), err), err
	}
	return ca.run(r, cfg, NewLineMatcher(cfg.ReferenceLines, cfg.ToleranceNm, cfg.MatchPolicy))
}

// AnalyzeBatch fans rasters out over the worker pool
func (ca *coreAnalyzer) AnalyzeBatch(rasters []Raster) []BatchResult {
	results := make([]BatchResult, len(rasters))

	var wg sync.WaitGroup
	for i := range rasters {
		i := i
		job := func() {
			res, err := ca.Analyze(rasters[i])
			results[i] = BatchResult{Result: res, Err: err}
		}
		wg.Add(1)
		if !ca.workerPool.Submit(func() {
			defer wg.Done()
			job()
		}) {
			// closed analyzer: run inline
			job()
			wg.Done()
		}
	}
	wg.Wait()

	return results
}

// Config returns a copy of the analyzer configuration
func (ca *coreAnalyzer) Config() Config {
	return ca.config.WithReferenceLines(ca.config.ReferenceLines)
}

// Close stops the worker pool
func (ca *coreAnalyzer) Close() error {
	ca.workerPool.Close()
	return nil
}

// run executes profile → normalize → wavelengths → peaks → identification.
// Invalid images come back as a degraded result plus the error; any other
// failure, including a panic, is folded into a degraded result.
func (ca *coreAnalyzer) run(r Raster, cfg Config, matcher *LineMatcher) (result models.SpectralResult, err error) {
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			result = degradedResult(r, start, apperrors.NewAnalysisError(fmt.Sprintf("unexpected failure: %v", rec), nil))
			err = nil
		}
	}()

	profile, err := ExtractProfile(r)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeInvalidImage) {
			return degradedResult(r, start, err), err
		}
		return degradedResult(r, start, apperrors.NewAnalysisError("profile extraction failed", err)), nil
	}

	quality := models.QualityOK
	var warnings []string

	normalized, err := Normalize(profile)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeInvalidImage) {
			return degradedResult(r, start, err), err
		}
		if !apperrors.IsType(err, apperrors.ErrorTypeDegenerateSignal) {
			return degradedResult(r, start, apperrors.NewAnalysisError("normalization failed", err)), nil
		}
		quality = models.QualityDegenerate
		warnings = append(warnings, err.Error())
	}

	wavelengths := MapWavelengths(len(normalized), cfg.WavelengthRange)
	peaks := DetectPeaks(normalized, cfg.Thresholds.Peak)

	lines := make([]models.SpectralLine, 0, len(peaks))
	for _, idx := range peaks {
		lines = append(lines, models.SpectralLine{
			Index:      idx,
			Wavelength: round2(wavelengths[idx]),
			Intensity:  round2(normalized[idx]),
			Element:    matcher.Identify(wavelengths[idx]),
		})
	}

	stats := summarize(normalized)

	return models.SpectralResult{
		SpectralProfile:   normalized,
		Wavelengths:       wavelengths,
		SpectralLines:     lines,
		PeakCount:         len(peaks),
		AverageIntensity:  stats.average,
		MaxIntensity:      stats.max,
		ImageSize:         models.ImageSize{r.Width, r.Height},
		Quality:           quality,
		Warnings:          warnings,
		Timestamp:         start,
		ProcessingTimeSec: time.Since(start).Seconds(),
	}, nil
}

// degradedResult is the structurally valid result returned on failure:
// empty profile and lines plus the diagnostic
func degradedResult(r Raster, start time.Time, cause error) models.SpectralResult {
	return models.SpectralResult{
		SpectralProfile:   []float64{},
		Wavelengths:       []float64{},
		SpectralLines:     []models.SpectralLine{},
		ImageSize:         models.ImageSize{r.Width, r.Height},
		Quality:           models.QualityFailed,
		Error:             cause.Error(),
		Timestamp:         start,
		ProcessingTimeSec: time.Since(start).Seconds(),
	}
}
