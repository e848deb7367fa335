package models

import "time"

// SignalQuality classifies how trustworthy a spectral result is
type SignalQuality string

const (
	// QualityOK is a normal result
	QualityOK SignalQuality = "ok"
	// QualityDegenerate marks a flat-field input normalized to zeros
	QualityDegenerate SignalQuality = "degenerate"
	// QualityFailed marks a degraded result carrying only a diagnostic
	QualityFailed SignalQuality = "failed"
)

// ImageSize holds the source raster dimensions as [width, height]
type ImageSize [2]int

// Width returns the raster width in pixels
func (s ImageSize) Width() int { return s[0] }

// Height returns the raster height in pixels
func (s ImageSize) Height() int { return s[1] }

// SpectralLine is a detected peak annotated with its approximate wavelength
// and candidate element label
type SpectralLine struct {
	Index      int     `json:"index" yaml:"index"`
	Wavelength float64 `json:"wavelength" yaml:"wavelength"`
	Intensity  float64 `json:"intensity" yaml:"intensity"`
	Element    string  `json:"element" yaml:"element"`
}

// SpectralResult is the complete output of one spectral analysis.
// SpectralProfile[i] and Wavelengths[i] always describe the same column.
type SpectralResult struct {
	SpectralProfile  []float64      `json:"spectralProfile" yaml:"spectralProfile,flow"`
	Wavelengths      []float64      `json:"wavelengths" yaml:"wavelengths,flow"`
	SpectralLines    []SpectralLine `json:"spectralLines" yaml:"spectralLines"`
	PeakCount        int            `json:"peakCount" yaml:"peakCount"`
	AverageIntensity float64        `json:"averageIntensity" yaml:"averageIntensity"`
	MaxIntensity     float64        `json:"maxIntensity" yaml:"maxIntensity"`
	ImageSize        ImageSize      `json:"imageSize" yaml:"imageSize,flow"`

	Quality  SignalQuality `json:"quality" yaml:"quality"`
	Warnings []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`

	Timestamp         time.Time `json:"timestamp" yaml:"timestamp"`
	ProcessingTimeSec float64   `json:"processingTimeSec" yaml:"processingTimeSec"`
}

// Failed reports whether the result is a degraded, diagnostic-only result
func (r SpectralResult) Failed() bool {
	return r.Quality == QualityFailed
}
