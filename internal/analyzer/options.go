package analyzer

import (
	"fmt"

	apperrors "github.com/anime-shed/spectral-inspector-go/internal/errors"
)

// Thresholds groups the intensity cut-offs used by the pipeline
type Thresholds struct {
	// Peak is the normalized intensity (0..100) a peak must exceed
	Peak float64
}

// Config carries every tunable of the spectral pipeline. It is passed by
// value; nothing here is process-global.
type Config struct {
	Thresholds      Thresholds
	ToleranceNm     float64
	WavelengthRange WavelengthRange
	ReferenceLines  []ReferenceLine
	MatchPolicy     MatchPolicy

	// Performance options
	MaxWorkers int
}

// DefaultConfig returns the stock configuration: threshold 70, ±5 nm,
// 400–700 nm, built-in reference table, closest-match
func DefaultConfig() Config {
	return Config{
		Thresholds:      Thresholds{Peak: DefaultPeakThreshold},
		ToleranceNm:     DefaultToleranceNm,
		WavelengthRange: DefaultWavelengthRange(),
		ReferenceLines:  DefaultReferenceLines(),
		MatchPolicy:     MatchClosest,
		MaxWorkers:      0, // Use default CPU count
	}
}

// WithThreshold sets the peak threshold
func (c Config) WithThreshold(peak float64) Config {
	c.Thresholds.Peak = peak
	return c
}

// WithTolerance sets the line matching half-window in nm
func (c Config) WithTolerance(toleranceNm float64) Config {
	c.ToleranceNm = toleranceNm
	return c
}

// WithWavelengthRange overrides the assumed spectral span
func (c Config) WithWavelengthRange(minNm, maxNm float64) Config {
	c.WavelengthRange = WavelengthRange{MinNm: minNm, MaxNm: maxNm}
	return c
}

// WithReferenceLines replaces the reference table with a copy of lines
func (c Config) WithReferenceLines(lines []ReferenceLine) Config {
	c.ReferenceLines = make([]ReferenceLine, len(lines))
	copy(c.ReferenceLines, lines)
	return c
}

// WithMatchPolicy selects first-match or closest-match identification
func (c Config) WithMatchPolicy(policy MatchPolicy) Config {
	c.MatchPolicy = policy
	return c
}

// Validate rejects configurations the pipeline cannot honour
func (c Config) Validate() error {
	if c.Thresholds.Peak < 0 || c.Thresholds.Peak > NormalizedMax {
		return apperrors.NewValidationError(
			fmt.Sprintf("peak threshold must be within [0, %g] (got %g)", NormalizedMax, c.Thresholds.Peak), nil)
	}
	if c.ToleranceNm <= 0 {
		return apperrors.NewValidationError(
			fmt.Sprintf("tolerance must be > 0 nm (got %g)", c.ToleranceNm), nil)
	}
	if c.WavelengthRange.MinNm >= c.WavelengthRange.MaxNm {
		return apperrors.NewValidationError(
			fmt.Sprintf("wavelength range must be increasing (got %g..%g nm)",
				c.WavelengthRange.MinNm, c.WavelengthRange.MaxNm), nil)
	}
	if len(c.ReferenceLines) == 0 {
		return apperrors.NewValidationError("reference line table is empty", nil)
	}
	for _, line := range c.ReferenceLines {
		if line.Element == "" {
			return apperrors.NewValidationError("reference line without element label", nil)
		}
	}
	if _, err := ParseMatchPolicy(string(c.MatchPolicy)); err != nil {
		return apperrors.NewValidationError("invalid match policy", err)
	}
	return nil
}
