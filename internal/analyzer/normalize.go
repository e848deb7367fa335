package analyzer

import (
	"math"

	"gonum.org/v1/gonum/floats"

	apperrors "github.com/anime-shed/spectral-inspector-go/internal/errors"
)

// NormalizedMax is the value the profile maximum maps to
const NormalizedMax = 100.0

// Normalize rescales a profile linearly so its minimum maps to 0 and its
// maximum to 100.
//
// A flat profile (max == min) has no signal: the result is all zeros and a
// DegenerateSignalError is returned alongside it. The zeroed slice is valid
// output in that case, not a partial result. NaN or infinite samples are an
// InvalidImageError.
func Normalize(profile []float64) ([]float64, error) {
	normalized := make([]float64, len(profile))
	if len(profile) == 0 {
		return normalized, nil
	}

	for _, v := range profile {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return normalized, apperrors.NewInvalidImageError("profile contains non-finite intensities", nil)
		}
	}

	lo, hi := floats.Min(profile), floats.Max(profile)
	if hi == lo {
		return normalized, apperrors.NewDegenerateSignalError("flat-field profile: no signal above background")
	}

	// hi-lo can overflow for finite extremes; work in units of the largest
	// magnitude instead
	scale := 1.0
	if math.IsInf(hi-lo, 0) {
		scale = math.Max(math.Abs(lo), math.Abs(hi))
	}
	lo, hi = lo/scale, hi/scale
	span := hi - lo

	for i, v := range profile {
		normalized[i] = math.Min((v/scale-lo)/span*NormalizedMax, NormalizedMax)
	}
	return normalized, nil
}
