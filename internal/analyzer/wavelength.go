package analyzer

import "gonum.org/v1/gonum/floats"

// WavelengthRange is the assumed span of the visible spectrum across the
// image width, in nanometres
type WavelengthRange struct {
	MinNm float64 `yaml:"min_nm" json:"minNm"`
	MaxNm float64 `yaml:"max_nm" json:"maxNm"`
}

// DefaultWavelengthRange covers the visible band the grating camera images
func DefaultWavelengthRange() WavelengthRange {
	return WavelengthRange{MinNm: 400, MaxNm: 700}
}

// MapWavelengths assigns a wavelength to each of n profile samples by linear
// interpolation between the range bounds, both inclusive. This is a
// positional approximation; no reference-source calibration is applied.
func MapWavelengths(n int, wr WavelengthRange) []float64 {
	switch {
	case n <= 0:
		return []float64{}
	case n == 1:
		return []float64{wr.MinNm}
	}

	wavelengths := floats.Span(make([]float64, n), wr.MinNm, wr.MaxNm)
	wavelengths[n-1] = wr.MaxNm
	return wavelengths
}
