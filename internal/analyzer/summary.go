package analyzer

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// summary holds the aggregate statistics reported with a spectrum
type summary struct {
	average, max float64
}

// summarize computes mean and max of a normalized profile
func summarize(normalized []float64) summary {
	if len(normalized) == 0 {
		return summary{}
	}
	return summary{
		average: stat.Mean(normalized, nil),
		max:     floats.Max(normalized),
	}
}

// round2 rounds half away from zero to two decimals
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
