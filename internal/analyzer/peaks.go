package analyzer

// DefaultPeakThreshold is the normalized intensity a peak must exceed
const DefaultPeakThreshold = 70.0

// DetectPeaks returns, in ascending order, the indices of strict local maxima
// above threshold. Only interior samples are candidates; a sample tied with
// either neighbour is not a peak. No smoothing or minimum separation is
// applied, so neighbouring fluctuations may each register.
func DetectPeaks(values []float64, threshold float64) []int {
	peaks := []int{}
	for i := 1; i < len(values)-1; i++ {
		v := values[i]
		if v > threshold && v > values[i-1] && v > values[i+1] {
			peaks = append(peaks, i)
		}
	}
	return peaks
}
