package analyzer

import "gonum.org/v1/gonum/floats"

// ExtractProfile reduces a raster to one intensity per column: each pixel is
// collapsed to the unweighted mean of its channels, then each column is
// averaged over all rows. The profile length always equals the width.
func ExtractProfile(r Raster) ([]float64, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	profile := make([]float64, r.Width)
	rowLen := r.Width * r.Channels
	channels := float64(r.Channels)

	for y := 0; y < r.Height; y++ {
		row := r.Pix[y*rowLen : (y+1)*rowLen]
		for x := 0; x < r.Width; x++ {
			profile[x] += floats.Sum(row[x*r.Channels:(x+1)*r.Channels]) / channels
		}
	}

	floats.Scale(1/float64(r.Height), profile)
	return profile, nil
}
