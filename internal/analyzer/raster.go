package analyzer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	apperrors "github.com/anime-shed/spectral-inspector-go/internal/errors"
)

// Raster is a decoded image as a row-major grid of channel values.
// Channels is 1 (luminance) or 3 (an ordered channel triple); values use the
// 8-bit scale of the source camera. A Raster is read-only to the analyzer.
type Raster struct {
	Width    int
	Height   int
	Channels int
	Pix      []float64
}

// NewGrayRaster wraps single-channel values laid out row by row
func NewGrayRaster(width, height int, pix []float64) Raster {
	return Raster{Width: width, Height: height, Channels: 1, Pix: pix}
}

// NewRGBRaster wraps interleaved channel triples laid out row by row
func NewRGBRaster(width, height int, pix []float64) Raster {
	return Raster{Width: width, Height: height, Channels: 3, Pix: pix}
}

// Validate reports an InvalidImageError for zero-area rasters, unsupported
// channel layouts, mis-sized pixel buffers and non-finite samples
func (r Raster) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return apperrors.NewInvalidImageError(
			fmt.Sprintf("image has zero area (%dx%d)", r.Width, r.Height), nil)
	}
	if r.Channels != 1 && r.Channels != 3 {
		return apperrors.NewInvalidImageError(
			fmt.Sprintf("unsupported channel layout: %d channels", r.Channels), nil)
	}
	if want := r.Width * r.Height * r.Channels; len(r.Pix) != want {
		return apperrors.NewInvalidImageError(
			fmt.Sprintf("pixel buffer holds %d values, want %d", len(r.Pix), want), nil)
	}
	for i, v := range r.Pix {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return apperrors.NewInvalidImageError(
				fmt.Sprintf("non-finite sample at offset %d", i), nil)
		}
	}
	return nil
}

// FromImage converts a decoded image. Gray images keep a single channel,
// everything else becomes an RGB triple per pixel with alpha dropped.
func FromImage(img image.Image) (Raster, error) {
	if img == nil {
		return Raster{}, apperrors.NewInvalidImageError("image is nil", nil)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	switch src := img.(type) {
	case *image.Gray:
		pix := make([]float64, 0, width*height)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				pix = append(pix, float64(src.GrayAt(x, y).Y))
			}
		}
		return NewGrayRaster(width, height, pix), nil
	case *image.Gray16:
		pix := make([]float64, 0, width*height)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				// 16-bit samples are brought onto the 8-bit scale
				pix = append(pix, float64(src.Gray16At(x, y).Y)/257.0)
			}
		}
		return NewGrayRaster(width, height, pix), nil
	}

	pix := make([]float64, 0, width*height*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pix = append(pix, float64(c.R), float64(c.G), float64(c.B))
		}
	}
	return NewRGBRaster(width, height, pix), nil
}
