package storage

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	apperrors "github.com/anime-shed/spectral-inspector-go/internal/errors"
)

// DecodeImage decodes any registered raster format (jpeg, png, gif, bmp,
// tiff, webp) and returns the image with its format name
func DecodeImage(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", apperrors.NewInvalidImageError("empty image payload", nil)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", apperrors.NewInvalidImageError("failed to decode image", err)
	}
	return img, format, nil
}

// ContentType maps a decoded format name to its MIME type
func ContentType(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png", "gif", "bmp", "tiff", "webp":
		return "image/" + format
	default:
		return "application/octet-stream"
	}
}
