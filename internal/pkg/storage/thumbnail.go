package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/disintegration/imaging"
)

const thumbnailQuality = 80

// Thumbnail shrinks the source image to fit within maxWidth x maxHeight,
// preserving aspect ratio, and returns it encoded as JPEG.
func Thumbnail(content io.Reader, maxWidth, maxHeight int) (io.Reader, error) {
	img, _, err := image.Decode(content)
	if err != nil {
		return nil, fmt.Errorf("decode image failed: %w", err)
	}

	small := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, small, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail failed: %w", err)
	}
	return &buf, nil
}
