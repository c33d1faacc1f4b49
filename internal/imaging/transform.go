// Package imaging implements the image transform step of the post
// pipeline: decoding an uploaded image and normalizing it to a
// centered square at the configured resolution.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	// Register the decoders for the accepted upload formats.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

// ErrDecode is returned when the uploaded bytes are not a decodable
// image in any accepted format. The pipeline records it as the task's
// failure reason.
var ErrDecode = errors.New("cannot decode image")

// jpegQuality is the encode quality for stored images.
const jpegQuality = 85

// Transformer crops and scales uploaded images to a square of a fixed
// side length. It is stateless and safe for concurrent use.
type Transformer struct {
	targetSize int
}

// NewTransformer creates a Transformer producing targetSize×targetSize
// JPEG output.
func NewTransformer(targetSize int) *Transformer {
	return &Transformer{targetSize: targetSize}
}

// SquareCrop decodes data, crops the largest centered square, scales
// it to the target size and re-encodes it as a JPEG. No partial output
// is ever produced: the result is either a complete transformed image
// or an error.
func (t *Transformer) SquareCrop(data []byte) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := src.Bounds()
	side := bounds.Dx()
	if bounds.Dy() < side {
		side = bounds.Dy()
	}
	if side <= 0 {
		return nil, fmt.Errorf("%w: empty %s image", ErrDecode, format)
	}

	// Largest centered square of the source.
	cropRect := image.Rect(0, 0, side, side).
		Add(bounds.Min).
		Add(image.Pt((bounds.Dx()-side)/2, (bounds.Dy()-side)/2))

	dst := image.NewRGBA(image.Rect(0, 0, t.targetSize, t.targetSize))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, cropRect, draw.Src, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode transformed image: %w", err)
	}

	return out.Bytes(), nil
}
