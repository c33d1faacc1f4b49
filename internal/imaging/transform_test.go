package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodePNG renders a width×height test image as PNG bytes.
func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSquareCrop(t *testing.T) {
	tr := NewTransformer(256)

	t.Run("landscape image", func(t *testing.T) {
		out, err := tr.SquareCrop(encodePNG(t, 1024, 768))
		require.NoError(t, err)

		decoded, err := jpeg.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, 256, decoded.Bounds().Dx())
		assert.Equal(t, 256, decoded.Bounds().Dy())
	})

	t.Run("portrait image", func(t *testing.T) {
		out, err := tr.SquareCrop(encodePNG(t, 300, 900))
		require.NoError(t, err)

		decoded, err := jpeg.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, 256, decoded.Bounds().Dx())
		assert.Equal(t, 256, decoded.Bounds().Dy())
	})

	t.Run("already square", func(t *testing.T) {
		out, err := tr.SquareCrop(encodePNG(t, 256, 256))
		require.NoError(t, err)
		assert.NotEmpty(t, out)
	})

	t.Run("upscales small images", func(t *testing.T) {
		out, err := tr.SquareCrop(encodePNG(t, 32, 48))
		require.NoError(t, err)

		decoded, err := jpeg.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, 256, decoded.Bounds().Dx())
	})
}

func TestSquareCropRejectsBadInput(t *testing.T) {
	tr := NewTransformer(256)

	t.Run("corrupt bytes", func(t *testing.T) {
		_, err := tr.SquareCrop([]byte("definitely not an image"))
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := tr.SquareCrop(nil)
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("truncated png", func(t *testing.T) {
		data := encodePNG(t, 100, 100)
		_, err := tr.SquareCrop(data[:20])
		assert.ErrorIs(t, err, ErrDecode)
	})
}
