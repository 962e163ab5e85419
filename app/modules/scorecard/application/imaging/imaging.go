// Package imaging decodes uploaded scorecard photos and prepares them for text
// recognition.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Threshold is the gray level above which a pixel becomes white.
const Threshold = 128

// ErrUnsupportedImage is returned for uploads that are not a decodable image.
var ErrUnsupportedImage = errors.New("unsupported image")

// Decode reads an image in any registered format.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUnsupportedImage, err)
	}
	return img, format, nil
}

// Luminance converts 8-bit RGB to a gray level: 0.299R + 0.587G + 0.114B.
func Luminance(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// GrayLevel stores the luminance as an 8-bit level, rounding halves to even and
// clamping to [0, 255].
func GrayLevel(r, g, b uint8) uint8 {
	return uint8(min(255, max(0, math.RoundToEven(Luminance(r, g, b)))))
}

// Binarize converts img to grayscale and thresholds it: pixels whose gray
// level is above Threshold become white, the rest black.
func Binarize(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			level := uint8(0)
			if GrayLevel(c.R, c.G, c.B) > Threshold {
				level = 255
			}
			out.SetGray(x, y, color.Gray{Y: level})
		}
	}
	return out
}

// EncodePNG writes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
