package ocr

import (
	"context"
	"image"
)

// Engine recognizes the text in an image. An Engine handles one image at a
// time; use a Pool to share engines between requests.
type Engine interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
	Close() error
}
