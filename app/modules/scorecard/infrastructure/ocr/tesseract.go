package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/Black-And-White-Club/golf-handicap/app/modules/scorecard/application/imaging"
)

// CharWhitelist limits recognition to the characters a scorecard uses.
const CharWhitelist = "0123456789.-/ ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const (
	defaultBinary   = "tesseract"
	defaultLanguage = "eng"
	defaultTimeout  = 30 * time.Second
)

// TesseractConfig configures the tesseract command line engine.
type TesseractConfig struct {
	Path     string
	Language string
	Timeout  time.Duration
}

// Tesseract runs the tesseract binary, piping a PNG on stdin and reading the
// text from stdout.
type Tesseract struct {
	path     string
	language string
	timeout  time.Duration
	logger   *slog.Logger
}

var _ Engine = (*Tesseract)(nil)

// NewTesseract creates an engine. Empty config fields take defaults.
func NewTesseract(cfg TesseractConfig, logger *slog.Logger) *Tesseract {
	t := &Tesseract{
		path:     cfg.Path,
		language: cfg.Language,
		timeout:  cfg.Timeout,
		logger:   logger,
	}
	if t.path == "" {
		t.path = defaultBinary
	}
	if t.language == "" {
		t.language = defaultLanguage
	}
	if t.timeout <= 0 {
		t.timeout = defaultTimeout
	}
	return t
}

// Args returns the command line arguments passed to tesseract.
func (t *Tesseract) Args() []string {
	return []string{
		"stdin", "stdout",
		"-l", t.language,
		"-c", "tessedit_char_whitelist=" + CharWhitelist,
	}
}

// Recognize runs tesseract on img.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, error) {
	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.path, t.Args()...)
	cmd.Stdin = bytes.NewReader(data)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("tesseract: %w", ctx.Err())
		}
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	t.logger.DebugContext(ctx, "Tesseract finished",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("chars", stdout.Len()),
	)
	return stdout.String(), nil
}

// Close is a no-op; each recognition starts its own process.
func (t *Tesseract) Close() error { return nil }

// NewTesseractPool builds a pool of size tesseract engines.
func NewTesseractPool(cfg TesseractConfig, size int, logger *slog.Logger) (*Pool, error) {
	if size <= 0 {
		size = 1
	}
	engines := make([]Engine, size)
	for i := range engines {
		engines[i] = NewTesseract(cfg, logger)
	}
	return NewPool(engines...)
}
