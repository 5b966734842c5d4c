package preview

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/disintegration/imaging"
)

const (
	// DefaultSize bounds the preview shown next to the photo input.
	DefaultSize = 120

	// MaxDimension bounds either side of an image accepted for a preview.
	// Headers are checked before decoding so a forged size never allocates.
	MaxDimension = 4096

	jpegQuality = 80
)

// ErrTooLarge is returned for images whose declared size exceeds MaxDimension.
var ErrTooLarge = errors.New("image dimensions too large")

// Generator renders small previews of uploaded photos.
type Generator struct {
	maxWidth  int
	maxHeight int
}

// NewGenerator creates a Generator fitting previews into maxWidth x maxHeight.
func NewGenerator(maxWidth, maxHeight int) *Generator {
	return &Generator{maxWidth: maxWidth, maxHeight: maxHeight}
}

// Thumbnail decodes data and returns a downscaled JPEG.
func (g *Generator) Thumbnail(data []byte) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumbnail := imaging.Fit(img, g.maxWidth, g.maxHeight, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, thumbnail, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}

// DataURI returns the thumbnail of data as an inline data: URI.
func (g *Generator) DataURI(data []byte) (string, error) {
	thumb, err := g.Thumbnail(data)
	if err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(thumb), nil
}
