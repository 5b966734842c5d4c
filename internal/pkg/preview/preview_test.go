package preview

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleJPEG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	buf := new(bytes.Buffer)
	require.NoError(t, jpeg.Encode(buf, img, nil))
	return buf.Bytes()
}

func TestThumbnailFitsBounds(t *testing.T) {
	g := NewGenerator(50, 50)

	thumb, err := g.Thumbnail(sampleJPEG(t, 200, 100))
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 25, img.Bounds().Dy())
}

func TestDataURI(t *testing.T) {
	uri, err := NewGenerator(DefaultSize, DefaultSize).DataURI(sampleJPEG(t, 20, 20))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))
}

func TestThumbnailRejectsNonImage(t *testing.T) {
	_, err := NewGenerator(50, 50).Thumbnail([]byte("not an image"))
	assert.Error(t, err)
}

// withFrameSize rewrites the SOF0 frame header of a baseline JPEG.
func withFrameSize(t *testing.T, data []byte, w, h uint16) []byte {
	t.Helper()

	out := bytes.Clone(data)
	i := bytes.Index(out, []byte{0xFF, 0xC0})
	require.NotEqual(t, -1, i, "no SOF0 marker")

	// marker(2) length(2) precision(1) height(2) width(2)
	binary.BigEndian.PutUint16(out[i+5:], h)
	binary.BigEndian.PutUint16(out[i+7:], w)
	return out
}

func TestThumbnailRejectsForgedDimensions(t *testing.T) {
	forged := withFrameSize(t, sampleJPEG(t, 16, 16), 20000, 20000)

	_, err := NewGenerator(DefaultSize, DefaultSize).DataURI(forged)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestThumbnailAcceptsMaxDimension(t *testing.T) {
	_, err := NewGenerator(DefaultSize, DefaultSize).Thumbnail(sampleJPEG(t, 8, MaxDimension))
	assert.NoError(t, err)
}
