package capture

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"camlens/internal/viewport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 29), G: uint8(y * 31), B: uint8(x + y), A: 255})
		}
	}
	return img
}

func TestRenderPhotoIdentity(t *testing.T) {
	frame := gradientImage(16, 9)

	out, err := RenderPhoto(frame, 16, 9, viewport.Snapshot{Zoom: 1})
	require.NoError(t, err)
	assert.Equal(t, frame.Bounds(), out.Bounds())
	assert.Equal(t, frame.Pix, out.Pix)
}

func TestRenderPhotoCropsAtSourceResolution(t *testing.T) {
	frame := gradientImage(16, 8)

	// Zoom 2 with a pan of (2,1): an 8x4 window anchored at (6,3).
	out, err := RenderPhoto(frame, 16, 8, viewport.Snapshot{Zoom: 2, Pan: r2.Vec{X: 2, Y: 1}})
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 8, 4), out.Bounds())
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, frame.RGBAAt(x+6, y+3), out.RGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestRenderPhotoIgnoresMirroring(t *testing.T) {
	frame := gradientImage(16, 9)

	// The preview mirrors, the saved photo never does.
	out, err := RenderPhoto(frame, 16, 9, viewport.Snapshot{Zoom: 1, Mirrored: true})
	require.NoError(t, err)
	assert.Equal(t, frame.Pix, out.Pix)
}

func TestRenderPhotoErrors(t *testing.T) {
	_, err := RenderPhoto(nil, 16, 9, viewport.Snapshot{Zoom: 1})
	assert.Error(t, err)

	_, err = RenderPhoto(gradientImage(16, 9), 0, 0, viewport.Snapshot{Zoom: 1})
	assert.Error(t, err)
}

// skewedProvider reports a resolution that disagrees with its frame, as
// happens when the source is swapped between two provider calls.
type skewedProvider struct {
	img *image.RGBA
}

func (p *skewedProvider) Frame() (image.Image, error) { return p.img, nil }
func (p *skewedProvider) Size() (int, int)            { return 64, 32 }

type memorySink struct {
	data []byte
}

func (s *memorySink) Save(data []byte, _, _ string, _ Kind) error {
	s.data = data
	return nil
}

func TestPhotoUsesFrameDimensions(t *testing.T) {
	frame := gradientImage(16, 8)
	state := viewport.NewState()
	state.Set(2.0, r2.Vec{})

	sink := &memorySink{}
	engine := NewEngine(&skewedProvider{img: frame}, state, nil, sink, DefaultOptions())

	out, err := engine.Photo()
	require.NoError(t, err)
	require.NotEmpty(t, sink.data)

	// The crop window must come from the 16x8 frame, not the provider's
	// stale 64x32 report: at zoom 2 that is an 8x4 photo.
	decoded, err := jpeg.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 8, decoded.Bounds().Dx())
	assert.Equal(t, 4, decoded.Bounds().Dy())
}

func TestFilename(t *testing.T) {
	ts := time.Date(2026, 8, 23, 14, 30, 5, 0, time.UTC)

	name := filename("IMG", "jpg", ts)
	assert.Regexp(t, `^IMG_20260823_143005_[0-9a-f]{8}\.jpg$`, name)

	// Burst captures within the same second stay distinct.
	assert.NotEqual(t, name, filename("IMG", "jpg", ts))

	assert.Regexp(t, `^VID_20260823_143005_[0-9a-f]{8}\.avi$`, filename("VID", "avi", ts))
}
