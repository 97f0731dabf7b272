package scan

import (
	"image"
	"image/color"
	"testing"
	"time"

	"camlens/pkg/colorutil"
	"camlens/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blankSurface(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestOverlayDrawsResultBoxes(t *testing.T) {
	d := &fakeDecoder{}
	d.setResults([]Result{{Box: geometry.RectInt{X: 20, Y: 30, Width: 40, Height: 20}}})
	r := NewRunner(d, 0)
	defer r.Close()

	r.Offer(testFrame())
	require.Eventually(t, func() bool { return len(r.Results()) == 1 },
		time.Second, time.Millisecond)

	surface := blankSurface(100, 100)
	Overlay(r)(surface)

	assert.Equal(t, colorutil.Green, surface.RGBAAt(20, 30), "top-left corner")
	assert.Equal(t, colorutil.Green, surface.RGBAAt(60, 50), "bottom-right corner")
	assert.Equal(t, colorutil.Green, surface.RGBAAt(40, 31), "second outline row")
	assert.Equal(t, color.RGBA{}, surface.RGBAAt(40, 40), "interior stays clear")
}

func TestOverlayClipsToSurface(t *testing.T) {
	d := &fakeDecoder{}
	d.setResults([]Result{{Text: "X9", Box: geometry.RectInt{X: -10, Y: -10, Width: 200, Height: 200}}})
	r := NewRunner(d, 0)
	defer r.Close()

	r.Offer(testFrame())
	require.Eventually(t, func() bool { return len(r.Results()) == 1 },
		time.Second, time.Millisecond)

	// Must not panic on out-of-bounds boxes or labels above the surface.
	Overlay(r)(blankSurface(32, 32))
}

func TestOverlayEmptyResults(t *testing.T) {
	d := &fakeDecoder{}
	r := NewRunner(d, 0)
	defer r.Close()

	surface := blankSurface(16, 16)
	Overlay(r)(surface)
	assert.Equal(t, blankSurface(16, 16).Pix, surface.Pix)
}

func TestTimestampOverlayComposes(t *testing.T) {
	inner := 0
	fn := TimestampOverlay(func(*image.RGBA) { inner++ })

	surface := blankSurface(400, 60)
	fn(surface)
	assert.Equal(t, 1, inner)

	// The stamp leaves white glyph pixels behind.
	white := 0
	for i := 0; i < len(surface.Pix); i += 4 {
		if surface.Pix[i] == 255 && surface.Pix[i+1] == 255 && surface.Pix[i+2] == 255 {
			white++
		}
	}
	assert.Greater(t, white, 0)

	// nil inner overlay is allowed.
	TimestampOverlay(nil)(blankSurface(400, 60))
}

func TestDrawLabel(t *testing.T) {
	surface := blankSurface(20, 10)
	DrawLabel(surface, "1", 0, 0, 1)

	// The digit 1 glyph has its top pixel in the middle column.
	assert.Equal(t, colorutil.White, surface.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{}, surface.RGBAAt(0, 0))

	// Lowercase maps onto the uppercase glyphs.
	a := blankSurface(20, 10)
	b := blankSurface(20, 10)
	DrawLabel(a, "a", 0, 0, 1)
	DrawLabel(b, "A", 0, 0, 1)
	assert.Equal(t, b.Pix, a.Pix)

	// Unknown runes render as blanks, not garbage.
	c := blankSurface(20, 10)
	DrawLabel(c, "€", 0, 0, 1)
	assert.Equal(t, blankSurface(20, 10).Pix, c.Pix)
}

func TestDrawLabelScale(t *testing.T) {
	surface := blankSurface(40, 20)
	DrawLabel(surface, "1", 0, 0, 2)

	// Each glyph pixel becomes a 2x2 block.
	assert.Equal(t, colorutil.White, surface.RGBAAt(2, 0))
	assert.Equal(t, colorutil.White, surface.RGBAAt(3, 1))
	assert.Equal(t, 10, labelHeight(2))
}
