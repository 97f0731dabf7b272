package viewport

import (
	"errors"
	"image"
	"image/color"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

// fakeProvider serves a fixed frame, standing in for a camera.
type fakeProvider struct {
	img *image.RGBA
	err error
}

func (f *fakeProvider) Frame() (image.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}

func (f *fakeProvider) Size() (int, int) {
	if f.img == nil {
		return 0, 0
	}
	b := f.img.Bounds()
	return b.Dx(), b.Dy()
}

// gradientImage gives every pixel a unique color so copies and flips are
// checkable pixel for pixel.
func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 29), G: uint8(y * 31), B: uint8(x + y), A: 255})
		}
	}
	return img
}

func newTestLoop(img *image.RGBA) (*Loop, *fakeProvider, *State) {
	provider := &fakeProvider{img: img}
	state := NewState()
	return NewLoop(provider, state, DefaultOptions()), provider, state
}

func TestTickIdentityCopiesFrame(t *testing.T) {
	frame := gradientImage(8, 4)
	l, _, _ := newTestLoop(frame)

	require.NoError(t, l.Tick())
	surface := l.Surface()
	require.NotNil(t, surface)
	assert.Equal(t, frame.Bounds(), surface.Bounds())
	assert.Equal(t, frame.Pix, surface.Pix)
}

func TestTickMirrorsSurface(t *testing.T) {
	frame := gradientImage(8, 4)
	l, _, state := newTestLoop(frame)
	state.SetMirrored(true)

	require.NoError(t, l.Tick())
	surface := l.Surface()
	require.NotNil(t, surface)
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, frame.RGBAAt(7-x, y), surface.RGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestTickZoomShowsCropOnly(t *testing.T) {
	// Blue frame with a red center quadrant; at zoom 2 only the red center
	// survives on the surface.
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	frame := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := blue
			if x >= 2 && x < 6 && y >= 2 && y < 6 {
				c = red
			}
			frame.SetRGBA(x, y, c)
		}
	}

	l, _, state := newTestLoop(frame)
	state.Set(2.0, r2.Vec{})

	require.NoError(t, l.Tick())
	surface := l.Surface()
	require.NotNil(t, surface)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, red, surface.RGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestTickPausedSkipsCompositing(t *testing.T) {
	l, _, _ := newTestLoop(gradientImage(8, 4))

	l.SetPaused(true)
	require.NoError(t, l.Tick())
	assert.Nil(t, l.Surface())

	l.SetPaused(false)
	require.NoError(t, l.Tick())
	assert.NotNil(t, l.Surface())
}

func TestTickSourceNotReady(t *testing.T) {
	l, _, _ := newTestLoop(nil)
	require.NoError(t, l.Tick())
	assert.Nil(t, l.Surface())
}

func TestTickPropagatesFrameError(t *testing.T) {
	l, provider, _ := newTestLoop(gradientImage(8, 4))
	provider.err = errors.New("device gone")

	err := l.Tick()
	assert.ErrorContains(t, err, "device gone")
}

func TestTickRunsOverlayAndNotifies(t *testing.T) {
	l, _, _ := newTestLoop(gradientImage(8, 4))

	marker := color.RGBA{R: 1, G: 2, B: 3, A: 255}
	l.SetOverlay(func(img *image.RGBA) {
		img.SetRGBA(0, 0, marker)
	})
	notified := false
	l.OnFrame(func() { notified = true })

	require.NoError(t, l.Tick())
	assert.Equal(t, marker, l.Surface().RGBAAt(0, 0))
	assert.True(t, notified)
}

func TestTickResizesSurfaceWithSource(t *testing.T) {
	l, provider, _ := newTestLoop(gradientImage(8, 4))

	require.NoError(t, l.Tick())
	require.Equal(t, image.Rect(0, 0, 8, 4), l.Surface().Bounds())

	provider.img = gradientImage(16, 8)
	require.NoError(t, l.Tick())
	assert.Equal(t, image.Rect(0, 0, 16, 8), l.Surface().Bounds())
}

func TestCloneSurfaceIsIndependent(t *testing.T) {
	l, _, _ := newTestLoop(gradientImage(8, 4))

	assert.Nil(t, l.CloneSurface())

	require.NoError(t, l.Tick())
	clone := l.CloneSurface()
	require.NotNil(t, clone)

	clone.SetRGBA(0, 0, color.RGBA{R: 99, A: 255})
	assert.NotEqual(t, clone.RGBAAt(0, 0), l.Surface().RGBAAt(0, 0))
}

func TestLoopStartStop(t *testing.T) {
	provider := &fakeProvider{img: gradientImage(8, 4)}
	state := NewState()
	opts := DefaultOptions()
	opts.FrameInterval = time.Millisecond
	l := NewLoop(provider, state, opts)

	var ticks atomic.Int32
	l.OnFrame(func() { ticks.Add(1) })

	l.Start()
	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)
	l.Stop()

	after := ticks.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, after, ticks.Load())

	// Stop on a never-started loop is harmless.
	idle := NewLoop(provider, state, opts)
	idle.Stop()
}

func TestFlipHorizontalOddWidth(t *testing.T) {
	img := gradientImage(5, 2)
	want := gradientImage(5, 2)

	flipHorizontal(img)
	for y := 0; y < 2; y++ {
		for x := 0; x < 5; x++ {
			assert.Equal(t, want.RGBAAt(4-x, y), img.RGBAAt(x, y))
		}
	}
	// The middle column is its own mirror.
	assert.Equal(t, want.RGBAAt(2, 0), img.RGBAAt(2, 0))
}
