package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

func testBounds() Bounds {
	return NewBounds(DefaultOptions())
}

func TestMaxOffset(t *testing.T) {
	b := testBounds()

	tests := []struct {
		name   string
		zoom   float64
		wantX  float64
		wantY  float64
	}{
		{"no room at zoom 1", 1.0, 0, 0},
		{"no room below zoom 1", 0.5, 0, 0},
		{"half the source hidden at zoom 2", 2.0, 480, 270},
		{"three quarters hidden at zoom 4", 4.0, 720, 405},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			max := b.MaxOffset(1920, 1080, tt.zoom)
			assert.InDelta(t, tt.wantX, max.X, 1e-9)
			assert.InDelta(t, tt.wantY, max.Y, 1e-9)
		})
	}
}

func TestClampZoom(t *testing.T) {
	b := testBounds()

	assert.Equal(t, 1.0, b.ClampZoom(0.5))
	assert.Equal(t, 1.0, b.ClampZoom(1.0))
	assert.Equal(t, 2.5, b.ClampZoom(2.5))
	assert.Equal(t, 4.0, b.ClampZoom(4.0))
	assert.Equal(t, 4.0, b.ClampZoom(100))
}

func TestClampZoomElastic(t *testing.T) {
	b := testBounds()

	// In range the value passes through untouched.
	assert.Equal(t, 2.5, b.ClampZoomElastic(2.5))

	// Overflow is attenuated by the resistance factor.
	assert.InDelta(t, 4.0+1.0*b.Resistance, b.ClampZoomElastic(5.0), 1e-9)
	assert.InDelta(t, 1.0-0.5*b.Resistance, b.ClampZoomElastic(0.5), 1e-9)
}

func TestClampZoomElasticContinuousAtBounds(t *testing.T) {
	b := testBounds()

	// No jump when crossing either hard bound.
	const eps = 1e-9
	assert.InDelta(t, b.ClampZoomElastic(b.MaxZoom), b.ClampZoomElastic(b.MaxZoom+eps), 1e-6)
	assert.InDelta(t, b.ClampZoomElastic(b.MinZoom), b.ClampZoomElastic(b.MinZoom-eps), 1e-6)
}

func TestClampZoomElasticMonotonic(t *testing.T) {
	b := testBounds()

	prev := b.ClampZoomElastic(0.2)
	for v := 0.3; v < 6.0; v += 0.1 {
		cur := b.ClampZoomElastic(v)
		assert.Greater(t, cur, prev, "elastic clamp must be strictly increasing at %v", v)
		prev = cur
	}
}

func TestClampPan(t *testing.T) {
	b := testBounds()

	// 1920x1080 at zoom 2: legal window is ±480 x ±270.
	pan := b.ClampPan(r2.Vec{X: 10000, Y: -10000}, 1920, 1080, 2.0)
	assert.Equal(t, r2.Vec{X: 480, Y: -270}, pan)

	// In range passes through.
	pan = b.ClampPan(r2.Vec{X: -100, Y: 50}, 1920, 1080, 2.0)
	assert.Equal(t, r2.Vec{X: -100, Y: 50}, pan)

	// At zoom 1 every pan collapses to zero.
	pan = b.ClampPan(r2.Vec{X: 300, Y: 300}, 1920, 1080, 1.0)
	assert.Equal(t, r2.Vec{}, pan)
}

func TestClampPanElastic(t *testing.T) {
	b := testBounds()

	pan := b.ClampPanElastic(r2.Vec{X: 580, Y: -370}, 1920, 1080, 2.0)
	assert.InDelta(t, 480+100*b.Resistance, pan.X, 1e-9)
	assert.InDelta(t, -270-100*b.Resistance, pan.Y, 1e-9)

	pan = b.ClampPanElastic(r2.Vec{X: 100, Y: -200}, 1920, 1080, 2.0)
	assert.Equal(t, r2.Vec{X: 100, Y: -200}, pan)
}

func TestInBounds(t *testing.T) {
	b := testBounds()

	assert.True(t, b.ZoomInBounds(1.0))
	assert.True(t, b.ZoomInBounds(4.0))
	assert.False(t, b.ZoomInBounds(4.0001))
	assert.False(t, b.ZoomInBounds(0.9999))

	assert.True(t, b.PanInBounds(r2.Vec{X: 480, Y: 270}, 1920, 1080, 2.0))
	assert.False(t, b.PanInBounds(r2.Vec{X: 480.5, Y: 0}, 1920, 1080, 2.0))
	assert.False(t, b.PanInBounds(r2.Vec{X: 0, Y: -271}, 1920, 1080, 2.0))
}
