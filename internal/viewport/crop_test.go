package viewport

import (
	"testing"

	"camlens/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestCropWindow(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		zoom       float64
		pan        r2.Vec
		want       geometry.RectInt
	}{
		{
			name: "identity shows the whole source",
			srcW: 1920, srcH: 1080, zoom: 1.0,
			want: geometry.RectInt{X: 0, Y: 0, Width: 1920, Height: 1080},
		},
		{
			name: "zoom 2 centers a half-size window",
			srcW: 1920, srcH: 1080, zoom: 2.0,
			want: geometry.RectInt{X: 480, Y: 270, Width: 960, Height: 540},
		},
		{
			name: "pan shifts the window",
			srcW: 1920, srcH: 1080, zoom: 2.0, pan: r2.Vec{X: 100, Y: -50},
			want: geometry.RectInt{X: 580, Y: 220, Width: 960, Height: 540},
		},
		{
			name: "pan at the limit touches the edge",
			srcW: 1920, srcH: 1080, zoom: 2.0, pan: r2.Vec{X: 480, Y: 270},
			want: geometry.RectInt{X: 960, Y: 540, Width: 960, Height: 540},
		},
		{
			name: "overflowing pan clamps to the source",
			srcW: 1920, srcH: 1080, zoom: 2.0, pan: r2.Vec{X: 10000, Y: -10000},
			want: geometry.RectInt{X: 960, Y: 0, Width: 960, Height: 540},
		},
		{
			name: "zoom below 1 is treated as identity",
			srcW: 1920, srcH: 1080, zoom: 0.25,
			want: geometry.RectInt{X: 0, Y: 0, Width: 1920, Height: 1080},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CropWindow(tt.srcW, tt.srcH, tt.zoom, tt.pan)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCropWindowEmptySource(t *testing.T) {
	assert.True(t, CropWindow(0, 1080, 2.0, r2.Vec{}).Empty())
	assert.True(t, CropWindow(1920, 0, 2.0, r2.Vec{}).Empty())
}

// The crop window must never leave the source, whatever zoom and pan the
// caller feeds in, including values far outside the hard bounds.
func TestCropWindowStaysInsideSource(t *testing.T) {
	zooms := []float64{0.5, 1, 1.37, 2, 2.9, 4, 7.3}
	pans := []r2.Vec{
		{}, {X: 480, Y: 270}, {X: -480, Y: -270},
		{X: 5000, Y: 5000}, {X: -5000, Y: 5000}, {X: 123.4, Y: -99.9},
	}

	for _, zoom := range zooms {
		for _, pan := range pans {
			crop := CropWindow(1920, 1080, zoom, pan)
			assert.False(t, crop.Empty(), "zoom=%v pan=%v", zoom, pan)
			assert.True(t, crop.In(1920, 1080), "zoom=%v pan=%v crop=%+v", zoom, pan, crop)
		}
	}
}

func TestCropWindowTinySource(t *testing.T) {
	// Extreme zoom on a tiny source still yields at least one pixel.
	crop := CropWindow(3, 3, 4.0, r2.Vec{})
	assert.GreaterOrEqual(t, crop.Width, 1)
	assert.GreaterOrEqual(t, crop.Height, 1)
	assert.True(t, crop.In(3, 3))
}
