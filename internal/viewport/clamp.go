package viewport

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Bounds applies hard and elastic limits to zoom and pan.
//
// Pan limits follow the crop-window model: at zoom z a centered window of
// size source/z is cropped from the source, so the window center can move
// at most (source - source/z)/2 pixels per axis before the window would
// leave the source.
type Bounds struct {
	MinZoom    float64
	MaxZoom    float64
	Resistance float64
}

// NewBounds derives clamp limits from engine options.
func NewBounds(opts Options) Bounds {
	return Bounds{
		MinZoom:    opts.MinZoom,
		MaxZoom:    opts.MaxZoom,
		Resistance: opts.Resistance,
	}
}

// MaxOffset returns the largest legal pan magnitude per axis at the given
// zoom. Zoom at or below 1 leaves no room to pan.
func (b Bounds) MaxOffset(sourceW, sourceH int, zoom float64) r2.Vec {
	if zoom <= 1 {
		return r2.Vec{}
	}
	return r2.Vec{
		X: (float64(sourceW) - float64(sourceW)/zoom) / 2,
		Y: (float64(sourceH) - float64(sourceH)/zoom) / 2,
	}
}

// ClampZoom hard-clamps zoom into [MinZoom, MaxZoom].
func (b Bounds) ClampZoom(zoom float64) float64 {
	return math.Max(b.MinZoom, math.Min(zoom, b.MaxZoom))
}

// ClampZoomElastic clamps zoom with resistance: overflow past a hard bound
// is allowed but attenuated, so the mapping stays continuous and monotonic
// across the boundary.
func (b Bounds) ClampZoomElastic(zoom float64) float64 {
	return elastic(zoom, b.MinZoom, b.MaxZoom, b.Resistance)
}

// ClampPan hard-clamps pan into the legal window for the given zoom.
func (b Bounds) ClampPan(pan r2.Vec, sourceW, sourceH int, zoom float64) r2.Vec {
	max := b.MaxOffset(sourceW, sourceH, zoom)
	return r2.Vec{
		X: math.Max(-max.X, math.Min(pan.X, max.X)),
		Y: math.Max(-max.Y, math.Min(pan.Y, max.Y)),
	}
}

// ClampPanElastic clamps pan with resistance per axis.
func (b Bounds) ClampPanElastic(pan r2.Vec, sourceW, sourceH int, zoom float64) r2.Vec {
	max := b.MaxOffset(sourceW, sourceH, zoom)
	return r2.Vec{
		X: elastic(pan.X, -max.X, max.X, b.Resistance),
		Y: elastic(pan.Y, -max.Y, max.Y, b.Resistance),
	}
}

// ZoomInBounds reports whether zoom is within its hard limits.
func (b Bounds) ZoomInBounds(zoom float64) bool {
	return zoom >= b.MinZoom && zoom <= b.MaxZoom
}

// PanInBounds reports whether pan is within its hard limits at the given zoom.
func (b Bounds) PanInBounds(pan r2.Vec, sourceW, sourceH int, zoom float64) bool {
	max := b.MaxOffset(sourceW, sourceH, zoom)
	return pan.X >= -max.X && pan.X <= max.X &&
		pan.Y >= -max.Y && pan.Y <= max.Y
}

// elastic maps v into [lo, hi] with attenuated overflow: past a bound the
// excess is multiplied by the resistance factor r. At r=0 this degenerates
// to a hard clamp; the function is continuous and monotonic at both bounds.
func elastic(v, lo, hi, r float64) float64 {
	switch {
	case v > hi:
		return hi + (v-hi)*r
	case v < lo:
		return lo + (v-lo)*r
	default:
		return v
	}
}
