package viewport

import (
	"math"

	"camlens/pkg/geometry"

	"gonum.org/v1/gonum/spatial/r2"
)

// CropWindow computes the sub-rectangle of the source that is visible at
// the given zoom and pan: a centered window of size source/zoom, shifted by
// pan, then clamped so it never leaves the source bounds. The returned
// window is what the render loop draws and what photo capture re-renders.
func CropWindow(sourceW, sourceH int, zoom float64, pan r2.Vec) geometry.RectInt {
	if sourceW <= 0 || sourceH <= 0 {
		return geometry.RectInt{}
	}
	if zoom < 1 {
		zoom = 1
	}

	w := int(math.Round(float64(sourceW) / zoom))
	h := int(math.Round(float64(sourceH) / zoom))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	x := int(math.Round((float64(sourceW)-float64(w))/2 + pan.X))
	y := int(math.Round((float64(sourceH)-float64(h))/2 + pan.Y))

	x = clampInt(x, 0, sourceW-w)
	y = clampInt(y, 0, sourceH-h)

	return geometry.RectInt{X: x, Y: y, Width: w, Height: h}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
