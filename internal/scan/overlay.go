package scan

import (
	"image"
	"time"

	"camlens/internal/viewport"
	"camlens/pkg/colorutil"
)

// Overlay returns a render-loop overlay that draws the runner's current
// result boxes onto the surface. Overlay pixels become part of the surface
// and therefore of any video capture taken from it; photo capture renders
// the source independently and never sees them.
func Overlay(r *Runner) viewport.OverlayFunc {
	return func(surface *image.RGBA) {
		for _, res := range r.Results() {
			drawBox(surface, res.Box.X, res.Box.Y, res.Box.Width, res.Box.Height)
			if res.Text != "" {
				DrawLabel(surface, res.Text, res.Box.X, res.Box.Y-labelHeight(2)-2, 2)
			}
		}
	}
}

// TimestampOverlay returns an overlay stamping the current wall-clock time
// into a corner of the surface, composed after fn (which may be nil).
func TimestampOverlay(fn viewport.OverlayFunc) viewport.OverlayFunc {
	return func(surface *image.RGBA) {
		if fn != nil {
			fn(surface)
		}
		DrawLabel(surface, time.Now().Format("2006-01-02 15:04:05"), 8, 8, 2)
	}
}

// drawBox draws a 2px rectangle outline clipped to the surface.
func drawBox(out *image.RGBA, x, y, w, h int) {
	col := colorutil.Green
	b := out.Bounds()
	set := func(px, py int) {
		if px >= b.Min.X && px < b.Max.X && py >= b.Min.Y && py < b.Max.Y {
			out.SetRGBA(px, py, col)
		}
	}
	for t := 0; t < 2; t++ {
		for px := x; px <= x+w; px++ {
			set(px, y+t)
			set(px, y+h-t)
		}
		for py := y; py <= y+h; py++ {
			set(x+t, py)
			set(x+w-t, py)
		}
	}
}
