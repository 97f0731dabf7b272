// Package scan runs code/text recognition over preview frames without ever
// stalling the render loop: decodes are throttled, run asynchronously, and
// publish into a last-write-wins slot consumed by the overlay.
package scan

import (
	"image"
	"time"

	"camlens/pkg/geometry"
)

// Options configures the scan subsystem.
type Options struct {
	Interval time.Duration // Minimum time between decode starts
}

// DefaultOptions returns the standard scan throttle.
func DefaultOptions() Options {
	return Options{Interval: 300 * time.Millisecond}
}

// Result is one recognized code or text fragment with its bounding box in
// render-surface coordinates.
type Result struct {
	Text       string
	Box        geometry.RectInt
	Confidence float64
}

// Decoder is the recognition contract. The algorithm behind it is not this
// package's concern; only the frame-in, results-out shape matters.
type Decoder interface {
	Decode(img image.Image) ([]Result, error)
	Close() error
}
