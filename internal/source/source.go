// Package source abstracts the live input feeding the viewport engine:
// a camera device or a static fallback image.
package source

import "image"

// Source supplies frames to the render loop and the capture engine.
type Source interface {
	// Frame returns the most recent frame. An error means the frame could
	// not be produced this instant; callers skip the tick and retry.
	Frame() (image.Image, error)
	// Size returns the source dimensions in pixels, zero while unknown.
	Size() (int, int)
	// Close releases the underlying device or image.
	Close() error
}
