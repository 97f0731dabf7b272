package viewport

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
)

// State is the single source of truth for the current transform. The render
// loop, the gesture controller, and the capture paths all read it
// synchronously; a plain mutex keeps the goroutines honest without any
// framework-state indirection.
//
// Zoom is a scalar >= MinZoom. Pan is the offset, in source pixels, of the
// cropped window's center from the source's center. During an active gesture
// both may temporarily overflow their hard bounds under elastic clamping;
// that is expected, not a bug.
type State struct {
	mu       sync.RWMutex
	zoom     float64
	pan      r2.Vec
	mirrored bool
}

// Snapshot is a consistent copy of the transform at one instant.
type Snapshot struct {
	Zoom     float64
	Pan      r2.Vec
	Mirrored bool
}

// NewState returns a State at the identity transform.
func NewState() *State {
	return &State{zoom: 1}
}

// Snapshot returns the current transform.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Zoom: s.zoom, Pan: s.pan, Mirrored: s.mirrored}
}

// Zoom returns the current zoom scalar.
func (s *State) Zoom() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zoom
}

// Pan returns the current pan offset in source pixels.
func (s *State) Pan() r2.Vec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pan
}

// Mirrored returns whether the view is horizontally mirrored.
func (s *State) Mirrored() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mirrored
}

// SetMirrored toggles horizontal mirroring of the view.
func (s *State) SetMirrored(mirrored bool) {
	s.mu.Lock()
	s.mirrored = mirrored
	s.mu.Unlock()
}

// Set replaces zoom and pan atomically.
func (s *State) Set(zoom float64, pan r2.Vec) {
	s.mu.Lock()
	s.zoom = zoom
	s.pan = pan
	s.mu.Unlock()
}

// Reset restores the identity transform (zoom 1, pan 0). Mirroring is a
// view property, not a gesture product, and survives the reset.
func (s *State) Reset() {
	s.mu.Lock()
	s.zoom = 1
	s.pan = r2.Vec{}
	s.mu.Unlock()
}
