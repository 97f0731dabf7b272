// Package capture produces photo and video output matching the on-screen
// transform exactly, and hands the results to a pluggable save sink.
package capture

import (
	"fmt"
	"time"

	"camlens/internal/viewport"

	"github.com/google/uuid"
)

// Kind distinguishes sink payloads.
type Kind string

const (
	KindPhoto Kind = "photo"
	KindVideo Kind = "video"
)

// Output is the ephemeral result of one capture. The engine does not retain
// it after the sink handoff.
type Output struct {
	Data     []byte
	Filename string
	MIME     string
	Kind     Kind
	Duration time.Duration // Video only
}

// Options configures the capture engine.
type Options struct {
	Format     string  // Photo format: "jpeg" or "png"
	Quality    int     // JPEG quality 1-100
	FPS        float64 // Video frame rate
	VideoCodec string  // FourCC handed to the video writer
}

// DefaultOptions returns the standard capture configuration.
func DefaultOptions() Options {
	return Options{
		Format:     "jpeg",
		Quality:    92,
		FPS:        30,
		VideoCodec: "MJPG",
	}
}

// Engine drives photo and video capture over the live source, viewport
// state, and render loop. State is read synchronously at the moment of
// capture, never from an earlier copy.
type Engine struct {
	provider viewport.FrameProvider
	state    *viewport.State
	loop     *viewport.Loop
	sink     Sink
	opts     Options
}

// NewEngine creates a capture engine.
func NewEngine(provider viewport.FrameProvider, state *viewport.State, loop *viewport.Loop, sink Sink, opts Options) *Engine {
	return &Engine{provider: provider, state: state, loop: loop, sink: sink, opts: opts}
}

// filename derives a capture filename from the capture timestamp plus a
// short random ID to keep burst captures within one second distinct.
func filename(prefix, ext string, t time.Time) string {
	return fmt.Sprintf("%s_%s_%s.%s", prefix, t.Format("20060102_150405"), uuid.NewString()[:8], ext)
}
