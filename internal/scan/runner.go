package scan

import (
	"image"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Runner throttles and schedules decodes. At most one decode is in flight
// and at most one starts per interval, so a slow decode never backs up the
// render loop. Results land in a single last-write-wins slot.
type Runner struct {
	decoder  Decoder
	interval time.Duration

	mu        sync.Mutex
	results   []Result
	lastStart time.Time
	inFlight  bool

	alive atomic.Bool
}

// NewRunner wraps a decoder with throttling. interval is the minimum time
// between decode starts.
func NewRunner(decoder Decoder, interval time.Duration) *Runner {
	r := &Runner{decoder: decoder, interval: interval}
	r.alive.Store(true)
	return r
}

// Offer submits a frame for recognition. It returns immediately; the frame
// is dropped when a decode is already running or the throttle window has
// not elapsed.
func (r *Runner) Offer(frame image.Image) {
	if frame == nil {
		return
	}
	r.OfferFunc(func() image.Image { return frame })
}

// OfferFunc is like Offer but only materializes the frame once the
// throttle admits it, so callers can defer an expensive surface copy.
func (r *Runner) OfferFunc(frame func() image.Image) {
	if !r.alive.Load() {
		return
	}

	r.mu.Lock()
	if r.inFlight || time.Since(r.lastStart) < r.interval {
		r.mu.Unlock()
		return
	}
	r.inFlight = true
	r.lastStart = time.Now()
	r.mu.Unlock()

	img := frame()
	if img == nil {
		r.mu.Lock()
		r.inFlight = false
		r.mu.Unlock()
		return
	}
	go r.decode(img)
}

func (r *Runner) decode(frame image.Image) {
	results, err := r.decoder.Decode(frame)

	r.mu.Lock()
	r.inFlight = false
	// A decode finishing after Close must not write into a torn-down slot.
	if r.alive.Load() {
		if err != nil {
			log.Printf("scan: %v", err)
		} else {
			r.results = results
		}
	}
	r.mu.Unlock()
}

// Results returns the most recent recognition output.
func (r *Runner) Results() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results
}

// Clear drops the current results, e.g. after the user dismissed them.
func (r *Runner) Clear() {
	r.mu.Lock()
	r.results = nil
	r.mu.Unlock()
}

// Close stops accepting frames, ignores in-flight output, and releases the
// decoder.
func (r *Runner) Close() error {
	if !r.alive.Swap(false) {
		return nil
	}
	r.mu.Lock()
	r.results = nil
	r.mu.Unlock()
	return r.decoder.Close()
}
