package viewport

import (
	"sync"
	"time"
)

// settleFunc performs one correction step toward the hard bounds and
// reports whether the value has settled.
type settleFunc func() bool

// Stabilizer animates out-of-range zoom/pan back to their hard bounds after
// a gesture ends. Each tick removes a fixed fraction of the remaining error
// and snaps exactly onto the bound once within epsilon.
//
// Start is idempotent: a running stabilizer is never doubled up. Cancel
// suspends it immediately and must be called whenever a new gesture opens,
// so the stabilizer and the gesture controller never fight over the state.
type Stabilizer struct {
	mu       sync.Mutex
	interval time.Duration
	step     settleFunc
	running  bool
	stop     chan struct{}
}

// NewStabilizer creates a stabilizer driving the given correction step.
func NewStabilizer(interval time.Duration, step settleFunc) *Stabilizer {
	return &Stabilizer{interval: interval, step: step}
}

// Start begins the correction loop if it is not already running.
func (st *Stabilizer) Start() {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.running {
		return
	}
	st.running = true
	st.stop = make(chan struct{})
	go st.run(st.stop)
}

// Cancel suspends the correction loop immediately.
func (st *Stabilizer) Cancel() {
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.running {
		return
	}
	st.running = false
	close(st.stop)
}

// Running reports whether the correction loop is active.
func (st *Stabilizer) Running() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.running
}

func (st *Stabilizer) run(stop chan struct{}) {
	ticker := time.NewTicker(st.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if st.step() {
				st.mu.Lock()
				// Only clear if this run wasn't already cancelled and
				// restarted with a fresh stop channel.
				if st.running && st.stop == stop {
					st.running = false
				}
				st.mu.Unlock()
				return
			}
		}
	}
}
