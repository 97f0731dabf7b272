package viewport

import (
	"context"
	"image"
	"log"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"
)

// FrameProvider supplies the current source frame to the render loop.
// Implementations live in internal/source.
type FrameProvider interface {
	// Frame returns the most recent source frame.
	Frame() (image.Image, error)
	// Size returns the source dimensions in pixels. Either may be zero
	// while the source is still warming up.
	Size() (int, int)
}

// OverlayFunc draws on top of a freshly composited frame. Overlay pixels
// become part of the surface, and therefore part of any video capture taken
// from it; photo capture re-renders the source independently and never sees
// them.
type OverlayFunc func(*image.RGBA)

// Loop is the continuous compositor: each tick it draws the current crop
// window of the source into a source-resolution render surface under the
// live transform, runs the overlay, and notifies the host.
type Loop struct {
	provider FrameProvider
	state    *State
	interval time.Duration

	mu      sync.Mutex
	surface *image.RGBA
	overlay OverlayFunc
	onFrame func()
	paused  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	scaler xdraw.Scaler
}

// NewLoop creates a render loop over the given provider and state.
func NewLoop(provider FrameProvider, state *State, opts Options) *Loop {
	return &Loop{
		provider: provider,
		state:    state,
		interval: opts.FrameInterval,
		scaler:   xdraw.ApproxBiLinear,
	}
}

// SetOverlay installs the overlay callback. Pass nil to remove it.
func (l *Loop) SetOverlay(fn OverlayFunc) {
	l.mu.Lock()
	l.overlay = fn
	l.mu.Unlock()
}

// OnFrame installs a callback invoked after every composited frame,
// typically a widget refresh.
func (l *Loop) OnFrame(fn func()) {
	l.mu.Lock()
	l.onFrame = fn
	l.mu.Unlock()
}

// SetPaused suspends or resumes drawing. A paused loop keeps ticking so it
// resumes on the very next tick.
func (l *Loop) SetPaused(paused bool) {
	l.mu.Lock()
	l.paused = paused
	l.mu.Unlock()
}

// Start begins the tick loop. It must be matched by Stop, or the loop leaks
// across source changes.
func (l *Loop) Start() {
	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.wg.Add(1)
	go l.run()
}

// Stop cancels the scheduled ticks and waits for the loop to exit.
func (l *Loop) Stop() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	l.wg.Wait()
}

// Surface returns the live render surface. The loop mutates it on its own
// goroutine; callers needing a stable view should use CloneSurface.
func (l *Loop) Surface() *image.RGBA {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.surface
}

// CloneSurface returns a copy of the current render surface, or nil if
// nothing has been composited yet.
func (l *Loop) CloneSurface() *image.RGBA {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.surface == nil {
		return nil
	}
	clone := image.NewRGBA(l.surface.Bounds())
	copy(clone.Pix, l.surface.Pix)
	return clone
}

func (l *Loop) run() {
	defer l.wg.Done()
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.ctx.Done():
			return
		case <-ticker.C:
			if err := l.Tick(); err != nil {
				log.Printf("render: %v", err)
			}
		}
	}
}

// Tick composites one frame. Exported so hosts driving their own refresh
// cadence (and tests) can call it directly.
func (l *Loop) Tick() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.paused {
		return nil
	}

	srcW, srcH := l.provider.Size()
	if srcW <= 0 || srcH <= 0 {
		// Source not ready; skip silently and retry next tick.
		return nil
	}

	if l.surface == nil || l.surface.Bounds().Dx() != srcW || l.surface.Bounds().Dy() != srcH {
		l.surface = image.NewRGBA(image.Rect(0, 0, srcW, srcH))
	}

	frame, err := l.provider.Frame()
	if err != nil {
		return err
	}

	snap := l.state.Snapshot()
	crop := CropWindow(srcW, srcH, snap.Zoom, snap.Pan)
	if crop.Empty() {
		return nil
	}

	l.scaler.Scale(l.surface, l.surface.Bounds(), frame, crop.ImageRect(), xdraw.Src, nil)
	if snap.Mirrored {
		flipHorizontal(l.surface)
	}

	if l.overlay != nil {
		l.overlay(l.surface)
	}
	if l.onFrame != nil {
		l.onFrame()
	}
	return nil
}

// flipHorizontal mirrors an RGBA image in place around its vertical axis.
func flipHorizontal(img *image.RGBA) {
	b := img.Bounds()
	w := b.Dx()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride : (y-b.Min.Y)*img.Stride+w*4]
		for x := 0; x < w/2; x++ {
			l := x * 4
			r := (w - 1 - x) * 4
			row[l], row[r] = row[r], row[l]
			row[l+1], row[r+1] = row[r+1], row[l+1]
			row[l+2], row[r+2] = row[r+2], row[l+2]
			row[l+3], row[r+3] = row[r+3], row[l+3]
		}
	}
}
