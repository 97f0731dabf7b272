// Package app wires the viewport engine, capture engine, and scanner into
// one application state with a small event bus for the UI.
package app

import (
	"fmt"
	"image"
	"sync"

	"camlens/internal/capture"
	"camlens/internal/scan"
	"camlens/internal/source"
	"camlens/internal/viewport"
)

// EventType identifies different application events.
type EventType int

const (
	EventSourceChanged EventType = iota
	EventSourceLost
	EventPhotoSaved
	EventVideoStarted
	EventVideoSaved
	EventScanToggled
	EventError
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the running engine: the live source, the viewport transform,
// the render loop, capture, and the optional scanner.
type State struct {
	mu sync.RWMutex

	viewOpts viewport.Options
	capOpts  capture.Options

	src        source.Source
	viewState  *viewport.State
	controller *viewport.Controller
	loop       *viewport.Loop
	captures   *capture.Engine
	recorder   *capture.Recorder
	scanner    *scan.Runner
	timestamp  bool

	listeners map[EventType][]EventListener
}

// NewState creates the application state around a save sink.
func NewState(viewOpts viewport.Options, capOpts capture.Options, sink capture.Sink) *State {
	s := &State{
		viewOpts:  viewOpts,
		capOpts:   capOpts,
		viewState: viewport.NewState(),
		listeners: make(map[EventType][]EventListener),
	}
	s.controller = viewport.NewController(s.viewState, viewOpts)
	s.loop = viewport.NewLoop(s, s.viewState, viewOpts)
	s.captures = capture.NewEngine(s, s.viewState, s.loop, sink, capOpts)
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Controller returns the gesture controller.
func (s *State) Controller() *viewport.Controller { return s.controller }

// ViewState returns the viewport transform state.
func (s *State) ViewState() *viewport.State { return s.viewState }

// Loop returns the render loop.
func (s *State) Loop() *viewport.Loop { return s.loop }

// Frame implements viewport.FrameProvider against the current source.
func (s *State) Frame() (image.Image, error) {
	s.mu.RLock()
	src := s.src
	s.mu.RUnlock()
	if src == nil {
		return nil, fmt.Errorf("no source")
	}
	return src.Frame()
}

// Size implements viewport.FrameProvider against the current source.
func (s *State) Size() (int, int) {
	s.mu.RLock()
	src := s.src
	s.mu.RUnlock()
	if src == nil {
		return 0, 0
	}
	return src.Size()
}

// SetSource swaps the live source. The previous source is closed, the
// transform resets to identity, and the render loop picks the new source
// up on its next tick.
func (s *State) SetSource(src source.Source) {
	s.mu.Lock()
	old := s.src
	s.src = src
	s.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}

	w, h := 0, 0
	if src != nil {
		w, h = src.Size()
	}
	s.controller.SetSourceSize(w, h)
	s.Emit(EventSourceChanged, src)
}

// UseCamera opens a capture device and makes it the live source. Device
// loss is surfaced as EventSourceLost; reacquisition is left to the user.
func (s *State) UseCamera(deviceID int) error {
	cam, err := source.OpenCamera(deviceID)
	if err != nil {
		return err
	}
	cam.OnLost(func(err error) {
		s.Emit(EventSourceLost, err)
	})
	s.SetSource(cam)
	return nil
}

// UseImage loads a static image file as the source.
func (s *State) UseImage(path string) error {
	img, err := source.LoadStatic(path)
	if err != nil {
		return err
	}
	s.SetSource(img)
	return nil
}

// TakePhoto captures one photo of the current view.
func (s *State) TakePhoto() (capture.Output, error) {
	out, err := s.captures.Photo()
	if err != nil {
		s.Emit(EventError, err)
		return capture.Output{}, err
	}
	s.Emit(EventPhotoSaved, out)
	return out, nil
}

// Recording reports whether a video recording is in progress.
func (s *State) Recording() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recorder != nil
}

// StartRecording begins video capture from the render surface.
func (s *State) StartRecording() error {
	s.mu.Lock()
	if s.recorder != nil {
		s.mu.Unlock()
		return fmt.Errorf("already recording")
	}
	rec, err := s.captures.StartVideo()
	if err != nil {
		s.mu.Unlock()
		s.Emit(EventError, err)
		return err
	}
	s.recorder = rec
	s.mu.Unlock()

	s.Emit(EventVideoStarted, rec)
	return nil
}

// StopRecording finalizes the current recording and saves it.
func (s *State) StopRecording() (capture.Output, error) {
	s.mu.Lock()
	rec := s.recorder
	s.recorder = nil
	s.mu.Unlock()

	if rec == nil {
		return capture.Output{}, fmt.Errorf("not recording")
	}
	out, err := rec.Stop()
	if err != nil {
		s.Emit(EventError, err)
		return capture.Output{}, err
	}
	s.Emit(EventVideoSaved, out)
	return out, nil
}

// EnableScan attaches a decoder-backed scanner and its overlay to the
// render loop.
func (s *State) EnableScan(decoder scan.Decoder, opts scan.Options) {
	s.mu.Lock()
	if s.scanner != nil {
		s.mu.Unlock()
		return
	}
	runner := scan.NewRunner(decoder, opts.Interval)
	s.scanner = runner
	s.mu.Unlock()

	s.applyOverlay()
	s.Emit(EventScanToggled, true)
}

// DisableScan tears the scanner down and removes its overlay.
func (s *State) DisableScan() {
	s.mu.Lock()
	runner := s.scanner
	s.scanner = nil
	s.mu.Unlock()

	if runner == nil {
		return
	}
	s.applyOverlay()
	_ = runner.Close()
	s.Emit(EventScanToggled, false)
}

// SetTimestamp burns a wall-clock stamp into the render surface, and
// therefore into video capture taken from it.
func (s *State) SetTimestamp(enabled bool) {
	s.mu.Lock()
	if s.timestamp == enabled {
		s.mu.Unlock()
		return
	}
	s.timestamp = enabled
	s.mu.Unlock()
	s.applyOverlay()
}

// Timestamp reports whether the timestamp stamp is active.
func (s *State) Timestamp() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timestamp
}

// applyOverlay rebuilds the render overlay from the active scanner and the
// timestamp flag. The scanner is offered its frame before any overlay pixels
// land on the surface, so the decoder never reads its own output back.
func (s *State) applyOverlay() {
	s.mu.RLock()
	runner := s.scanner
	stamp := s.timestamp
	s.mu.RUnlock()

	var fn viewport.OverlayFunc
	if runner != nil {
		boxes := scan.Overlay(runner)
		fn = func(surface *image.RGBA) {
			runner.OfferFunc(func() image.Image { return cloneRGBA(surface) })
			boxes(surface)
		}
	}
	if stamp {
		fn = scan.TimestampOverlay(fn)
	}
	s.loop.SetOverlay(fn)
}

// Scanner returns the active scan runner, or nil.
func (s *State) Scanner() *scan.Runner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scanner
}

// Close releases everything: recording, render loop, scanner, source.
func (s *State) Close() {
	if rec := func() *capture.Recorder {
		s.mu.Lock()
		defer s.mu.Unlock()
		r := s.recorder
		s.recorder = nil
		return r
	}(); rec != nil {
		_, _ = rec.Stop()
	}

	s.loop.Stop()
	s.controller.Stabilizer().Cancel()
	s.DisableScan()

	s.mu.Lock()
	src := s.src
	s.src = nil
	s.mu.Unlock()
	if src != nil {
		_ = src.Close()
	}
}

// cloneRGBA copies an RGBA image so the decoder can read it while the
// render loop keeps mutating the original.
func cloneRGBA(img *image.RGBA) *image.RGBA {
	clone := image.NewRGBA(img.Bounds())
	copy(clone.Pix, img.Pix)
	return clone
}
