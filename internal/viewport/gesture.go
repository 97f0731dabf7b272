package viewport

import (
	"sync"

	"camlens/pkg/geometry"

	"gonum.org/v1/gonum/spatial/r2"
)

// Controller converts raw wheel, drag, multi-touch, double-tap, and
// keyboard input into zoom/pan updates on a State, applying elastic bounds
// during gestures and hard bounds on release.
type Controller struct {
	mu     sync.Mutex
	state  *State
	bounds Bounds
	opts   Options

	sourceW, sourceH   int
	displayW, displayH float64

	// Single-pointer drag
	dragging bool
	lastDrag geometry.Point2D

	// Multi-touch
	touchOrder []int
	touches    map[int]geometry.Point2D
	pinch      *pinchSession

	stab *Stabilizer
}

// pinchSession holds the anchor values of one continuous two-pointer
// gesture. It never outlives the gesture.
type pinchSession struct {
	initialDistance float64
	initialZoom     float64
	lastCenter      geometry.Point2D
}

// NewController creates a gesture controller driving the given state.
func NewController(state *State, opts Options) *Controller {
	c := &Controller{
		state:   state,
		bounds:  NewBounds(opts),
		opts:    opts,
		touches: make(map[int]geometry.Point2D),
	}
	c.stab = NewStabilizer(opts.StabilizerInterval, c.settleStep)
	return c
}

// State returns the controlled viewport state.
func (c *Controller) State() *State { return c.state }

// Stabilizer exposes the boundary stabilizer, mainly for teardown.
func (c *Controller) Stabilizer() *Stabilizer { return c.stab }

// SetSourceSize records the live source dimensions. A change of source
// resets the transform to identity and suspends any running correction.
func (c *Controller) SetSourceSize(w, h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if w == c.sourceW && h == c.sourceH {
		return
	}
	c.stab.Cancel()
	c.sourceW, c.sourceH = w, h
	c.pinch = nil
	c.dragging = false
	c.state.Reset()
}

// SetDisplaySize records the display client dimensions used to convert
// screen deltas into source pixels.
func (c *Controller) SetDisplaySize(w, h float64) {
	c.mu.Lock()
	c.displayW, c.displayH = w, h
	c.mu.Unlock()
}

// Wheel handles a scroll event. With the zoom modifier held the vertical
// delta zooms elastically; otherwise the deltas pan at the (smaller) wheel
// pan sensitivity.
func (c *Controller) Wheel(dx, dy float64, zoomModifier bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stab.Cancel()

	snap := c.state.Snapshot()
	if zoomModifier {
		zoom := c.bounds.ClampZoomElastic(snap.Zoom - dy*c.opts.WheelZoomSensitivity)
		var pan r2.Vec
		if zoom > 1 {
			pan = c.bounds.ClampPan(snap.Pan, c.sourceW, c.sourceH, zoom)
		}
		c.state.Set(zoom, pan)
	} else {
		sx := dx * c.opts.WheelPanSensitivity
		if snap.Mirrored {
			sx = -sx
		}
		pan := r2.Add(snap.Pan, r2.Vec{X: sx, Y: dy * c.opts.WheelPanSensitivity})
		pan = c.bounds.ClampPanElastic(pan, c.sourceW, c.sourceH, snap.Zoom)
		c.state.Set(snap.Zoom, pan)
	}

	// A wheel burst has no release event, so the stabilizer takes over
	// as soon as the value is left out of range.
	c.settleIfNeeded()
}

// DragStart opens a single-pointer drag at screen position x, y.
func (c *Controller) DragStart(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stab.Cancel()
	c.dragging = true
	c.lastDrag = geometry.NewPoint2D(x, y)
}

// Drag moves an open single-pointer drag to screen position x, y.
func (c *Controller) Drag(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dragging {
		return
	}
	c.dragTo(geometry.NewPoint2D(x, y))
}

// DragEnd closes the drag and restores hard bounds.
func (c *Controller) DragEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dragging {
		return
	}
	c.dragging = false
	c.endGesture()
}

// dragTo applies the screen-space delta from the last drag position as an
// elastic pan. Dragging moves the content with the pointer, so the crop
// window center moves opposite to the converted delta.
func (c *Controller) dragTo(pt geometry.Point2D) {
	delta := pt.Sub(c.lastDrag)
	c.lastDrag = pt

	snap := c.state.Snapshot()
	d := c.screenToSource(delta.X, delta.Y, snap.Mirrored)
	pan := r2.Sub(snap.Pan, d)
	pan = c.bounds.ClampPanElastic(pan, c.sourceW, c.sourceH, snap.Zoom)
	c.state.Set(snap.Zoom, pan)
}

// TouchDown registers a touch pointer. The first pointer starts a drag;
// a second one promotes the gesture to a focal-point-preserving pinch.
func (c *Controller) TouchDown(id int, x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stab.Cancel()

	if _, ok := c.touches[id]; !ok {
		c.touchOrder = append(c.touchOrder, id)
	}
	c.touches[id] = geometry.NewPoint2D(x, y)

	switch len(c.touches) {
	case 1:
		c.dragging = true
		c.lastDrag = c.touches[id]
	case 2:
		c.dragging = false
		a, b := c.touchPair()
		c.pinch = &pinchSession{
			initialDistance: a.Distance(b),
			initialZoom:     c.state.Zoom(),
			lastCenter:      a.Midpoint(b),
		}
	}
}

// TouchMove updates a touch pointer's position.
func (c *Controller) TouchMove(id int, x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.touches[id]; !ok {
		return
	}
	c.touches[id] = geometry.NewPoint2D(x, y)

	if c.pinch != nil && len(c.touches) >= 2 {
		c.pinchMove()
		return
	}
	if c.dragging {
		c.dragTo(c.touches[id])
	}
}

// Pinch updates both pinch pointers from one input event. Hosts whose
// toolkits deliver the full touch list per event use this instead of two
// TouchMove calls, so the focal point sees both fingers move at once.
func (c *Controller) Pinch(ax, ay, bx, by float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pinch == nil || len(c.touchOrder) < 2 {
		return
	}
	c.touches[c.touchOrder[0]] = geometry.NewPoint2D(ax, ay)
	c.touches[c.touchOrder[1]] = geometry.NewPoint2D(bx, by)
	c.pinchMove()
}

// TouchUp releases a touch pointer. Dropping from two pointers to one
// continues as a drag anchored at the remaining pointer; releasing the last
// pointer ends the gesture.
func (c *Controller) TouchUp(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.touches[id]; !ok {
		return
	}
	delete(c.touches, id)
	for i, tid := range c.touchOrder {
		if tid == id {
			c.touchOrder = append(c.touchOrder[:i], c.touchOrder[i+1:]...)
			break
		}
	}

	switch len(c.touches) {
	case 1:
		c.pinch = nil
		c.dragging = true
		c.lastDrag = c.touches[c.touchOrder[0]]
	case 0:
		c.pinch = nil
		c.dragging = false
		c.endGesture()
	}
}

// TouchCancel drops all touch pointers and ends the gesture.
func (c *Controller) TouchCancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.touches) == 0 {
		return
	}
	c.touches = make(map[int]geometry.Point2D)
	c.touchOrder = nil
	c.pinch = nil
	c.dragging = false
	c.endGesture()
}

// DoubleTap unconditionally resets the transform to identity.
func (c *Controller) DoubleTap() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stab.Cancel()
	c.pinch = nil
	c.dragging = false
	c.state.Reset()
}

// KeyZoom applies a discrete zoom step (direction ±1), hard-clamped. There
// is no release event for a key press, so no elasticity applies.
func (c *Controller) KeyZoom(direction int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stab.Cancel()

	snap := c.state.Snapshot()
	zoom := c.bounds.ClampZoom(snap.Zoom + float64(direction)*c.opts.KeyZoomStep)
	pan := c.bounds.ClampPan(snap.Pan, c.sourceW, c.sourceH, zoom)
	c.state.Set(zoom, pan)
}

// KeyPan applies a discrete pan step (directions ±1 per axis), hard-clamped.
func (c *Controller) KeyPan(dx, dy int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stab.Cancel()

	snap := c.state.Snapshot()
	pan := r2.Add(snap.Pan, r2.Vec{
		X: float64(dx) * c.opts.KeyPanStep,
		Y: float64(dy) * c.opts.KeyPanStep,
	})
	pan = c.bounds.ClampPan(pan, c.sourceW, c.sourceH, snap.Zoom)
	c.state.Set(snap.Zoom, pan)
}

// pinchMove recomputes zoom and pan for the current two-pointer positions,
// keeping the source point initially under the pinch center visually fixed.
// Caller holds c.mu.
func (c *Controller) pinchMove() {
	sess := c.pinch
	if sess.initialDistance < 1e-6 || c.displayW <= 0 || c.displayH <= 0 {
		return
	}

	a, b := c.touchPair()
	ratio := a.Distance(b) / sess.initialDistance
	ratio = 1 + (ratio-1)*c.opts.PinchSensitivity

	snap := c.state.Snapshot()
	oldZoom := snap.Zoom
	newZoom := c.bounds.ClampZoomElastic(sess.initialZoom * ratio)

	center := a.Midpoint(b)

	// Focal point in source coordinates from the pinch center's relative
	// position in the display rectangle, adjusted for mirroring.
	relX := center.X / c.displayW
	relY := center.Y / c.displayH
	if snap.Mirrored {
		relX = 1 - relX
	}
	focal := r2.Vec{
		X: (relX - 0.5) * float64(c.sourceW),
		Y: (relY - 0.5) * float64(c.sourceH),
	}
	correction := r2.Scale(1/oldZoom-1/newZoom, focal)

	// Raw finger translation since the last tick moves the content with
	// the fingers, exactly like a drag.
	translation := c.screenToSource(center.X-sess.lastCenter.X, center.Y-sess.lastCenter.Y, snap.Mirrored)
	sess.lastCenter = center

	pan := r2.Add(snap.Pan, r2.Sub(correction, translation))
	pan = c.bounds.ClampPanElastic(pan, c.sourceW, c.sourceH, newZoom)
	c.state.Set(newZoom, pan)
}

// touchPair returns the two oldest touch pointers. Caller holds c.mu.
func (c *Controller) touchPair() (geometry.Point2D, geometry.Point2D) {
	return c.touches[c.touchOrder[0]], c.touches[c.touchOrder[1]]
}

// screenToSource converts a screen-space delta into source pixels,
// flipping the horizontal component when the view is mirrored.
// Caller holds c.mu.
func (c *Controller) screenToSource(dx, dy float64, mirrored bool) r2.Vec {
	if c.displayW <= 0 || c.displayH <= 0 {
		return r2.Vec{}
	}
	sx := dx * float64(c.sourceW) / c.displayW
	if mirrored {
		sx = -sx
	}
	return r2.Vec{X: sx, Y: dy * float64(c.sourceH) / c.displayH}
}

// endGesture re-applies hard bounds on release and hands any remaining
// overflow to the stabilizer. Caller holds c.mu.
func (c *Controller) endGesture() {
	snap := c.state.Snapshot()
	zoom := c.bounds.ClampZoom(snap.Zoom)
	pan := c.bounds.ClampPan(snap.Pan, c.sourceW, c.sourceH, zoom)
	c.state.Set(zoom, pan)
	c.settleIfNeeded()
}

// settleIfNeeded starts the stabilizer when the current value is out of its
// hard bound and no gesture is open. Caller holds c.mu.
func (c *Controller) settleIfNeeded() {
	if c.dragging || c.pinch != nil {
		return
	}
	snap := c.state.Snapshot()
	if c.bounds.ZoomInBounds(snap.Zoom) &&
		c.bounds.PanInBounds(snap.Pan, c.sourceW, c.sourceH, snap.Zoom) {
		return
	}
	c.stab.Start()
}

// settleStep is the stabilizer tick: move each out-of-range value a fixed
// fraction toward its hard bound, snapping once within epsilon. Returns
// true when fully settled (or when a gesture reclaimed the state).
func (c *Controller) settleStep() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dragging || c.pinch != nil {
		return true
	}

	gain, eps := c.opts.StabilizerGain, c.opts.SnapEpsilon
	snap := c.state.Snapshot()

	zoom, zoomDone := settleValue(snap.Zoom, c.bounds.ClampZoom(snap.Zoom), gain, eps)

	maxOff := c.bounds.MaxOffset(c.sourceW, c.sourceH, zoom)
	panX, xDone := settleValue(snap.Pan.X, clampFloat(snap.Pan.X, -maxOff.X, maxOff.X), gain, eps)
	panY, yDone := settleValue(snap.Pan.Y, clampFloat(snap.Pan.Y, -maxOff.Y, maxOff.Y), gain, eps)

	c.state.Set(zoom, r2.Vec{X: panX, Y: panY})
	return zoomDone && xDone && yDone
}

// settleValue interpolates v toward target by gain, snapping exactly onto
// the target once within epsilon.
func settleValue(v, target, gain, eps float64) (float64, bool) {
	if diff := target - v; diff > eps || diff < -eps {
		return v + diff*gain, false
	}
	return target, true
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
