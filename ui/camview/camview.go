// Package camview provides the Fyne widget hosting the camera preview:
// it paints the render loop's surface and feeds pointer, wheel, touch, and
// keyboard events into the gesture controller.
package camview

import (
	"image"
	"math"

	"camlens/internal/viewport"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"
)

// View is the preview widget. Wheel zooms while the control key is held and
// pans otherwise; dragging pans; double-tap resets the transform.
type View struct {
	widget.BaseWidget

	controller *viewport.Controller
	loop       *viewport.Loop
	raster     *fynecanvas.Raster

	fit      viewport.FitMode
	ctrlHeld bool
	dragging bool
}

// New creates the preview widget over a controller and render loop.
func New(controller *viewport.Controller, loop *viewport.Loop, fit viewport.FitMode) *View {
	v := &View{
		controller: controller,
		loop:       loop,
		fit:        fit,
	}
	v.raster = fynecanvas.NewRaster(v.draw)
	v.raster.ScaleMode = fynecanvas.ImageScalePixels
	v.ExtendBaseWidget(v)

	loop.OnFrame(v.raster.Refresh)
	return v
}

// SetFit changes how the surface maps onto the widget area.
func (v *View) SetFit(fit viewport.FitMode) {
	v.fit = fit
	v.raster.Refresh()
}

// Fit returns the current fit mode.
func (v *View) Fit() viewport.FitMode { return v.fit }

// CreateRenderer implements fyne.Widget.
func (v *View) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// draw is the raster drawing function: letterbox (contain) or fill (cover)
// the current render surface into the widget area.
func (v *View) draw(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	// Opaque black background
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 255
	}

	surface := v.loop.CloneSurface()
	if surface == nil {
		return out
	}
	sw, sh := surface.Bounds().Dx(), surface.Bounds().Dy()

	m := viewport.ComputeMetrics(sw, sh, w, h, v.fit)
	if m.Zero() {
		return out
	}

	// Gesture deltas convert through the rectangle the source actually
	// occupies on screen.
	v.controller.SetDisplaySize(m.RenderWidth, m.RenderHeight)

	dst := image.Rect(
		int(math.Round(m.OffsetX)),
		int(math.Round(m.OffsetY)),
		int(math.Round(m.OffsetX+m.RenderWidth)),
		int(math.Round(m.OffsetY+m.RenderHeight)),
	)
	xdraw.ApproxBiLinear.Scale(out, dst, surface, surface.Bounds(), xdraw.Src, nil)
	return out
}

// Scrolled zooms with the control key held, pans otherwise. Fyne reports
// wheel-up as positive DY; the controller expects browser-style deltas.
func (v *View) Scrolled(ev *fyne.ScrollEvent) {
	v.controller.Wheel(-float64(ev.Scrolled.DX), -float64(ev.Scrolled.DY), v.ctrlHeld)
}

// Dragged pans the view with the pointer.
func (v *View) Dragged(ev *fyne.DragEvent) {
	if !v.dragging {
		v.dragging = true
		v.controller.DragStart(
			float64(ev.Position.X-ev.Dragged.DX),
			float64(ev.Position.Y-ev.Dragged.DY),
		)
	}
	v.controller.Drag(float64(ev.Position.X), float64(ev.Position.Y))
}

// DragEnd closes the pan gesture.
func (v *View) DragEnd() {
	v.dragging = false
	v.controller.DragEnd()
}

// Tapped claims keyboard focus so shortcuts work after a click.
func (v *View) Tapped(_ *fyne.PointEvent) {
	if c := fyne.CurrentApp().Driver().CanvasForObject(v); c != nil {
		c.Focus(v)
	}
}

// DoubleTapped resets zoom and pan to identity.
func (v *View) DoubleTapped(_ *fyne.PointEvent) {
	v.controller.DoubleTap()
}

// TouchDown forwards a touch press. Fyne delivers no pointer IDs, so touch
// input degrades to the single-pointer drag path; pinch-capable hosts talk
// to the controller directly.
func (v *View) TouchDown(ev *mobile.TouchEvent) {
	v.controller.TouchDown(0, float64(ev.Position.X), float64(ev.Position.Y))
}

// TouchUp forwards a touch release.
func (v *View) TouchUp(_ *mobile.TouchEvent) {
	v.controller.TouchUp(0)
}

// TouchCancel aborts the touch gesture.
func (v *View) TouchCancel(_ *mobile.TouchEvent) {
	v.controller.TouchCancel()
}

// FocusGained implements fyne.Focusable.
func (v *View) FocusGained() {}

// FocusLost drops the modifier state so a stale control key can't stick.
func (v *View) FocusLost() {
	v.ctrlHeld = false
}

// TypedRune implements fyne.Focusable.
func (v *View) TypedRune(_ rune) {}

// TypedKey handles the discrete zoom and pan shortcuts.
func (v *View) TypedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyPlus, fyne.KeyEqual:
		v.controller.KeyZoom(+1)
	case fyne.KeyMinus:
		v.controller.KeyZoom(-1)
	case fyne.KeyLeft:
		v.controller.KeyPan(-1, 0)
	case fyne.KeyRight:
		v.controller.KeyPan(+1, 0)
	case fyne.KeyUp:
		v.controller.KeyPan(0, -1)
	case fyne.KeyDown:
		v.controller.KeyPan(0, +1)
	}
}

// KeyDown tracks the wheel-zoom modifier.
func (v *View) KeyDown(ev *fyne.KeyEvent) {
	if isControl(ev.Name) {
		v.ctrlHeld = true
	}
}

// KeyUp tracks the wheel-zoom modifier.
func (v *View) KeyUp(ev *fyne.KeyEvent) {
	if isControl(ev.Name) {
		v.ctrlHeld = false
	}
}

func isControl(name fyne.KeyName) bool {
	return name == desktop.KeyControlLeft || name == desktop.KeyControlRight
}

// Refresh repaints the preview.
func (v *View) Refresh() {
	v.raster.Refresh()
	v.BaseWidget.Refresh()
}
