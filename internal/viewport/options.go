// Package viewport implements the zoom/pan transform engine behind the
// camera preview: fit metrics, bounded elastic clamping, gesture handling,
// and the per-frame render loop that composites the live source into a
// raster surface.
package viewport

import "time"

// Options configures the viewport engine. All fields are fixed at
// construction; there are no mutable package-level toggles.
type Options struct {
	MinZoom float64 // Lower zoom bound, 1.0 = whole source visible
	MaxZoom float64 // Upper zoom bound

	WheelZoomSensitivity float64 // Zoom units per wheel delta unit
	WheelPanSensitivity  float64 // Source pixels per wheel delta unit
	PinchSensitivity     float64 // Scales pinch ratio deviation, 1.0 = direct
	KeyZoomStep          float64 // Discrete zoom step for keyboard shortcuts
	KeyPanStep           float64 // Discrete pan step in source pixels

	// Resistance attenuates overflow past a hard bound during an active
	// gesture. 0 disables overflow entirely, 1 disables the bound.
	Resistance float64

	StabilizerInterval time.Duration // Correction tick interval
	StabilizerGain     float64       // Fraction of remaining error removed per tick
	SnapEpsilon        float64       // Distance at which values snap to the bound

	FrameInterval time.Duration // Render loop tick interval
	Fit           FitMode       // How the render surface maps onto the display
}

// DefaultOptions returns the standard engine configuration.
func DefaultOptions() Options {
	return Options{
		MinZoom:              1.0,
		MaxZoom:              4.0,
		WheelZoomSensitivity: 0.004,
		WheelPanSensitivity:  0.5,
		PinchSensitivity:     1.0,
		KeyZoomStep:          0.2,
		KeyPanStep:           20,
		Resistance:           0.3,
		StabilizerInterval:   16 * time.Millisecond,
		StabilizerGain:       0.2,
		SnapEpsilon:          0.001,
		FrameInterval:        16 * time.Millisecond,
		Fit:                  FitContain,
	}
}
