package viewport

// FitMode selects how a source rectangle is scaled into a display rectangle.
type FitMode int

const (
	// FitContain scales the source as large as possible without cropping,
	// preserving aspect ratio (letterboxed).
	FitContain FitMode = iota
	// FitCover scales the source to fill the display entirely, preserving
	// aspect ratio (may overflow).
	FitCover
)

func (f FitMode) String() string {
	switch f {
	case FitCover:
		return "cover"
	default:
		return "contain"
	}
}

// Metrics describes where a scaled source rectangle lands on the display.
// The rendered rectangle is always centered; under FitContain it fits
// entirely inside the display, under FitCover it fills it and may overflow.
type Metrics struct {
	RenderWidth  float64
	RenderHeight float64
	OffsetX      float64
	OffsetY      float64
}

// Zero returns true if the metrics describe nothing to draw.
func (m Metrics) Zero() bool {
	return m.RenderWidth == 0 || m.RenderHeight == 0
}

// ComputeMetrics fits a sourceW×sourceH raster into a displayW×displayH
// area under the given fit policy. Any zero input dimension yields all-zero
// metrics, which callers must treat as "skip drawing this tick".
func ComputeMetrics(sourceW, sourceH, displayW, displayH int, fit FitMode) Metrics {
	if sourceW <= 0 || sourceH <= 0 || displayW <= 0 || displayH <= 0 {
		return Metrics{}
	}

	scaleX := float64(displayW) / float64(sourceW)
	scaleY := float64(displayH) / float64(sourceH)

	scale := scaleX
	if fit == FitCover {
		if scaleY > scaleX {
			scale = scaleY
		}
	} else {
		if scaleY < scaleX {
			scale = scaleY
		}
	}

	renderW := float64(sourceW) * scale
	renderH := float64(sourceH) * scale
	return Metrics{
		RenderWidth:  renderW,
		RenderHeight: renderH,
		OffsetX:      (float64(displayW) - renderW) / 2,
		OffsetY:      (float64(displayH) - renderH) / 2,
	}
}
