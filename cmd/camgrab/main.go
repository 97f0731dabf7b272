// camgrab is a headless one-shot capture tool: open a camera or image,
// apply a zoom/pan transform, and save a single photo.
package main

import (
	"flag"
	"log"

	"camlens/internal/capture"
	"camlens/internal/source"
	"camlens/internal/viewport"

	"gonum.org/v1/gonum/spatial/r2"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	device := flag.Int("device", 0, "camera device ID")
	imagePath := flag.String("image", "", "static image to capture instead of a camera")
	zoom := flag.Float64("zoom", 1.0, "zoom factor")
	panX := flag.Float64("panx", 0, "horizontal pan in source pixels")
	panY := flag.Float64("pany", 0, "vertical pan in source pixels")
	outDir := flag.String("out", ".", "output directory")
	format := flag.String("format", "jpeg", "photo format: jpeg or png")
	quality := flag.Int("quality", 92, "jpeg quality 1-100")
	flag.Parse()

	var (
		src source.Source
		err error
	)
	if *imagePath != "" {
		src, err = source.LoadStatic(*imagePath)
	} else {
		src, err = source.OpenCamera(*device)
	}
	if err != nil {
		log.Fatalf("open source: %v", err)
	}
	defer src.Close()

	// Warm the source up; some camera backends need a frame before they
	// report their real resolution.
	if _, err := src.Frame(); err != nil {
		log.Fatalf("read frame: %v", err)
	}
	srcW, srcH := src.Size()

	opts := viewport.DefaultOptions()
	bounds := viewport.NewBounds(opts)
	state := viewport.NewState()
	z := bounds.ClampZoom(*zoom)
	state.Set(z, bounds.ClampPan(r2.Vec{X: *panX, Y: *panY}, srcW, srcH, z))

	capOpts := capture.DefaultOptions()
	capOpts.Format = *format
	capOpts.Quality = *quality

	engine := capture.NewEngine(src, state, nil, capture.DirSink{Dir: *outDir}, capOpts)
	out, err := engine.Photo()
	if err != nil {
		log.Fatalf("capture: %v", err)
	}
	crop := viewport.CropWindow(srcW, srcH, z, state.Pan())
	log.Printf("Saved %s (%d bytes, crop %dx%d of %dx%d at zoom %.2f)",
		out.Filename, len(out.Data), crop.Width, crop.Height, srcW, srcH, z)
}
