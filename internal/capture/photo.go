package capture

import (
	"fmt"
	"image"
	"time"

	"camlens/internal/viewport"

	"gocv.io/x/gocv"
	xdraw "golang.org/x/image/draw"
)

// Photo captures a single full-resolution photo of what the user currently
// sees: the live crop window at source resolution, unmirrored and without
// overlays. The encoded payload is handed to the sink; nothing reaches the
// sink on failure.
func (e *Engine) Photo() (Output, error) {
	frame, err := e.provider.Frame()
	if err != nil {
		return Output{}, fmt.Errorf("photo: %w", err)
	}
	// Dimensions come from the frame itself; a source swap between two
	// provider calls must not crop a new-size window out of an old frame.
	b := frame.Bounds()

	// Read the transform at the exact moment of capture.
	snap := e.state.Snapshot()

	img, err := RenderPhoto(frame, b.Dx(), b.Dy(), snap)
	if err != nil {
		return Output{}, err
	}

	data, mime, ext, err := encodeImage(img, e.opts.Format, e.opts.Quality)
	if err != nil {
		return Output{}, err
	}

	out := Output{
		Data:     data,
		Filename: filename("IMG", ext, time.Now()),
		MIME:     mime,
		Kind:     KindPhoto,
	}
	if err := e.sink.Save(out.Data, out.Filename, out.MIME, out.Kind); err != nil {
		return Output{}, err
	}
	return out, nil
}

// RenderPhoto renders the crop window for the given transform into a fresh
// buffer sized to the window itself, so the photo keeps full source
// resolution regardless of the display size. It uses the same crop math as
// the render loop but never mirrors and never runs overlays.
func RenderPhoto(frame image.Image, srcW, srcH int, snap viewport.Snapshot) (*image.RGBA, error) {
	if frame == nil || srcW <= 0 || srcH <= 0 {
		return nil, fmt.Errorf("photo: no source frame")
	}

	crop := viewport.CropWindow(srcW, srcH, snap.Zoom, snap.Pan)
	if crop.Empty() {
		return nil, fmt.Errorf("photo: empty crop window")
	}

	out := image.NewRGBA(image.Rect(0, 0, crop.Width, crop.Height))
	xdraw.Copy(out, image.Point{}, frame, crop.ImageRect(), xdraw.Src, nil)
	return out, nil
}

// encodeImage encodes an RGBA buffer in the configured format.
func encodeImage(img *image.RGBA, format string, quality int) (data []byte, mime, ext string, err error) {
	mat, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return nil, "", "", fmt.Errorf("photo: convert to mat: %w", err)
	}
	defer mat.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR)

	var fileExt gocv.FileExt
	var params []int
	switch format {
	case "png":
		fileExt, mime, ext = gocv.PNGFileExt, "image/png", "png"
	case "jpeg", "jpg", "":
		fileExt, mime, ext = gocv.JPEGFileExt, "image/jpeg", "jpg"
		params = []int{gocv.IMWriteJpegQuality, quality}
	default:
		return nil, "", "", fmt.Errorf("photo: unsupported format %q", format)
	}

	buf, err := gocv.IMEncodeWithParams(fileExt, bgr, params)
	if err != nil {
		return nil, "", "", fmt.Errorf("photo: encode %s: %w", format, err)
	}
	defer buf.Close()

	data = make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, mime, ext, nil
}
