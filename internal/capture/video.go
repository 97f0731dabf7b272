package capture

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"
	xdraw "golang.org/x/image/draw"
)

// Recorder captures a continuous frame stream directly from the render
// surface. The surface already reflects zoom, pan, mirroring, and overlays
// each tick, so no transform work happens at capture time.
type Recorder struct {
	engine *Engine

	mu      sync.Mutex
	writer  *gocv.VideoWriter
	tmpPath string
	width   int
	height  int
	started time.Time
	frames  int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// StartVideo begins recording from the render surface at the configured
// frame rate. The render loop must already be producing frames.
func (e *Engine) StartVideo() (*Recorder, error) {
	surface := e.loop.CloneSurface()
	if surface == nil {
		return nil, fmt.Errorf("video: render surface not ready")
	}
	w, h := surface.Bounds().Dx(), surface.Bounds().Dy()

	started := time.Now()
	tmpPath := filepath.Join(os.TempDir(), filename("VID", "avi", started))
	writer, err := gocv.VideoWriterFile(tmpPath, e.opts.VideoCodec, e.opts.FPS, w, h, true)
	if err != nil {
		return nil, fmt.Errorf("video: open writer: %w", err)
	}

	r := &Recorder{
		engine:  e,
		writer:  writer,
		tmpPath: tmpPath,
		width:   w,
		height:  h,
		started: started,
	}
	r.ctx, r.cancel = context.WithCancel(context.Background())
	r.wg.Add(1)
	go r.run()
	return r, nil
}

func (r *Recorder) run() {
	defer r.wg.Done()
	ticker := time.NewTicker(time.Duration(float64(time.Second) / r.engine.opts.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			if err := r.writeFrame(); err != nil {
				log.Printf("video: %v", err)
			}
		}
	}
}

// writeFrame appends the current render surface to the container. A source
// switch mid-recording changes the surface resolution; frames are rescaled
// onto the recording's fixed geometry rather than aborting the take.
func (r *Recorder) writeFrame() error {
	surface := r.engine.loop.CloneSurface()
	if surface == nil {
		return nil
	}
	if surface.Bounds().Dx() != r.width || surface.Bounds().Dy() != r.height {
		scaled := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
		xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), surface, surface.Bounds(), xdraw.Src, nil)
		surface = scaled
	}

	mat, err := gocv.ImageToMatRGBA(surface)
	if err != nil {
		return fmt.Errorf("convert frame: %w", err)
	}
	defer mat.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writer == nil {
		return nil
	}
	if err := r.writer.Write(bgr); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	r.frames++
	return nil
}

// Stop finalizes the recording and hands the container to the sink. The
// temp file is removed either way; nothing reaches the sink on failure.
func (r *Recorder) Stop() (Output, error) {
	r.cancel()
	r.wg.Wait()

	r.mu.Lock()
	writer := r.writer
	r.writer = nil
	r.mu.Unlock()

	defer os.Remove(r.tmpPath)
	if writer != nil {
		if err := writer.Close(); err != nil {
			return Output{}, fmt.Errorf("video: finalize: %w", err)
		}
	}

	data, err := os.ReadFile(r.tmpPath)
	if err != nil {
		return Output{}, fmt.Errorf("video: read container: %w", err)
	}

	out := Output{
		Data:     data,
		Filename: filepath.Base(r.tmpPath),
		MIME:     "video/x-msvideo",
		Kind:     KindVideo,
		Duration: time.Since(r.started),
	}
	if err := r.engine.sink.Save(out.Data, out.Filename, out.MIME, out.Kind); err != nil {
		return Output{}, err
	}
	return out, nil
}

// Frames returns the number of frames written so far.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Elapsed returns the recording duration so far.
func (r *Recorder) Elapsed() time.Duration {
	return time.Since(r.started)
}
