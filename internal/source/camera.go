package source

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Camera is a Source backed by a gocv video capture device.
//
// The camera does not retry acquisition: when the device stops delivering
// frames the loss is reported once through the status callback and every
// subsequent Frame call fails until the caller reopens a device.
type Camera struct {
	mu     sync.Mutex
	cap    *gocv.VideoCapture
	mat    gocv.Mat
	width  int
	height int
	lost   bool
	onLost func(error)
}

// OpenCamera opens the capture device with the given ID.
func OpenCamera(deviceID int) (*Camera, error) {
	cap, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", deviceID, err)
	}

	c := &Camera{
		cap:    cap,
		mat:    gocv.NewMat(),
		width:  int(cap.Get(gocv.VideoCaptureFrameWidth)),
		height: int(cap.Get(gocv.VideoCaptureFrameHeight)),
	}
	return c, nil
}

// OnLost installs a callback invoked once when the device stops delivering
// frames (for example on disconnect).
func (c *Camera) OnLost(fn func(error)) {
	c.mu.Lock()
	c.onLost = fn
	c.mu.Unlock()
}

// Frame grabs and decodes the next frame from the device.
func (c *Camera) Frame() (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cap == nil {
		return nil, fmt.Errorf("camera closed")
	}
	if !c.cap.Read(&c.mat) || c.mat.Empty() {
		err := fmt.Errorf("camera: device stopped delivering frames")
		if !c.lost {
			c.lost = true
			if c.onLost != nil {
				go c.onLost(err)
			}
		}
		return nil, err
	}
	c.lost = false

	// Some backends only report the real resolution once frames flow.
	c.width, c.height = c.mat.Cols(), c.mat.Rows()

	img, err := c.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("decode camera frame: %w", err)
	}
	return img, nil
}

// Size returns the device resolution in pixels.
func (c *Camera) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Close releases the capture device.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cap == nil {
		return nil
	}
	c.mat.Close()
	err := c.cap.Close()
	c.cap = nil
	if err != nil {
		return fmt.Errorf("close camera: %w", err)
	}
	return nil
}
