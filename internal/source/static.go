package source

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/tiff"
)

// Static is a Source that always returns the same image. It stands in for
// the camera when no device is available or permission was denied.
type Static struct {
	img image.Image
}

// NewStatic wraps an already-decoded image.
func NewStatic(img image.Image) *Static {
	return &Static{img: img}
}

// LoadStatic reads and decodes an image file (png, jpeg, or tiff).
func LoadStatic(path string) (*Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return &Static{img: img}, nil
}

// Frame returns the wrapped image.
func (s *Static) Frame() (image.Image, error) {
	if s.img == nil {
		return nil, fmt.Errorf("no image loaded")
	}
	return s.img, nil
}

// Size returns the image dimensions.
func (s *Static) Size() (int, int) {
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Close is a no-op for static images.
func (s *Static) Close() error { return nil }
