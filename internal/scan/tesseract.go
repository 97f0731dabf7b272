package scan

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"camlens/pkg/geometry"

	"github.com/otiai10/gosseract/v2"
)

// CodeChars is the character set recognized in code mode. Lowercase is
// excluded to reduce confusion pairs (0/O, 1/I).
const CodeChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ-./:"

// Tesseract is a Decoder backed by a gosseract OCR client.
type Tesseract struct {
	client   *gosseract.Client
	codeMode bool
}

// NewTesseract creates an OCR-backed decoder.
func NewTesseract() (*Tesseract, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("set OCR language: %w", err)
	}

	// Codes aren't English words; keep the dictionary from "correcting" them.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")
	_ = client.SetVariable("language_model_penalty_non_dict_word", "0")

	return &Tesseract{client: client, codeMode: true}, nil
}

// SetCodeMode restricts recognition to the code character set.
func (t *Tesseract) SetCodeMode(enabled bool) {
	t.codeMode = enabled
}

// Decode recognizes text fragments in the frame.
func (t *Tesseract) Decode(img image.Image) ([]Result, error) {
	if img == nil {
		return nil, fmt.Errorf("scan: nil frame")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("scan: encode frame: %w", err)
	}
	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("scan: set image: %w", err)
	}

	if t.codeMode {
		if err := t.client.SetWhitelist(CodeChars); err != nil {
			return nil, fmt.Errorf("scan: set whitelist: %w", err)
		}
	} else {
		_ = t.client.SetWhitelist("")
	}

	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("scan: recognize: %w", err)
	}

	results := make([]Result, 0, len(boxes))
	for _, b := range boxes {
		if b.Word == "" {
			continue
		}
		results = append(results, Result{
			Text:       b.Word,
			Confidence: b.Confidence,
			Box: geometry.RectInt{
				X:      b.Box.Min.X,
				Y:      b.Box.Min.Y,
				Width:  b.Box.Dx(),
				Height: b.Box.Dy(),
			},
		})
	}
	return results, nil
}

// Close releases the OCR client.
func (t *Tesseract) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}
