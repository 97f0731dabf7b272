package capture

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
)

// Sink receives finished capture payloads. The engine is agnostic to where
// they end up.
type Sink interface {
	Save(data []byte, filename, mimeType string, kind Kind) error
}

// DirSink saves captures as files in a directory, the desktop equivalent of
// a browser download.
type DirSink struct {
	Dir string
}

// Save writes the payload to Dir/filename, creating the directory if needed.
func (s DirSink) Save(data []byte, filename, mimeType string, kind Kind) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	path := filepath.Join(s.Dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", kind, err)
	}
	return nil
}

// BridgeSink base64-encodes the payload and forwards it to a host bridge,
// such as a native gallery API.
type BridgeSink struct {
	Forward func(encoded, filename, mimeType string, kind Kind) error
}

// Save encodes and forwards the payload.
func (s BridgeSink) Save(data []byte, filename, mimeType string, kind Kind) error {
	if s.Forward == nil {
		return fmt.Errorf("bridge sink has no forward function")
	}
	return s.Forward(base64.StdEncoding.EncodeToString(data), filename, mimeType, kind)
}
