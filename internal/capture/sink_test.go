package capture

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSinkSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "captures")
	sink := DirSink{Dir: dir}

	payload := []byte{0xff, 0xd8, 0xff, 0x00}
	require.NoError(t, sink.Save(payload, "IMG_test.jpg", "image/jpeg", KindPhoto))

	got, err := os.ReadFile(filepath.Join(dir, "IMG_test.jpg"))
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestBridgeSinkForwardsBase64(t *testing.T) {
	var gotEncoded, gotName, gotMIME string
	var gotKind Kind
	sink := BridgeSink{Forward: func(encoded, filename, mimeType string, kind Kind) error {
		gotEncoded, gotName, gotMIME, gotKind = encoded, filename, mimeType, kind
		return nil
	}}

	payload := []byte("frame-bytes")
	require.NoError(t, sink.Save(payload, "VID_test.avi", "video/x-msvideo", KindVideo))

	assert.Equal(t, base64.StdEncoding.EncodeToString(payload), gotEncoded)
	assert.Equal(t, "VID_test.avi", gotName)
	assert.Equal(t, "video/x-msvideo", gotMIME)
	assert.Equal(t, KindVideo, gotKind)
}

func TestBridgeSinkWithoutForward(t *testing.T) {
	assert.Error(t, BridgeSink{}.Save(nil, "x", "y", KindPhoto))
}
