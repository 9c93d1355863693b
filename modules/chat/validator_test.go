package chat

import (
	"encoding/base64"
	"testing"
)

// 1x1 transparent PNG.
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// 1x1 GIF.
const tinyGIF = "R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7"

func TestValidateImageData(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    bool
	}{
		{
			name:    "valid png data url",
			payload: "data:image/png;base64," + tinyPNG,
			want:    true,
		},
		{
			name:    "valid gif data url",
			payload: "data:image/gif;base64," + tinyGIF,
			want:    true,
		},
		{
			name:    "declared subtype not trusted when bytes sniff as image",
			payload: "data:image/jpeg;base64," + tinyPNG,
			want:    true,
		},
		{
			name:    "missing data url prefix",
			payload: tinyPNG,
			want:    false,
		},
		{
			name:    "wrong scheme",
			payload: "data:text/plain;base64," + tinyPNG,
			want:    false,
		},
		{
			name:    "missing comma separator",
			payload: "data:image/png;base64" + tinyPNG,
			want:    false,
		},
		{
			name:    "body is not base64",
			payload: "data:image/png;base64,not*valid*base64!",
			want:    false,
		},
		{
			name:    "empty body",
			payload: "data:image/png;base64,",
			want:    false,
		},
		{
			name:    "text bytes behind an image header",
			payload: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello world")),
			want:    false,
		},
		{
			name:    "bmp bytes are not allow-listed",
			payload: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("BM\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")),
			want:    false,
		},
		{
			name:    "empty payload",
			payload: "",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateImageData(tt.payload); got != tt.want {
				t.Errorf("ValidateImageData() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateImageDataOversize(t *testing.T) {
	// Valid PNG magic so only the size check can reject it.
	raw := make([]byte, maxImageBytes+1)
	copy(raw, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	if ValidateImageData(payload) {
		t.Error("ValidateImageData() accepted a payload over the size ceiling")
	}
}
