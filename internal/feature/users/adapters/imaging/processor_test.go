package imaging_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/internal/feature/users/adapters/imaging"
)

func encodeTestImage(t *testing.T, w, h int, format string) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	default:
		require.NoError(t, png.Encode(&buf, img))
	}
	return buf.Bytes()
}

func TestProcessor_Process(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   []byte
		wantErr bool
	}{
		{name: "success: landscape png", input: encodeTestImage(t, 400, 300, "png")},
		{name: "success: portrait jpeg", input: encodeTestImage(t, 120, 500, "jpeg")},
		{name: "success: upscales small image", input: encodeTestImage(t, 32, 32, "png")},
		{name: "failure: not an image", input: []byte("definitely not an image"), wantErr: true},
		{name: "failure: empty input", input: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := imaging.NewProcessor().Process(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, "png", format)
			assert.Equal(t, imaging.AvatarSize, cfg.Width)
			assert.Equal(t, imaging.AvatarSize, cfg.Height)
		})
	}
}
