// Package imaging normalizes uploaded avatars with github.com/disintegration/imaging.
package imaging

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"

	"taskmanager/internal/feature/users/usecase"
)

// AvatarSize is the edge length in pixels of every stored avatar.
const AvatarSize = 250

// Processor crops and scales avatars to a AvatarSize square PNG.
type Processor struct {
	size int
}

var _ usecase.AvatarProcessor = (*Processor)(nil)

func NewProcessor() *Processor {
	return &Processor{size: AvatarSize}
}

// Process decodes JPEG or PNG input, honoring EXIF orientation, and returns the PNG encoding.
func (p *Processor) Process(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode avatar: %w", err)
	}

	thumb := imaging.Fill(img, p.size, p.size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}
