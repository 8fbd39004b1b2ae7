package preview

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/disintegration/imaging"
)

// Maximum edge of the locally rendered preview.
const maxEdge = 480

// Thumbnail produces a small PNG preview of an uploaded sheet. It works on
// the raw bytes alone so a preview is available before, and regardless of,
// any network round-trip.
func Thumbnail(image []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(image), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode upload: %w", err)
	}

	thumb := imaging.Fit(src, maxEdge, maxEdge, imaging.Lanczos)

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, thumb); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}
