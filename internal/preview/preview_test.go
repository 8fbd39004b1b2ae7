package preview

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThumbnailFitsWithinBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1200, 800))
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, src))

	thumb, err := Thumbnail(buf.Bytes())
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)
	bounds := decoded.Bounds()
	assert.LessOrEqual(t, bounds.Dx(), 480)
	assert.LessOrEqual(t, bounds.Dy(), 480)
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	_, err := Thumbnail([]byte("not an image"))
	require.Error(t, err)
}
