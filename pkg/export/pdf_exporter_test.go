package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 255, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestComposeProducesPDF(t *testing.T) {
	exporter := NewPDFExporter()

	doc, err := exporter.Compose(pngBytes(t, 100, 120))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestComposeRejectsNonImageData(t *testing.T) {
	exporter := NewPDFExporter()

	_, err := exporter.Compose([]byte("definitely not an image"))
	require.Error(t, err)
}
