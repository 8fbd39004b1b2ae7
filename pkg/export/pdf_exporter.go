package export

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/jung-kurt/gofpdf"
)

// Result documents are a fixed single page matching the generated image.
const (
	pageWidth  = 1000.0
	pageHeight = 1200.0
)

// PDFExporter composes an already-fetched result image into a single-page
// document. It performs no network calls of its own.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Compose renders the image bytes onto a 1000x1200 page. Image data the
// decoder does not recognize yields an error rather than a corrupt document.
func (e *PDFExporter) Compose(image []byte) ([]byte, error) {
	imageType, err := detectImageType(image)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader("result", opts, bytes.NewReader(image))
	pdf.ImageOptions("result", 0, 0, pageWidth, pageHeight, false, opts, 0, "")

	if pdf.Err() {
		return nil, fmt.Errorf("compose document: %v", pdf.Error())
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func detectImageType(data []byte) (string, error) {
	switch http.DetectContentType(data) {
	case "image/png":
		return "PNG", nil
	case "image/jpeg":
		return "JPG", nil
	case "image/gif":
		return "GIF", nil
	default:
		return "", fmt.Errorf("unsupported image data for document export")
	}
}
