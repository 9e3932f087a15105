package scanning

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// renderDPI is high enough for OCR of small receipt print
const renderDPI = 200

// pdfText returns the embedded text of every page, or an empty string when the
// PDF has no text layer (a scanned document)
func pdfText(pdfData []byte) (string, int, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return "", 0, fmt.Errorf("%w: opening PDF: %v", ErrUnreadableDocument, err)
	}
	defer doc.Close()

	var pages []string
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			return "", 0, fmt.Errorf("%w: reading page %d: %v", ErrUnreadableDocument, n+1, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	return strings.Join(pages, "\n"), doc.NumPage(), nil
}

// pdfPageToPNG renders a single page as a PNG image
func pdfPageToPNG(pdfData []byte, page int) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	if page >= doc.NumPage() {
		return nil, fmt.Errorf("rendering PDF page %d: document has %d pages", page+1, doc.NumPage())
	}

	img, err := doc.ImageDPI(page, renderDPI)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	return encodePNG(downscale(img))
}
