package scanning

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Content types understood by DocumentReader
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeXLS  = "application/vnd.ms-excel"
	ContentTypeCSV  = "text/csv"
)

var imageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

// StatementContentType maps a statement filename to the content type its reader expects.
// Browsers label spreadsheets inconsistently, so the extension decides.
func StatementContentType(filename string) (string, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return ContentTypePDF, true
	case ".xlsx":
		return ContentTypeXLSX, true
	case ".xls":
		return ContentTypeXLS, true
	case ".csv":
		return ContentTypeCSV, true
	}
	return "", false
}

// DocumentReader implements Reader on top of local parsers, falling back to
// the Scanner for anything without a text layer
type DocumentReader struct {
	scanner Scanner
}

// NewDocumentReader creates a reader that uses scanner for OCR
func NewDocumentReader(scanner Scanner) *DocumentReader {
	return &DocumentReader{scanner: scanner}
}

// ReadReceipt returns the text of a receipt image or PDF
func (r *DocumentReader) ReadReceipt(ctx context.Context, data []byte, contentType string) (string, error) {
	mimeType := normalizeContentType(contentType)

	switch {
	case mimeType == ContentTypePDF:
		text, _, err := pdfText(data)
		if err != nil {
			return "", err
		}
		if text != "" {
			return text, nil
		}
		slog.Debug("PDF has no text layer, falling back to OCR")
		return r.scan(ctx, data, ContentTypePDF)
	case imageContentTypes[mimeType] || isHEICFormat(data):
		return r.scan(ctx, data, mimeType)
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
}

// ReadStatement returns the text and tables of a bank statement
func (r *DocumentReader) ReadStatement(ctx context.Context, data []byte, contentType string) (*StatementContent, error) {
	switch normalizeContentType(contentType) {
	case ContentTypePDF:
		return r.readStatementPDF(ctx, data)
	case ContentTypeXLSX:
		return readXLSX(data)
	case ContentTypeXLS:
		return readXLS(data)
	case ContentTypeCSV, "application/csv", "text/plain":
		return readCSV(data)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
}

func (r *DocumentReader) readStatementPDF(ctx context.Context, data []byte) (*StatementContent, error) {
	content, glyphs, err := pdfLayout(data)
	if err != nil {
		return nil, err
	}
	if glyphs > 0 {
		return content, nil
	}

	// A scanned statement: OCR every page and recognize what we can from the text
	_, pages, err := pdfText(data)
	if err != nil {
		return nil, err
	}
	slog.Debug("statement PDF has no text layer, falling back to OCR", "pages", pages)

	var text []string
	for page := 0; page < pages; page++ {
		image, err := pdfPageToPNG(data, page)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
		}
		pageText, err := r.scan(ctx, image, "image/png")
		if err != nil {
			return nil, err
		}
		text = append(text, pageText)
	}
	return &StatementContent{Text: strings.Join(text, "\n")}, nil
}

func (r *DocumentReader) scan(ctx context.Context, data []byte, contentType string) (string, error) {
	if r.scanner == nil {
		return "", fmt.Errorf("%w: no OCR scanner configured", ErrUnreadableDocument)
	}
	text, err := r.scanner.ScanText(ctx, data, contentType)
	if err != nil {
		return "", fmt.Errorf("scanning document: %w", err)
	}
	return text, nil
}
