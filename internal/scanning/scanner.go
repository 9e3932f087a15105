package scanning

import (
	"context"
	"fmt"

	"github.com/zombor/cashmate/internal/extraction"
)

// Scanner defines the interface for OCR operations
type Scanner interface {
	// ScanText transcribes all text in a receipt image/PDF
	ScanText(ctx context.Context, imageData []byte, contentType string) (string, error)
	// Close closes the scanner and releases resources
	Close() error
}

// StatementContent is what a statement document yields before field recognition
type StatementContent struct {
	Text   string
	Tables []extraction.Table
}

// Reader turns uploaded documents into text and tables
type Reader interface {
	ReadReceipt(ctx context.Context, data []byte, contentType string) (string, error)
	ReadStatement(ctx context.Context, data []byte, contentType string) (*StatementContent, error)
}

// Config selects and configures an OCR backend
type Config struct {
	// Type is "gemini", "ollama" or "none"
	Type        string
	GeminiKey   string
	GeminiModel string
	OllamaURL   string
	OllamaModel string
}

// New builds the Scanner named by cfg.Type. "none" yields a nil Scanner, which
// leaves only documents with a text layer readable.
func New(cfg Config) (Scanner, error) {
	switch cfg.Type {
	case "gemini":
		gemini, err := NewGemini(cfg.GeminiKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return gemini, nil
	case "ollama":
		ollama, err := NewOllama(cfg.OllamaURL, cfg.OllamaModel)
		if err != nil {
			return nil, err
		}
		return ollama, nil
	case "none", "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown scanner type %q: want gemini, ollama or none", cfg.Type)
}
