package document

import (
	"time"

	"github.com/zombor/cashmate/internal/extraction"
)

// Kind tells which pipeline produced a record
type Kind string

const (
	KindReceipt   Kind = "receipt"
	KindStatement Kind = "statement"
)

// Record is a processed upload together with what was extracted from it
type Record struct {
	ID          string                        `json:"id"`
	Kind        Kind                          `json:"kind"`
	Filename    string                        `json:"filename"`
	ContentType string                        `json:"content_type"`
	StoredPath  string                        `json:"stored_path"`
	Receipt     *extraction.ReceiptExtraction `json:"receipt,omitempty"`
	Statement   *extraction.ParsedStatement   `json:"statement,omitempty"`
	Diagnostics *extraction.Diagnostics       `json:"diagnostics,omitempty"`
	Error       string                        `json:"error,omitempty"`
	CreatedAt   time.Time                     `json:"created_at"`
}

// Upload is one file of a batch request
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// BatchItem is the outcome for one file of a batch
type BatchItem struct {
	Filename string                        `json:"filename"`
	Success  bool                          `json:"success"`
	ID       string                        `json:"id,omitempty"`
	Data     *extraction.ReceiptExtraction `json:"data,omitempty"`
	Error    string                        `json:"error,omitempty"`
}

// BatchSummary counts batch outcomes
type BatchSummary struct {
	TotalFiles int `json:"total_files"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BatchResult holds per-file results in upload order
type BatchResult struct {
	Results []BatchItem  `json:"results"`
	Summary BatchSummary `json:"summary"`
}
