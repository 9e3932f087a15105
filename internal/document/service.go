package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/zombor/cashmate/internal/extraction"
	"github.com/zombor/cashmate/internal/scanning"
)

const (
	// MaxFileSize is the largest receipt accepted, in bytes
	MaxFileSize = 10 * 1024 * 1024

	// MaxBatchFiles is the most receipts accepted in one batch
	MaxBatchFiles = 10

	defaultBatchWorkers = 4
)

// ReceiptContentTypes lists the receipt uploads the service accepts
var ReceiptContentTypes = []string{
	"image/jpeg",
	"image/png",
	"image/jpg",
	"application/pdf",
	"image/webp",
	"image/heic",
	"image/heif",
}

// IDGenerator generates unique record IDs
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// ulidGenerator issues ULIDs, which sort in creation order
type ulidGenerator struct{}

func (g *ulidGenerator) Generate() string {
	return ulid.Make().String()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service runs uploads through the readers and the extraction engine and keeps the results
type Service struct {
	db           DB
	reader       scanning.Reader
	storage      Storage
	batchWorkers int
	idGenerator  IDGenerator
	timeSource   TimeSource
}

// NewService creates a Service with ULID IDs and the wall clock
func NewService(db DB, reader scanning.Reader, storage Storage, batchWorkers int) *Service {
	return NewServiceWithDeps(db, reader, storage, batchWorkers, &ulidGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a Service with custom dependencies for testing
func NewServiceWithDeps(db DB, reader scanning.Reader, storage Storage, batchWorkers int, idGen IDGenerator, timeSrc TimeSource) *Service {
	if batchWorkers < 1 {
		batchWorkers = defaultBatchWorkers
	}
	return &Service{
		db:           db,
		reader:       reader,
		storage:      storage,
		batchWorkers: batchWorkers,
		idGenerator:  idGen,
		timeSource:   timeSrc,
	}
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	repeatedSpaces      = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up phone-generated names so they are safe to store
func sanitizeFilename(filename, fallback string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	base = unsafeFilenameChars.ReplaceAllString(base, "")
	base = strings.TrimSpace(repeatedSpaces.ReplaceAllString(base, " "))

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = fallback
	}

	return base + ext
}

func baseContentType(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// ValidateReceipt checks the upload limits that apply before any processing
func ValidateReceipt(contentType string, size int) error {
	mediaType := baseContentType(contentType)
	supported := false
	for _, allowed := range ReceiptContentTypes {
		if mediaType == allowed {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

// ProcessReceipt stores a receipt upload, extracts its fields and saves the record.
// A document that cannot be read still yields a record with a failed extraction.
func (s *Service) ProcessReceipt(ctx context.Context, filename string, data []byte, contentType string) (*Record, error) {
	if err := ValidateReceipt(contentType, len(data)); err != nil {
		return nil, err
	}

	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename, "receipt")), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	var result extraction.ReceiptExtraction
	text, err := s.reader.ReadReceipt(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to read receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		result = extraction.FailedReceipt(err)
	} else {
		result = extraction.ExtractReceipt(text)
	}

	record := &Record{
		ID:          id,
		Kind:        KindReceipt,
		Filename:    filename,
		ContentType: contentType,
		StoredPath:  savedPath,
		Receipt:     &result,
		CreatedAt:   now,
	}
	if result.Error != nil {
		record.Error = *result.Error
	}

	if err := s.db.SaveRecord(record); err != nil {
		s.removeFile(savedPath)
		return nil, fmt.Errorf("saving record to database: %w", err)
	}

	slog.Info("Processed receipt",
		"id", id,
		"status", result.ProcessingStatus,
		"vendor", result.Vendor,
		"confidence", result.ConfidenceScore.String(),
	)
	return record, nil
}

// ProcessBatch processes up to MaxBatchFiles receipts concurrently.
// Results keep the upload order and a failing file never affects the others.
func (s *Service) ProcessBatch(ctx context.Context, uploads []Upload) (*BatchResult, error) {
	if len(uploads) > MaxBatchFiles {
		return nil, ErrTooManyFiles
	}

	results := make([]BatchItem, len(uploads))
	var g errgroup.Group
	g.SetLimit(s.batchWorkers)

	for i, upload := range uploads {
		g.Go(func() error {
			item := BatchItem{Filename: upload.Filename}
			record, err := s.ProcessReceipt(ctx, upload.Filename, upload.Data, upload.ContentType)
			if err != nil {
				slog.Error("Batch processing error", "filename", upload.Filename, "error", err)
				item.Error = err.Error()
			} else {
				item.Success = true
				item.ID = record.ID
				item.Data = record.Receipt
			}
			results[i] = item
			return nil
		})
	}
	// the workers never fail; errors are reported per file
	_ = g.Wait()

	summary := BatchSummary{TotalFiles: len(uploads)}
	for _, item := range results {
		if item.Success {
			summary.Successful++
		}
	}
	summary.Failed = summary.TotalFiles - summary.Successful

	return &BatchResult{Results: results, Summary: summary}, nil
}

// ParseStatement reconstructs the ledger of a PDF, XLSX, XLS or CSV statement and saves it.
// The file extension decides how the upload is read.
func (s *Service) ParseStatement(ctx context.Context, filename string, data []byte) (*Record, error) {
	contentType, ok := scanning.StatementContentType(filename)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(filename))
	}

	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename, "statement")), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	content, err := s.reader.ReadStatement(ctx, data, contentType)
	if err != nil {
		s.removeFile(savedPath)
		return nil, fmt.Errorf("reading statement: %w", err)
	}

	statement, diagnostics, err := extraction.ParseStatement(content.Text, content.Tables)
	if err != nil {
		s.removeFile(savedPath)
		return nil, fmt.Errorf("parsing statement: %w", err)
	}
	logDiagnostics(filename, diagnostics)

	record := &Record{
		ID:          id,
		Kind:        KindStatement,
		Filename:    filename,
		ContentType: contentType,
		StoredPath:  savedPath,
		Statement:   statement,
		Diagnostics: &diagnostics,
		CreatedAt:   now,
	}
	if err := s.db.SaveRecord(record); err != nil {
		s.removeFile(savedPath)
		return nil, fmt.Errorf("saving record to database: %w", err)
	}

	slog.Info("Parsed statement",
		"id", id,
		"filename", filename,
		"transactions", statement.TransactionCount,
	)
	return record, nil
}

func logDiagnostics(filename string, diagnostics extraction.Diagnostics) {
	if len(diagnostics.MissingFields) > 0 {
		slog.Info("Statement fields not found", "filename", filename, "fields", diagnostics.MissingFields)
	}
	for _, table := range diagnostics.Tables {
		if !table.Accepted {
			slog.Warn("Statement table skipped", "filename", filename, "table", table.Index, "reason", table.Reason)
			continue
		}
		if table.RowsRejected > 0 {
			slog.Warn("Statement rows skipped", "filename", filename, "table", table.Index, "rows", table.RowsRejected)
		}
	}
}

func (s *Service) removeFile(path string) {
	if err := s.storage.Delete(path); err != nil {
		slog.Warn("Failed to delete file", "filename", path, "error", err)
	}
}

// GetRecord retrieves a record by ID
func (s *Service) GetRecord(id string) (*Record, error) {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}
	return record, nil
}

// ListRecords returns stored records newest first; an empty kind lists everything
func (s *Service) ListRecords(kind Kind) ([]*Record, error) {
	records, err := s.db.ListRecords(kind)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return records, nil
}

// DeleteRecord removes a record and its stored file
func (s *Service) DeleteRecord(id string) error {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return fmt.Errorf("getting record for deletion: %w", err)
	}

	s.removeFile(record.StoredPath)

	if err := s.db.DeleteRecord(id); err != nil {
		return fmt.Errorf("deleting record from database: %w", err)
	}
	return nil
}

// GetRecordFile returns the original upload of a record with its content type
func (s *Service) GetRecordFile(id string) ([]byte, *Record, error) {
	record, err := s.db.GetRecord(id)
	if err != nil {
		return nil, nil, fmt.Errorf("getting record: %w", err)
	}

	data, err := s.storage.Get(record.StoredPath)
	if err != nil {
		return nil, nil, fmt.Errorf("getting record file: %w", err)
	}
	return data, record, nil
}

// IsUnreadable reports whether err means the document held nothing to extract
func IsUnreadable(err error) bool {
	return errors.Is(err, scanning.ErrUnreadableDocument) ||
		errors.Is(err, scanning.ErrUnsupportedFormat) ||
		errors.Is(err, extraction.ErrNoContent)
}
