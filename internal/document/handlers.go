package document

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/render"
)

// maxRequestSize bounds a whole multipart body: a full batch plus form overhead
const maxRequestSize = (MaxBatchFiles + 1) * MaxFileSize

const multipartMemory = 32 << 20

func writeError(w http.ResponseWriter, r *http.Request, message string, code int) {
	render.Status(r, code)
	render.JSON(w, r, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	render.Status(r, code)
	render.JSON(w, r, v)
}

// ReceiptContentType guesses a receipt's MIME type from its file extension
func ReceiptContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	}
	return "application/octet-stream"
}

// contentTypeFor trusts the part header and falls back to the file extension
func contentTypeFor(header *multipart.FileHeader) string {
	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	return ReceiptContentType(header.Filename)
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// parseForm reads a multipart body, answering 400 itself when that fails
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		message := "Error parsing form"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			message = "Request is too large"
		}
		writeError(w, r, message, http.StatusBadRequest)
		return false
	}
	return true
}

// formFile returns the single uploaded file in field, answering 400 itself when it is missing
func formFile(w http.ResponseWriter, r *http.Request, field string) (*multipart.FileHeader, []byte, bool) {
	if !parseForm(w, r) {
		return nil, nil, false
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		writeError(w, r, "No file provided", http.StatusBadRequest)
		return nil, nil, false
	}
	data, err := readPart(files[0])
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", files[0].Filename)
		writeError(w, r, "Error reading file", http.StatusInternalServerError)
		return nil, nil, false
	}
	return files[0], data, true
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"message": "CashMate OCR/PDF Service is running",
		"status":  "healthy",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "OCR & PDF Parser",
		"version": s.config.Version,
	})
}

// handleReceipt extracts a single receipt. Extraction failures are reported in the body with a 200.
func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	header, data, ok := formFile(w, r, "file")
	if !ok {
		return
	}

	record, err := s.service.ProcessReceipt(r.Context(), header.Filename, data, contentTypeFor(header))
	switch {
	case errors.Is(err, ErrUnsupportedType):
		writeError(w, r, "Invalid file type. Supported: "+strings.Join(ReceiptContentTypes, ", "), http.StatusBadRequest)
		return
	case errors.Is(err, ErrFileTooLarge):
		writeError(w, r, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		slog.Error("Receipt processing error", "filename", header.Filename, "error", err)
		writeError(w, r, "Processing failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Receipt processed successfully",
		"filename": header.Filename,
		"id":       record.ID,
		"data":     record.Receipt,
	})
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, r, "No files provided", http.StatusBadRequest)
		return
	}
	if len(headers) > MaxBatchFiles {
		writeError(w, r, "Maximum 10 files allowed per batch", http.StatusBadRequest)
		return
	}

	uploads := make([]Upload, 0, len(headers))
	for _, header := range headers {
		data, err := readPart(header)
		if err != nil {
			slog.Error("Error reading file data", "error", err, "filename", header.Filename)
			writeError(w, r, "Error reading file", http.StatusInternalServerError)
			return
		}
		uploads = append(uploads, Upload{
			Filename:    header.Filename,
			ContentType: contentTypeFor(header),
			Data:        data,
		})
	}

	result, err := s.service.ProcessBatch(r.Context(), uploads)
	if err != nil {
		writeError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Batch processing completed. %d/%d files processed successfully.",
			result.Summary.Successful, result.Summary.TotalFiles),
		"results": result.Results,
		"summary": result.Summary,
	})
}

func (s *Server) handleParsePDF(w http.ResponseWriter, r *http.Request) {
	header, data, ok := formFile(w, r, "file")
	if !ok {
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		writeError(w, r, "Only PDF files are supported", http.StatusBadRequest)
		return
	}
	s.parseStatement(w, r, header.Filename, data)
}

func (s *Server) handleParseStatement(w http.ResponseWriter, r *http.Request) {
	header, data, ok := formFile(w, r, "file")
	if !ok {
		return
	}
	s.parseStatement(w, r, header.Filename, data)
}

func (s *Server) parseStatement(w http.ResponseWriter, r *http.Request, filename string, data []byte) {
	record, err := s.service.ParseStatement(r.Context(), filename, data)
	switch {
	case errors.Is(err, ErrUnsupportedType):
		writeError(w, r, "Unsupported statement file. Supported: .pdf, .xlsx, .xls, .csv", http.StatusBadRequest)
		return
	case IsUnreadable(err):
		slog.Warn("Statement could not be read", "filename", filename, "error", err)
		writeError(w, r, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		slog.Error("Statement processing error", "filename", filename, "error", err)
		writeError(w, r, "Statement parsing failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("X-Document-ID", record.ID)
	writeJSON(w, r, http.StatusOK, record.Statement)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	kind := Kind(r.URL.Query().Get("kind"))
	if kind != "" && kind != KindReceipt && kind != KindStatement {
		writeError(w, r, "kind must be receipt or statement", http.StatusBadRequest)
		return
	}

	records, err := s.service.ListRecords(kind)
	if err != nil {
		slog.Error("Error listing documents", "error", err)
		writeError(w, r, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, records)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	record, err := s.service.GetRecord(r.PathValue("id"))
	if err != nil {
		s.lookupError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, record)
}

func (s *Server) handleGetDocumentFile(w http.ResponseWriter, r *http.Request) {
	data, record, err := s.service.GetRecordFile(r.PathValue("id"))
	if err != nil {
		s.lookupError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", record.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filepath.Base(record.StoredPath)))
	w.Write(data)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteRecord(r.PathValue("id")); err != nil {
		s.lookupError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		writeError(w, r, "Document not found", http.StatusNotFound)
		return
	}
	slog.Error("Error loading document", "id", r.PathValue("id"), "error", err)
	writeError(w, r, "Internal server error", http.StatusInternalServerError)
}
