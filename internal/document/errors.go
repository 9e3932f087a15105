package document

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file size exceeds 10MB limit")
	ErrTooManyFiles    = errors.New("maximum 10 files allowed per batch")
	ErrNotFound        = errors.New("document not found")
)
