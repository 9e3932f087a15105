package scanning

import "errors"

var (
	// ErrUnsupportedFormat is returned for content types no reader handles
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrUnreadableDocument means the document could not be opened or decoded
	ErrUnreadableDocument = errors.New("document could not be read")
)
