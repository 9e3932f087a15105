package extraction

import "errors"

var (
	// ErrNoContent means the collaborator produced no text and no tables at all
	ErrNoContent = errors.New("no text could be extracted from the document")

	// ErrTableRejected means a table header lacks the roles needed to build transactions
	ErrTableRejected = errors.New("table rejected")
)
