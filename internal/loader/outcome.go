package loader

import (
	"errors"
	"fmt"

	"github.com/dgallion1/pharmadocs/internal/document"
)

var (
	ErrDirectoryMissing  = errors.New("directory missing")
	ErrFileMissing       = errors.New("file missing")
	ErrUnreadable        = errors.New("file unreadable")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrCorrupt           = errors.New("corrupt document")
)

// wrapError keeps the failure kind matchable with errors.Is alongside the cause.
func wrapError(kind error, operation string, err error) error {
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

// Outcome is the result of loading one file: a document or the reason
// there is none.
type Outcome struct {
	Path     string
	Document *document.Document
	Err      error
}

func (o Outcome) OK() bool {
	return o.Err == nil && o.Document != nil
}
