package sheet

import (
	"errors"
	"fmt"
)

// Input errors, rejected before any extraction work begins.
var (
	// ErrEmptySubmission is returned when no page images were provided.
	ErrEmptySubmission = errors.New("submission contains no pages")

	// ErrUnsupportedFileType is returned for non-image uploads. Rasterizing
	// PDFs to page images is the caller's concern.
	ErrUnsupportedFileType = errors.New("unsupported file type: only images are accepted")
)

// PageError reports a per-page processing failure with enough context for the
// caller to know which file failed. A page failure is fatal to the whole
// submission.
type PageError struct {
	// Page is the submitted file name.
	Page string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *PageError) Error() string {
	return fmt.Sprintf("sheet: processing page %q failed: %v", e.Page, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *PageError) Unwrap() error {
	return e.Err
}
