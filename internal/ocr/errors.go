package ocr

import (
	"errors"
	"fmt"
)

// Common OCR engine errors
var (
	// ErrMissingCredentials is returned when neither GOOGLE_APPLICATION_CREDENTIALS
	// nor GOOGLE_CREDENTIALS environment variables are configured for a cloud engine.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrEmptyImage is returned when the page image data is empty.
	ErrEmptyImage = errors.New("page image is empty")

	// ErrDetectionFailed is returned when the engine fails to process the image.
	ErrDetectionFailed = errors.New("text detection failed")

	// ErrNoText is returned when the engine found no text on the page.
	ErrNoText = errors.New("no text detected on page")
)

// EngineError wraps errors with additional context about the engine call that failed.
type EngineError struct {
	// Op is the operation that failed (e.g., "DetectText", "NewVisionEngine").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *EngineError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapEngineError wraps an error as an EngineError if it isn't already one.
func WrapEngineError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return err // Already wrapped
	}

	return &EngineError{Op: op, Err: err, Details: details}
}
