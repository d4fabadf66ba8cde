package ocr

import (
	"errors"
	"fmt"

	"github.com/labellens/backend/internal/domain"
)

var (
	// ErrImageTooLarge is returned for images over MaxImageBytes
	ErrImageTooLarge = fmt.Errorf("%w (20MB)", domain.ErrImageTooLarge)

	// ErrEmptyImage is returned when the upload has no bytes
	ErrEmptyImage = errors.New("image is empty")

	// ErrNoText is returned when the engine finds no readable text
	ErrNoText = errors.New("image contains no readable text")

	// ErrEngineUnavailable is returned when an engine was not compiled in
	ErrEngineUnavailable = errors.New("ocr engine not available in this build")

	// ErrUnknownEngine is returned for an unrecognized engine name
	ErrUnknownEngine = errors.New("unknown ocr engine")
)

// Error records which OCR step failed and why
type Error struct {
	// Op is the operation that failed, e.g. "ExtractText"
	Op      string
	Err     error
	Details string
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrap returns err as an *Error unless it already is one
func wrap(op string, err error, details string) error {
	if err == nil {
		return nil
	}
	var ocrErr *Error
	if errors.As(err, &ocrErr) {
		return err
	}
	return &Error{Op: op, Err: err, Details: details}
}
