package ocr

import (
	"fmt"
	"io"
)

// MaxImageBytes matches the Vision API's inline content limit
const MaxImageBytes = 20 << 20

// readImage drains r, enforcing the size limit
func readImage(op string, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, wrap(op, err, "failed to read image")
	}
	if len(data) == 0 {
		return nil, wrap(op, ErrEmptyImage, "")
	}
	if len(data) > MaxImageBytes {
		return nil, wrap(op, ErrImageTooLarge, fmt.Sprintf("more than %d bytes", MaxImageBytes))
	}
	return data, nil
}
