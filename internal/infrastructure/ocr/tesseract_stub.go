//go:build !tesseract

package ocr

import (
	"context"
	"io"

	"github.com/labellens/backend/internal/logger"
)

// TesseractExtractor is unavailable unless built with -tags tesseract
type TesseractExtractor struct{}

// NewTesseractExtractor always fails in builds without the tesseract tag
func NewTesseractExtractor(language string, log logger.Logger) (*TesseractExtractor, error) {
	return nil, wrap("NewTesseractExtractor", ErrEngineUnavailable, "rebuild with -tags tesseract")
}

func (t *TesseractExtractor) ExtractText(ctx context.Context, image io.Reader) (string, error) {
	return "", wrap("ExtractText", ErrEngineUnavailable, "")
}

func (t *TesseractExtractor) Close() error {
	return nil
}
