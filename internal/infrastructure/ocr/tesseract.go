//go:build tesseract

package ocr

import (
	"context"
	"io"
	"strings"

	"github.com/labellens/backend/internal/logger"
	"github.com/otiai10/gosseract/v2"
)

// TesseractExtractor runs the local Tesseract engine through gosseract
type TesseractExtractor struct {
	language string
	logger   logger.Logger
}

// NewTesseractExtractor creates an extractor for the given Tesseract language (e.g. "eng")
func NewTesseractExtractor(language string, log logger.Logger) (*TesseractExtractor, error) {
	if log == nil {
		log = logger.NewNop()
	}
	if language == "" {
		language = "eng"
	}
	return &TesseractExtractor{language: language, logger: log}, nil
}

// ExtractText runs Tesseract on image. gosseract clients are not safe for
// concurrent use, so each call gets its own.
func (t *TesseractExtractor) ExtractText(ctx context.Context, image io.Reader) (string, error) {
	const op = "ExtractText"

	data, err := readImage(op, image)
	if err != nil {
		return "", err
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		client := gosseract.NewClient()
		defer client.Close()

		if err := client.SetLanguage(t.language); err != nil {
			done <- result{err: err}
			return
		}
		if err := client.SetImageFromBytes(data); err != nil {
			done <- result{err: err}
			return
		}
		text, err := client.Text()
		done <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", wrap(op, ctx.Err(), "tesseract did not finish")
	case res := <-done:
		if res.err != nil {
			return "", wrap(op, res.err, "tesseract failed")
		}
		if strings.TrimSpace(res.text) == "" {
			return "", wrap(op, ErrNoText, "")
		}
		t.logger.Debug("Tesseract OCR complete", logger.Int("text_chars", len(res.text)))
		return res.text, nil
	}
}

func (t *TesseractExtractor) Close() error {
	return nil
}
