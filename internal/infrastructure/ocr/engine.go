// Package ocr turns label photographs into text using Google Cloud Vision or
// a local Tesseract install.
package ocr

import (
	"context"
	"fmt"

	"github.com/labellens/backend/internal/domain"
	"github.com/labellens/backend/internal/logger"
)

// Engine names accepted by New
const (
	EngineVision    = "vision"
	EngineTesseract = "tesseract"
	EngineNone      = "none"
)

// Engine is a TextExtractor holding resources that need releasing
type Engine interface {
	domain.TextExtractor
	Close() error
}

// Options selects and configures an engine
type Options struct {
	Engine          string
	Language        string
	CredentialsFile string
	Logger          logger.Logger
}

// New builds the named engine. EngineNone yields a nil Engine and no error.
func New(ctx context.Context, opts Options) (Engine, error) {
	switch opts.Engine {
	case EngineVision:
		v, err := NewVisionExtractor(ctx, opts.CredentialsFile, opts.Logger)
		if err != nil {
			return nil, err
		}
		return v, nil
	case EngineTesseract:
		t, err := NewTesseractExtractor(opts.Language, opts.Logger)
		if err != nil {
			return nil, err
		}
		return t, nil
	case EngineNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, opts.Engine)
	}
}
