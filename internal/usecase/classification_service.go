package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/labellens/backend/internal/domain"
	"github.com/labellens/backend/internal/logger"
	"github.com/labellens/backend/internal/metrics"
)

const (
	inputImage = "image"
	inputText  = "text"
)

// ClassificationServiceConfig holds configuration for the classification service
type ClassificationServiceConfig struct {
	OCRTimeout time.Duration
	Logger     logger.Logger
	Metrics    *metrics.Metrics
}

// ClassificationService runs the label pipeline: OCR, tokenize, match, tally.
// The dataset is owned by the provider and only read here.
type ClassificationService struct {
	datasets   domain.DatasetProvider
	extractor  domain.TextExtractor
	matcher    *Matcher
	charts     domain.ChartRenderer
	ocrTimeout time.Duration
	logger     logger.Logger
	metrics    *metrics.Metrics
}

// NewClassificationService wires the pipeline. extractor and charts may be nil;
// the corresponding operations then fail with ErrOCRUnavailable/ErrChartUnavailable.
func NewClassificationService(
	datasets domain.DatasetProvider,
	extractor domain.TextExtractor,
	matcher *Matcher,
	charts domain.ChartRenderer,
	config ClassificationServiceConfig,
) *ClassificationService {
	ocrTimeout := config.OCRTimeout
	if ocrTimeout == 0 {
		ocrTimeout = 30 * time.Second
	}
	log := config.Logger
	if log == nil {
		log = logger.NewNop()
	}

	return &ClassificationService{
		datasets:   datasets,
		extractor:  extractor,
		matcher:    matcher,
		charts:     charts,
		ocrTimeout: ocrTimeout,
		logger:     log,
		metrics:    config.Metrics,
	}
}

// ClassifyImage extracts text from an uploaded label and classifies it.
// OCR errors, timeouts and blank output all surface as ErrOCRFailure.
func (s *ClassificationService) ClassifyImage(ctx context.Context, image io.Reader) (*domain.Report, error) {
	if s.extractor == nil {
		return nil, domain.ErrOCRUnavailable
	}

	ocrCtx, cancel := context.WithTimeout(ctx, s.ocrTimeout)
	defer cancel()

	start := time.Now()
	text, err := s.extractor.ExtractText(ocrCtx, image)
	s.metrics.ObserveOCR(time.Since(start))
	if err != nil {
		s.metrics.ObserveClassification(inputImage, "ocr_error")
		if !errors.Is(err, domain.ErrOCRFailure) && !errors.Is(err, domain.ErrImageTooLarge) {
			err = fmt.Errorf("%w: %w", domain.ErrOCRFailure, err)
		}
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		s.metrics.ObserveClassification(inputImage, "ocr_error")
		return nil, fmt.Errorf("%w: no text found in image", domain.ErrOCRFailure)
	}

	s.logger.Debug("OCR complete",
		logger.Int("chars", len(text)),
		logger.Duration("took", time.Since(start)),
	)

	return s.classify(ctx, inputImage, text)
}

// ClassifyText classifies already-extracted label text
func (s *ClassificationService) ClassifyText(ctx context.Context, text string) (*domain.Report, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.classify(ctx, inputText, text)
}

// RenderChart renders the tally with the configured chart renderer
func (s *ClassificationService) RenderChart(tally domain.Tally) ([]byte, string, error) {
	if s.charts == nil {
		return nil, "", domain.ErrChartUnavailable
	}
	img, err := s.charts.Render(tally)
	if err != nil {
		return nil, "", fmt.Errorf("render chart: %w", err)
	}
	return img, s.charts.ContentType(), nil
}

// HasOCR reports whether an OCR engine is configured
func (s *ClassificationService) HasOCR() bool {
	return s.extractor != nil
}

func (s *ClassificationService) classify(ctx context.Context, input, text string) (*domain.Report, error) {
	dataset := s.datasets.Current()
	if dataset == nil {
		s.metrics.ObserveClassification(input, "error")
		return nil, domain.ErrDatasetNotLoaded
	}

	tokens := Tokenize(text)
	s.metrics.AddTokens(len(tokens))

	results, err := s.matcher.Match(ctx, tokens, dataset)
	if err != nil {
		s.metrics.ObserveClassification(input, "error")
		s.logger.Error("Classification failed", logger.String("input", input), logger.Error(err))
		return nil, err
	}

	s.metrics.ObserveClassification(input, "ok")
	s.logger.Info("Label classified",
		logger.String("input", input),
		logger.Int("tokens", len(tokens)),
		logger.Int("matches", len(results)),
	)

	return &domain.Report{
		Ingredients: results,
		Tally:       Summarize(results),
		TokenCount:  len(tokens),
		DatasetSize: dataset.Len(),
	}, nil
}
