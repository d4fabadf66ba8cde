// Package bootstrap wires configuration into the running classification
// pipeline, shared by the HTTP server and the CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/labellens/backend/config"
	"github.com/labellens/backend/internal/domain"
	"github.com/labellens/backend/internal/infrastructure/cache"
	"github.com/labellens/backend/internal/infrastructure/chart"
	"github.com/labellens/backend/internal/infrastructure/dataset"
	"github.com/labellens/backend/internal/infrastructure/ocr"
	"github.com/labellens/backend/internal/infrastructure/reference"
	"github.com/labellens/backend/internal/infrastructure/retry"
	"github.com/labellens/backend/internal/logger"
	"github.com/labellens/backend/internal/metrics"
	"github.com/labellens/backend/internal/usecase"
)

type closer struct {
	name  string
	close func() error
}

// Components is the assembled pipeline plus what must be released on exit
type Components struct {
	Store   *dataset.Store
	Service *usecase.ClassificationService

	watch   bool
	logger  logger.Logger
	closers []closer
}

// CreateLogger builds the service logger from configuration
func CreateLogger(cfg *config.Config) (logger.Logger, error) {
	return logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
}

// NewComponents loads the dataset and builds every collaborator the config
// asks for. A dataset that cannot be loaded is fatal.
func NewComponents(ctx context.Context, cfg *config.Config, log logger.Logger, m *metrics.Metrics) (*Components, error) {
	c := &Components{watch: cfg.Dataset.Watch, logger: log}

	c.Store = dataset.NewStore(cfg.Dataset.Path, dataset.StoreConfig{Logger: log, Metrics: m})
	if _, err := c.Store.Reload(ctx); err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	lookup, err := c.setupReference(ctx, cfg, log)
	if err != nil {
		c.Close()
		return nil, err
	}

	engine, err := ocr.New(ctx, ocr.Options{
		Engine:          cfg.OCR.Engine,
		Language:        cfg.OCR.Language,
		CredentialsFile: cfg.OCR.CredentialsFile,
		Logger:          log,
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("setup ocr: %w", err)
	}
	var extractor domain.TextExtractor
	if engine != nil {
		extractor = engine
		c.closers = append(c.closers, closer{name: "ocr", close: engine.Close})
	}

	matcher := usecase.NewMatcher(lookup, usecase.MatcherConfig{
		IgnoredTerms:  cfg.Classifier.IgnoredTerms,
		LookupTimeout: cfg.Reference.Timeout,
		Logger:        log,
		Metrics:       m,
	})

	c.Service = usecase.NewClassificationService(c.Store, extractor, matcher, chart.NewBarRenderer(),
		usecase.ClassificationServiceConfig{
			OCRTimeout: cfg.OCR.Timeout,
			Logger:     log,
			Metrics:    m,
		})

	log.Info("Pipeline ready",
		logger.String("dataset", cfg.Dataset.Path),
		logger.String("ocr_engine", cfg.OCR.Engine),
		logger.String("reference", cfg.Reference.Source),
		logger.String("cache", cfg.Cache.Type),
	)
	return c, nil
}

// setupReference returns nil when no reference source is configured
func (c *Components) setupReference(ctx context.Context, cfg *config.Config, log logger.Logger) (domain.ReferenceLookup, error) {
	if cfg.Reference.Source == "" {
		log.Info("Reference lookup disabled")
		return nil, nil
	}

	repo, err := cache.New(ctx, cache.Options{
		Type:       cfg.Cache.Type,
		RedisURL:   cfg.Cache.RedisURL,
		SQLitePath: cfg.Cache.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("setup cache: %w", err)
	}
	c.closers = append(c.closers, closer{name: "cache", close: repo.Close})

	scraper := reference.NewScraper(cfg.Reference.Source, reference.ScraperConfig{
		Timeout: cfg.Reference.Timeout,
		Logger:  log,
	})
	return reference.NewCachedLookup(scraper, repo, reference.CachedLookupConfig{
		TTL:    cfg.Cache.TTL,
		Retry:  retry.Config{MaxAttempts: cfg.Reference.MaxAttempts},
		Logger: log,
	}), nil
}

// StartWatcher reloads the dataset on file changes until ctx is done, if
// watching is enabled.
func (c *Components) StartWatcher(ctx context.Context) {
	if !c.watch {
		return
	}
	w := dataset.NewWatcher(c.Store, c.logger)
	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Error("Dataset watcher stopped", logger.Error(err))
		}
	}()
}

// Close releases collaborators in reverse order of creation
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].close(); err != nil {
			c.logger.Error("Failed to close component",
				logger.String("component", c.closers[i].name),
				logger.Error(err),
			)
		}
	}
	c.closers = nil
}
