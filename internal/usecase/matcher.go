package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/labellens/backend/internal/domain"
	"github.com/labellens/backend/internal/logger"
	"github.com/labellens/backend/internal/metrics"
)

// MatcherConfig holds configuration for the matcher
type MatcherConfig struct {
	IgnoredTerms  []string
	LookupTimeout time.Duration
	Logger        logger.Logger
	Metrics       *metrics.Metrics
}

// Matcher turns a token sequence into ordered, de-duplicated match results.
// Priority per token: already emitted, dataset hit, ignore list, reference lookup.
type Matcher struct {
	ignore        IgnoreList
	lookup        domain.ReferenceLookup
	lookupTimeout time.Duration
	logger        logger.Logger
	metrics       *metrics.Metrics
}

// NewMatcher creates a matcher. A nil lookup disables the reference-table fallback.
func NewMatcher(lookup domain.ReferenceLookup, config MatcherConfig) *Matcher {
	log := config.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Matcher{
		ignore:        NewIgnoreList(config.IgnoredTerms),
		lookup:        lookup,
		lookupTimeout: config.LookupTimeout,
		logger:        log,
		metrics:       config.Metrics,
	}
}

// Match resolves tokens against the dataset and, failing that, the reference
// lookup. Results keep first-occurrence order and each ingredient appears once.
// A lookup error aborts the whole match.
func (m *Matcher) Match(ctx context.Context, tokens []string, dataset *domain.Dataset) ([]domain.MatchResult, error) {
	results := make([]domain.MatchResult, 0)
	emitted := make(map[string]struct{})
	// tokens the lookup already rejected during this call
	missed := make(map[string]struct{})

	for _, token := range tokens {
		if _, ok := emitted[token]; ok {
			continue
		}

		if record, ok := dataset.Lookup(token); ok {
			classification := record.Classification
			results = append(results, domain.MatchResult{
				Ingredient:     token,
				Source:         domain.MatchSourceDataset,
				Classification: &classification,
			})
			emitted[token] = struct{}{}
			m.metrics.ObserveMatch(string(domain.MatchSourceDataset))
			continue
		}

		if m.ignore.Contains(token) || m.lookup == nil {
			continue
		}
		if _, ok := missed[token]; ok {
			continue
		}

		info, found, err := m.lookupToken(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("reference lookup for %q: %w", token, err)
		}
		if !found {
			missed[token] = struct{}{}
			continue
		}

		results = append(results, domain.MatchResult{
			Ingredient: token,
			Source:     domain.MatchSourceReference,
			Info:       info,
		})
		emitted[token] = struct{}{}
		m.metrics.ObserveMatch(string(domain.MatchSourceReference))
	}

	return results, nil
}

func (m *Matcher) lookupToken(ctx context.Context, token string) ([]string, bool, error) {
	if m.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.lookupTimeout)
		defer cancel()
	}

	start := time.Now()
	info, found, err := m.lookup.Lookup(ctx, token)
	m.metrics.ObserveLookup(time.Since(start))

	m.logger.Debug("Reference lookup",
		logger.String("token", token),
		logger.Bool("found", found),
		logger.Duration("took", time.Since(start)),
	)
	return info, found, err
}
