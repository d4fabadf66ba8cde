// Package reference implements the fallback lookup against an HTML reference
// table for words the ingredient dataset does not know.
package reference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/labellens/backend/internal/domain"
	"github.com/labellens/backend/internal/logger"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout  = 30 * time.Second
	maxDocumentSize = 10 << 20
	userAgent       = "LabelLens/1.0"
)

// ErrRetryableStatus marks HTTP responses worth retrying (429 and 5xx)
var ErrRetryableStatus = errors.New("retryable reference status")

// ScraperConfig configures a Scraper
type ScraperConfig struct {
	// Timeout bounds a single fetch of the reference document
	Timeout time.Duration
	// RequestsPerSecond limits remote fetches; zero means 2/s
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            logger.Logger
}

// Scraper looks tokens up in an HTML table read from a file or an http(s) URL
type Scraper struct {
	source      string
	remote      bool
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      logger.Logger
}

// NewScraper creates a scraper for source
func NewScraper(source string, config ScraperConfig) *Scraper {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	log := config.Logger
	if log == nil {
		log = logger.NewNop()
	}

	return &Scraper{
		source:      source,
		remote:      strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"),
		httpClient:  client,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), 5),
		logger:      log,
	}
}

// Source returns the configured location of the reference table
func (s *Scraper) Source() string {
	return s.source
}

// Lookup finds the first table row holding a cell whose trimmed text equals
// token, ignoring case, and returns the trimmed texts of the row's other
// cells in document order.
func (s *Scraper) Lookup(ctx context.Context, token string) ([]string, bool, error) {
	doc, err := s.document(ctx)
	if err != nil {
		return nil, false, err
	}

	info, found := findRow(doc, strings.TrimSpace(token))
	s.logger.Debug("Reference lookup",
		logger.String("token", token),
		logger.Bool("found", found),
	)
	return info, found, nil
}

func findRow(doc *goquery.Document, token string) ([]string, bool) {
	var (
		info  []string
		found bool
	)

	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.ChildrenFiltered("td")

		matched := -1
		cells.EachWithBreak(func(i int, cell *goquery.Selection) bool {
			if strings.EqualFold(strings.TrimSpace(cell.Text()), token) {
				matched = i
				return false
			}
			return true
		})
		if matched < 0 {
			return true
		}

		info = make([]string, 0, cells.Length()-1)
		cells.Each(func(i int, cell *goquery.Selection) {
			if i != matched {
				info = append(info, strings.TrimSpace(cell.Text()))
			}
		})
		found = true
		return false
	})

	return info, found
}

func (s *Scraper) document(ctx context.Context) (*goquery.Document, error) {
	var (
		body []byte
		err  error
	)
	if s.remote {
		body, err = s.fetch(ctx)
	} else {
		body, err = os.ReadFile(s.source)
		if err != nil {
			err = fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
		}
	}
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse reference table: %v", domain.ErrSourceUnavailable, err)
	}
	return doc, nil
}

func (s *Scraper) fetch(ctx context.Context) ([]byte, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrSourceUnavailable, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("Reference source returned error status",
			logger.String("source", s.source),
			logger.Int("status", resp.StatusCode),
		)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: %w: status %d", domain.ErrSourceUnavailable, ErrRetryableStatus, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: status %d", domain.ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrSourceUnavailable, err)
	}
	return body, nil
}
