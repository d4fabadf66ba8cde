package reference

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labellens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = `<html><body>
<table>
  <tr><th>Name</th><th>Type</th><th>Notes</th></tr>
  <tr><td> Xanthan Gum </td><td>thickener</td><td>fermented</td></tr>
  <tr><td>E330</td><td>Citric Acid</td><td>acidity regulator</td></tr>
  <tr><td>Guar Gum</td><td>thickener</td><td>plant</td></tr>
  <tr><td>guar gum</td><td>duplicate</td><td>ignored</td></tr>
  <tr><td>Nested<table><tr><td>inner</td><td>cell</td></tr></table></td><td>outer</td></tr>
</table>
</body></html>`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.html")
	require.NoError(t, os.WriteFile(path, []byte(sampleTable), 0o644))
	return path
}

func TestScraperLookupFile(t *testing.T) {
	s := NewScraper(writeSample(t), ScraperConfig{})
	ctx := context.Background()

	tests := []struct {
		name      string
		token     string
		wantFound bool
		wantInfo  []string
	}{
		{name: "case-insensitive trimmed match", token: "xanthan gum", wantFound: true, wantInfo: []string{"thickener", "fermented"}},
		{name: "match in middle column", token: "citric acid", wantFound: true, wantInfo: []string{"E330", "acidity regulator"}},
		{name: "first matching row wins", token: "guar gum", wantFound: true, wantInfo: []string{"thickener", "plant"}},
		{name: "partial text is not a match", token: "xanthan", wantFound: false},
		{name: "header cells are not data", token: "name", wantFound: false},
		{name: "unknown", token: "unobtainium", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, found, err := s.Lookup(ctx, tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, tt.wantInfo, info)
			}
		})
	}
}

func TestScraperNestedTableRowsAreSeparate(t *testing.T) {
	s := NewScraper(writeSample(t), ScraperConfig{})

	info, found, err := s.Lookup(context.Background(), "inner")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"cell"}, info)
}

func TestScraperMissingFile(t *testing.T) {
	s := NewScraper(filepath.Join(t.TempDir(), "missing.html"), ScraperConfig{})

	_, _, err := s.Lookup(context.Background(), "sugar")
	assert.True(t, errors.Is(err, domain.ErrSourceUnavailable))
	assert.False(t, IsRetryable(err))
}

func TestScraperLookupHTTP(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(sampleTable))
	}))
	defer server.Close()

	s := NewScraper(server.URL, ScraperConfig{RequestsPerSecond: 100})

	info, found, err := s.Lookup(context.Background(), "XANTHAN GUM")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"thickener", "fermented"}, info)
	assert.Equal(t, 1, requests)
}

func TestScraperHTTPStatus(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantRetryable bool
	}{
		{name: "not found", status: http.StatusNotFound, wantRetryable: false},
		{name: "server error", status: http.StatusBadGateway, wantRetryable: true},
		{name: "throttled", status: http.StatusTooManyRequests, wantRetryable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			s := NewScraper(server.URL, ScraperConfig{RequestsPerSecond: 100})
			_, _, err := s.Lookup(context.Background(), "sugar")

			assert.True(t, errors.Is(err, domain.ErrSourceUnavailable))
			assert.Equal(t, tt.wantRetryable, IsRetryable(err))
		})
	}
}
