package usecase

import (
	"context"
	"io"

	"github.com/labellens/backend/internal/domain"
)

// MockReferenceLookup is a mock implementation of domain.ReferenceLookup
type MockReferenceLookup struct {
	table  map[string][]string
	err    error
	called []string
}

func NewMockReferenceLookup(table map[string][]string) *MockReferenceLookup {
	return &MockReferenceLookup{table: table}
}

func (m *MockReferenceLookup) Lookup(ctx context.Context, token string) ([]string, bool, error) {
	m.called = append(m.called, token)
	if m.err != nil {
		return nil, false, m.err
	}
	info, ok := m.table[token]
	return info, ok, nil
}

// MockTextExtractor is a mock implementation of domain.TextExtractor
type MockTextExtractor struct {
	text string
	err  error
	// block makes ExtractText wait for context cancellation
	block bool
}

func (m *MockTextExtractor) ExtractText(ctx context.Context, image io.Reader) (string, error) {
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// staticDatasets is a fixed domain.DatasetProvider
type staticDatasets struct {
	dataset *domain.Dataset
}

func (s staticDatasets) Current() *domain.Dataset {
	return s.dataset
}

// MockChartRenderer is a mock implementation of domain.ChartRenderer
type MockChartRenderer struct {
	lastTally domain.Tally
	err       error
}

func (m *MockChartRenderer) Render(tally domain.Tally) ([]byte, error) {
	m.lastTally = tally
	if m.err != nil {
		return nil, m.err
	}
	return []byte("png"), nil
}

func (m *MockChartRenderer) ContentType() string {
	return "image/png"
}

func record(name string, origin domain.Origin, processing domain.Processing) domain.IngredientRecord {
	return domain.IngredientRecord{
		Name:           name,
		Classification: domain.Classification{Origin: origin, Processing: processing},
	}
}

// sugarSaltDataset is {"sugar": (Natural, Processed), "salt": (Natural, Unprocessed)}
func sugarSaltDataset() *domain.Dataset {
	return domain.NewDataset("test", []domain.IngredientRecord{
		record("sugar", domain.OriginNatural, domain.ProcessingProcessed),
		record("salt", domain.OriginNatural, domain.ProcessingUnprocessed),
	})
}
