package usecase

import "github.com/labellens/backend/internal/domain"

// Summarize tallies dataset hits into the four chart buckets. Reference-table
// hits carry no classification and are skipped, so Total() is always twice the
// number of dataset hits.
func Summarize(results []domain.MatchResult) domain.Tally {
	var t domain.Tally
	for _, r := range results {
		if r.Classification == nil {
			continue
		}
		addToTally(&t, *r.Classification)
	}
	return t
}

// SummarizeRecords tallies dataset records the same way, one count per pair
func SummarizeRecords(records []domain.IngredientRecord) domain.Tally {
	var t domain.Tally
	for _, r := range records {
		addToTally(&t, r.Classification)
	}
	return t
}

func addToTally(t *domain.Tally, c domain.Classification) {
	if c.Origin == domain.OriginArtificial {
		t.Artificial++
	} else {
		t.Natural++
	}
	if c.Processing == domain.ProcessingProcessed {
		t.Processed++
	} else {
		t.Unprocessed++
	}
}
