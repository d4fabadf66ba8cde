package domain

// MatchSource tells which lookup produced a MatchResult
type MatchSource string

const (
	MatchSourceDataset   MatchSource = "dataset"
	MatchSourceReference MatchSource = "reference"
)

// MatchResult is one recognized ingredient in the order it first appeared.
// Dataset hits carry a Classification; reference-table hits carry Info.
type MatchResult struct {
	Ingredient     string          `json:"ingredient"`
	Source         MatchSource     `json:"source"`
	Classification *Classification `json:"classification,omitempty"`
	Info           []string        `json:"info,omitempty"`
}

// Tally counts dataset hits into the four classification buckets
type Tally struct {
	Natural     int `json:"natural"`
	Artificial  int `json:"artificial"`
	Processed   int `json:"processed"`
	Unprocessed int `json:"unprocessed"`
}

// Bucket is a labeled count, used by chart and table renderers
type Bucket struct {
	Label string
	Count int
}

// Buckets returns the tally in its fixed display order
func (t Tally) Buckets() []Bucket {
	return []Bucket{
		{Label: string(OriginNatural), Count: t.Natural},
		{Label: string(OriginArtificial), Count: t.Artificial},
		{Label: string(ProcessingProcessed), Count: t.Processed},
		{Label: string(ProcessingUnprocessed), Count: t.Unprocessed},
	}
}

// Total returns the sum of all four buckets
func (t Tally) Total() int {
	return t.Natural + t.Artificial + t.Processed + t.Unprocessed
}

// Report is the outcome of one classification run
type Report struct {
	Ingredients []MatchResult `json:"ingredients"`
	Tally       Tally         `json:"tally"`
	TokenCount  int           `json:"tokenCount"`
	DatasetSize int           `json:"datasetSize"`
}
