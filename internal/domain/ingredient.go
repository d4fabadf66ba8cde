package domain

import (
	"sort"
	"time"
)

// Origin is the natural/artificial half of an ingredient classification
type Origin string

const (
	OriginNatural    Origin = "Natural"
	OriginArtificial Origin = "Artificial"
)

// Processing is the processed/unprocessed half of an ingredient classification
type Processing string

const (
	ProcessingProcessed   Processing = "Processed"
	ProcessingUnprocessed Processing = "Unprocessed"
)

// Classification is the enum pair attached to a known ingredient
type Classification struct {
	Origin     Origin     `json:"naturalArtificial"`
	Processing Processing `json:"processedUnprocessed"`
}

// IngredientRecord is one row of the reference dataset after normalization
type IngredientRecord struct {
	Name           string         `json:"name"`
	Classification Classification `json:"classification"`
}

// Dataset is an immutable mapping from normalized ingredient name to record.
// It is built once by a loader and shared read-only between requests.
type Dataset struct {
	records  map[string]IngredientRecord
	source   string
	loadedAt time.Time
}

// NewDataset copies records into a new Dataset. Later records with the same
// name replace earlier ones.
func NewDataset(source string, records []IngredientRecord) *Dataset {
	m := make(map[string]IngredientRecord, len(records))
	for _, r := range records {
		m[r.Name] = r
	}
	return &Dataset{
		records:  m,
		source:   source,
		loadedAt: time.Now(),
	}
}

// Lookup returns the record stored under a normalized name
func (d *Dataset) Lookup(name string) (IngredientRecord, bool) {
	if d == nil {
		return IngredientRecord{}, false
	}
	r, ok := d.records[name]
	return r, ok
}

// Len returns the number of distinct ingredients
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Source returns where the dataset was loaded from
func (d *Dataset) Source() string {
	if d == nil {
		return ""
	}
	return d.source
}

// LoadedAt returns when the dataset was built
func (d *Dataset) LoadedAt() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.loadedAt
}

// Records returns all records sorted by name
func (d *Dataset) Records() []IngredientRecord {
	if d == nil {
		return nil
	}
	out := make([]IngredientRecord, 0, len(d.records))
	for _, r := range d.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
