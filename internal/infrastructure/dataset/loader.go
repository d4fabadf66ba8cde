// Package dataset loads the ingredient reference dataset and keeps the current
// copy available to request handlers.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labellens/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Required dataset columns
const (
	ColumnName                 = "Ingredients Name"
	ColumnNaturalArtificial    = "Natural/Artificial"
	ColumnProcessedUnprocessed = "Processed/Unprocessed"
)

var requiredColumns = []string{ColumnName, ColumnNaturalArtificial, ColumnProcessedUnprocessed}

// Load reads a CSV or XLSX dataset. Unreadable files fail with
// ErrSourceUnavailable, missing columns with *domain.SchemaError. Bad flag
// values never fail the load.
func Load(path string) (*domain.Dataset, error) {
	var (
		rows [][]string
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: unsupported dataset format %q", domain.ErrSourceUnavailable, ext)
	}
	if err != nil {
		return nil, err
	}

	records, err := parseRows(path, rows)
	if err != nil {
		return nil, err
	}
	return domain.NewDataset(path, records), nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrSourceUnavailable, path, err)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", domain.ErrSourceUnavailable, sheets[0], err)
	}
	return rows, nil
}

// parseRows turns a header row plus data rows into records
func parseRows(source string, rows [][]string) ([]domain.IngredientRecord, error) {
	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.SchemaError{Source: source, Missing: missing}
	}

	nameIdx := index[ColumnName]
	naturalIdx := index[ColumnNaturalArtificial]
	processedIdx := index[ColumnProcessedUnprocessed]

	records := make([]domain.IngredientRecord, 0, len(rows))
	for _, row := range rows[1:] {
		name := strings.ToLower(strings.TrimSpace(cell(row, nameIdx)))
		if name == "" {
			continue
		}
		records = append(records, domain.IngredientRecord{
			Name: name,
			Classification: Classify(
				ParseFlag(cell(row, naturalIdx)),
				ParseFlag(cell(row, processedIdx)),
			),
		})
	}
	return records, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// ParseFlag reads a dataset flag as an unsigned integer. Blank, signed,
// fractional or otherwise non-numeric values yield 0.
func ParseFlag(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Classify maps raw flags to enums: 1 means Artificial / Processed, every
// other value means Natural / Unprocessed.
func Classify(naturalArtificial, processedUnprocessed int) domain.Classification {
	c := domain.Classification{
		Origin:     domain.OriginNatural,
		Processing: domain.ProcessingUnprocessed,
	}
	if naturalArtificial == 1 {
		c.Origin = domain.OriginArtificial
	}
	if processedUnprocessed == 1 {
		c.Processing = domain.ProcessingProcessed
	}
	return c
}
