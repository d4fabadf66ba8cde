package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchema is returned when the reference dataset is missing a required column
	ErrSchema = errors.New("reference dataset schema invalid")
	// ErrSourceUnavailable is returned when the dataset or reference table cannot be read
	ErrSourceUnavailable = errors.New("reference source unavailable")
	// ErrOCRFailure is returned when the OCR engine cannot produce text
	ErrOCRFailure = errors.New("OCR failed to extract text")
	// ErrImageTooLarge is returned when an image is over the OCR size limit
	ErrImageTooLarge = errors.New("image exceeds the maximum size")
	// ErrOCRUnavailable is returned when no OCR engine is configured
	ErrOCRUnavailable = errors.New("OCR engine not configured")
	// ErrChartUnavailable is returned when no chart renderer is configured
	ErrChartUnavailable = errors.New("chart renderer not configured")
	// ErrDatasetNotLoaded is returned when classification runs before a dataset exists
	ErrDatasetNotLoaded = errors.New("ingredient dataset not loaded")
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)

// SchemaError lists the required columns a dataset source lacks
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s missing column(s) %s", ErrSchema, e.Source, strings.Join(e.Missing, ", "))
}

// Unwrap lets errors.Is(err, ErrSchema) match
func (e *SchemaError) Unwrap() error {
	return ErrSchema
}
