// Package chart renders classification tallies as images.
package chart

import (
	"bytes"
	"fmt"

	"github.com/labellens/backend/internal/domain"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	defaultWidth  = 640
	defaultHeight = 400
)

var bucketColors = map[string]drawing.Color{
	string(domain.OriginNatural):         drawing.ColorFromHex("4caf50"),
	string(domain.OriginArtificial):      drawing.ColorFromHex("f44336"),
	string(domain.ProcessingProcessed):   drawing.ColorFromHex("ff9800"),
	string(domain.ProcessingUnprocessed): drawing.ColorFromHex("2196f3"),
}

// BarRenderer draws one bar per tally bucket as a PNG
type BarRenderer struct {
	Title  string
	Width  int
	Height int
}

// NewBarRenderer returns a renderer with default dimensions
func NewBarRenderer() *BarRenderer {
	return &BarRenderer{
		Title:  "Ingredient Classification",
		Width:  defaultWidth,
		Height: defaultHeight,
	}
}

// Render draws the buckets in their fixed order. An all-zero tally still
// yields a valid chart.
func (r *BarRenderer) Render(tally domain.Tally) ([]byte, error) {
	buckets := tally.Buckets()

	bars := make([]gochart.Value, 0, len(buckets))
	peak := 1
	for _, b := range buckets {
		if b.Count > peak {
			peak = b.Count
		}
		bars = append(bars, gochart.Value{
			Label: b.Label,
			Value: float64(b.Count),
			Style: gochart.Style{
				FillColor:   bucketColors[b.Label],
				StrokeColor: bucketColors[b.Label],
			},
		})
	}

	graph := gochart.BarChart{
		Title:      r.Title,
		Width:      r.Width,
		Height:     r.Height,
		BarWidth:   r.Width / (2 * len(bars)),
		Background: gochart.Style{Padding: gochart.Box{Top: 40}},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: float64(peak)},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentType is the MIME type of Render's output
func (r *BarRenderer) ContentType() string {
	return "image/png"
}
