package chart

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/labellens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarRendererPNG(t *testing.T) {
	tests := []struct {
		name  string
		tally domain.Tally
	}{
		{name: "mixed", tally: domain.Tally{Natural: 2, Artificial: 1, Processed: 1, Unprocessed: 2}},
		{name: "all zero", tally: domain.Tally{}},
		{name: "single bucket", tally: domain.Tally{Artificial: 7}},
	}

	r := NewBarRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Render(tt.tally)
			require.NoError(t, err)

			cfg, err := png.DecodeConfig(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, defaultWidth, cfg.Width)
			assert.Equal(t, defaultHeight, cfg.Height)
		})
	}

	assert.Equal(t, "image/png", r.ContentType())
}

func TestBarRendererSatisfiesChartRenderer(t *testing.T) {
	var _ domain.ChartRenderer = NewBarRenderer()
}
