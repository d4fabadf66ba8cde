package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/labellens/backend/internal/bootstrap"
	"github.com/labellens/backend/internal/domain"
	"github.com/labellens/backend/internal/infrastructure/ocr"
	"github.com/spf13/cobra"
)

type classifyOptions struct {
	text      string
	chartPath string
}

func newClassifyCommand(opts *options) *cobra.Command {
	co := &classifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify [image]",
		Short: "Classify the ingredients on a label photo or in label text",
		Example: `  labellens classify label.jpg --chart tally.png
  labellens classify --text "sugar, salt, xanthan gum"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if co.text == "" && len(args) == 0 {
				return fmt.Errorf("%w: pass an image path or --text", domain.ErrInvalidRequest)
			}
			return runClassify(cmd.Context(), cmd.OutOrStdout(), opts, co, args)
		},
	}

	cmd.Flags().StringVar(&co.text, "text", "", "classify this text instead of running OCR")
	cmd.Flags().StringVar(&co.chartPath, "chart", "", "write a PNG bar chart of the tally to this path")

	return cmd
}

func runClassify(ctx context.Context, out io.Writer, opts *options, co *classifyOptions, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if co.text != "" {
		// text input never reaches OCR, so skip building the engine
		cfg.OCR.Engine = ocr.EngineNone
	}
	log, err := opts.logger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	components, err := bootstrap.NewComponents(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer components.Close()

	var report *domain.Report
	if co.text != "" {
		report, err = components.Service.ClassifyText(ctx, co.text)
	} else {
		report, err = classifyFile(ctx, components, args[0])
	}
	if err != nil {
		return err
	}

	if co.chartPath != "" {
		img, _, err := components.Service.RenderChart(report.Tally)
		if err != nil {
			return err
		}
		if err := os.WriteFile(co.chartPath, img, 0o644); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	renderReport(out, report)
	return nil
}

func classifyFile(ctx context.Context, c *bootstrap.Components, path string) (*domain.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return c.Service.ClassifyImage(ctx, f)
}

// renderReport prints matches and the tally as tables
func renderReport(out io.Writer, report *domain.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"Ingredient", "Source", "Natural/Artificial", "Processed/Unprocessed", "Info"})

	for _, r := range report.Ingredients {
		row := table.Row{r.Ingredient, r.Source, "", "", strings.Join(r.Info, "; ")}
		if r.Classification != nil {
			row[2] = r.Classification.Origin
			row[3] = r.Classification.Processing
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d found", len(report.Ingredients)), "", "", "", fmt.Sprintf("%d tokens", report.TokenCount)})
	t.Render()

	renderTally(out, report.Tally)
}

func renderTally(out io.Writer, tally domain.Tally) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Bucket", "Count"})
	for _, b := range tally.Buckets() {
		t.AppendRow(table.Row{b.Label, b.Count})
	}
	t.Render()
}
