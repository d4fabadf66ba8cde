package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/labellens/backend/internal/domain"
	"github.com/labellens/backend/internal/infrastructure/dataset"
	"github.com/labellens/backend/internal/usecase"
	"github.com/spf13/cobra"
)

func newDatasetCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Work with the ingredient dataset",
	}
	cmd.AddCommand(
		newDatasetInspectCommand(opts),
		newDatasetSearchCommand(opts),
	)
	return cmd
}

func newDatasetInspectCommand(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "inspect [path]",
		Short: "Load a dataset and list its ingredients",
		Long:  `Load a dataset the way the server does and print the parsed classifications. Without a path the configured dataset is used.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.datasetPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				cfg, err := opts.loadConfig()
				if err != nil {
					return err
				}
				path = cfg.Dataset.Path
			}

			ds, err := dataset.Load(path)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeDatasetJSON(cmd.OutOrStdout(), ds, limit)
			}
			renderDataset(cmd.OutOrStdout(), ds, limit)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many ingredients (0 = all)")
	return cmd
}

func newDatasetSearchCommand(opts *options) *cobra.Command {
	var (
		distance int
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Find dataset ingredients spelled like term",
		Long:  `Suggest dataset ingredients within a few edits of term. Useful for checking what an OCR misread should have matched.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.datasetPath
			if path == "" {
				cfg, err := opts.loadConfig()
				if err != nil {
					return err
				}
				path = cfg.Dataset.Path
			}

			ds, err := dataset.Load(path)
			if err != nil {
				return err
			}

			suggestions := usecase.SuggestIngredients(ds, args[0], distance, limit)
			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(suggestions)
			}

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Ingredient", "Edits", "Natural/Artificial", "Processed/Unprocessed"})
			for _, s := range suggestions {
				t.AppendRow(table.Row{s.Name, s.Distance, s.Classification.Origin, s.Classification.Processing})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&distance, "distance", 2, "maximum edit distance")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of suggestions")
	return cmd
}

func limitRecords(ds *domain.Dataset, limit int) []domain.IngredientRecord {
	records := ds.Records()
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}

func writeDatasetJSON(out io.Writer, ds *domain.Dataset, limit int) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"source":      ds.Source(),
		"size":        ds.Len(),
		"tally":       usecase.SummarizeRecords(ds.Records()),
		"ingredients": limitRecords(ds, limit),
	})
}

func renderDataset(out io.Writer, ds *domain.Dataset, limit int) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Footer = text.FormatDefault
	t.SetTitle(ds.Source())
	t.AppendHeader(table.Row{"Ingredient", "Natural/Artificial", "Processed/Unprocessed"})

	records := limitRecords(ds, limit)
	for _, r := range records {
		t.AppendRow(table.Row{r.Name, r.Classification.Origin, r.Classification.Processing})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d of %d", len(records), ds.Len()), "", ""})
	t.Render()

	// totals cover the whole dataset, not just the listed rows
	renderTally(out, usecase.SummarizeRecords(ds.Records()))
}
