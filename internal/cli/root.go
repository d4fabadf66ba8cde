// Package cli implements the labellens command-line tool.
package cli

import (
	"github.com/labellens/backend/config"
	"github.com/labellens/backend/internal/logger"
	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every command
type options struct {
	datasetPath string
	verbose     bool
	jsonOutput  bool
}

// baseConfig reads configuration and applies the --dataset override
func (o *options) baseConfig() (*config.Config, error) {
	if err := config.LoadEnvFile(); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.datasetPath != "" {
		cfg.Dataset.Path = o.datasetPath
	}
	return cfg, nil
}

// loadConfig is the configuration for one-shot commands, which never watch
// the dataset
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := o.baseConfig()
	if err != nil {
		return nil, err
	}
	cfg.Dataset.Watch = false
	return cfg, nil
}

// serveConfig keeps the configured watch setting; --verbose raises the log level
func (o *options) serveConfig() (*config.Config, error) {
	cfg, err := o.baseConfig()
	if err != nil {
		return nil, err
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func (o *options) logger() (logger.Logger, error) {
	if !o.verbose {
		return logger.NewNop(), nil
	}
	return logger.New(logger.Config{Level: "debug", Development: true})
}

// NewRootCommand builds the labellens command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "labellens",
		Short:         "Classify food-label ingredients",
		Long:          `labellens reads food-label text or photos and reports which ingredients are natural, artificial, processed or unprocessed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.datasetPath, "dataset", "", "ingredient dataset (CSV or XLSX), overrides config")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline activity to stderr")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print JSON instead of tables")

	cmd.AddCommand(
		newClassifyCommand(opts),
		newDatasetCommand(opts),
		newServeCommand(opts),
	)

	return cmd
}
