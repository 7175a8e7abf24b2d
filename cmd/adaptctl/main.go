// Command adaptctl runs the adaptive engine on local files.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"adaptcoach/internal/adaptive"
	"adaptcoach/internal/logging"
	"adaptcoach/internal/rules"
)

type rootOptions struct {
	tablesPath string
	logLevel   string

	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "adaptctl",
		Short:        "Run the adaptive prescription engine from the command line",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(opts.logLevel, true)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.tablesPath, "tables", "", "YAML lookup table override (built-in tables when empty)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level")

	cmd.AddCommand(
		newPrescribeCmd(opts),
		newNutritionCmd(opts),
		newIngredientCmd(opts),
		newTablesCmd(opts),
		newExportCmd(opts),
	)
	return cmd
}

// engine loads the tables named by --tables.
func (o *rootOptions) engine() (*adaptive.Engine, error) {
	tables, err := rules.Load(o.tablesPath)
	if err != nil {
		return nil, err
	}
	if o.logger != nil && o.tablesPath != "" {
		o.logger.Debug("loaded rule tables", zap.String("path", o.tablesPath))
	}
	return adaptive.NewEngine(tables), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
