package cmd

import (
	"github.com/spf13/cobra"

	"github.com/coffersTech/logcrunch/internal/pipeline"
)

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Validate and aggregate a log batch in one pass",
	Long: `Runs validation and statistics against the same input and prints
both. Validation problems are reported alongside the statistics rather
than failing the command; only a batch with no usable entries fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := inputLines(args)
		if err != nil {
			return err
		}
		stats, errs, err := pipeline.BatchProcess(lines, pipeline.Options{Workers: flagWorkers})
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{
			"stats":             stats,
			"validation_errors": errs,
		})
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
