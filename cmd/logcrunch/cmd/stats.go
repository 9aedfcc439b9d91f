package cmd

import (
	"github.com/spf13/cobra"

	"github.com/coffersTech/logcrunch/internal/pipeline"
)

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Compute batch statistics (lenient parse)",
	Long: `Aggregates a newline-delimited JSON batch into a statistics snapshot.
Malformed lines are dropped; the command fails when no usable records
remain.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkShape(); err != nil {
			return err
		}
		lines, err := inputLines(args)
		if err != nil {
			return err
		}
		opts := pipeline.Options{Workers: flagWorkers}
		if flagShape == shapeRecord {
			stats, err := pipeline.ComputeRecordStats(lines, opts)
			if err != nil {
				return err
			}
			return printJSON(stats)
		}
		stats, err := pipeline.ComputeStats(lines, opts)
		if err != nil {
			return err
		}
		return printJSON(stats)
	},
}

func init() {
	addShapeFlag(statsCmd)
	rootCmd.AddCommand(statsCmd)
}
