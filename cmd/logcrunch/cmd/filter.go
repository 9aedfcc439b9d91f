package cmd

import (
	"github.com/spf13/cobra"

	"github.com/coffersTech/logcrunch/internal/engine"
	"github.com/coffersTech/logcrunch/internal/pipeline"
)

var (
	flagMinLevel    string
	flagMinDuration float64
	flagStatusCodes []int
	flagCategory    string
	flagMinValue    float64
)

var filterCmd = &cobra.Command{
	Use:   "filter [file]",
	Short: "Filter a batch with conjunctive predicates",
	Long: `Prints the records matching every supplied predicate, preserving
input order. Predicates on optional fields require the field to be
present: a record without duration_ms never matches --min-duration.`,
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
			filter := engine.RecordFilter{Category: flagCategory}
			if cmd.Flags().Changed("min-value") {
				v := flagMinValue
				filter.MinValue = &v
			}
			return printJSON(pipeline.FilterRecords(lines, filter, opts))
		}

		filter := engine.LogFilter{
			MinLevel:    flagMinLevel,
			StatusCodes: flagStatusCodes,
		}
		if cmd.Flags().Changed("min-duration") {
			v := flagMinDuration
			filter.MinDurationMS = &v
		}
		return printJSON(pipeline.FilterLogs(lines, filter, opts))
	},
}

func init() {
	addShapeFlag(filterCmd)
	filterCmd.Flags().StringVar(&flagMinLevel, "min-level", "", "minimum log level (DEBUG, INFO, WARN, ERROR)")
	filterCmd.Flags().Float64Var(&flagMinDuration, "min-duration", 0, "minimum duration_ms; requires the field to be present")
	filterCmd.Flags().IntSliceVar(&flagStatusCodes, "status-codes", nil, "allowed status codes (empty = all)")
	filterCmd.Flags().StringVar(&flagCategory, "category", "", "exact category match (record shape)")
	filterCmd.Flags().Float64Var(&flagMinValue, "min-value", 0, "minimum value (record shape)")
	rootCmd.AddCommand(filterCmd)
}
