package cmd

import (
	"github.com/spf13/cobra"

	"github.com/coffersTech/logcrunch/internal/engine"
	"github.com/coffersTech/logcrunch/internal/parse"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories [file]",
	Short: "Group a record batch by category",
	Long: `Prints the sorted distinct categories of a generic-record batch and
the per-category statistics. Malformed lines are dropped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := inputLines(args)
		if err != nil {
			return err
		}
		records := parse.RecordsLenient(lines, parse.Options{Workers: flagWorkers})
		return printJSON(map[string]interface{}{
			"categories": engine.UniqueCategories(records),
			"stats":      engine.AggregateByCategory(records),
		})
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
