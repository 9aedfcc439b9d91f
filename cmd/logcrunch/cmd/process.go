package cmd

import (
	"github.com/spf13/cobra"

	"github.com/coffersTech/logcrunch/internal/parse"
	"github.com/coffersTech/logcrunch/internal/pipeline"
)

var processCmd = &cobra.Command{
	Use:   "process [file]",
	Short: "Strictly process a record batch",
	Long: `Decodes and validates every generic record, then prints the batch
statistics. Unlike "stats", any malformed or invalid record fails the
whole batch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := inputLines(args)
		if err != nil {
			return err
		}
		records, err := parse.Records(lines, parse.Options{Workers: flagWorkers})
		if err != nil {
			return err
		}
		stats, err := pipeline.ProcessRecords(records, pipeline.Options{Workers: flagWorkers})
		if err != nil {
			return err
		}
		return printJSON(stats)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}
