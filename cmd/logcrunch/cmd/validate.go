package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coffersTech/logcrunch/internal/parse"
	"github.com/coffersTech/logcrunch/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate every line of a batch",
	Long: `Checks each line against the batch schema and prints the valid count
plus every line-level problem. Exits non-zero when any line fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkShape(); err != nil {
			return err
		}
		lines, err := inputLines(args)
		if err != nil {
			return err
		}
		opts := parse.Options{Workers: flagWorkers}

		var validCount int
		var errs []string
		if flagShape == shapeRecord {
			validCount, errs = validate.RecordLines(lines, opts)
		} else {
			validCount, errs = validate.LogLines(lines, opts)
		}

		if err := printJSON(map[string]interface{}{
			"valid_count": validCount,
			"errors":      errs,
		}); err != nil {
			return err
		}
		if len(errs) > 0 {
			return fmt.Errorf("%d of %d lines failed validation", len(errs), len(lines))
		}
		return nil
	},
}

func init() {
	addShapeFlag(validateCmd)
	rootCmd.AddCommand(validateCmd)
}
