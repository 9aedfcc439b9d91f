package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coffersTech/logcrunch/internal/parse"
)

// Shared flags. Workers bounds parallelism everywhere; shape selects
// between the log-entry and generic-record batch layouts.
var (
	flagWorkers int
	flagShape   string
)

const (
	shapeLog    = "log"
	shapeRecord = "record"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "logcrunch",
	Short: "LogCrunch - parallel record aggregation engine",
	Long: `LogCrunch validates, filters and aggregates newline-delimited JSON
batches of log entries or generic tagged measurements. Input files may
be plain, gzip (.gz) or zstd (.zst) compressed; "-" reads stdin.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&flagWorkers, "workers", "w", 0, "parallel workers (0 = all CPUs)")
}

func addShapeFlag(c *cobra.Command) {
	c.Flags().StringVar(&flagShape, "shape", shapeLog, "batch shape: log or record")
}

func checkShape() error {
	if flagShape != shapeLog && flagShape != shapeRecord {
		return fmt.Errorf("invalid shape %q: must be %q or %q", flagShape, shapeLog, shapeRecord)
	}
	return nil
}

// inputLines reads the batch named by args, defaulting to stdin.
func inputLines(args []string) ([]string, error) {
	path := "-"
	if len(args) > 0 {
		path = args[0]
	}
	return parse.ReadLines(path)
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
