// Package cmd - generate command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"salespipe/core/generate"
)

var (
	genRows      int
	genErrorRate float64
	genSeed      int64
)

// generateCmd produces a synthetic dirty sales dataset.
var generateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Generate a synthetic dirty sales dataset",
	Long: `Write a CSV of synthetic sales transactions with realistic product,
region and seasonal patterns, plus injected errors of the kinds the
cleaner handles: misspelled names, negative or suffixed quantities,
out-of-range discounts, malformed prices, mixed date formats and
missing emails.

Examples:
  salespipe generate sales.csv --rows 100000
  salespipe generate sales.csv --rows 1000000 --error-rate 0.2 --seed 42`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVarP(&genRows, "rows", "n", 10000, "number of rows to generate")
	generateCmd.Flags().Float64Var(&genErrorRate, "error-rate", 0.15, "fraction of rows with injected errors")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "random seed for reproducible datasets")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	stats, err := generate.New(genSeed).Generate(args[0], genRows, genErrorRate)
	if err != nil {
		return err
	}

	fmt.Printf("Generated %d rows (%d with injected errors) at %s\n",
		stats.TotalRows, stats.RecordsWithErrors, args[0])
	for errType, count := range stats.ErrorTypes {
		fmt.Printf("  %s: %d\n", errType, count)
	}
	return nil
}
