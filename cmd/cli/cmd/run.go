// Package cmd - run command
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"salespipe/core/pipeline"
)

var (
	outputDir    string
	batchSize    int
	anomalyLimit int
	topProducts  int
)

// runCmd executes one pipeline run against a source file.
var runCmd = &cobra.Command{
	Use:   "run [source]",
	Short: "Run the sales pipeline against a CSV source",
	Long: `Read a delimited sales file in batches, clean and normalize every
row, aggregate the survivors and persist the analytical artifacts.

Examples:
  salespipe run sales.csv
  salespipe run sales.csv --output data/processed --batch-size 5000`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default from config)")
	runCmd.Flags().IntVarP(&batchSize, "batch-size", "b", 0, "rows per batch (default from config)")
	runCmd.Flags().IntVar(&anomalyLimit, "anomaly-limit", 0, "anomaly shortlist size (default from config)")
	runCmd.Flags().IntVar(&topProducts, "top-products", 0, "product ranking size (default from config)")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	opts := pipeline.Options{
		SourcePath:       args[0],
		OutputDir:        outputDir,
		BatchSize:        batchSize,
		AnomalyLimit:     anomalyLimit,
		TopProductsLimit: topProducts,
	}
	if opts.OutputDir == "" {
		opts.OutputDir = cfg.Pipeline.OutputDir
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = cfg.Pipeline.BatchSize
	}
	if opts.AnomalyLimit == 0 {
		opts.AnomalyLimit = cfg.Pipeline.AnomalyLimit
	}
	if opts.TopProductsLimit == 0 {
		opts.TopProductsLimit = cfg.Pipeline.TopProductsLimit
	}

	result, err := pipeline.Run(context.Background(), opts)
	if err != nil {
		return err
	}

	quality := result.DataQualityStats
	stats := result.ProcessingStats

	fmt.Println("Pipeline completed.")
	fmt.Printf("  Records processed: %d\n", quality.RecordsProcessed)
	fmt.Printf("  Records dropped:   %d\n", quality.RecordsDropped)
	fmt.Printf("  Success rate:      %.1f%%\n", quality.SuccessRate)
	fmt.Printf("  Anomalies flagged: %d\n", stats.AnomalyRecords)
	fmt.Printf("  Elapsed:           %.2fs (%.0f rows/s)\n", stats.ElapsedSeconds, stats.RowsPerSecond)
	fmt.Println("\nGenerated artifacts:")
	for name, path := range result.SavedFiles {
		fmt.Printf("  %s: %s\n", name, path)
	}
	return nil
}
