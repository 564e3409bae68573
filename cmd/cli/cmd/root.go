// Package cmd provides the CLI commands for salespipe.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"salespipe/internal/config"
	"salespipe/internal/logging"
)

var (
	cfgFile string
	verbose bool

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "salespipe",
	Short: "Process and analyze transactional sales data",
	Long: `salespipe ingests delimited sales records, repairs inconsistent
fields and produces analytical rollups: monthly time series, product
ranking, regional performance, discount analysis and an anomaly
shortlist.

Memory stays bounded by the number of distinct aggregation keys, so
arbitrarily large inputs process in a single streaming pass.

Examples:
  salespipe run sales.csv --output data/processed
  salespipe run sales.csv --batch-size 5000 --top-products 20
  salespipe generate sales.csv --rows 100000 --error-rate 0.15`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("salespipe version 0.1.0")
	},
}
