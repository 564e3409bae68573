// Package pipeline wires reader, cleaner, aggregator and writer into a
// single synchronous run. One run owns all of its state; the caller may
// execute many independent runs concurrently.
package pipeline

import (
	"context"
	"io"
	"os"
	"time"

	"salespipe/core/aggregate"
	"salespipe/core/clean"
	"salespipe/core/ingest"
	"salespipe/core/output"
	"salespipe/internal/errors"
	"salespipe/internal/logging"
)

// Options configures one pipeline run.
type Options struct {
	// SourcePath is the input CSV file
	SourcePath string `json:"source_path"`

	// OutputDir receives the output artifacts
	OutputDir string `json:"output_dir"`

	// BatchSize is the number of raw rows pulled per read
	BatchSize int `json:"batch_size"`

	// AnomalyLimit caps the anomaly shortlist
	AnomalyLimit int `json:"anomaly_limit"`

	// TopProductsLimit caps the product ranking
	TopProductsLimit int `json:"top_products_limit"`
}

// Validate rejects unusable options before any I/O.
func (o Options) Validate() error {
	if o.SourcePath == "" {
		return errors.Config("source path is required")
	}
	if o.OutputDir == "" {
		return errors.Config("output directory is required")
	}
	if o.BatchSize <= 0 {
		return errors.Newf(errors.TypeConfig, "batch size must be > 0, got %d", o.BatchSize)
	}
	if o.AnomalyLimit <= 0 {
		return errors.Newf(errors.TypeConfig, "anomaly limit must be > 0, got %d", o.AnomalyLimit)
	}
	if o.TopProductsLimit <= 0 {
		return errors.Newf(errors.TypeConfig, "top products limit must be > 0, got %d", o.TopProductsLimit)
	}
	return nil
}

// ProcessingStats reports run-level throughput and aggregate counts.
type ProcessingStats struct {
	aggregate.Summary

	BatchSize      int     `json:"batch_size"`
	Batches        int     `json:"batches"`
	InputFileBytes int64   `json:"input_file_bytes"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	RowsPerSecond  float64 `json:"rows_per_second"`
}

// Result is the outcome of a completed run.
type Result struct {
	SavedFiles       map[string]string `json:"saved_files"`
	ProcessingStats  ProcessingStats   `json:"processing_stats"`
	DataQualityStats clean.Stats       `json:"data_quality_stats"`
}

// Run executes the complete pipeline: read in batches, clean each row,
// aggregate survivors, finalize, persist. Per-row failures are absorbed
// into counters; every other failure terminates the run.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	log := logging.Sugar.With("source", opts.SourcePath, "output", opts.OutputDir)
	log.Infow("starting pipeline run", "batch_size", opts.BatchSize)

	agg, err := aggregate.New(opts.AnomalyLimit, opts.TopProductsLimit)
	if err != nil {
		return nil, err
	}

	reader, err := ingest.Open(opts.SourcePath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	cleaner := clean.New()
	batches := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.TypeStream, "run canceled", err)
		}

		batch, err := reader.NextBatch(opts.BatchSize)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		batches++

		cleaned := make([]*clean.Record, 0, len(batch))
		for _, row := range batch {
			if rec, ok := cleaner.Clean(row); ok {
				cleaned = append(cleaned, rec)
			}
		}
		if err := agg.Ingest(cleaned); err != nil {
			return nil, err
		}
	}

	summary, err := agg.Finalize()
	if err != nil {
		return nil, err
	}

	writer, err := output.NewWriter(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	quality := cleaner.Statistics()
	saved, err := writer.PersistAll(agg, quality)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	stats := ProcessingStats{
		Summary:        summary,
		BatchSize:      opts.BatchSize,
		Batches:        batches,
		ElapsedSeconds: elapsed.Seconds(),
	}
	if info, statErr := os.Stat(opts.SourcePath); statErr == nil {
		stats.InputFileBytes = info.Size()
	}
	if elapsed > 0 {
		stats.RowsPerSecond = float64(quality.RecordsProcessed) / elapsed.Seconds()
	}

	log.Infow("pipeline run finished",
		"records", quality.RecordsProcessed,
		"dropped", quality.RecordsDropped,
		"success_rate", quality.SuccessRate,
		"batches", batches,
		"elapsed", elapsed,
	)

	return &Result{
		SavedFiles:       saved,
		ProcessingStats:  stats,
		DataQualityStats: quality,
	}, nil
}
