// Package output persists finalized aggregates as tabular and JSON
// artifacts. Artifact names and schemas are fixed; re-running against
// the same directory overwrites prior files silently.
package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"salespipe/core/aggregate"
	"salespipe/core/clean"
	"salespipe/internal/errors"
	"salespipe/internal/logging"
)

// Fixed artifact file names.
const (
	MonthlySalesFile   = "monthly_sales_summary.csv"
	TopProductsFile    = "top_products.csv"
	RegionFile         = "region_wise_performance.csv"
	CategoryFile       = "category_discount_map.csv"
	AnomalyFile        = "anomaly_records.csv"
	SummaryFile        = "aggregation_summary.json"
	DataDictionaryFile = "DATA_DICTIONARY.md"
)

// anomalyHeader is the fixed column set of the anomaly artifact,
// emitted even when no anomalies were found.
var anomalyHeader = []string{
	"order_id", "product_name", "category", "quantity", "unit_price",
	"discount_percent", "region", "sale_date", "customer_email",
	"revenue", "anomaly_score", "anomaly_reasons",
}

// Writer persists one finalized aggregator state to a directory.
type Writer struct {
	outputDir string
}

// NewWriter creates the output directory if needed. A directory that
// cannot be created is a WRITE_ERROR before any artifact is attempted.
func NewWriter(outputDir string) (*Writer, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.Write("failed to create output directory", err).
			WithContext("dir", outputDir)
	}
	return &Writer{outputDir: outputDir}, nil
}

// PersistAll writes every artifact and returns a mapping of artifact
// name to file path. The first I/O failure is fatal for the run;
// artifacts already flushed stay on disk.
func (w *Writer) PersistAll(agg *aggregate.Aggregator, quality clean.Stats) (map[string]string, error) {
	saved := make(map[string]string)

	monthly, err := w.writeMonthlySales(agg.Monthly())
	if err != nil {
		return saved, err
	}
	saved["monthly_sales"] = monthly

	top, err := w.writeTopProducts(agg.TopProducts())
	if err != nil {
		return saved, err
	}
	saved["top_products"] = top

	region, err := w.writeRegionPerformance(agg.Regions())
	if err != nil {
		return saved, err
	}
	saved["region_performance"] = region

	category, err := w.writeCategoryDiscounts(agg.Categories())
	if err != nil {
		return saved, err
	}
	saved["category_discounts"] = category

	anomalies, err := w.writeAnomalyRecords(agg.Anomalies())
	if err != nil {
		return saved, err
	}
	saved["anomaly_records"] = anomalies

	summary, err := w.writeSummary(agg.Summary(), quality)
	if err != nil {
		return saved, err
	}
	saved["summary"] = summary

	dict, err := w.writeDataDictionary()
	if err != nil {
		return saved, err
	}
	saved["data_dictionary"] = dict

	logging.Sugar.Infow("all artifacts saved", "dir", w.outputDir, "count", len(saved))
	return saved, nil
}

// writeMonthlySales emits month rows sorted ascending by month key.
func (w *Writer) writeMonthlySales(monthly *aggregate.OrderedMap[string, *aggregate.MonthlyBucket]) (string, error) {
	months := append([]string(nil), monthly.Keys()...)
	sort.Strings(months)

	rows := make([][]string, 0, len(months))
	for _, month := range months {
		b, _ := monthly.Get(month)
		rows = append(rows, []string{
			month,
			b.Revenue.String(),
			strconv.FormatInt(b.Quantity, 10),
			formatFloat(b.AvgDiscount),
		})
	}
	return w.writeCSV(MonthlySalesFile, []string{"month", "revenue", "quantity", "avg_discount"}, rows)
}

// writeTopProducts emits the finalized ranking in aggregator order,
// no re-sort.
func (w *Writer) writeTopProducts(top []aggregate.TopProductEntry) (string, error) {
	rows := make([][]string, 0, len(top))
	for _, entry := range top {
		rows = append(rows, []string{
			entry.ProductName,
			entry.Revenue.String(),
			strconv.FormatInt(entry.Quantity, 10),
		})
	}
	return w.writeCSV(TopProductsFile, []string{"product_name", "revenue", "quantity"}, rows)
}

// writeRegionPerformance emits region rows sorted by revenue desc.
func (w *Writer) writeRegionPerformance(regions *aggregate.OrderedMap[string, *aggregate.RegionBucket]) (string, error) {
	type regionRow struct {
		name   string
		bucket *aggregate.RegionBucket
	}
	entries := make([]regionRow, 0, regions.Len())
	regions.Range(func(name string, b *aggregate.RegionBucket) {
		entries = append(entries, regionRow{name, b})
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].bucket.Revenue.GreaterThan(entries[j].bucket.Revenue)
	})

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.name,
			e.bucket.Revenue.String(),
			strconv.FormatInt(e.bucket.Quantity, 10),
		})
	}
	return w.writeCSV(RegionFile, []string{"region", "revenue", "quantity"}, rows)
}

// writeCategoryDiscounts emits category rows sorted by avg_discount desc.
func (w *Writer) writeCategoryDiscounts(categories *aggregate.OrderedMap[string, *aggregate.CategoryBucket]) (string, error) {
	type categoryRow struct {
		name        string
		avgDiscount float64
	}
	entries := make([]categoryRow, 0, categories.Len())
	categories.Range(func(name string, b *aggregate.CategoryBucket) {
		entries = append(entries, categoryRow{name, b.AvgDiscount})
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].avgDiscount > entries[j].avgDiscount
	})

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.name, formatFloat(e.avgDiscount)})
	}
	return w.writeCSV(CategoryFile, []string{"category", "avg_discount"}, rows)
}

// writeAnomalyRecords emits the shortlist in aggregator order, with
// the full record fields plus score and reasons. An empty shortlist
// still produces the header.
func (w *Writer) writeAnomalyRecords(anomalies []*aggregate.Candidate) (string, error) {
	rows := make([][]string, 0, len(anomalies))
	for _, cand := range anomalies {
		rec := cand.Record
		rows = append(rows, []string{
			rec.OrderID,
			rec.ProductName,
			rec.Category,
			strconv.Itoa(rec.Quantity),
			formatFloat(rec.UnitPrice),
			formatFloat(rec.DiscountPercent),
			rec.Region,
			rec.SaleDate.Format("2006-01-02 15:04:05"),
			rec.CustomerEmail,
			formatFloat(rec.Revenue),
			strconv.Itoa(cand.Score),
			strings.Join(cand.Reasons, "; "),
		})
	}
	return w.writeCSV(AnomalyFile, anomalyHeader, rows)
}

// runSummary is the shape of the summary artifact.
type runSummary struct {
	Aggregation aggregate.Summary `json:"aggregation"`
	DataQuality clean.Stats       `json:"data_quality"`
}

func (w *Writer) writeSummary(summary aggregate.Summary, quality clean.Stats) (string, error) {
	path := filepath.Join(w.outputDir, SummaryFile)
	data, err := json.MarshalIndent(runSummary{Aggregation: summary, DataQuality: quality}, "", "  ")
	if err != nil {
		return "", errors.Write("failed to marshal summary", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Write("failed to write summary", err).WithContext("path", path)
	}
	return path, nil
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) (string, error) {
	path := filepath.Join(w.outputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Write("failed to create artifact", err).WithContext("path", path)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return "", errors.Write("failed to write header", err).WithContext("path", path)
	}
	if err := cw.WriteAll(rows); err != nil {
		return "", errors.Write("failed to write rows", err).WithContext("path", path)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", errors.Write("failed to flush artifact", err).WithContext("path", path)
	}

	logging.Sugar.Debugw("artifact written", "path", path, "rows", len(rows))
	return path, nil
}

// formatFloat renders a float the shortest way that round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
