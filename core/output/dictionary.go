package output

import (
	"os"
	"path/filepath"

	"salespipe/internal/errors"
)

// dataDictionary is fixed documentation for the generated artifacts.
// Its content describes the output schemas and is not derived from
// the data of any particular run.
const dataDictionary = `# Data Dictionary

This document describes the structure and content of all generated data files.

## Files Overview

### 1. monthly_sales_summary.csv
Monthly aggregated sales data showing trends over time.

| Column | Type | Description |
|--------|------|-------------|
| month | string | YYYY-MM format (e.g., "2024-01") |
| revenue | float | Total revenue for the month |
| quantity | integer | Total units sold |
| avg_discount | float | Average discount rate (0.0-1.0) |

### 2. top_products.csv
Top performing products ranked by revenue.

| Column | Type | Description |
|--------|------|-------------|
| product_name | string | Standardized product name |
| revenue | float | Total revenue generated |
| quantity | integer | Total units sold |

### 3. region_wise_performance.csv
Sales performance broken down by geographic region.

| Column | Type | Description |
|--------|------|-------------|
| region | string | Geographic region (North, South, East, West) |
| revenue | float | Total revenue for the region |
| quantity | integer | Total units sold in the region |

### 4. category_discount_map.csv
Discount analysis by product category.

| Column | Type | Description |
|--------|------|-------------|
| category | string | Product category |
| avg_discount | float | Revenue-weighted average discount rate |

### 5. anomaly_records.csv
High-value transactions flagged as potential anomalies.

| Column | Type | Description |
|--------|------|-------------|
| order_id | string | Unique order identifier |
| product_name | string | Product name |
| category | string | Product category |
| quantity | integer | Number of units |
| unit_price | float | Price per unit |
| discount_percent | float | Discount rate applied |
| region | string | Sales region |
| sale_date | datetime | Date of sale |
| customer_email | string | Customer email (anonymized if missing) |
| revenue | float | Calculated revenue |
| anomaly_score | integer | Combined heuristic score |
| anomaly_reasons | string | Semicolon-separated rule descriptions |

### 6. aggregation_summary.json
Summary statistics about the data processing.

Contains counts of records processed, unique values, and cleaning
statistics for the run.

## Data Quality Notes

- All monetary values are in the original currency units
- Dates are standardized to YYYY-MM-DD HH:MM:SS format
- Missing or invalid records are excluded from aggregations
- Discount rates are normalized to 0.0-1.0 range
- Anonymous customers are marked as "anonymous"
`

// writeDataDictionary persists the static schema documentation next to
// the data artifacts.
func (w *Writer) writeDataDictionary() (string, error) {
	path := filepath.Join(w.outputDir, DataDictionaryFile)
	if err := os.WriteFile(path, []byte(dataDictionary), 0644); err != nil {
		return "", errors.Write("failed to write data dictionary", err).WithContext("path", path)
	}
	return path, nil
}
