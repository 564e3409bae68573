// Package generate produces synthetic dirty sales datasets for testing
// the pipeline at scale: realistic product/region/seasonal patterns
// with controlled injection of the error shapes the cleaner repairs or
// drops.
package generate

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"salespipe/internal/errors"
	"salespipe/internal/logging"
)

// header is the fixed source column contract.
var header = []string{
	"order_id", "product_name", "category", "quantity", "unit_price",
	"discount_percent", "region", "sale_date", "customer_email",
}

type product struct {
	name      string
	category  string
	basePrice float64
	variants  []string
}

// catalog mirrors the known product space, including the misspelled
// variants the cleaner's canonical tables repair.
var catalog = []product{
	{"Laptop Pro 15", "Electronics", 1200, []string{"laptop pro", "Laptop Pro 15"}},
	{"Smartphone X", "Electronics", 800, []string{"smartfone x", "smart-phone x", "smartphone-x"}},
	{"Wireless Headphones", "Electronics", 150, []string{"wirless headphones", "Wireless headphones"}},
	{"4K LED TV", "Home Appliance", 2000, []string{"4k led tv", "4KTV"}},
	{"Blender Pro", "Home Appliance", 80, []string{"blender pro", "blenderpro"}},
	{"Coffee Maker Elite", "Home Appliance", 120, []string{"cofee maker elite"}},
	{"Men's T-shirt (Blue)", "Fashion", 25, []string{"Mens t-shirt (blue)", "T-shirt (Blue)"}},
	{"Running Shoes", "Fashion", 95, []string{"running shoes", "Running Shoes"}},
	{"Gaming Mouse", "Electronics", 45, []string{"gaming mouse", "Gaming Mouse"}},
	{"Office Chair", "Home Appliance", 200, []string{"office chair", "Office Chair"}},
}

var regionVariants = [][]string{
	{"North", "nort", "nOrth"},
	{"South", "sout", "south"},
	{"East", "eas", "east"},
	{"West", "wes", "west"},
}

// seasonalDemand maps month to a demand multiplier.
var seasonalDemand = map[time.Month]float64{
	time.January:   0.8,
	time.February:  0.9,
	time.March:     1.0,
	time.April:     1.1,
	time.May:       1.0,
	time.June:      0.9,
	time.July:      0.8,
	time.August:    0.9,
	time.September: 1.1,
	time.October:   1.2,
	time.November:  1.4,
	time.December:  1.3,
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006-01-02",
	"02-Jan-2006",
}

// Stats summarizes a generation run.
type Stats struct {
	TotalRows         int            `json:"total_rows"`
	RecordsWithErrors int            `json:"records_with_errors"`
	ErrorTypes        map[string]int `json:"error_types"`
}

// Generator emits dirty sales CSVs, deterministic under a seed.
type Generator struct {
	faker *gofakeit.Faker
}

// New creates a Generator. The same seed reproduces the same dataset.
func New(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Generate writes numRows of synthetic sales data to path. errorRate
// is the fraction of rows that receive an injected error.
func (g *Generator) Generate(path string, numRows int, errorRate float64) (*Stats, error) {
	if numRows <= 0 {
		return nil, errors.Newf(errors.TypeConfig, "row count must be > 0, got %d", numRows)
	}
	if errorRate < 0 || errorRate > 1 {
		return nil, errors.Newf(errors.TypeConfig, "error rate must be in [0,1], got %g", errorRate)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Write("failed to create dataset directory", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Write("failed to create dataset file", err).WithContext("path", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return nil, errors.Write("failed to write header", err)
	}

	stats := &Stats{TotalRows: numRows, ErrorTypes: make(map[string]int)}
	startDate := time.Now().AddDate(-1, 0, 0)

	for i := 0; i < numRows; i++ {
		if err := w.Write(g.row(i, startDate, errorRate, stats)); err != nil {
			return nil, errors.Write("failed to write row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Write("failed to flush dataset", err).WithContext("path", path)
	}

	logging.Sugar.Infow("dataset generated",
		"path", path,
		"rows", numRows,
		"rows_with_errors", stats.RecordsWithErrors,
	)
	return stats, nil
}

func (g *Generator) row(index int, startDate time.Time, errorRate float64, stats *Stats) []string {
	orderID := fmt.Sprintf("ORD-%08d-%d", index, g.faker.Number(1000, 9999))

	p := catalog[g.faker.Number(0, len(catalog)-1)]
	productName := p.variants[g.faker.Number(0, len(p.variants)-1)]

	saleDate := startDate.
		AddDate(0, 0, g.faker.Number(0, 365)).
		Add(time.Duration(g.faker.Number(0, 23))*time.Hour +
			time.Duration(g.faker.Number(0, 59))*time.Minute)
	seasonal := seasonalDemand[saleDate.Month()]

	quantityVal := int(float64(g.faker.Number(1, 20)) * seasonal)
	if quantityVal < 1 {
		quantityVal = 1
	}
	quantity := fmt.Sprintf("%d", quantityVal)

	priceVal := round2(p.basePrice * g.faker.Float64Range(0.8, 1.2))
	unitPrice := formatPrice(priceVal)

	var discountVal float64
	switch {
	case quantityVal >= 10:
		discountVal = round2(g.faker.Float64Range(0.05, 0.3))
	case quantityVal >= 5:
		discountVal = round2(g.faker.Float64Range(0.02, 0.15))
	default:
		discountVal = round2(g.faker.Float64Range(0.0, 0.1))
	}
	discount := formatPrice(discountVal)

	variants := regionVariants[g.weightedRegion()]
	region := variants[g.faker.Number(0, len(variants)-1)]

	email := ""
	if g.faker.Float64Range(0, 1) < 0.7 {
		email = g.faker.Email()
	}

	formattedDate := saleDate.Format(dateLayouts[g.faker.Number(0, len(dateLayouts)-1)])

	if g.faker.Float64Range(0, 1) < errorRate {
		stats.RecordsWithErrors++
		switch g.faker.Number(0, 4) {
		case 0:
			quantity = fmt.Sprintf("-%d", g.faker.Number(1, 5))
			stats.ErrorTypes["negative_quantity"]++
		case 1:
			discount = formatPrice(round2(g.faker.Float64Range(1.1, 2.0)))
			stats.ErrorTypes["invalid_discount"]++
		case 2:
			quantity = quantity + " units"
			stats.ErrorTypes["string_quantity"]++
		case 3:
			if g.faker.Bool() {
				unitPrice = "$" + unitPrice
			} else {
				unitPrice = ""
			}
			stats.ErrorTypes["malformed_price"]++
		case 4:
			// Extreme but parseable values; feedstock for the
			// anomaly shortlist rather than the drop counter.
			quantity = fmt.Sprintf("%d", g.faker.Number(50, 100))
			unitPrice = formatPrice(round2(g.faker.Float64Range(5000, 10000)))
			stats.ErrorTypes["extreme_high_values"]++
		}
		if g.faker.Float64Range(0, 1) < 0.1 {
			formattedDate = ""
			stats.ErrorTypes["null_date"]++
		}
	}

	return []string{
		orderID, productName, p.category, quantity, unitPrice,
		discount, region, formattedDate, email,
	}
}

// weightedRegion picks a region index with the historical 30/25/25/20
// distribution.
func (g *Generator) weightedRegion() int {
	r := g.faker.Float64Range(0, 1)
	switch {
	case r < 0.30:
		return 0
	case r < 0.55:
		return 1
	case r < 0.80:
		return 2
	default:
		return 3
	}
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
