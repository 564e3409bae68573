// Package clean validates and normalizes raw sales rows into typed
// records. Malformed data never aborts processing: a row that cannot
// be repaired is dropped and counted, and the pipeline moves on.
package clean

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"salespipe/core/ingest"
)

// dateLayouts is the ordered list of accepted sale_date formats.
// First successful parse wins, so an ambiguous value like 03/04/2024
// resolves as month/day before day/month is ever tried.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006-01-02",
	"02-Jan-2006",
	"01/02/2006",
	"02/01/2006",
}

var nonDigit = regexp.MustCompile(`\D`)

// AnonymousEmail is the sentinel for missing or invalid customer emails.
const AnonymousEmail = "anonymous"

// Record is a cleaned, fully-validated sales transaction. A Record is
// only constructed when quantity, unit price, discount and sale date
// all validated; rows failing any of the four never materialize.
type Record struct {
	OrderID         string
	ProductName     string
	Category        string
	Region          string
	Quantity        int
	UnitPrice       float64
	DiscountPercent float64
	SaleDate        time.Time
	CustomerEmail   string

	// Revenue is derived: quantity * unit price * (1 - discount).
	Revenue float64
}

// Stats reports cleaning throughput and data quality.
type Stats struct {
	RecordsProcessed int     `json:"records_processed"`
	RecordsDropped   int     `json:"records_dropped"`
	RecordsCleaned   int     `json:"records_cleaned"`
	SuccessRate      float64 `json:"success_rate"`
}

// Cleaner applies standardization rules to raw rows. Each Cleaner owns
// its canonical lookup tables and running counters; instances are not
// safe for concurrent use and each pipeline run gets its own.
type Cleaner struct {
	regions    map[string]string
	products   map[string]string
	categories map[string]string
	titler     cases.Caser

	processed int
	dropped   int
}

// New creates a Cleaner with the standard canonical tables.
func New() *Cleaner {
	return &Cleaner{
		regions:    regionMap,
		products:   productNameMap,
		categories: categoryMap,
		titler:     cases.Title(language.English),
	}
}

// Clean applies all rules to a single raw row. It returns the cleaned
// record and true, or nil and false when the row is dropped.
func (c *Cleaner) Clean(row ingest.RawRow) (*Record, bool) {
	c.processed++

	quantity, okQty := c.cleanQuantity(row["quantity"])
	unitPrice, okPrice := c.cleanFloat(row["unit_price"])
	discount, okDiscount := c.cleanDiscount(row["discount_percent"])
	saleDate, okDate := c.cleanDate(row["sale_date"])

	if !okQty || !okPrice || !okDiscount || !okDate {
		c.dropped++
		return nil, false
	}

	rec := &Record{
		OrderID:         strings.TrimSpace(row["order_id"]),
		ProductName:     c.standardize(row["product_name"], c.products),
		Category:        c.standardize(row["category"], c.categories),
		Region:          c.standardize(row["region"], c.regions),
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		DiscountPercent: discount,
		SaleDate:        saleDate,
		CustomerEmail:   c.cleanEmail(row["customer_email"]),
	}
	rec.Revenue = float64(rec.Quantity) * rec.UnitPrice * (1 - rec.DiscountPercent)
	return rec, true
}

// standardize trims and lowercases a value, then resolves it through
// the canonical table. Unmapped values fall back to generic word
// capitalization; this is never a drop condition.
func (c *Cleaner) standardize(value string, mapping map[string]string) string {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	if cleaned == "" {
		return ""
	}
	if canonical, ok := mapping[cleaned]; ok {
		return canonical
	}
	return c.titler.String(cleaned)
}

// cleanQuantity repairs the quantity field. Negative values are
// rejected outright; otherwise every non-digit character is stripped
// and the remainder must parse to a strictly positive integer.
func (c *Cleaner) cleanQuantity(value string) (int, bool) {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "-") {
		return 0, false
	}
	digits := nonDigit.ReplaceAllString(trimmed, "")
	if digits == "" {
		return 0, false
	}
	// Atoi also bounds the value to the int range; digit strings past
	// that drop rather than saturate.
	quantity, err := strconv.Atoi(digits)
	if err != nil || quantity <= 0 {
		return 0, false
	}
	return quantity, true
}

// cleanFloat parses a float field. Non-finite parses ("nan", "inf")
// resolve to null: the downstream revenue sums require finite inputs.
func (c *Cleaner) cleanFloat(value string) (float64, bool) {
	f, err := cast.ToFloat64E(strings.TrimSpace(value))
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// cleanDiscount accepts only values in the closed interval [0.0, 1.0].
func (c *Cleaner) cleanDiscount(value string) (float64, bool) {
	discount, ok := c.cleanFloat(value)
	if !ok || discount < 0.0 || discount > 1.0 {
		return 0, false
	}
	return discount, true
}

func (c *Cleaner) cleanDate(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// cleanEmail lowercases and validates the customer email. Invalid or
// missing addresses resolve to the anonymous sentinel, never a drop.
func (c *Cleaner) cleanEmail(value string) string {
	email := strings.ToLower(strings.TrimSpace(value))
	if email == "" {
		return AnonymousEmail
	}
	at := strings.LastIndex(email, "@")
	if at < 0 || !strings.Contains(email[at+1:], ".") {
		return AnonymousEmail
	}
	return email
}

// Statistics returns the running cleaning counters. SuccessRate is a
// percentage and reports 0 when nothing has been processed.
func (c *Cleaner) Statistics() Stats {
	s := Stats{
		RecordsProcessed: c.processed,
		RecordsDropped:   c.dropped,
		RecordsCleaned:   c.processed - c.dropped,
	}
	if c.processed > 0 {
		s.SuccessRate = float64(c.processed-c.dropped) / float64(c.processed) * 100
	}
	return s
}
