package clean

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespipe/core/ingest"
)

func validRow() ingest.RawRow {
	return ingest.RawRow{
		"order_id":         "ORD-00000001-1234",
		"product_name":     "Laptop Pro 15",
		"category":         "Electronics",
		"quantity":         "2",
		"unit_price":       "1000",
		"discount_percent": "0.1",
		"region":           "North",
		"sale_date":        "2024-01-15",
		"customer_email":   "buyer@example.com",
	}
}

func TestCleanValidRow(t *testing.T) {
	c := New()
	rec, ok := c.Clean(validRow())
	require.True(t, ok)

	assert.Equal(t, "Laptop Pro 15", rec.ProductName)
	assert.Equal(t, "Electronics", rec.Category)
	assert.Equal(t, "North", rec.Region)
	assert.Equal(t, 2, rec.Quantity)
	assert.Equal(t, 1000.0, rec.UnitPrice)
	assert.Equal(t, 0.1, rec.DiscountPercent)
	assert.Equal(t, "buyer@example.com", rec.CustomerEmail)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), rec.SaleDate)
	assert.InDelta(t, 2*1000.0*0.9, rec.Revenue, 1e-9)
}

func TestCleanQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		want     int
		wantDrop bool
	}{
		{name: "plain integer", quantity: "5", want: 5},
		{name: "negative dropped", quantity: "-5", wantDrop: true},
		{name: "negative with space dropped", quantity: " -3", wantDrop: true},
		{name: "unit suffix stripped", quantity: "5 units", want: 5},
		{name: "decimal digits concatenated", quantity: "12.5", want: 125},
		{name: "no digits dropped", quantity: "abc", wantDrop: true},
		{name: "zero dropped", quantity: "0", wantDrop: true},
		{name: "empty dropped", quantity: "", wantDrop: true},
		{name: "past int range dropped", quantity: "99999999999999999999", wantDrop: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			row := validRow()
			row["quantity"] = tc.quantity
			rec, ok := New().Clean(row)
			if tc.wantDrop {
				require.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tc.want, rec.Quantity)
		})
	}
}

func TestCleanDiscount(t *testing.T) {
	tests := []struct {
		name     string
		discount string
		want     float64
		wantDrop bool
	}{
		{name: "zero", discount: "0", want: 0},
		{name: "mid range", discount: "0.35", want: 0.35},
		{name: "upper bound", discount: "1.0", want: 1.0},
		{name: "above range dropped", discount: "1.5", wantDrop: true},
		{name: "negative dropped", discount: "-0.1", wantDrop: true},
		{name: "garbage dropped", discount: "lots", wantDrop: true},
		{name: "empty dropped", discount: "", wantDrop: true},
		// NaN compares false against both range bounds; it must still
		// drop rather than leak into the revenue math.
		{name: "nan dropped", discount: "nan", wantDrop: true},
		{name: "inf dropped", discount: "inf", wantDrop: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			row := validRow()
			row["discount_percent"] = tc.discount
			rec, ok := New().Clean(row)
			if tc.wantDrop {
				require.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tc.want, rec.DiscountPercent)
		})
	}
}

func TestCleanUnitPrice(t *testing.T) {
	row := validRow()
	row["unit_price"] = "not-a-price"
	_, ok := New().Clean(row)
	require.False(t, ok)

	// Non-finite prices parse but must drop: they would poison the
	// derived revenue.
	for _, value := range []string{"nan", "NaN", "inf", "-inf", "+Inf"} {
		row = validRow()
		row["unit_price"] = value
		_, ok = New().Clean(row)
		assert.False(t, ok, "unit price %q should drop the row", value)
	}

	row = validRow()
	row["unit_price"] = " 19.99 "
	rec, ok := New().Clean(row)
	require.True(t, ok)
	assert.Equal(t, 19.99, rec.UnitPrice)
}

func TestCleanDateFormats(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"datetime", "2024-01-15 13:45:00", time.Date(2024, 1, 15, 13, 45, 0, 0, time.UTC)},
		{"slash ymd", "2024/01/15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"dash ymd", "2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"day month name", "15-Jan-2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"us mdy", "01/15/2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"eu dmy fallback", "25/01/2024", time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			row := validRow()
			row["sale_date"] = tc.value
			rec, ok := New().Clean(row)
			require.True(t, ok)
			assert.Equal(t, tc.want, rec.SaleDate)
		})
	}
}

// An ambiguous date matches the month/day layout before day/month is
// ever tried. Preserved historical behavior.
func TestCleanDateAmbiguityPrefersMonthDay(t *testing.T) {
	row := validRow()
	row["sale_date"] = "03/04/2024"
	rec, ok := New().Clean(row)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), rec.SaleDate)
}

func TestCleanDateInvalidDrops(t *testing.T) {
	for _, value := range []string{"invalid-date", "", "   "} {
		row := validRow()
		row["sale_date"] = value
		_, ok := New().Clean(row)
		assert.False(t, ok, "date %q should drop the row", value)
	}
}

func TestStandardizeStrings(t *testing.T) {
	tests := []struct {
		name   string
		column string
		value  string
		field  func(*Record) string
		want   string
	}{
		{"region misspelling", "region", "nort", func(r *Record) string { return r.Region }, "North"},
		{"region casing", "region", "  SOUTH ", func(r *Record) string { return r.Region }, "South"},
		{"product misspelling", "product_name", "smartfone x", func(r *Record) string { return r.ProductName }, "Smartphone X"},
		{"product variant", "product_name", "4KTV", func(r *Record) string { return r.ProductName }, "4K LED TV"},
		{"category alias", "category", "clothing", func(r *Record) string { return r.Category }, "Fashion"},
		{"category plural", "category", "Home Appliances", func(r *Record) string { return r.Category }, "Home Appliance"},
		{"unmapped capitalized", "product_name", "mystery gadget", func(r *Record) string { return r.ProductName }, "Mystery Gadget"},
		{"unmapped region capitalized", "region", "central", func(r *Record) string { return r.Region }, "Central"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			row := validRow()
			row[tc.column] = tc.value
			rec, ok := New().Clean(row)
			require.True(t, ok)
			assert.Equal(t, tc.want, tc.field(rec))
		})
	}
}

func TestCleanEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"valid lowered", "Buyer@Example.COM", "buyer@example.com"},
		{"missing at", "buyer.example.com", AnonymousEmail},
		{"no dot after at", "buyer@example", AnonymousEmail},
		{"empty", "", AnonymousEmail},
		{"whitespace", "   ", AnonymousEmail},
		{"dot before at only", "first.last@example", AnonymousEmail},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			row := validRow()
			row["customer_email"] = tc.email
			rec, ok := New().Clean(row)
			require.True(t, ok)
			assert.Equal(t, tc.want, rec.CustomerEmail)
		})
	}
}

func TestStatistics(t *testing.T) {
	c := New()

	s := c.Statistics()
	assert.Equal(t, 0, s.RecordsProcessed)
	assert.Equal(t, 0.0, s.SuccessRate)

	_, ok := c.Clean(validRow())
	require.True(t, ok)

	bad := validRow()
	bad["quantity"] = "-1"
	_, ok = c.Clean(bad)
	require.False(t, ok)

	s = c.Statistics()
	assert.Equal(t, 2, s.RecordsProcessed)
	assert.Equal(t, 1, s.RecordsDropped)
	assert.Equal(t, 1, s.RecordsCleaned)
	assert.Equal(t, 50.0, s.SuccessRate)
	assert.Equal(t, s.RecordsProcessed, s.RecordsCleaned+s.RecordsDropped)
}
