package aggregate

import (
	"github.com/shopspring/decimal"
)

// Bucket revenue sums use decimal so that aggregate totals are exact
// and independent of batch size and accumulation order. Per-record
// values stay float64; each contribution is converted once on entry.

// MonthlyBucket accumulates sales for one YYYY-MM period. The discount
// sum and transaction count exist only during accumulation; Finalize
// collapses them into AvgDiscount and clears them.
type MonthlyBucket struct {
	Revenue     decimal.Decimal `json:"revenue"`
	Quantity    int64           `json:"quantity"`
	AvgDiscount float64         `json:"avg_discount"`

	discountSum  float64
	transactions int64
}

func newMonthlyBucket() *MonthlyBucket {
	return &MonthlyBucket{Revenue: decimal.Zero}
}

func (b *MonthlyBucket) add(revenue, discount float64, quantity int) {
	b.Revenue = b.Revenue.Add(decimal.NewFromFloat(revenue))
	b.Quantity += int64(quantity)
	b.discountSum += discount
	b.transactions++
}

func (b *MonthlyBucket) finalize() {
	if b.transactions > 0 {
		b.AvgDiscount = b.discountSum / float64(b.transactions)
	}
	b.discountSum = 0
	b.transactions = 0
}

// ProductBucket accumulates per-product sales. Cardinality follows the
// number of distinct product names, which is assumed small relative to
// the row count.
type ProductBucket struct {
	Revenue  decimal.Decimal `json:"revenue"`
	Quantity int64           `json:"quantity"`
}

func newProductBucket() *ProductBucket {
	return &ProductBucket{Revenue: decimal.Zero}
}

func (b *ProductBucket) add(revenue float64, quantity int) {
	b.Revenue = b.Revenue.Add(decimal.NewFromFloat(revenue))
	b.Quantity += int64(quantity)
}

// RegionBucket accumulates per-region sales.
type RegionBucket struct {
	Revenue  decimal.Decimal `json:"revenue"`
	Quantity int64           `json:"quantity"`
}

func newRegionBucket() *RegionBucket {
	return &RegionBucket{Revenue: decimal.Zero}
}

func (b *RegionBucket) add(revenue float64, quantity int) {
	b.Revenue = b.Revenue.Add(decimal.NewFromFloat(revenue))
	b.Quantity += int64(quantity)
}

// CategoryBucket accumulates discount-weighted revenue per category.
// Finalize collapses the accumulators into AvgDiscount, the
// revenue-weighted mean discount for the category.
type CategoryBucket struct {
	AvgDiscount float64 `json:"avg_discount"`

	discountRevenue decimal.Decimal
	revenue         decimal.Decimal
}

func newCategoryBucket() *CategoryBucket {
	return &CategoryBucket{
		discountRevenue: decimal.Zero,
		revenue:         decimal.Zero,
	}
}

func (b *CategoryBucket) add(revenue, discount float64) {
	b.discountRevenue = b.discountRevenue.Add(decimal.NewFromFloat(revenue * discount))
	b.revenue = b.revenue.Add(decimal.NewFromFloat(revenue))
}

func (b *CategoryBucket) finalize() {
	if b.revenue.IsPositive() {
		b.AvgDiscount = b.discountRevenue.Div(b.revenue).InexactFloat64()
	}
	b.discountRevenue = decimal.Zero
	b.revenue = decimal.Zero
}

// TopProductEntry is one row of the finalized product ranking.
type TopProductEntry struct {
	ProductName string          `json:"product_name"`
	Revenue     decimal.Decimal `json:"revenue"`
	Quantity    int64           `json:"quantity"`
}
