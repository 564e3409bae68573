// Package aggregate folds cleaned sales records into fixed-size
// analytical rollups: monthly time series, product ranking, regional
// performance, category discount analysis and a bounded anomaly
// shortlist. Memory is bounded by the number of distinct aggregation
// keys plus the two configured limits, never by the row count.
package aggregate

import (
	"sort"

	"salespipe/core/clean"
	"salespipe/internal/errors"
	"salespipe/internal/logging"
)

// Aggregator owns all rolling aggregates for one pipeline run. It has
// a two-state lifecycle: accumulating from construction until Finalize,
// then finalized and read-only. Instances are single-owner and not safe
// for concurrent use; independent runs get independent aggregators.
type Aggregator struct {
	anomalyLimit     int
	topProductsLimit int

	monthly    *OrderedMap[string, *MonthlyBucket]
	products   *OrderedMap[string, *ProductBucket]
	regions    *OrderedMap[string, *RegionBucket]
	categories *OrderedMap[string, *CategoryBucket]

	revenueStats  RunningStat
	quantityStats RunningStat
	priceStats    RunningStat

	detector    *anomalyDetector
	topProducts []TopProductEntry

	recordsProcessed int
	finalized        bool
}

// Summary reports finalized aggregate counts.
type Summary struct {
	RecordsProcessed int `json:"records_processed"`
	MonthlyPeriods   int `json:"monthly_periods"`
	UniqueProducts   int `json:"unique_products"`
	Regions          int `json:"regions"`
	Categories       int `json:"categories"`
	AnomalyRecords   int `json:"anomaly_records"`
	TopProducts      int `json:"top_products"`
}

// New creates an empty Aggregator. Non-positive limits are a
// CONFIG_ERROR, caught before any I/O happens.
func New(anomalyLimit, topProductsLimit int) (*Aggregator, error) {
	if anomalyLimit <= 0 {
		return nil, errors.Newf(errors.TypeConfig, "anomaly limit must be > 0, got %d", anomalyLimit)
	}
	if topProductsLimit <= 0 {
		return nil, errors.Newf(errors.TypeConfig, "top products limit must be > 0, got %d", topProductsLimit)
	}
	return &Aggregator{
		anomalyLimit:     anomalyLimit,
		topProductsLimit: topProductsLimit,
		monthly:          NewOrderedMap[string, *MonthlyBucket](),
		products:         NewOrderedMap[string, *ProductBucket](),
		regions:          NewOrderedMap[string, *RegionBucket](),
		categories:       NewOrderedMap[string, *CategoryBucket](),
		detector:         newAnomalyDetector(anomalyLimit),
	}, nil
}

// Ingest folds a batch of cleaned records into every aggregate.
// Ingesting after Finalize is a contract violation and is rejected.
func (a *Aggregator) Ingest(batch []*clean.Record) error {
	if a.finalized {
		return errors.Validation("ingest called on finalized aggregator")
	}
	for _, rec := range batch {
		a.ingestOne(rec)
	}
	return nil
}

func (a *Aggregator) ingestOne(rec *clean.Record) {
	a.revenueStats.observe(rec.Revenue)
	a.quantityStats.observe(float64(rec.Quantity))
	a.priceStats.observe(rec.UnitPrice)

	month := rec.SaleDate.Format("2006-01")
	a.monthly.GetOrCreate(month, newMonthlyBucket).
		add(rec.Revenue, rec.DiscountPercent, rec.Quantity)

	a.products.GetOrCreate(rec.ProductName, newProductBucket).
		add(rec.Revenue, rec.Quantity)

	a.regions.GetOrCreate(rec.Region, newRegionBucket).
		add(rec.Revenue, rec.Quantity)

	a.categories.GetOrCreate(rec.Category, newCategoryBucket).
		add(rec.Revenue, rec.DiscountPercent)

	// The statistical gate sees the pre-increment count, so the
	// current record's contribution to the means is included but the
	// gate opens one record later.
	a.detector.observe(rec, a.recordsProcessed, &a.revenueStats, &a.quantityStats, &a.priceStats)

	a.recordsProcessed++
}

// Finalize collapses accumulator fields into derived averages, ranks
// the top products and transitions to the terminal read-only state.
// It runs exactly once; a second call is rejected.
func (a *Aggregator) Finalize() (Summary, error) {
	if a.finalized {
		return Summary{}, errors.Validation("aggregator already finalized")
	}
	a.finalized = true

	a.monthly.Range(func(_ string, b *MonthlyBucket) {
		b.finalize()
	})
	a.categories.Range(func(_ string, b *CategoryBucket) {
		b.finalize()
	})

	// Rank products by revenue desc. The stable sort over the
	// insertion-ordered store makes revenue ties resolve to the
	// first-seen product.
	a.topProducts = make([]TopProductEntry, 0, a.products.Len())
	a.products.Range(func(name string, b *ProductBucket) {
		a.topProducts = append(a.topProducts, TopProductEntry{
			ProductName: name,
			Revenue:     b.Revenue,
			Quantity:    b.Quantity,
		})
	})
	sort.SliceStable(a.topProducts, func(i, j int) bool {
		return a.topProducts[i].Revenue.GreaterThan(a.topProducts[j].Revenue)
	})
	if len(a.topProducts) > a.topProductsLimit {
		a.topProducts = a.topProducts[:a.topProductsLimit]
	}

	s := a.Summary()
	logging.Sugar.Infow("aggregation finalized",
		"records", s.RecordsProcessed,
		"months", s.MonthlyPeriods,
		"products", s.UniqueProducts,
		"regions", s.Regions,
		"categories", s.Categories,
		"anomalies", s.AnomalyRecords,
	)
	return s, nil
}

// Finalized reports whether Finalize has run.
func (a *Aggregator) Finalized() bool {
	return a.finalized
}

// Summary returns the current aggregate counts.
func (a *Aggregator) Summary() Summary {
	return Summary{
		RecordsProcessed: a.recordsProcessed,
		MonthlyPeriods:   a.monthly.Len(),
		UniqueProducts:   a.products.Len(),
		Regions:          a.regions.Len(),
		Categories:       a.categories.Len(),
		AnomalyRecords:   len(a.detector.candidates),
		TopProducts:      len(a.topProducts),
	}
}

// Monthly exposes the monthly buckets by reference for persistence.
func (a *Aggregator) Monthly() *OrderedMap[string, *MonthlyBucket] {
	return a.monthly
}

// Regions exposes the region buckets by reference for persistence.
func (a *Aggregator) Regions() *OrderedMap[string, *RegionBucket] {
	return a.regions
}

// Categories exposes the category buckets by reference for persistence.
func (a *Aggregator) Categories() *OrderedMap[string, *CategoryBucket] {
	return a.categories
}

// TopProducts returns the finalized ranking, already truncated and in
// final order. Empty before Finalize.
func (a *Aggregator) TopProducts() []TopProductEntry {
	return a.topProducts
}

// Anomalies returns the bounded shortlist in (score desc, revenue
// desc) order.
func (a *Aggregator) Anomalies() []*Candidate {
	return a.detector.candidates
}
