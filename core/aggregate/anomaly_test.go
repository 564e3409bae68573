package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespipe/core/clean"
)

func anomalyRecord(quantity int, price, discount float64) *clean.Record {
	return record("Laptop Pro 15", "Electronics", "North", quantity, price, discount, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
}

func TestScoreRules(t *testing.T) {
	d := newAnomalyDetector(100)
	var revenue, quantity, price RunningStat

	tests := []struct {
		name        string
		rec         *clean.Record
		wantScore   int
		wantReasons int
	}{
		{
			name:      "clean record",
			rec:       anomalyRecord(2, 100, 0.1),
			wantScore: 0,
		},
		{
			name:        "high discount alone",
			rec:         anomalyRecord(1, 100, 0.75),
			wantScore:   1,
			wantReasons: 1,
		},
		{
			name:        "expensive item with large discount",
			rec:         anomalyRecord(1, 1200, 0.6),
			wantScore:   2,
			wantReasons: 1,
		},
		{
			name: "expensive item with suspicious discount",
			// Both discount rules fire: > 0.7 and > 0.5 on a $1000+ item.
			rec:         anomalyRecord(1, 1200, 0.8),
			wantScore:   3,
			wantReasons: 2,
		},
		{
			name: "bulk order of expensive items",
			// Revenue 150 * 600 = 90000 crosses the high-value
			// threshold too.
			rec:         anomalyRecord(150, 600, 0),
			wantScore:   3,
			wantReasons: 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			score, reasons := d.score(tc.rec, 0, &revenue, &quantity, &price)
			assert.Equal(t, tc.wantScore, score)
			assert.Len(t, reasons, tc.wantReasons)
		})
	}
}

func TestScoreStatisticalGate(t *testing.T) {
	d := newAnomalyDetector(100)

	var revenue, quantity, price RunningStat
	for i := 0; i < 150; i++ {
		revenue.observe(100)
		quantity.observe(2)
		price.observe(50)
	}

	// Revenue 20x the mean, quantity 10x, price 20x: all three
	// statistical rules fire once the gate is open.
	outlier := anomalyRecord(20, 1000, 0)
	outlier.Revenue = 20 * 1000

	score, reasons := d.score(outlier, statMinRecords, &revenue, &quantity, &price)
	assert.Equal(t, 0, score, "gate must stay closed at exactly %d records", statMinRecords)
	assert.Empty(t, reasons)

	score, reasons = d.score(outlier, statMinRecords+1, &revenue, &quantity, &price)
	assert.Equal(t, 7, score)
	assert.Len(t, reasons, 3)
}

func TestReasonFormatting(t *testing.T) {
	d := newAnomalyDetector(100)
	var revenue, quantity, price RunningStat

	rec := anomalyRecord(1, 1234.5, 0.6)
	_, reasons := d.score(rec, 0, &revenue, &quantity, &price)
	require.Len(t, reasons, 1)
	assert.Equal(t, "High-value item ($1,234.50) with large discount (60.0%)", reasons[0])
}

func TestObserveBoundedShortlist(t *testing.T) {
	d := newAnomalyDetector(2)
	var revenue, quantity, price RunningStat

	observe := func(rec *clean.Record) {
		d.observe(rec, 0, &revenue, &quantity, &price)
	}

	// Score 1: never a candidate.
	observe(anomalyRecord(1, 100, 0.75))
	assert.Empty(t, d.candidates)

	// Two score-2 candidates fill the list; sorted by revenue desc.
	low := anomalyRecord(1, 1100, 0.6)
	high := anomalyRecord(1, 1500, 0.6)
	observe(low)
	observe(high)
	require.Len(t, d.candidates, 2)
	assert.Equal(t, high.Revenue, d.candidates[0].Record.Revenue)
	assert.Equal(t, low.Revenue, d.candidates[1].Record.Revenue)

	// At capacity: equal (score, revenue) does not displace.
	duplicate := anomalyRecord(1, 1100, 0.6)
	observe(duplicate)
	require.Len(t, d.candidates, 2)
	assert.Equal(t, low.Revenue, d.candidates[1].Record.Revenue)

	// A strictly better revenue at the same score displaces the worst.
	better := anomalyRecord(1, 1300, 0.6)
	observe(better)
	require.Len(t, d.candidates, 2)
	assert.Equal(t, high.Revenue, d.candidates[0].Record.Revenue)
	assert.Equal(t, better.Revenue, d.candidates[1].Record.Revenue)

	// A higher score always displaces, regardless of revenue.
	cheapButWorse := anomalyRecord(1, 1050, 0.8)
	observe(cheapButWorse)
	require.Len(t, d.candidates, 2)
	assert.Equal(t, 3, d.candidates[0].Score)
	assert.Equal(t, cheapButWorse.Revenue, d.candidates[0].Record.Revenue)
	assert.Equal(t, high.Revenue, d.candidates[1].Record.Revenue)
}
