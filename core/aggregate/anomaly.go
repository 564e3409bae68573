package aggregate

import (
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"salespipe/core/clean"
)

// Anomaly scoring thresholds. Four independent heuristics contribute
// to an integer score; a record scoring >= anomalyScoreFloor becomes a
// shortlist candidate.
const (
	anomalyScoreFloor = 2

	// statMinRecords gates the statistical checks until the running
	// means have enough observations to be meaningful.
	statMinRecords = 100

	revenueMeanFactor  = 10
	quantityMeanFactor = 5
	priceMeanFactor    = 5

	highDiscountFloor    = 0.7
	largeDiscountFloor   = 0.5
	highValuePriceFloor  = 1000
	revenueThreshold     = 50000
	extremeQuantityFloor = 100
	extremePriceFloor    = 500
)

// Candidate is a cleaned record flagged by the anomaly heuristics,
// with its score and the human-readable reasons that fired.
type Candidate struct {
	Record  clean.Record
	Score   int
	Reasons []string
}

// anomalyDetector owns the scoring rules and the capacity-bounded
// shortlist, kept sorted by (score desc, revenue desc) at all times.
type anomalyDetector struct {
	limit      int
	candidates []*Candidate
	printer    *message.Printer
}

func newAnomalyDetector(limit int) *anomalyDetector {
	return &anomalyDetector{
		limit:   limit,
		printer: message.NewPrinter(language.English),
	}
}

// score runs all four rule groups against a record. The statistical
// group is skipped until recordsSeen exceeds statMinRecords.
func (d *anomalyDetector) score(rec *clean.Record, recordsSeen int, revenue, quantity, price *RunningStat) (int, []string) {
	score := 0
	var reasons []string

	if recordsSeen > statMinRecords {
		if avg := revenue.Mean(); rec.Revenue > avg*revenueMeanFactor {
			score += 3
			reasons = append(reasons, d.printer.Sprintf("Extremely high revenue: $%.2f (avg: $%.2f)", rec.Revenue, avg))
		}
		if avg := quantity.Mean(); float64(rec.Quantity) > avg*quantityMeanFactor {
			score += 2
			reasons = append(reasons, d.printer.Sprintf("Unusually high quantity: %d (avg: %.1f)", rec.Quantity, avg))
		}
		if avg := price.Mean(); rec.UnitPrice > avg*priceMeanFactor {
			score += 2
			reasons = append(reasons, d.printer.Sprintf("Extremely high unit price: $%.2f (avg: $%.2f)", rec.UnitPrice, avg))
		}
	}

	if rec.DiscountPercent > highDiscountFloor {
		score++
		reasons = append(reasons, d.printer.Sprintf("Suspicious high discount: %.1f%%", rec.DiscountPercent*100))
	}
	if rec.UnitPrice > highValuePriceFloor && rec.DiscountPercent > largeDiscountFloor {
		score += 2
		reasons = append(reasons, d.printer.Sprintf("High-value item ($%.2f) with large discount (%.1f%%)", rec.UnitPrice, rec.DiscountPercent*100))
	}

	if rec.Revenue > revenueThreshold {
		score++
		reasons = append(reasons, d.printer.Sprintf("High-value transaction: $%.2f", rec.Revenue))
	}

	if rec.Quantity > extremeQuantityFloor && rec.UnitPrice > extremePriceFloor {
		score += 2
		reasons = append(reasons, d.printer.Sprintf("Large quantity (%d) of expensive items ($%.2f)", rec.Quantity, rec.UnitPrice))
	}

	return score, reasons
}

// observe scores a record and folds it into the bounded shortlist.
func (d *anomalyDetector) observe(rec *clean.Record, recordsSeen int, revenue, quantity, price *RunningStat) {
	score, reasons := d.score(rec, recordsSeen, revenue, quantity, price)
	if score < anomalyScoreFloor {
		return
	}

	cand := &Candidate{Record: *rec, Score: score, Reasons: reasons}

	if len(d.candidates) < d.limit {
		d.candidates = append(d.candidates, cand)
		d.sort()
		return
	}

	// At capacity: displace the worst-ranked entry only when the new
	// candidate is strictly better by (score, revenue).
	worst := d.candidates[len(d.candidates)-1]
	if cand.Score > worst.Score ||
		(cand.Score == worst.Score && cand.Record.Revenue > worst.Record.Revenue) {
		d.candidates[len(d.candidates)-1] = cand
		d.sort()
	}
}

// sort keeps the shortlist ordered by score desc, then revenue desc.
// The sort is stable so exact ties stay in first-seen order.
func (d *anomalyDetector) sort() {
	sort.SliceStable(d.candidates, func(i, j int) bool {
		if d.candidates[i].Score != d.candidates[j].Score {
			return d.candidates[i].Score > d.candidates[j].Score
		}
		return d.candidates[i].Record.Revenue > d.candidates[j].Record.Revenue
	})
}
