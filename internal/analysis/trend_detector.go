// Package analysis implements the time-series engines: linear trend
// fitting with direction classification, z-score shock detection, and
// classical seasonal decomposition.
package analysis

import (
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"labor-platform/internal/models"
)

const (
	// DefaultMinPeriods is the minimum number of observations required
	// before a trend is fitted.
	DefaultMinPeriods = 3
	// DefaultThreshold is the minimum absolute fractional change for a
	// trend to be classified as non-stable.
	DefaultThreshold = 0.1
	// DefaultZThreshold is the z-score cutoff for shock detection.
	DefaultZThreshold = 2.0
)

// DataPoint is one observation of a grouped time series. Groups holds the
// ordered grouping-key values (for example demographic, or state+industry);
// an empty Groups means the point belongs to the ungrouped overall series.
type DataPoint struct {
	Date   time.Time
	Value  float64
	Groups []string
}

// GroupKey joins the grouping values into the single string key used in
// result maps. Multi-column keys join with "," preserving column order.
func (p DataPoint) GroupKey() string {
	if len(p.Groups) == 0 {
		return "overall"
	}
	return strings.Join(p.Groups, ",")
}

// TrendDetector fits per-group linear trends and detects statistical
// shocks. It is stateless beyond its two configuration scalars and safe
// to share across goroutines.
type TrendDetector struct {
	minPeriods int
	threshold  float64
}

// NewTrendDetector creates a detector. Non-positive minPeriods falls back
// to the default; a non-positive threshold falls back to the default.
func NewTrendDetector(minPeriods int, threshold float64) *TrendDetector {
	if minPeriods < 1 {
		minPeriods = DefaultMinPeriods
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &TrendDetector{minPeriods: minPeriods, threshold: threshold}
}

// DetectTrends fits one linear trend per distinct group and returns the
// results keyed by group. Input order is irrelevant; points are sorted by
// (group, date) ascending. Fewer than minPeriods points overall yields an
// empty map, and groups smaller than minPeriods are silently skipped —
// callers treat an empty map as "no trend available", not as failure.
func (d *TrendDetector) DetectTrends(points []DataPoint) map[string]models.TrendResult {
	results := make(map[string]models.TrendResult)
	if len(points) < d.minPeriods {
		return results
	}

	sorted := make([]DataPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := sorted[i].GroupKey(), sorted[j].GroupKey()
		if ki != kj {
			return ki < kj
		}
		return sorted[i].Date.Before(sorted[j].Date)
	})

	for _, group := range splitGroups(sorted) {
		if len(group) < d.minPeriods {
			continue
		}
		if result, ok := d.analyzeSeries(group); ok {
			results[group[0].GroupKey()] = result
		}
	}

	return results
}

// analyzeSeries fits an ordinary least-squares line over the integer
// position index and classifies the direction from the first-to-last
// percentage change.
func (d *TrendDetector) analyzeSeries(series []DataPoint) (models.TrendResult, bool) {
	if len(series) < d.minPeriods {
		return models.TrendResult{}, false
	}

	n := len(series)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range series {
		xs[i] = float64(i)
		ys[i] = p.Value
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	mean := stat.Mean(ys, nil)
	var ssRes, ssTot float64
	for i := range ys {
		fitted := intercept + slope*xs[i]
		ssRes += (ys[i] - fitted) * (ys[i] - fitted)
		ssTot += (ys[i] - mean) * (ys[i] - mean)
	}

	// Constant series: confidence is 0 rather than undefined.
	rSquared := 0.0
	if ssTot != 0 {
		rSquared = 1 - ssRes/ssTot
	}

	startVal := series[0].Value
	endVal := series[n-1].Value

	// start==0 pins the change to 0 by convention. This masks true
	// trends for series starting at zero; keep the policy as is.
	pctChange := 0.0
	if startVal != 0 {
		pctChange = (endVal - startVal) / startVal
	}

	direction := models.TrendStable
	if math.Abs(pctChange) >= d.threshold {
		if pctChange > 0 {
			direction = models.TrendIncreasing
		} else {
			direction = models.TrendDecreasing
		}
	}

	return models.TrendResult{
		Direction:  direction,
		Magnitude:  math.Abs(pctChange),
		Confidence: rSquared,
		StartValue: startVal,
		EndValue:   endVal,
		PeriodFrom: series[0].Date.Format("2006-01-02"),
		PeriodTo:   series[n-1].Date.Format("2006-01-02"),
	}, true
}

// DetectShocks computes per-group z-scores using the sample standard
// deviation (one degree of freedom subtracted) and returns the rows whose
// absolute z-score meets or exceeds zThreshold, sorted by signed z-score
// descending. A zero-variance group produces no shocks. A non-positive
// zThreshold falls back to the default.
func (d *TrendDetector) DetectShocks(points []DataPoint, zThreshold float64) []models.ShockEvent {
	if zThreshold <= 0 {
		zThreshold = DefaultZThreshold
	}
	if len(points) == 0 {
		return nil
	}

	grouped := make(map[string][]DataPoint)
	var order []string
	for _, p := range points {
		key := p.GroupKey()
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], p)
	}

	var shocks []models.ShockEvent
	for _, key := range order {
		group := grouped[key]
		values := make([]float64, len(group))
		for i, p := range group {
			values[i] = p.Value
		}

		mean := stat.Mean(values, nil)
		std := math.Sqrt(stat.Variance(values, nil)) // sample variance, ddof=1
		if std == 0 || math.IsNaN(std) {
			continue
		}

		for i, p := range group {
			z := (values[i] - mean) / std
			if math.Abs(z) < zThreshold {
				continue
			}
			direction := "negative"
			if z > 0 {
				direction = "positive"
			}
			shocks = append(shocks, models.ShockEvent{
				GroupKey:       key,
				Date:           p.Date,
				Value:          p.Value,
				ZScore:         z,
				ShockMagnitude: math.Abs(z),
				ShockDirection: direction,
			})
		}
	}

	sort.SliceStable(shocks, func(i, j int) bool {
		return shocks[i].ZScore > shocks[j].ZScore
	})

	return shocks
}

// splitGroups slices a (group, date)-sorted series into per-group runs.
func splitGroups(sorted []DataPoint) [][]DataPoint {
	var groups [][]DataPoint
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i == len(sorted) || sorted[i].GroupKey() != sorted[start].GroupKey() {
			groups = append(groups, sorted[start:i])
			start = i
		}
	}
	return groups
}
