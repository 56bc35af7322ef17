package analysis

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"labor-platform/internal/models"
)

// minSeasonalPeriods is the minimum resampled length for decomposition
// (two years at monthly frequency).
const minSeasonalPeriods = 24

// AnalyzeSeasonality resamples the series to the given frequency (mean
// aggregation, gaps forward-filled), runs a classical additive seasonal
// decomposition, and scores the seasonality strength as
// max(0, 1 - var(residual)/var(residual+seasonal)). Insufficient data or a
// degenerate series returns a zero-value result with Available=false
// rather than an error.
func AnalyzeSeasonality(points []DataPoint, freq models.Frequency) models.SeasonalityResult {
	if len(points) == 0 {
		return models.SeasonalityResult{}
	}

	resampled := resample(points, freq)
	if len(resampled) < minSeasonalPeriods {
		return models.SeasonalityResult{}
	}

	period := freq.SeasonalPeriods()
	seasonal, trend, residual, ok := decomposeAdditive(resampled, period)
	if !ok {
		return models.SeasonalityResult{}
	}

	// Strength compares residual noise against the seasonal signal over
	// the rows where both are defined.
	var resid, combined []float64
	for i := range residual {
		if math.IsNaN(residual[i]) || math.IsNaN(seasonal[i]) {
			continue
		}
		resid = append(resid, residual[i])
		combined = append(combined, residual[i]+seasonal[i])
	}
	if len(resid) < 2 {
		return models.SeasonalityResult{}
	}

	varCombined := stat.Variance(combined, nil)
	if varCombined == 0 {
		return models.SeasonalityResult{}
	}
	strength := math.Max(0, 1-stat.Variance(resid, nil)/varCombined)

	return models.SeasonalityResult{
		Strength:  strength,
		Seasonal:  seasonal,
		Trend:     trend,
		Residual:  residual,
		Period:    period,
		Available: true,
	}
}

// resample buckets the series into calendar periods, averages each bucket,
// and forward-fills empty buckets between the first and last observation.
func resample(points []DataPoint, freq models.Frequency) []float64 {
	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	for _, p := range points {
		key := bucketStart(p.Date, freq)
		sums[key] += p.Value
		counts[key]++
	}

	keys := make([]time.Time, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	if len(keys) == 0 {
		return nil
	}

	var values []float64
	var last float64
	for cursor := keys[0]; !cursor.After(keys[len(keys)-1]); cursor = nextBucket(cursor, freq) {
		if n, ok := counts[cursor]; ok {
			last = sums[cursor] / float64(n)
		}
		values = append(values, last)
	}
	return values
}

func bucketStart(t time.Time, freq models.Frequency) time.Time {
	y, m, _ := t.Date()
	if freq == models.Quarterly {
		m = time.Month((int(m)-1)/3*3 + 1)
	}
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func nextBucket(t time.Time, freq models.Frequency) time.Time {
	months := 1
	if freq == models.Quarterly {
		months = 3
	}
	return t.AddDate(0, months, 0)
}

// decomposeAdditive performs a classical additive decomposition: a
// centered moving average estimates the trend, per-period means of the
// detrended series estimate the seasonal component (normalized to sum to
// zero), and the residual is what remains. Trend and residual are NaN in
// the half-window at each end where the moving average is undefined.
func decomposeAdditive(values []float64, period int) (seasonal, trend, residual []float64, ok bool) {
	n := len(values)
	if period < 2 || n < 2*period {
		return nil, nil, nil, false
	}

	trend = centeredMovingAverage(values, period)

	// Per-period means of the detrended series.
	periodSums := make([]float64, period)
	periodCounts := make([]int, period)
	for i := 0; i < n; i++ {
		if math.IsNaN(trend[i]) {
			continue
		}
		idx := i % period
		periodSums[idx] += values[i] - trend[i]
		periodCounts[idx]++
	}

	means := make([]float64, period)
	var total float64
	for i := 0; i < period; i++ {
		if periodCounts[i] == 0 {
			return nil, nil, nil, false
		}
		means[i] = periodSums[i] / float64(periodCounts[i])
		total += means[i]
	}
	// Normalize so the seasonal component sums to zero over one cycle.
	offset := total / float64(period)
	for i := range means {
		means[i] -= offset
	}

	seasonal = make([]float64, n)
	residual = make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = means[i%period]
		if math.IsNaN(trend[i]) {
			residual[i] = math.NaN()
		} else {
			residual[i] = values[i] - trend[i] - seasonal[i]
		}
	}

	return seasonal, trend, residual, true
}

// centeredMovingAverage computes a window-sized moving average; for even
// windows a 2x(window) average keeps it centered. Ends are NaN.
func centeredMovingAverage(values []float64, window int) []float64 {
	n := len(values)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	half := window / 2
	for i := half; i < n-half; i++ {
		var sum float64
		if window%2 == 0 {
			// Weighted: half weight at both edges of the window.
			sum += values[i-half] / 2
			sum += values[i+half] / 2
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
		} else {
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
		}
		out[i] = sum / float64(window)
	}
	return out
}
