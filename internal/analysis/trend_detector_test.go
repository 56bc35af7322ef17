package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labor-platform/internal/models"
)

func monthly(group string, values ...float64) []DataPoint {
	points := make([]DataPoint, 0, len(values))
	for i, v := range values {
		point := DataPoint{
			Date:  time.Date(2023, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC),
			Value: v,
		}
		if group != "" {
			point.Groups = []string{group}
		}
		points = append(points, point)
	}
	return points
}

func TestDetectTrends_ConstantSeries(t *testing.T) {
	detector := NewTrendDetector(DefaultMinPeriods, DefaultThreshold)

	trends := detector.DetectTrends(monthly("", 3, 3, 3, 3))

	require.Contains(t, trends, "overall")
	trend := trends["overall"]
	assert.Equal(t, models.TrendStable, trend.Direction)
	assert.Equal(t, 0.0, trend.Magnitude)
	assert.Equal(t, 0.0, trend.Confidence)
	assert.Equal(t, 3.0, trend.StartValue)
	assert.Equal(t, 3.0, trend.EndValue)
}

func TestDetectTrends_Increasing(t *testing.T) {
	detector := NewTrendDetector(DefaultMinPeriods, DefaultThreshold)

	trends := detector.DetectTrends(monthly("", 4, 4.5, 5, 6))

	require.Contains(t, trends, "overall")
	trend := trends["overall"]
	assert.Equal(t, models.TrendIncreasing, trend.Direction)
	assert.InDelta(t, 0.5, trend.Magnitude, 1e-9)
	assert.InDelta(t, 0.9657, trend.Confidence, 1e-3)
	assert.Equal(t, "2023-01-01", trend.PeriodFrom)
	assert.Equal(t, "2023-04-01", trend.PeriodTo)
}

func TestDetectTrends_Decreasing(t *testing.T) {
	detector := NewTrendDetector(DefaultMinPeriods, DefaultThreshold)

	trends := detector.DetectTrends(monthly("", 10, 9, 8, 7))

	require.Contains(t, trends, "overall")
	trend := trends["overall"]
	assert.Equal(t, models.TrendDecreasing, trend.Direction)
	assert.InDelta(t, 0.3, trend.Magnitude, 1e-9)
	assert.InDelta(t, 1.0, trend.Confidence, 1e-9)
}

func TestDetectTrends_PerfectLineConfidence(t *testing.T) {
	detector := NewTrendDetector(DefaultMinPeriods, DefaultThreshold)

	trends := detector.DetectTrends(monthly("", 1, 2, 3, 4, 5))

	require.Contains(t, trends, "overall")
	assert.InDelta(t, 1.0, trends["overall"].Confidence, 1e-9)
}

func TestDetectTrends_StartValueZero(t *testing.T) {
	detector := NewTrendDetector(DefaultMinPeriods, DefaultThreshold)

	trends := detector.DetectTrends(monthly("", 0, 1, 2))

	require.Contains(t, trends, "overall")
	trend := trends["overall"]
	assert.Equal(t, models.TrendStable, trend.Direction)
	assert.Equal(t, 0.0, trend.Magnitude)
}

func TestDetectTrends_BelowMinPeriods(t *testing.T) {
	detector := NewTrendDetector(DefaultMinPeriods, DefaultThreshold)

	trends := detector.DetectTrends(monthly("", 3, 4))

	assert.Empty(t, trends)
}

func TestDetectTrends_GroupsKeyedByDemographic(t *testing.T) {
	detector := NewTrendDetector(DefaultMinPeriods, DefaultThreshold)

	points := append(monthly("total", 4, 4.5, 5, 6), monthly("black", 5, 5, 5, 5)...)
	trends := detector.DetectTrends(points)

	require.Len(t, trends, 2)
	assert.Equal(t, models.TrendIncreasing, trends["total"].Direction)
	assert.Equal(t, models.TrendStable, trends["black"].Direction)
}

func TestDetectTrends_SmallGroupSkipped(t *testing.T) {
	detector := NewTrendDetector(DefaultMinPeriods, DefaultThreshold)

	points := append(monthly("total", 4, 4.5, 5, 6), monthly("black", 5, 5)...)
	trends := detector.DetectTrends(points)

	require.Len(t, trends, 1)
	assert.Contains(t, trends, "total")
}

func TestDetectTrends_UnsortedInput(t *testing.T) {
	detector := NewTrendDetector(DefaultMinPeriods, DefaultThreshold)

	points := monthly("", 4, 4.5, 5, 6)
	points[0], points[3] = points[3], points[0]

	trends := detector.DetectTrends(points)

	require.Contains(t, trends, "overall")
	trend := trends["overall"]
	assert.Equal(t, 4.0, trend.StartValue)
	assert.Equal(t, 6.0, trend.EndValue)
}

func TestDetectTrends_MultiColumnGroupKey(t *testing.T) {
	detector := NewTrendDetector(DefaultMinPeriods, DefaultThreshold)

	points := monthly("", 4, 4.5, 5, 6)
	for i := range points {
		points[i].Groups = []string{"CA", "tech"}
	}

	trends := detector.DetectTrends(points)

	assert.Contains(t, trends, "CA,tech")
}

func TestDetectShocks_SingleSpike(t *testing.T) {
	detector := NewTrendDetector(DefaultMinPeriods, DefaultThreshold)

	points := monthly("total", 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 9)
	shocks := detector.DetectShocks(points, DefaultZThreshold)

	require.Len(t, shocks, 1)
	assert.Equal(t, "total", shocks[0].GroupKey)
	assert.Equal(t, 9.0, shocks[0].Value)
	assert.Equal(t, "positive", shocks[0].ShockDirection)
	assert.Greater(t, shocks[0].ZScore, 2.0)
	assert.Equal(t, shocks[0].ZScore, shocks[0].ShockMagnitude)
}

func TestDetectShocks_ZeroVariance(t *testing.T) {
	detector := NewTrendDetector(DefaultMinPeriods, DefaultThreshold)

	shocks := detector.DetectShocks(monthly("total", 5, 5, 5, 5, 5), DefaultZThreshold)

	assert.Empty(t, shocks)
}

func TestDetectShocks_SinglePoint(t *testing.T) {
	detector := NewTrendDetector(DefaultMinPeriods, DefaultThreshold)

	shocks := detector.DetectShocks(monthly("total", 5), DefaultZThreshold)

	assert.Empty(t, shocks)
}

func TestDetectShocks_SortedBySignedZScore(t *testing.T) {
	detector := NewTrendDetector(DefaultMinPeriods, DefaultThreshold)

	// Nine flat points plus one spike up and one spike down.
	points := monthly("total", 5, 5, 5, 5, 5, 5, 5, 5, 5, 15, -5)
	shocks := detector.DetectShocks(points, DefaultZThreshold)

	require.Len(t, shocks, 2)
	assert.Equal(t, "positive", shocks[0].ShockDirection)
	assert.Equal(t, 15.0, shocks[0].Value)
	assert.Equal(t, "negative", shocks[1].ShockDirection)
	assert.Equal(t, -5.0, shocks[1].Value)
	assert.Greater(t, shocks[0].ZScore, shocks[1].ZScore)
}

func TestDetectShocks_ThresholdFallback(t *testing.T) {
	detector := NewTrendDetector(DefaultMinPeriods, DefaultThreshold)

	points := monthly("total", 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 9)

	defaulted := detector.DetectShocks(points, 0)
	explicit := detector.DetectShocks(points, DefaultZThreshold)

	assert.Equal(t, explicit, defaulted)
}

func TestDetectShocks_HighThresholdFiltersAll(t *testing.T) {
	detector := NewTrendDetector(DefaultMinPeriods, DefaultThreshold)

	points := monthly("total", 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 9)
	shocks := detector.DetectShocks(points, 50)

	assert.Empty(t, shocks)
}

func TestGroupKey(t *testing.T) {
	assert.Equal(t, "overall", DataPoint{}.GroupKey())
	assert.Equal(t, "total", DataPoint{Groups: []string{"total"}}.GroupKey())
	assert.Equal(t, "CA,tech", DataPoint{Groups: []string{"CA", "tech"}}.GroupKey())
}
