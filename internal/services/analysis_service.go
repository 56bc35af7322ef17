package services

import (
	"context"
	"fmt"
	"time"

	"labor-platform/internal/analysis"
	"labor-platform/internal/models"
	"labor-platform/internal/repository"
	"labor-platform/pkg/logging"
	"labor-platform/pkg/metrics"
)

// AnalysisService runs trend, shock, and seasonality analysis over the
// stored unemployment series. The TrendDetector itself is stateless, so
// one service instance is safe for concurrent requests.
type AnalysisService struct {
	repo     repository.LaborRepository
	detector *analysis.TrendDetector
	logger   *logging.StructuredLogger
	metrics  *metrics.Collector
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(repo repository.LaborRepository, detector *analysis.TrendDetector, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *AnalysisService {
	return &AnalysisService{
		repo:     repo,
		detector: detector,
		logger:   logger,
		metrics:  metricsCollector,
	}
}

// DetectTrends loads the observations matching the filter, groups them by
// demographic, and returns one TrendResult per group. An empty map means
// no group had enough observations.
func (s *AnalysisService) DetectTrends(ctx context.Context, filter repository.ObservationFilter) (map[string]models.TrendResult, error) {
	points, err := s.loadDataPoints(ctx, filter, true)
	if err != nil {
		return nil, err
	}

	timer := s.metrics.NewTimer(s.metrics.TrendCalculationDuration)
	results := s.detector.DetectTrends(points)
	duration := timer.ObserveDuration()

	s.logger.Info(ctx, "[TREND_DETECT_COMPLETE] Trend detection completed", logging.Fields{
		"observation_count": len(points),
		"group_count":       len(results),
		"duration_ms":       duration.Milliseconds(),
	})

	return results, nil
}

// DetectShocks loads the observations matching the filter and returns the
// rows flagged as shocks, sorted by signed z-score descending.
func (s *AnalysisService) DetectShocks(ctx context.Context, filter repository.ObservationFilter, zThreshold float64) ([]models.ShockEvent, error) {
	points, err := s.loadDataPoints(ctx, filter, true)
	if err != nil {
		return nil, err
	}

	timer := s.metrics.NewTimer(s.metrics.TrendCalculationDuration)
	shocks := s.detector.DetectShocks(points, zThreshold)
	duration := timer.ObserveDuration()

	s.metrics.ShockEventsDetected.Add(float64(len(shocks)))

	s.logger.Info(ctx, "[SHOCK_DETECT_COMPLETE] Shock detection completed", logging.Fields{
		"observation_count": len(points),
		"shock_count":       len(shocks),
		"z_threshold":       zThreshold,
		"duration_ms":       duration.Milliseconds(),
	})

	return shocks, nil
}

// AnalyzeSeasonality decomposes the series for one demographic at the
// given frequency. A result with Available=false means the series was too
// short or degenerate, which is not an error.
func (s *AnalysisService) AnalyzeSeasonality(ctx context.Context, filter repository.ObservationFilter, freq models.Frequency) (models.SeasonalityResult, error) {
	points, err := s.loadDataPoints(ctx, filter, false)
	if err != nil {
		return models.SeasonalityResult{}, err
	}

	result := analysis.AnalyzeSeasonality(points, freq)

	s.logger.Info(ctx, "[SEASONALITY_COMPLETE] Seasonality analysis completed", logging.Fields{
		"observation_count": len(points),
		"available":         result.Available,
		"frequency":         string(freq),
	})

	return result, nil
}

// loadDataPoints fetches observations and adapts them into the detector's
// input shape. When grouped is true each point carries its demographic as
// the grouping key; otherwise the series is treated as one overall run.
func (s *AnalysisService) loadDataPoints(ctx context.Context, filter repository.ObservationFilter, grouped bool) ([]analysis.DataPoint, error) {
	start := time.Now()

	observations, _, err := s.repo.GetObservations(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load observations: %w", err)
	}

	points := make([]analysis.DataPoint, 0, len(observations))
	for _, obs := range observations {
		point := analysis.DataPoint{
			Date:  obs.ObservationDate,
			Value: obs.Value,
		}
		if grouped {
			point.Groups = []string{obs.Demographic}
		}
		points = append(points, point)
	}

	s.logger.Debug(ctx, "[ANALYSIS_LOAD] Observations loaded for analysis", logging.Fields{
		"count":       len(points),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return points, nil
}
