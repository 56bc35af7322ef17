package services

import (
	"context"
	"fmt"
	"time"

	"labor-platform/internal/ingest"
	"labor-platform/internal/repository"
	"labor-platform/pkg/logging"
	"labor-platform/pkg/metrics"
)

// IngestionService handles labor market data ingestion
type IngestionService struct {
	repo     repository.LaborRepository
	bls      *ingest.BLSClient
	parser   *ingest.LayoffParser
	geocoder *ingest.Geocoder
	logger   *logging.StructuredLogger
	metrics  *metrics.Collector
}

// IngestionResult contains ingestion statistics
type IngestionResult struct {
	TotalRecords      int
	SuccessfulRecords int
	FailedRecords     int
	GeocodedRecords   int
	Duration          time.Duration
	Errors            []string
}

// NewIngestionService creates a new ingestion service. The geocoder may
// be nil, in which case layoff coordinates are left empty.
func NewIngestionService(
	repo repository.LaborRepository,
	bls *ingest.BLSClient,
	parser *ingest.LayoffParser,
	geocoder *ingest.Geocoder,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *IngestionService {
	return &IngestionService{
		repo:     repo,
		bls:      bls,
		parser:   parser,
		geocoder: geocoder,
		logger:   logger,
		metrics:  metricsCollector,
	}
}

// FetchUnemployment pulls the demographic series from the BLS API and
// stores them in batches.
func (s *IngestionService) FetchUnemployment(ctx context.Context, demographics []string, startYear, endYear, batchSize int) (*IngestionResult, error) {
	startTime := time.Now()

	s.logger.Info(ctx, "[INGEST_BLS_START] Starting BLS unemployment fetch", logging.Fields{
		"demographics": demographics,
		"start_year":   startYear,
		"end_year":     endYear,
		"stage":        "INITIALIZATION",
	})

	observations, err := s.bls.FetchUnemployment(ctx, demographics, startYear, endYear)
	if err != nil {
		s.metrics.RecordIngestionError("bls_fetch_error")
		return nil, fmt.Errorf("failed to fetch BLS data: %w", err)
	}

	result := &IngestionResult{TotalRecords: len(observations)}

	for start := 0; start < len(observations); start += batchSize {
		end := start + batchSize
		if end > len(observations) {
			end = len(observations)
		}
		if err := s.repo.CreateObservationsBatch(ctx, observations[start:end]); err != nil {
			s.metrics.RecordIngestionError("batch_insert_error")
			return nil, fmt.Errorf("failed to insert observation batch: %w", err)
		}
		result.SuccessfulRecords += end - start
	}

	result.Duration = time.Since(startTime)
	s.metrics.IngestionDuration.Observe(result.Duration.Seconds())

	s.logger.Info(ctx, "[INGEST_BLS_COMPLETE] BLS ingestion completed", logging.Fields{
		"total_records":      result.TotalRecords,
		"successful_records": result.SuccessfulRecords,
		"duration_seconds":   result.Duration.Seconds(),
		"stage":              "COMPLETE",
	})

	return result, nil
}

// IngestLayoffFile parses a layoffs CSV, optionally geocodes locations,
// and stores the events in batches. Geocoding is best effort: unresolved
// addresses leave coordinates empty and the row is still stored.
func (s *IngestionService) IngestLayoffFile(ctx context.Context, path string, batchSize int, geocode bool) (*IngestionResult, error) {
	startTime := time.Now()

	s.logger.Info(ctx, "[INGEST_LAYOFF_START] Starting layoff ingestion", logging.Fields{
		"file_path":  path,
		"batch_size": batchSize,
		"geocode":    geocode,
		"stage":      "INITIALIZATION",
	})

	parsed, err := s.parser.ParseFile(ctx, path)
	if err != nil {
		s.metrics.RecordIngestionError("parse_error")
		return nil, fmt.Errorf("failed to parse layoff file: %w", err)
	}

	result := &IngestionResult{
		TotalRecords:  parsed.TotalRows,
		FailedRecords: parsed.FailedRows,
	}

	if geocode && s.geocoder != nil {
		for _, event := range parsed.Events {
			point := s.geocoder.Geocode(ctx, event.Location)
			if point != nil {
				event.Latitude = &point.Latitude
				event.Longitude = &point.Longitude
				result.GeocodedRecords++
			}
		}
	}

	events := parsed.Events
	for start := 0; start < len(events); start += batchSize {
		end := start + batchSize
		if end > len(events) {
			end = len(events)
		}
		if err := s.repo.CreateLayoffEventsBatch(ctx, events[start:end]); err != nil {
			s.metrics.RecordIngestionError("batch_insert_error")
			return nil, fmt.Errorf("failed to insert layoff batch: %w", err)
		}
		result.SuccessfulRecords += end - start
	}

	result.Duration = time.Since(startTime)
	s.metrics.IngestionDuration.Observe(result.Duration.Seconds())

	s.logger.Info(ctx, "[INGEST_LAYOFF_COMPLETE] Layoff ingestion completed", logging.Fields{
		"total_records":      result.TotalRecords,
		"successful_records": result.SuccessfulRecords,
		"failed_records":     result.FailedRecords,
		"geocoded_records":   result.GeocodedRecords,
		"duration_seconds":   result.Duration.Seconds(),
		"stage":              "COMPLETE",
	})

	return result, nil
}
