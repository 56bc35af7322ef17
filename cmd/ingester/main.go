package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"labor-platform/internal/config"
	"labor-platform/internal/ingest"
	"labor-platform/internal/repository"
	"labor-platform/internal/services"
	"labor-platform/pkg/database"
	"labor-platform/pkg/logging"
	"labor-platform/pkg/metrics"
)

func main() {
	// Parse command-line flags
	layoffFile := flag.String("layoffs", "", "Path to a layoffs CSV file to ingest")
	fetchBLS := flag.Bool("fetch-bls", false, "Fetch unemployment series from the BLS API")
	demographics := flag.String("demographics", "", "Comma-separated demographic groups (default: all)")
	startYear := flag.Int("start-year", time.Now().Year()-5, "First year of BLS data to fetch")
	endYear := flag.Int("end-year", time.Now().Year(), "Last year of BLS data to fetch")
	batchSize := flag.Int("batch-size", 1000, "Number of records to process in each batch")
	geocode := flag.Bool("geocode", false, "Geocode layoff locations via Nominatim")
	flag.Parse()

	if *layoffFile == "" && !*fetchBLS {
		fmt.Fprintln(os.Stderr, "Nothing to do: pass -layoffs <file> and/or -fetch-bls")
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logLevel := logging.InfoLevel
	if cfg.Logging.Level == "debug" {
		logLevel = logging.DebugLevel
	}

	logger := logging.NewStructuredLogger("labor-ingester", "1.0.0", logLevel)

	ctx := context.Background()
	logger.Info(ctx, "[INGESTER_START] Starting labor data ingestion", logging.Fields{
		"version":     "1.0.0",
		"layoff_file": *layoffFile,
		"fetch_bls":   *fetchBLS,
		"batch_size":  *batchSize,
		"geocode":     *geocode,
	})

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("labor_ingester")

	// Initialize database
	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}

	db, err := database.NewPostgresDB(dbConfig, logger, metricsCollector)
	if err != nil {
		logger.Fatal(ctx, "[INGESTER_ERROR] Failed to connect to database", logging.Fields{}, err)
	}
	defer db.Close()

	// Initialize repository and ingestion service
	laborRepo := repository.NewLaborRepository(db, logger, metricsCollector)

	blsClient := ingest.NewBLSClient(cfg.BLS.BaseURL, cfg.BLS.APIKey, logger)
	parser := ingest.NewLayoffParser(logger)

	var geocoder *ingest.Geocoder
	if *geocode && cfg.Geocoder.Enabled {
		geocoder = ingest.NewGeocoder(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent, logger, metricsCollector)
	}

	ingestionService := services.NewIngestionService(laborRepo, blsClient, parser, geocoder, logger, metricsCollector)

	// Fetch BLS unemployment series
	if *fetchBLS {
		var groups []string
		if *demographics != "" {
			groups = strings.Split(*demographics, ",")
		}

		result, err := ingestionService.FetchUnemployment(ctx, groups, *startYear, *endYear, *batchSize)
		if err != nil {
			logger.Fatal(ctx, "[INGESTION_ERROR] BLS fetch failed", logging.Fields{
				"error": err.Error(),
			}, err)
		}

		printResult("BLS INGESTION COMPLETE", result)
	}

	// Ingest layoff CSV
	if *layoffFile != "" {
		result, err := ingestionService.IngestLayoffFile(ctx, *layoffFile, *batchSize, *geocode)
		if err != nil {
			logger.Fatal(ctx, "[INGESTION_ERROR] Layoff ingestion failed", logging.Fields{
				"error": err.Error(),
			}, err)
		}

		printResult("LAYOFF INGESTION COMPLETE", result)
	}

	logger.Info(ctx, "[INGESTER_COMPLETE] Ingestion completed successfully", logging.Fields{})
}

func printResult(title string, result *services.IngestionResult) {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Total Records:      %d\n", result.TotalRecords)
	fmt.Printf("Successful Records: %d\n", result.SuccessfulRecords)
	fmt.Printf("Failed Records:     %d\n", result.FailedRecords)
	if result.GeocodedRecords > 0 {
		fmt.Printf("Geocoded Records:   %d\n", result.GeocodedRecords)
	}
	fmt.Printf("Duration:           %v\n", result.Duration)
	if result.Duration.Seconds() > 0 {
		fmt.Printf("Records/Second:     %.2f\n", float64(result.SuccessfulRecords)/result.Duration.Seconds())
	}

	if len(result.Errors) > 0 {
		fmt.Printf("\nErrors (%d):\n", len(result.Errors))
		for i, errMsg := range result.Errors {
			if i < 10 {
				fmt.Printf("  - %s\n", errMsg)
			}
		}
		if len(result.Errors) > 10 {
			fmt.Printf("  ... and %d more errors\n", len(result.Errors)-10)
		}
	}
}
