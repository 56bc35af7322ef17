package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"labor-platform/internal/models"
	"labor-platform/pkg/logging"
)

// LayoffParser loads and cleans layoff data from CSV exports. Column
// headers are normalized (lowercased, spaces to underscores) so exports
// with "Date Announced" and "date_announced" both parse.
type LayoffParser struct {
	logger *logging.StructuredLogger
}

// NewLayoffParser creates a parser.
func NewLayoffParser(logger *logging.StructuredLogger) *LayoffParser {
	return &LayoffParser{logger: logger}
}

// ParseResult holds per-file parsing statistics.
type ParseResult struct {
	TotalRows  int
	ParsedRows int
	FailedRows int
	Events     []*models.LayoffEvent
}

// ParseFile reads a layoffs CSV file from disk.
func (p *LayoffParser) ParseFile(ctx context.Context, path string) (*ParseResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open layoff file: %w", err)
	}
	defer file.Close()

	return p.Parse(ctx, file)
}

// Parse reads layoff CSV data from a reader. Rows that fail validation
// are counted and skipped, not fatal.
func (p *LayoffParser) Parse(ctx context.Context, r io.Reader) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[normalizeColumn(name)] = i
	}
	for _, required := range []string{"company", "date_announced"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column: %s", required)
		}
	}

	result := &ParseResult{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		result.TotalRows++

		record := &models.RawLayoffRecord{
			Company:          field(row, columns, "company"),
			Industry:         field(row, columns, "industry"),
			Location:         field(row, columns, "location"),
			EmployeesLaidOff: field(row, columns, "employees_laid_off"),
			DateAnnounced:    field(row, columns, "date_announced"),
		}

		event, err := record.ToEvent()
		if err != nil {
			result.FailedRows++
			continue
		}

		result.ParsedRows++
		result.Events = append(result.Events, event)
	}

	p.logger.Info(ctx, "[LAYOFF_PARSE_COMPLETE] Parsed layoff CSV", logging.Fields{
		"total_rows":  result.TotalRows,
		"parsed_rows": result.ParsedRows,
		"failed_rows": result.FailedRows,
	})

	return result, nil
}

func normalizeColumn(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

func field(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
