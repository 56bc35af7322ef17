// Package ingest holds the external-data collaborators: the BLS API
// client, the layoff CSV parser, and the geocoder. All three are best
// effort — failures surface as empty results or skipped rows, never as
// panics in the core engines.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"labor-platform/internal/models"
	"labor-platform/pkg/logging"
)

// DefaultBLSBaseURL is the BLS public API v2 timeseries endpoint.
const DefaultBLSBaseURL = "https://api.bls.gov/publicAPI/v2/timeseries/data/"

// DemographicSeries maps demographic labels to their BLS unemployment
// series IDs.
var DemographicSeries = map[string]string{
	"total":         "LNS14000000",
	"black":         "LNS14000006",
	"hispanic":      "LNS14000009",
	"white":         "LNS14000003",
	"asian":         "LNS14032183",
	"men_20_plus":   "LNS14000001",
	"women_20_plus": "LNS14000002",
}

// BLSClient fetches unemployment time series from the BLS public API.
type BLSClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logging.StructuredLogger
	maxRetries int
	retryDelay time.Duration
}

// NewBLSClient creates a client. The API key may be empty; the public API
// accepts unregistered requests at a reduced quota.
func NewBLSClient(baseURL, apiKey string, logger *logging.StructuredLogger) *BLSClient {
	if baseURL == "" {
		baseURL = DefaultBLSBaseURL
	}
	return &BLSClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
		maxRetries: 3,
		retryDelay: 2 * time.Second,
	}
}

type blsRequest struct {
	SeriesIDs       []string `json:"seriesid"`
	StartYear       string   `json:"startyear"`
	EndYear         string   `json:"endyear"`
	RegistrationKey string   `json:"registrationkey,omitempty"`
}

type blsResponse struct {
	Status  string   `json:"status"`
	Message []string `json:"message"`
	Results struct {
		Series []struct {
			SeriesID string `json:"seriesID"`
			Data     []struct {
				Year      string `json:"year"`
				Period    string `json:"period"`
				Value     string `json:"value"`
				Footnotes []struct {
					Text string `json:"text"`
				} `json:"footnotes"`
			} `json:"data"`
		} `json:"series"`
	} `json:"Results"`
}

// FetchUnemployment fetches the given demographic series for the year
// range and returns parsed observations. An empty demographics slice
// fetches every known series. Transient HTTP failures are retried with a
// linear backoff; after the final attempt the error is returned.
func (c *BLSClient) FetchUnemployment(ctx context.Context, demographics []string, startYear, endYear int) ([]*models.UnemploymentObservation, error) {
	if len(demographics) == 0 {
		for name := range DemographicSeries {
			demographics = append(demographics, name)
		}
	}

	seriesIDs := make([]string, 0, len(demographics))
	byID := make(map[string]string, len(demographics))
	for _, name := range demographics {
		id, ok := DemographicSeries[name]
		if !ok {
			return nil, fmt.Errorf("unknown demographic: %s", name)
		}
		seriesIDs = append(seriesIDs, id)
		byID[id] = name
	}

	currentYear := time.Now().Year()
	if endYear == 0 {
		endYear = currentYear
	}
	if startYear == 0 {
		startYear = endYear - 5
	}

	payload, err := json.Marshal(blsRequest{
		SeriesIDs:       seriesIDs,
		StartYear:       strconv.Itoa(startYear),
		EndYear:         strconv.Itoa(endYear),
		RegistrationKey: c.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal BLS request: %w", err)
	}

	var resp blsResponse
	if err := c.postWithRetry(ctx, payload, &resp); err != nil {
		return nil, err
	}

	if resp.Status != "REQUEST_SUCCEEDED" {
		return nil, fmt.Errorf("BLS API error: %v", resp.Message)
	}

	var observations []*models.UnemploymentObservation
	for _, series := range resp.Results.Series {
		demographic := byID[series.SeriesID]
		if demographic == "" {
			demographic = "unknown"
		}

		for _, point := range series.Data {
			obs, err := parseBLSDataPoint(series.SeriesID, demographic, point.Year, point.Period, point.Value)
			if err != nil {
				c.logger.Warn(ctx, "[BLS_PARSE_SKIP] Skipping unparseable data point", logging.Fields{
					"series_id": series.SeriesID,
					"year":      point.Year,
					"period":    point.Period,
				})
				continue
			}
			if len(point.Footnotes) > 0 {
				obs.Footnote = point.Footnotes[0].Text
			}
			observations = append(observations, obs)
		}
	}

	c.logger.Info(ctx, "[BLS_FETCH_COMPLETE] Fetched unemployment series", logging.Fields{
		"series_count":      len(resp.Results.Series),
		"observation_count": len(observations),
		"start_year":        startYear,
		"end_year":          endYear,
	})

	return observations, nil
}

func (c *BLSClient) postWithRetry(ctx context.Context, payload []byte, out *blsResponse) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to build BLS request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			err = json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err == nil {
				return nil
			}
			lastErr = fmt.Errorf("failed to decode BLS response: %w", err)
		} else if err != nil {
			lastErr = err
		} else {
			resp.Body.Close()
			lastErr = fmt.Errorf("BLS API returned status %d", resp.StatusCode)
		}

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
		}
	}
	return fmt.Errorf("BLS request failed after %d attempts: %w", c.maxRetries, lastErr)
}

// parseBLSDataPoint converts a BLS (year, period, value) triple into an
// observation. Monthly periods are "M01".."M12"; the observation date is
// the first of the month.
func parseBLSDataPoint(seriesID, demographic, year, period, value string) (*models.UnemploymentObservation, error) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return nil, fmt.Errorf("invalid year %q: %w", year, err)
	}
	if len(period) != 3 || period[0] != 'M' {
		return nil, fmt.Errorf("unsupported period %q", period)
	}
	month, err := strconv.Atoi(period[1:])
	if err != nil || month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid period %q", period)
	}
	rate, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q: %w", value, err)
	}

	return &models.UnemploymentObservation{
		SeriesID:        seriesID,
		Demographic:     demographic,
		ObservationDate: time.Date(y, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
		Value:           rate,
		CreatedAt:       time.Now().UTC(),
	}, nil
}
