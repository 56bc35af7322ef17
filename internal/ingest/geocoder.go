package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"labor-platform/pkg/logging"
	"labor-platform/pkg/metrics"
)

// DefaultNominatimBaseURL is the public Nominatim search endpoint.
const DefaultNominatimBaseURL = "https://nominatim.openstreetmap.org/search"

// GeoPoint is a resolved coordinate pair.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// Geocoder resolves location strings to coordinates via Nominatim.
// Requests are rate limited to respect the service's usage policy and
// retried with a linear backoff. Resolution is best effort: an address
// that fails all attempts returns nil, and callers leave coordinates
// empty.
type Geocoder struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      map[string]*GeoPoint
	logger     *logging.StructuredLogger
	metrics    *metrics.Collector
	maxRetries int
	retryDelay time.Duration
}

// NewGeocoder creates a geocoder with a ~1.1s minimum interval between
// requests.
func NewGeocoder(baseURL, userAgent string, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *Geocoder {
	if baseURL == "" {
		baseURL = DefaultNominatimBaseURL
	}
	if userAgent == "" {
		userAgent = "labor-platform"
	}
	return &Geocoder{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(1100*time.Millisecond), 1),
		cache:      make(map[string]*GeoPoint),
		logger:     logger,
		metrics:    metricsCollector,
		maxRetries: 3,
		retryDelay: 2 * time.Second,
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves one address. Results, including negative lookups, are
// cached for the lifetime of the geocoder so repeated addresses cost one
// request.
func (g *Geocoder) Geocode(ctx context.Context, address string) *GeoPoint {
	if address == "" {
		return nil
	}
	if point, ok := g.cache[address]; ok {
		return point
	}

	point := g.lookup(ctx, address)
	g.cache[address] = point

	if point == nil {
		g.metrics.RecordGeocodeFailure()
	} else {
		g.metrics.GeocodeRequestsTotal.Inc()
	}
	return point
}

func (g *Geocoder) lookup(ctx context.Context, address string) *GeoPoint {
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil
		}

		point, err := g.request(ctx, address)
		if err == nil {
			return point
		}

		g.logger.Warn(ctx, "[GEOCODE_RETRY] Geocoding attempt failed", logging.Fields{
			"address": address,
			"attempt": attempt,
		})

		if attempt < g.maxRetries {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(g.retryDelay * time.Duration(attempt)):
			}
		}
	}

	g.logger.Warn(ctx, "[GEOCODE_FAILED] Address unresolved after retries", logging.Fields{
		"address":  address,
		"attempts": g.maxRetries,
	})
	return nil
}

// request performs one Nominatim lookup. A successful response with no
// results returns (nil, nil): the address is unknown, not an error to
// retry.
func (g *Geocoder) request(ctx context.Context, address string) (*GeoPoint, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}

	return &GeoPoint{Latitude: lat, Longitude: lon}, nil
}
