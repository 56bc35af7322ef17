package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labor-platform/pkg/metrics"
)

// One collector for the whole test binary; promauto registers globally.
var geocoderTestMetrics = metrics.NewCollector("ingest_test")

func newTestGeocoder(baseURL string) *Geocoder {
	g := NewGeocoder(baseURL, "labor-platform-test", testLogger(), geocoderTestMetrics)
	g.retryDelay = time.Millisecond
	return g
}

func TestGeocoder_ResolvesAndCaches(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "labor-platform-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "Austin, TX", r.URL.Query().Get("q"))
		w.Write([]byte(`[{"lat":"30.2672","lon":"-97.7431"}]`))
	}))
	defer server.Close()

	g := newTestGeocoder(server.URL)

	point := g.Geocode(context.Background(), "Austin, TX")
	require.NotNil(t, point)
	assert.InDelta(t, 30.2672, point.Latitude, 1e-9)
	assert.InDelta(t, -97.7431, point.Longitude, 1e-9)

	again := g.Geocode(context.Background(), "Austin, TX")
	assert.Equal(t, point, again)
	assert.Equal(t, 1, requests)
}

func TestGeocoder_UnknownAddressCachedAsNil(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	g := newTestGeocoder(server.URL)

	assert.Nil(t, g.Geocode(context.Background(), "Nowhere"))
	assert.Nil(t, g.Geocode(context.Background(), "Nowhere"))
	assert.Equal(t, 1, requests)
}

func TestGeocoder_EmptyAddress(t *testing.T) {
	g := newTestGeocoder("http://localhost:0")

	assert.Nil(t, g.Geocode(context.Background(), ""))
}

func TestGeocoder_ServerErrorExhaustsRetries(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g := newTestGeocoder(server.URL)
	g.maxRetries = 2

	assert.Nil(t, g.Geocode(context.Background(), "Austin, TX"))
	assert.Equal(t, 2, requests)
}
