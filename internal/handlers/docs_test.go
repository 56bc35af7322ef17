package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPISpec_DocumentsAllEndpoints(t *testing.T) {
	rec := httptest.NewRecorder()
	OpenAPISpec(rec, httptest.NewRequest(http.MethodGet, OpenAPIDocPath, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.0", doc["openapi"])

	paths, ok := doc["paths"].(map[string]interface{})
	require.True(t, ok)
	for _, path := range []string{
		"/api/unemployment",
		"/api/unemployment/trends",
		"/api/unemployment/shocks",
		"/api/unemployment/seasonality",
		"/api/layoffs",
		"/api/jobs",
		"/api/jobs/{id}/similar",
		"/api/jobs/{src}/transitions/{dst}",
		"/api/jobs/{src}/transitions/{dst}/training",
		"/health",
		"/metrics",
	} {
		assert.Contains(t, paths, path)
	}
}

func TestSwaggerUI_PointsAtOpenAPIDoc(t *testing.T) {
	rec := httptest.NewRecorder()
	SwaggerUI(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), OpenAPIDocPath)
	assert.Contains(t, rec.Body.String(), "Labor Platform API Documentation")
}
