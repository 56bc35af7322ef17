package handlers

import (
	"encoding/json"
	"net/http"
)

// OpenAPIDocPath is where the machine-readable API document is served.
const OpenAPIDocPath = "/api/docs/openapi.json"

// OpenAPISpec returns the OpenAPI 3.0 specification for the Labor Platform API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	paginationParams := []map[string]interface{}{
		{
			"name":        "page",
			"in":          "query",
			"description": "Page number (default: 1)",
			"required":    false,
			"schema":      map[string]interface{}{"type": "integer", "default": 1},
		},
		{
			"name":        "limit",
			"in":          "query",
			"description": "Records per page (default: 100)",
			"required":    false,
			"schema":      map[string]interface{}{"type": "integer", "default": 100},
		},
	}

	observationParams := []map[string]interface{}{
		{
			"name":        "demographic",
			"in":          "query",
			"description": "Filter by demographic group (e.g. total, black, hispanic)",
			"required":    false,
			"schema":      map[string]string{"type": "string"},
		},
		{
			"name":        "start_date",
			"in":          "query",
			"description": "Filter by start date (YYYY-MM-DD)",
			"required":    false,
			"schema":      map[string]string{"type": "string", "format": "date"},
		},
		{
			"name":        "end_date",
			"in":          "query",
			"description": "Filter by end date (YYYY-MM-DD)",
			"required":    false,
			"schema":      map[string]string{"type": "string", "format": "date"},
		},
	}

	spec := map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "Labor Platform API",
			"description": "Labor market analytics platform: unemployment trend and shock detection, layoff tracking, and skill-based job transition recommendations",
			"version":     "1.0.0",
			"contact": map[string]string{
				"name": "Labor Platform Team",
			},
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths": map[string]interface{}{
			"/api/unemployment": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get unemployment observations",
					"description": "Retrieve unemployment rate observations with filtering and pagination",
					"parameters":  append(append([]map[string]interface{}{}, observationParams...), paginationParams...),
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Successful response",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"data": map[string]interface{}{
												"type": "array",
												"items": map[string]interface{}{
													"type": "object",
													"properties": map[string]interface{}{
														"id":               map[string]string{"type": "integer"},
														"series_id":        map[string]string{"type": "string"},
														"demographic":      map[string]string{"type": "string"},
														"observation_date": map[string]string{"type": "string", "format": "date-time"},
														"value":            map[string]string{"type": "number"},
														"footnote":         map[string]string{"type": "string"},
														"created_at":       map[string]string{"type": "string", "format": "date-time"},
													},
												},
											},
											"total":       map[string]string{"type": "integer"},
											"page":        map[string]string{"type": "integer"},
											"limit":       map[string]string{"type": "integer"},
											"total_pages": map[string]string{"type": "integer"},
										},
									},
								},
							},
						},
					},
				},
			},
			"/api/unemployment/trends": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Detect unemployment trends",
					"description": "Fit a linear trend per demographic group and classify its direction",
					"parameters":  observationParams,
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Trend result per group key",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"additionalProperties": map[string]interface{}{
											"type": "object",
											"properties": map[string]interface{}{
												"direction":   map[string]string{"type": "string"},
												"magnitude":   map[string]string{"type": "number"},
												"confidence":  map[string]string{"type": "number"},
												"start_value": map[string]string{"type": "number"},
												"end_value":   map[string]string{"type": "number"},
												"period_from": map[string]string{"type": "string"},
												"period_to":   map[string]string{"type": "string"},
											},
										},
									},
								},
							},
						},
					},
				},
			},
			"/api/unemployment/shocks": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Detect unemployment shocks",
					"description": "Flag observations whose z-score within their group meets the threshold",
					"parameters": append(append([]map[string]interface{}{}, observationParams...),
						map[string]interface{}{
							"name":        "z_threshold",
							"in":          "query",
							"description": "Z-score threshold (default: 2.0)",
							"required":    false,
							"schema":      map[string]interface{}{"type": "number", "default": 2.0},
						}),
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Shock events sorted by z-score descending",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "array",
										"items": map[string]interface{}{
											"type": "object",
											"properties": map[string]interface{}{
												"group_key":       map[string]string{"type": "string"},
												"date":            map[string]string{"type": "string", "format": "date-time"},
												"value":           map[string]string{"type": "number"},
												"z_score":         map[string]string{"type": "number"},
												"shock_magnitude": map[string]string{"type": "number"},
												"shock_direction": map[string]string{"type": "string"},
											},
										},
									},
								},
							},
						},
					},
				},
			},
			"/api/unemployment/seasonality": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Analyze seasonality",
					"description": "Additive seasonal decomposition of the resampled series",
					"parameters": append(append([]map[string]interface{}{}, observationParams...),
						map[string]interface{}{
							"name":        "frequency",
							"in":          "query",
							"description": "Resampling frequency: M (monthly) or Q (quarterly)",
							"required":    false,
							"schema":      map[string]interface{}{"type": "string", "enum": []string{"M", "Q"}, "default": "M"},
						}),
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Decomposition result; available=false means the series was too short",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"seasonal_strength": map[string]string{"type": "number"},
											"period":            map[string]string{"type": "integer"},
											"available":         map[string]string{"type": "boolean"},
										},
									},
								},
							},
						},
					},
				},
			},
			"/api/layoffs": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get layoff events",
					"description": "Retrieve layoff events with filtering and pagination",
					"parameters": append([]map[string]interface{}{
						{
							"name":        "company",
							"in":          "query",
							"description": "Filter by company name",
							"required":    false,
							"schema":      map[string]string{"type": "string"},
						},
						{
							"name":        "industry",
							"in":          "query",
							"description": "Filter by industry",
							"required":    false,
							"schema":      map[string]string{"type": "string"},
						},
						{
							"name":        "start_date",
							"in":          "query",
							"description": "Filter by announcement start date (YYYY-MM-DD)",
							"required":    false,
							"schema":      map[string]string{"type": "string", "format": "date"},
						},
						{
							"name":        "end_date",
							"in":          "query",
							"description": "Filter by announcement end date (YYYY-MM-DD)",
							"required":    false,
							"schema":      map[string]string{"type": "string", "format": "date"},
						},
					}, paginationParams...),
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Successful response",
						},
					},
				},
			},
			"/api/jobs": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "List job profiles",
					"description": "List the job catalog in ascending job-ID order",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Job profiles"},
					},
				},
				"post": map[string]interface{}{
					"summary":     "Add a job profile",
					"description": "Store a job profile and update the in-memory skill graph",
					"requestBody": map[string]interface{}{
						"required": true,
						"content": map[string]interface{}{
							"application/json": map[string]interface{}{
								"schema": map[string]interface{}{
									"type":     "object",
									"required": []string{"id", "title"},
									"properties": map[string]interface{}{
										"id":              map[string]string{"type": "string"},
										"title":           map[string]string{"type": "string"},
										"industry":        map[string]string{"type": "string"},
										"required_skills": map[string]interface{}{"type": "object"},
									},
								},
							},
						},
					},
					"responses": map[string]interface{}{
						"201": map[string]interface{}{"description": "Profile stored"},
						"400": map[string]interface{}{"description": "Invalid payload"},
					},
				},
			},
			"/api/jobs/{id}/similar": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Find similar jobs",
					"description": "Rank other jobs by Jaccard similarity of required skill sets",
					"parameters": []map[string]interface{}{
						{
							"name":     "id",
							"in":       "path",
							"required": true,
							"schema":   map[string]string{"type": "string"},
						},
						{
							"name":        "top_n",
							"in":          "query",
							"description": "Maximum results (default: 5)",
							"required":    false,
							"schema":      map[string]interface{}{"type": "integer", "default": 5},
						},
						{
							"name":        "min_overlap",
							"in":          "query",
							"description": "Minimum Jaccard similarity (default: 0.3)",
							"required":    false,
							"schema":      map[string]interface{}{"type": "number", "default": 0.3},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Similar jobs sorted by similarity descending"},
					},
				},
			},
			"/api/jobs/{src}/transitions/{dst}": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Find transition paths",
					"description": "Direct and one-intermediate transition paths between two jobs",
					"parameters": []map[string]interface{}{
						{
							"name":     "src",
							"in":       "path",
							"required": true,
							"schema":   map[string]string{"type": "string"},
						},
						{
							"name":     "dst",
							"in":       "path",
							"required": true,
							"schema":   map[string]string{"type": "string"},
						},
						{
							"name":        "max_hops",
							"in":          "query",
							"description": "0 for direct only, 1 to include one intermediate job (default: 1)",
							"required":    false,
							"schema":      map[string]interface{}{"type": "integer", "default": 1},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Paths sorted by difficulty ascending"},
					},
				},
			},
			"/api/jobs/{src}/transitions/{dst}/training": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Recommend training",
					"description": "Score the course catalog against the skill gap between two jobs",
					"parameters": []map[string]interface{}{
						{
							"name":     "src",
							"in":       "path",
							"required": true,
							"schema":   map[string]string{"type": "string"},
						},
						{
							"name":     "dst",
							"in":       "path",
							"required": true,
							"schema":   map[string]string{"type": "string"},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Courses sorted by relevance descending"},
					},
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Health check",
					"description": "Check if the API and its database are reachable",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "API is healthy",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"status": map[string]string{"type": "string"},
										},
									},
								},
							},
						},
						"503": map[string]interface{}{
							"description": "Database unreachable",
						},
					},
				},
			},
			"/metrics": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Prometheus metrics",
					"description": "Prometheus metrics endpoint for monitoring",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Prometheus metrics in text format",
							"content": map[string]interface{}{
								"text/plain": map[string]interface{}{
									"schema": map[string]string{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}
