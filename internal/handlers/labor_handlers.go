package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"labor-platform/internal/models"
	"labor-platform/internal/repository"
	"labor-platform/internal/services"
	"labor-platform/internal/skills"
	"labor-platform/pkg/logging"
	"labor-platform/pkg/metrics"
)

// LaborHandler handles labor market API endpoints
type LaborHandler struct {
	repo              repository.LaborRepository
	analysisService   *services.AnalysisService
	transitionService *services.TransitionService
	logger            *logging.StructuredLogger
	metrics           *metrics.Collector
}

// NewLaborHandler creates a new labor handler
func NewLaborHandler(
	repo repository.LaborRepository,
	analysisService *services.AnalysisService,
	transitionService *services.TransitionService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *LaborHandler {
	return &LaborHandler{
		repo:              repo,
		analysisService:   analysisService,
		transitionService: transitionService,
		logger:            logger,
		metrics:           metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// GetObservations handles GET /api/unemployment
func (h *LaborHandler) GetObservations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/unemployment").Observe(duration.Seconds())
	}()

	filter, ok := h.parseObservationFilter(w, r, true)
	if !ok {
		return
	}

	page := filter.Offset/filter.Limit + 1

	observations, total, err := h.repo.GetObservations(ctx, filter)
	if err != nil {
		h.logger.Error(ctx, "[API_GET_OBSERVATIONS_ERROR] Failed to get observations", logging.Fields{
			"filter": filter,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/unemployment")
		h.sendError(w, r, "failed to retrieve observations", http.StatusInternalServerError)
		return
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit

	response := PaginatedResponse{
		Data:       observations,
		Total:      total,
		Page:       page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}

	h.metrics.RecordAPIRequest("/api/unemployment", "GET", "200")
	h.sendJSON(w, response, http.StatusOK)
}

// GetTrends handles GET /api/unemployment/trends
func (h *LaborHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/unemployment/trends").Observe(duration.Seconds())
	}()

	filter, ok := h.parseObservationFilter(w, r, false)
	if !ok {
		return
	}

	trends, err := h.analysisService.DetectTrends(ctx, filter)
	if err != nil {
		h.logger.Error(ctx, "[API_GET_TRENDS_ERROR] Failed to detect trends", logging.Fields{
			"filter": filter,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/unemployment/trends")
		h.sendError(w, r, "failed to compute trends", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/unemployment/trends", "GET", "200")
	h.sendJSON(w, trends, http.StatusOK)
}

// GetShocks handles GET /api/unemployment/shocks
func (h *LaborHandler) GetShocks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/unemployment/shocks").Observe(duration.Seconds())
	}()

	filter, ok := h.parseObservationFilter(w, r, false)
	if !ok {
		return
	}

	zThreshold := 0.0
	if zStr := r.URL.Query().Get("z_threshold"); zStr != "" {
		z, err := strconv.ParseFloat(zStr, 64)
		if err != nil || z <= 0 {
			h.sendError(w, r, "invalid z_threshold, expected positive number", http.StatusBadRequest)
			return
		}
		zThreshold = z
	}

	shocks, err := h.analysisService.DetectShocks(ctx, filter, zThreshold)
	if err != nil {
		h.logger.Error(ctx, "[API_GET_SHOCKS_ERROR] Failed to detect shocks", logging.Fields{
			"filter": filter,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/unemployment/shocks")
		h.sendError(w, r, "failed to detect shocks", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/unemployment/shocks", "GET", "200")
	h.sendJSON(w, shocks, http.StatusOK)
}

// GetSeasonality handles GET /api/unemployment/seasonality
func (h *LaborHandler) GetSeasonality(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/unemployment/seasonality").Observe(duration.Seconds())
	}()

	filter, ok := h.parseObservationFilter(w, r, false)
	if !ok {
		return
	}

	freq := models.Monthly
	switch r.URL.Query().Get("frequency") {
	case "", "M", "m":
	case "Q", "q":
		freq = models.Quarterly
	default:
		h.sendError(w, r, "invalid frequency, expected M or Q", http.StatusBadRequest)
		return
	}

	result, err := h.analysisService.AnalyzeSeasonality(ctx, filter, freq)
	if err != nil {
		h.logger.Error(ctx, "[API_GET_SEASONALITY_ERROR] Failed to analyze seasonality", logging.Fields{
			"filter": filter,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/unemployment/seasonality")
		h.sendError(w, r, "failed to analyze seasonality", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/unemployment/seasonality", "GET", "200")
	h.sendJSON(w, result, http.StatusOK)
}

// GetLayoffs handles GET /api/layoffs
func (h *LaborHandler) GetLayoffs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/layoffs").Observe(duration.Seconds())
	}()

	page, limit := parsePagination(r)
	filter := repository.LayoffFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	if company := r.URL.Query().Get("company"); company != "" {
		filter.Company = &company
	}
	if industry := r.URL.Query().Get("industry"); industry != "" {
		filter.Industry = &industry
	}
	startDate, endDate, ok := h.parseDateRange(w, r)
	if !ok {
		return
	}
	filter.StartDate = startDate
	filter.EndDate = endDate

	events, total, err := h.repo.GetLayoffEvents(ctx, filter)
	if err != nil {
		h.logger.Error(ctx, "[API_GET_LAYOFFS_ERROR] Failed to get layoff events", logging.Fields{
			"filter": filter,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/layoffs")
		h.sendError(w, r, "failed to retrieve layoff events", http.StatusInternalServerError)
		return
	}

	totalPages := (total + limit - 1) / limit

	response := PaginatedResponse{
		Data:       events,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}

	h.metrics.RecordAPIRequest("/api/layoffs", "GET", "200")
	h.sendJSON(w, response, http.StatusOK)
}

// ListJobs handles GET /api/jobs
func (h *LaborHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profiles := h.transitionService.ListJobProfiles(ctx)

	h.metrics.RecordAPIRequest("/api/jobs", "GET", "200")
	h.sendJSON(w, profiles, http.StatusOK)
}

// CreateJob handles POST /api/jobs
func (h *LaborHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var profile models.JobProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		h.sendError(w, r, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if profile.ID == "" || profile.Title == "" {
		h.sendError(w, r, "id and title are required", http.StatusBadRequest)
		return
	}
	for id, skill := range profile.RequiredSkills {
		if skill.ID == "" {
			skill.ID = id
			profile.RequiredSkills[id] = skill
		}
	}

	if err := h.transitionService.AddJobProfile(ctx, &profile); err != nil {
		h.logger.Error(ctx, "[API_CREATE_JOB_ERROR] Failed to add job profile", logging.Fields{
			"job_id": profile.ID,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/jobs")
		h.sendError(w, r, "failed to store job profile", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/jobs", "POST", "201")
	h.sendJSON(w, profile, http.StatusCreated)
}

// GetSimilarJobs handles GET /api/jobs/{id}/similar
func (h *LaborHandler) GetSimilarJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := mux.Vars(r)["id"]

	topN := skills.DefaultTopN
	if topStr := r.URL.Query().Get("top_n"); topStr != "" {
		n, err := strconv.Atoi(topStr)
		if err != nil || n <= 0 {
			h.sendError(w, r, "invalid top_n, expected positive integer", http.StatusBadRequest)
			return
		}
		topN = n
	}

	minOverlap := skills.DefaultMinSkillOverlap
	if overlapStr := r.URL.Query().Get("min_overlap"); overlapStr != "" {
		v, err := strconv.ParseFloat(overlapStr, 64)
		if err != nil || v < 0 || v > 1 {
			h.sendError(w, r, "invalid min_overlap, expected number in [0,1]", http.StatusBadRequest)
			return
		}
		minOverlap = v
	}

	similar := h.transitionService.FindSimilarJobs(ctx, jobID, topN, minOverlap)

	h.metrics.RecordAPIRequest("/api/jobs/{id}/similar", "GET", "200")
	h.sendJSON(w, similar, http.StatusOK)
}

// GetTransitionPaths handles GET /api/jobs/{src}/transitions/{dst}
func (h *LaborHandler) GetTransitionPaths(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	maxHops := 1
	if hopsStr := r.URL.Query().Get("max_hops"); hopsStr != "" {
		n, err := strconv.Atoi(hopsStr)
		if err != nil || n < 0 {
			h.sendError(w, r, "invalid max_hops, expected non-negative integer", http.StatusBadRequest)
			return
		}
		maxHops = n
	}

	paths := h.transitionService.FindTransitionPaths(ctx, vars["src"], vars["dst"], maxHops)

	h.metrics.RecordAPIRequest("/api/jobs/{src}/transitions/{dst}", "GET", "200")
	h.sendJSON(w, paths, http.StatusOK)
}

// GetTrainingRecommendations handles GET /api/jobs/{src}/transitions/{dst}/training
func (h *LaborHandler) GetTrainingRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	recommendations, err := h.transitionService.RecommendTraining(ctx, vars["src"], vars["dst"])
	if err != nil {
		h.logger.Error(ctx, "[API_TRAINING_ERROR] Failed to recommend training", logging.Fields{
			"source_job": vars["src"],
			"target_job": vars["dst"],
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/jobs/{src}/transitions/{dst}/training")
		h.sendError(w, r, "failed to recommend training", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/jobs/{src}/transitions/{dst}/training", "GET", "200")
	h.sendJSON(w, recommendations, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *LaborHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.repo.HealthCheck(ctx); err != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
		h.logger.Warn(ctx, "[HEALTH_CHECK_DEGRADED] Database health check failed", logging.Fields{})
		h.sendJSON(w, status, http.StatusServiceUnavailable)
		return
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, status, http.StatusOK)
}

// parseObservationFilter builds the observation filter shared by the
// unemployment endpoints. Analysis endpoints pass paginated=false so the
// full matching series is loaded.
func (h *LaborHandler) parseObservationFilter(w http.ResponseWriter, r *http.Request, paginated bool) (repository.ObservationFilter, bool) {
	filter := repository.ObservationFilter{}

	if paginated {
		page, limit := parsePagination(r)
		filter.Limit = limit
		filter.Offset = (page - 1) * limit
	}

	if demographic := r.URL.Query().Get("demographic"); demographic != "" {
		filter.Demographic = &demographic
	}

	startDate, endDate, ok := h.parseDateRange(w, r)
	if !ok {
		return filter, false
	}
	filter.StartDate = startDate
	filter.EndDate = endDate

	return filter, true
}

// parseDateRange parses optional start_date/end_date query parameters.
func (h *LaborHandler) parseDateRange(w http.ResponseWriter, r *http.Request) (*time.Time, *time.Time, bool) {
	var startDate, endDate *time.Time

	if startStr := r.URL.Query().Get("start_date"); startStr != "" {
		parsed, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			h.sendError(w, r, "invalid start_date format, expected YYYY-MM-DD", http.StatusBadRequest)
			return nil, nil, false
		}
		startDate = &parsed
	}

	if endStr := r.URL.Query().Get("end_date"); endStr != "" {
		parsed, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			h.sendError(w, r, "invalid end_date format, expected YYYY-MM-DD", http.StatusBadRequest)
			return nil, nil, false
		}
		endDate = &parsed
	}

	return startDate, endDate, true
}

func parsePagination(r *http.Request) (page, limit int) {
	page = 1
	limit = 100

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}

	return page, limit
}

// sendJSON sends a JSON response
func (h *LaborHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *LaborHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.metrics.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(statusCode))

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	h.sendJSON(w, response, statusCode)
}

// RegisterRoutes registers all labor market API routes
func (h *LaborHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/unemployment", h.GetObservations).Methods("GET")
	router.HandleFunc("/api/unemployment/trends", h.GetTrends).Methods("GET")
	router.HandleFunc("/api/unemployment/shocks", h.GetShocks).Methods("GET")
	router.HandleFunc("/api/unemployment/seasonality", h.GetSeasonality).Methods("GET")
	router.HandleFunc("/api/layoffs", h.GetLayoffs).Methods("GET")
	router.HandleFunc("/api/jobs", h.ListJobs).Methods("GET")
	router.HandleFunc("/api/jobs", h.CreateJob).Methods("POST")
	router.HandleFunc("/api/jobs/{id}/similar", h.GetSimilarJobs).Methods("GET")
	router.HandleFunc("/api/jobs/{src}/transitions/{dst}", h.GetTransitionPaths).Methods("GET")
	router.HandleFunc("/api/jobs/{src}/transitions/{dst}/training", h.GetTrainingRecommendations).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}
