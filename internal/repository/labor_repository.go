package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"labor-platform/internal/models"
	"labor-platform/pkg/database"
	"labor-platform/pkg/logging"
	"labor-platform/pkg/metrics"
)

// LaborRepository provides data access for labor market data
type LaborRepository interface {
	// Unemployment observation operations
	CreateObservationsBatch(ctx context.Context, observations []*models.UnemploymentObservation) error
	GetObservations(ctx context.Context, filter ObservationFilter) ([]*models.UnemploymentObservation, int, error)

	// Layoff event operations
	CreateLayoffEventsBatch(ctx context.Context, events []*models.LayoffEvent) error
	GetLayoffEvents(ctx context.Context, filter LayoffFilter) ([]*models.LayoffEvent, int, error)

	// Job profile and course operations
	UpsertJobProfile(ctx context.Context, profile *models.JobProfile) error
	GetJobProfile(ctx context.Context, jobID string) (*models.JobProfile, error)
	ListJobProfiles(ctx context.Context) ([]*models.JobProfile, error)
	ListCourses(ctx context.Context) ([]models.Course, error)

	// Utility operations
	HealthCheck(ctx context.Context) error
}

// ObservationFilter defines filters for querying unemployment observations
type ObservationFilter struct {
	Demographic *string
	StartDate   *time.Time
	EndDate     *time.Time
	Limit       int
	Offset      int
}

// LayoffFilter defines filters for querying layoff events
type LayoffFilter struct {
	Company   *string
	Industry  *string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// laborRepository implements LaborRepository
type laborRepository struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewLaborRepository creates a new labor repository
func NewLaborRepository(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) LaborRepository {
	return &laborRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// CreateObservationsBatch upserts unemployment observations in a single transaction
func (r *laborRepository) CreateObservationsBatch(ctx context.Context, observations []*models.UnemploymentObservation) error {
	if len(observations) == 0 {
		return nil
	}

	timer := time.Now()
	defer func() {
		duration := time.Since(timer)
		r.metrics.IngestionBatchSize.Observe(float64(len(observations)))
		r.logger.Debug(ctx, "[REPO_BATCH_INSERT] Observation batch insert completed", logging.Fields{
			"count":       len(observations),
			"duration_ms": duration.Milliseconds(),
		})
	}()

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO unemployment_observations (
			series_id, demographic, observation_date, value, footnote, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (series_id, observation_date) DO UPDATE SET
			value = EXCLUDED.value,
			footnote = EXCLUDED.footnote
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, obs := range observations {
		_, err := stmt.ExecContext(ctx,
			obs.SeriesID,
			obs.Demographic,
			obs.ObservationDate,
			obs.Value,
			obs.Footnote,
			obs.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert observation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.metrics.IngestionRecordsTotal.Add(float64(len(observations)))

	return nil
}

// GetObservations retrieves unemployment observations with filtering and pagination
func (r *laborRepository) GetObservations(ctx context.Context, filter ObservationFilter) ([]*models.UnemploymentObservation, int, error) {
	query := `
		SELECT id, series_id, demographic, observation_date, value, footnote, created_at
		FROM unemployment_observations
		WHERE 1=1
	`
	args := []interface{}{}
	argNum := 1

	if filter.Demographic != nil {
		query += fmt.Sprintf(" AND demographic = $%d", argNum)
		args = append(args, *filter.Demographic)
		argNum++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND observation_date >= $%d", argNum)
		args = append(args, *filter.StartDate)
		argNum++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND observation_date <= $%d", argNum)
		args = append(args, *filter.EndDate)
		argNum++
	}

	countQuery := "SELECT COUNT(*) FROM (" + query + ") AS count_query"
	var totalCount int
	err := r.db.GetContext(ctx, "count_observations", &totalCount, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count observations: %w", err)
	}

	query += " ORDER BY observation_date ASC, demographic"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	var observations []*models.UnemploymentObservation
	err = r.db.SelectContext(ctx, "get_observations", &observations, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get observations: %w", err)
	}

	return observations, totalCount, nil
}

// CreateLayoffEventsBatch upserts layoff events in a single transaction
func (r *laborRepository) CreateLayoffEventsBatch(ctx context.Context, events []*models.LayoffEvent) error {
	if len(events) == 0 {
		return nil
	}

	timer := time.Now()
	defer func() {
		duration := time.Since(timer)
		r.metrics.IngestionBatchSize.Observe(float64(len(events)))
		r.logger.Debug(ctx, "[REPO_BATCH_INSERT] Layoff batch insert completed", logging.Fields{
			"count":       len(events),
			"duration_ms": duration.Milliseconds(),
		})
	}()

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO layoff_events (
			company, industry, location, latitude, longitude,
			employees_laid_off, date_announced, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (company, date_announced, location) DO UPDATE SET
			industry = EXCLUDED.industry,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			employees_laid_off = EXCLUDED.employees_laid_off
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, event := range events {
		_, err := stmt.ExecContext(ctx,
			event.Company,
			event.Industry,
			event.Location,
			event.Latitude,
			event.Longitude,
			event.EmployeesLaidOff,
			event.DateAnnounced,
			event.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert layoff event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.metrics.IngestionRecordsTotal.Add(float64(len(events)))

	return nil
}

// GetLayoffEvents retrieves layoff events with filtering and pagination
func (r *laborRepository) GetLayoffEvents(ctx context.Context, filter LayoffFilter) ([]*models.LayoffEvent, int, error) {
	query := `
		SELECT id, company, industry, location, latitude, longitude,
		       employees_laid_off, date_announced, created_at
		FROM layoff_events
		WHERE 1=1
	`
	args := []interface{}{}
	argNum := 1

	if filter.Company != nil {
		query += fmt.Sprintf(" AND company = $%d", argNum)
		args = append(args, *filter.Company)
		argNum++
	}

	if filter.Industry != nil {
		query += fmt.Sprintf(" AND industry = $%d", argNum)
		args = append(args, *filter.Industry)
		argNum++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date_announced >= $%d", argNum)
		args = append(args, *filter.StartDate)
		argNum++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date_announced <= $%d", argNum)
		args = append(args, *filter.EndDate)
		argNum++
	}

	countQuery := "SELECT COUNT(*) FROM (" + query + ") AS count_query"
	var totalCount int
	err := r.db.GetContext(ctx, "count_layoffs", &totalCount, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count layoff events: %w", err)
	}

	query += " ORDER BY date_announced DESC, company"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	var events []*models.LayoffEvent
	err = r.db.SelectContext(ctx, "get_layoffs", &events, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get layoff events: %w", err)
	}

	return events, totalCount, nil
}

// UpsertJobProfile creates or updates a job profile and its skill rows
func (r *laborRepository) UpsertJobProfile(ctx context.Context, profile *models.JobProfile) error {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO job_profiles (job_id, title, industry, description, average_salary, growth_rate, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (job_id) DO UPDATE SET
			title = EXCLUDED.title,
			industry = EXCLUDED.industry,
			description = EXCLUDED.description,
			average_salary = EXCLUDED.average_salary,
			growth_rate = EXCLUDED.growth_rate,
			updated_at = EXCLUDED.updated_at
	`,
		profile.ID,
		profile.Title,
		profile.Industry,
		profile.Description,
		profile.AverageSalary,
		profile.GrowthRate,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert job profile: %w", err)
	}

	// Replace the skill rows wholesale; the profile owns its skill set.
	_, err = tx.ExecContext(ctx, `DELETE FROM job_skills WHERE job_id = $1`, profile.ID)
	if err != nil {
		return fmt.Errorf("failed to clear job skills: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO job_skills (job_id, skill_id, name, category, description, importance, level)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare skill statement: %w", err)
	}
	defer stmt.Close()

	for _, skill := range profile.RequiredSkills {
		_, err := stmt.ExecContext(ctx,
			profile.ID,
			skill.ID,
			skill.Name,
			skill.Category,
			skill.Description,
			skill.Importance,
			skill.Level,
		)
		if err != nil {
			return fmt.Errorf("failed to insert job skill: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debug(ctx, "[REPO_UPSERT_JOB] Job profile saved", logging.Fields{
		"job_id":      profile.ID,
		"skill_count": len(profile.RequiredSkills),
	})

	return nil
}

// GetJobProfile retrieves a job profile with its skills
func (r *laborRepository) GetJobProfile(ctx context.Context, jobID string) (*models.JobProfile, error) {
	profiles, err := r.loadProfiles(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, &NotFoundError{
			Resource: "job_profile",
			ID:       jobID,
		}
	}
	return profiles[0], nil
}

// ListJobProfiles retrieves all job profiles with their skills
func (r *laborRepository) ListJobProfiles(ctx context.Context) ([]*models.JobProfile, error) {
	return r.loadProfiles(ctx, "")
}

type jobProfileRow struct {
	JobID         string   `db:"job_id"`
	Title         string   `db:"title"`
	Industry      string   `db:"industry"`
	Description   string   `db:"description"`
	AverageSalary *float64 `db:"average_salary"`
	GrowthRate    *float64 `db:"growth_rate"`
}

type jobSkillRow struct {
	JobID string `db:"job_id"`
	models.Skill
}

func (r *laborRepository) loadProfiles(ctx context.Context, jobID string) ([]*models.JobProfile, error) {
	profileQuery := `
		SELECT job_id, title, industry, description, average_salary, growth_rate
		FROM job_profiles
	`
	skillQuery := `
		SELECT job_id, skill_id, name, category, description, importance, level
		FROM job_skills
	`
	args := []interface{}{}
	if jobID != "" {
		profileQuery += " WHERE job_id = $1"
		skillQuery += " WHERE job_id = $1"
		args = append(args, jobID)
	}
	profileQuery += " ORDER BY job_id"

	var rows []jobProfileRow
	if err := r.db.SelectContext(ctx, "list_job_profiles", &rows, profileQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to list job profiles: %w", err)
	}

	var skillRows []jobSkillRow
	if err := r.db.SelectContext(ctx, "list_job_skills", &skillRows, skillQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to list job skills: %w", err)
	}

	byID := make(map[string]*models.JobProfile, len(rows))
	profiles := make([]*models.JobProfile, 0, len(rows))
	for _, row := range rows {
		profile := &models.JobProfile{
			ID:             row.JobID,
			Title:          row.Title,
			Industry:       row.Industry,
			Description:    row.Description,
			AverageSalary:  row.AverageSalary,
			GrowthRate:     row.GrowthRate,
			RequiredSkills: make(map[string]models.Skill),
		}
		byID[row.JobID] = profile
		profiles = append(profiles, profile)
	}

	for _, row := range skillRows {
		if profile, ok := byID[row.JobID]; ok {
			profile.RequiredSkills[row.Skill.ID] = row.Skill
		}
	}

	return profiles, nil
}

// ListCourses retrieves the training course catalog
func (r *laborRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	query := `
		SELECT course_id, title, provider, url, skills_covered
		FROM training_courses
		ORDER BY course_id
	`

	rows, err := r.db.QueryContext(ctx, "list_courses", query)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var course models.Course
		var covered pq.StringArray
		if err := rows.Scan(&course.ID, &course.Title, &course.Provider, &course.URL, &covered); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		course.SkillsCovered = covered
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read courses: %w", err)
	}

	return courses, nil
}

// HealthCheck performs a repository health check
func (r *laborRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) IsTransient() bool {
	return false
}
