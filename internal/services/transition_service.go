package services

import (
	"context"
	"fmt"
	"sync"

	"labor-platform/internal/models"
	"labor-platform/internal/repository"
	"labor-platform/internal/skills"
	"labor-platform/pkg/logging"
	"labor-platform/pkg/metrics"
)

// TransitionService owns the process-lifetime SkillMatcher and its job
// catalog. The matcher does no locking of its own, so this service
// serializes the single writer (AddJobProfile) against readers.
type TransitionService struct {
	mu      sync.RWMutex
	matcher *skills.Matcher
	repo    repository.LaborRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewTransitionService creates the service and loads the job catalog from
// the repository, building the skill graph eagerly.
func NewTransitionService(ctx context.Context, repo repository.LaborRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) (*TransitionService, error) {
	profiles, err := repo.ListJobProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load job catalog: %w", err)
	}

	catalog := make(map[string]*models.JobProfile, len(profiles))
	for _, profile := range profiles {
		catalog[profile.ID] = profile
	}

	s := &TransitionService{
		matcher: skills.NewMatcher(catalog),
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}

	graph := s.matcher.Graph()
	metricsCollector.UpdateSkillGraphSize(graph.NodeCount(), graph.EdgeCount())

	logger.Info(ctx, "[TRANSITION_INIT] Skill matcher initialized", logging.Fields{
		"job_count":   len(catalog),
		"skill_nodes": graph.NodeCount(),
		"skill_edges": graph.EdgeCount(),
	})

	return s, nil
}

// AddJobProfile persists the profile and updates the in-memory matcher
// and skill graph.
func (s *TransitionService) AddJobProfile(ctx context.Context, profile *models.JobProfile) error {
	if err := s.repo.UpsertJobProfile(ctx, profile); err != nil {
		return err
	}

	s.mu.Lock()
	s.matcher.AddJobProfile(profile)
	graph := s.matcher.Graph()
	nodes, edges := graph.NodeCount(), graph.EdgeCount()
	s.mu.Unlock()

	s.metrics.UpdateSkillGraphSize(nodes, edges)

	s.logger.Info(ctx, "[TRANSITION_ADD_JOB] Job profile added", logging.Fields{
		"job_id":      profile.ID,
		"skill_count": len(profile.RequiredSkills),
		"skill_nodes": nodes,
		"skill_edges": edges,
	})

	return nil
}

// ListJobProfiles returns the catalog in ascending job-ID order.
func (s *TransitionService) ListJobProfiles(ctx context.Context) []*models.JobProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matcher.Profiles()
}

// FindSimilarJobs answers a similarity query. An unknown job ID yields an
// empty slice.
func (s *TransitionService) FindSimilarJobs(ctx context.Context, sourceJobID string, topN int, minOverlap float64) []skills.JobSimilarity {
	s.metrics.RecordTransitionQuery("similar_jobs")

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matcher.FindSimilarJobs(sourceJobID, topN, minOverlap)
}

// FindTransitionPaths answers a transition-path query. Unknown job IDs
// yield an empty slice.
func (s *TransitionService) FindTransitionPaths(ctx context.Context, sourceJobID, targetJobID string, maxHops int) []models.TransitionPath {
	s.metrics.RecordTransitionQuery("transition_paths")

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matcher.FindTransitionPaths(sourceJobID, targetJobID, maxHops)
}

// RecommendTraining scores the stored course catalog against the skill
// gap between two jobs.
func (s *TransitionService) RecommendTraining(ctx context.Context, sourceJobID, targetJobID string) ([]models.CourseRecommendation, error) {
	s.metrics.RecordTransitionQuery("recommend_training")

	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load course catalog: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matcher.RecommendTraining(sourceJobID, targetJobID, courses), nil
}
