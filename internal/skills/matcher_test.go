package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labor-platform/internal/models"
)

func job(id string, skillIDs ...string) *models.JobProfile {
	p := &models.JobProfile{ID: id, Title: id, RequiredSkills: make(map[string]models.Skill)}
	for _, skillID := range skillIDs {
		p.AddSkill(models.Skill{ID: skillID, Name: skillID})
	}
	return p
}

func catalog(jobs ...*models.JobProfile) map[string]*models.JobProfile {
	m := make(map[string]*models.JobProfile, len(jobs))
	for _, j := range jobs {
		m[j.ID] = j
	}
	return m
}

func TestNewMatcher_BuildsGraph(t *testing.T) {
	m := NewMatcher(catalog(job("analyst", "sql", "excel")))

	g := m.Graph()
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.Weight("sql", "excel"))
}

func TestAddJobProfile_RepeatedAddDoubleCountsEdges(t *testing.T) {
	m := NewMatcher(catalog(job("analyst", "sql", "excel")))

	m.AddJobProfile(job("analyst", "sql", "excel"))

	g := m.Graph()
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 2, g.Weight("sql", "excel"))
}

func TestFindSimilarJobs_JaccardScores(t *testing.T) {
	m := NewMatcher(catalog(
		job("a", "sql", "excel"),
		job("b", "excel", "tableau"),
		job("c", "spark", "airflow"),
	))

	// Overlap {excel}, union {sql, excel, tableau}: 1/3.
	similar := m.FindSimilarJobs("a", DefaultTopN, DefaultMinSkillOverlap)

	require.Len(t, similar, 1)
	assert.Equal(t, "b", similar[0].JobID)
	assert.InDelta(t, 1.0/3.0, similar[0].Similarity, 1e-9)
}

func TestFindSimilarJobs_SimilarityIsSymmetric(t *testing.T) {
	m := NewMatcher(catalog(
		job("a", "sql", "excel"),
		job("b", "excel", "tableau"),
	))

	fromA := m.FindSimilarJobs("a", DefaultTopN, DefaultMinSkillOverlap)
	fromB := m.FindSimilarJobs("b", DefaultTopN, DefaultMinSkillOverlap)

	require.Len(t, fromA, 1)
	require.Len(t, fromB, 1)
	assert.Equal(t, "b", fromA[0].JobID)
	assert.Equal(t, "a", fromB[0].JobID)
	assert.Equal(t, fromA[0].Similarity, fromB[0].Similarity)
}

func TestFindSimilarJobs_MinOverlapFilters(t *testing.T) {
	m := NewMatcher(catalog(
		job("a", "sql", "excel"),
		job("b", "excel", "tableau"),
	))

	assert.Empty(t, m.FindSimilarJobs("a", DefaultTopN, 0.5))
}

func TestFindSimilarJobs_SortedAndTruncated(t *testing.T) {
	m := NewMatcher(catalog(
		job("src", "a", "b", "c"),
		job("close", "a", "b", "c"),
		job("mid", "a", "b", "x"),
		job("far", "a", "x", "y"),
	))

	similar := m.FindSimilarJobs("src", 2, 0.0)

	require.Len(t, similar, 2)
	assert.Equal(t, "close", similar[0].JobID)
	assert.InDelta(t, 1.0, similar[0].Similarity, 1e-9)
	assert.Equal(t, "mid", similar[1].JobID)
}

func TestFindSimilarJobs_UnknownSource(t *testing.T) {
	m := NewMatcher(catalog(job("a", "sql")))

	assert.Empty(t, m.FindSimilarJobs("missing", DefaultTopN, DefaultMinSkillOverlap))
}

func TestFindTransitionPaths_Direct(t *testing.T) {
	m := NewMatcher(catalog(
		job("analyst", "sql", "excel"),
		job("bi", "sql", "tableau"),
	))

	paths := m.FindTransitionPaths("analyst", "bi", 0)

	require.Len(t, paths, 1)
	path := paths[0]
	assert.Equal(t, "analyst", path.SourceJob)
	assert.Equal(t, "bi", path.TargetJob)
	assert.Equal(t, []string{"sql"}, path.SkillOverlap)
	assert.Equal(t, []string{"tableau"}, path.MissingSkills)
	assert.InDelta(t, 0.5, path.SkillGap, 1e-9)
	assert.InDelta(t, 0.5, path.TransitionDifficulty, 1e-9)
	assert.Equal(t, 1, path.CommonSkillsCount)
	assert.Equal(t, 1, path.MissingSkillsCount)
}

func TestFindTransitionPaths_InfeasibleDirectDropped(t *testing.T) {
	m := NewMatcher(catalog(
		job("analyst", "sql", "excel"),
		job("pilot", "aviation", "navigation"),
	))

	assert.Empty(t, m.FindTransitionPaths("analyst", "pilot", 0))
}

func TestFindTransitionPaths_OneHopBridgesDisjointJobs(t *testing.T) {
	m := NewMatcher(catalog(
		job("analyst", "sql", "excel"),
		job("engineer", "sql", "python"),
		job("ml", "python", "spark"),
	))

	// Direct analyst→ml shares nothing (difficulty 1.0, dropped); the
	// engineer hop keeps both legs feasible.
	paths := m.FindTransitionPaths("analyst", "ml", 1)

	require.Len(t, paths, 1)
	path := paths[0]
	assert.Equal(t, "analyst", path.SourceJob)
	assert.Equal(t, "ml", path.TargetJob)
	assert.Equal(t, []string{"python", "spark"}, path.MissingSkills)
	assert.Equal(t, []string{"python", "sql"}, path.SkillOverlap)
	assert.InDelta(t, 0.5, path.TransitionDifficulty, 1e-9)
	assert.Equal(t, 2, path.CommonSkillsCount)
	assert.Equal(t, 2, path.MissingSkillsCount)
}

func TestFindTransitionPaths_DedupKeepsEasierPath(t *testing.T) {
	m := NewMatcher(catalog(
		job("src", "a", "b", "c"),
		job("dst", "a", "b", "x"),
		job("hop", "a", "b", "c", "x"),
	))

	// Direct src→dst misses {x} with gap 1/3; via hop the same missing
	// set costs only 1/4, so the hop path wins the dedup.
	paths := m.FindTransitionPaths("src", "dst", 1)

	require.Len(t, paths, 1)
	path := paths[0]
	assert.Equal(t, []string{"x"}, path.MissingSkills)
	assert.InDelta(t, 0.25, path.TransitionDifficulty, 1e-9)
}

func TestFindTransitionPaths_ExtraHopsDoNotWidenSearch(t *testing.T) {
	m := NewMatcher(catalog(
		job("analyst", "sql", "excel"),
		job("engineer", "sql", "python"),
		job("ml", "python", "spark"),
		job("bi", "sql", "tableau"),
	))

	oneHop := m.FindTransitionPaths("analyst", "ml", 1)
	manyHops := m.FindTransitionPaths("analyst", "ml", 5)

	assert.Equal(t, oneHop, manyHops)
}

func TestFindTransitionPaths_SortedByDifficultyThenOverlap(t *testing.T) {
	m := NewMatcher(catalog(
		job("src", "a", "b"),
		job("dst", "a", "b", "x", "y"),
		job("hop", "a", "b", "x"),
	))

	paths := m.FindTransitionPaths("src", "dst", 1)

	require.NotEmpty(t, paths)
	for i := 1; i < len(paths); i++ {
		if paths[i-1].TransitionDifficulty == paths[i].TransitionDifficulty {
			assert.GreaterOrEqual(t, paths[i-1].CommonSkillsCount, paths[i].CommonSkillsCount)
		} else {
			assert.Less(t, paths[i-1].TransitionDifficulty, paths[i].TransitionDifficulty)
		}
	}
}

func TestFindTransitionPaths_UnknownJob(t *testing.T) {
	m := NewMatcher(catalog(job("a", "sql")))

	assert.Empty(t, m.FindTransitionPaths("a", "missing", 1))
	assert.Empty(t, m.FindTransitionPaths("missing", "a", 1))
}

func TestRecommendTraining_RelevanceScores(t *testing.T) {
	m := NewMatcher(catalog(
		job("analyst", "sql"),
		job("ml", "sql", "python", "statistics"),
	))

	courses := []models.Course{
		{ID: "c1", Title: "Full Stack ML", SkillsCovered: []string{"python", "statistics"}},
		{ID: "c2", Title: "Python Basics", SkillsCovered: []string{"python"}},
		{ID: "c3", Title: "Java", SkillsCovered: []string{"java"}},
	}

	recs := m.RecommendTraining("analyst", "ml", courses)

	require.Len(t, recs, 2)
	assert.Equal(t, "c1", recs[0].CourseID)
	assert.InDelta(t, 1.0, recs[0].RelevanceScore, 1e-9)
	assert.Equal(t, 2, recs[0].MissingSkillsCovered)
	assert.Equal(t, 2, recs[0].TotalMissingSkills)

	assert.Equal(t, "c2", recs[1].CourseID)
	assert.InDelta(t, 0.5, recs[1].RelevanceScore, 1e-9)
}

func TestRecommendTraining_NoGap(t *testing.T) {
	m := NewMatcher(catalog(
		job("senior", "sql", "python"),
		job("junior", "sql"),
	))

	assert.Empty(t, m.RecommendTraining("senior", "junior", []models.Course{
		{ID: "c1", SkillsCovered: []string{"sql"}},
	}))
}

func TestProfiles_SortedByID(t *testing.T) {
	m := NewMatcher(catalog(job("b", "x"), job("a", "y"), job("c", "z")))

	profiles := m.Profiles()

	require.Len(t, profiles, 3)
	assert.Equal(t, "a", profiles[0].ID)
	assert.Equal(t, "b", profiles[1].ID)
	assert.Equal(t, "c", profiles[2].ID)
}
