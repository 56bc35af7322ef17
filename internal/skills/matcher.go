package skills

import (
	"sort"
	"strings"

	"labor-platform/internal/models"
)

const (
	// DefaultTopN is the default number of similar jobs returned.
	DefaultTopN = 5
	// DefaultMinSkillOverlap is the default Jaccard threshold for
	// similar-job candidates.
	DefaultMinSkillOverlap = 0.3
)

// JobSimilarity pairs a candidate job with its Jaccard similarity to the
// source job's skill set.
type JobSimilarity struct {
	JobID      string  `json:"job_id"`
	Similarity float64 `json:"similarity"`
}

// Matcher holds the job-profile catalog and the skill co-occurrence graph
// derived from it. The catalog is process-lifetime and mutated only by
// AddJobProfile; the matcher itself does no locking, so callers must
// serialize writes against reads.
type Matcher struct {
	profiles map[string]*models.JobProfile
	graph    *Graph
}

// NewMatcher creates a matcher and eagerly builds the skill graph from
// the profiles present at construction. The profiles map is held by
// reference; a nil map starts an empty catalog.
func NewMatcher(profiles map[string]*models.JobProfile) *Matcher {
	if profiles == nil {
		profiles = make(map[string]*models.JobProfile)
	}
	m := &Matcher{
		profiles: profiles,
		graph:    NewGraph(),
	}
	for _, id := range m.sortedJobIDs() {
		m.updateGraph(profiles[id])
	}
	return m
}

// AddJobProfile inserts or overwrites the profile by job ID and
// incrementally updates the skill graph. Edge weights increment on every
// call, including when the same profile ID is added again — the graph
// does not deduplicate repeated adds.
func (m *Matcher) AddJobProfile(profile *models.JobProfile) {
	m.profiles[profile.ID] = profile
	m.updateGraph(profile)
}

// Profile returns the catalog entry for a job ID.
func (m *Matcher) Profile(id string) (*models.JobProfile, bool) {
	p, ok := m.profiles[id]
	return p, ok
}

// Profiles returns the job catalog in ascending job-ID order.
func (m *Matcher) Profiles() []*models.JobProfile {
	out := make([]*models.JobProfile, 0, len(m.profiles))
	for _, id := range m.sortedJobIDs() {
		out = append(out, m.profiles[id])
	}
	return out
}

// Graph exposes the derived skill co-occurrence graph.
func (m *Matcher) Graph() *Graph {
	return m.graph
}

func (m *Matcher) updateGraph(profile *models.JobProfile) {
	for _, skill := range profile.RequiredSkills {
		m.graph.AddNode(skill)
	}

	ids := make([]string, 0, len(profile.RequiredSkills))
	for id := range profile.RequiredSkills {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			m.graph.IncrementEdge(ids[i], ids[j])
		}
	}
}

// FindSimilarJobs returns up to topN jobs ranked by Jaccard similarity of
// required-skill sets, filtered to similarity >= minOverlap. The source
// job is excluded from candidates. Candidates are scanned in ascending
// job-ID order, which also breaks similarity ties. An unknown source job
// returns an empty slice.
func (m *Matcher) FindSimilarJobs(sourceJobID string, topN int, minOverlap float64) []JobSimilarity {
	source, ok := m.profiles[sourceJobID]
	if !ok {
		return nil
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	sourceSkills := source.SkillIDs()
	var similar []JobSimilarity

	for _, id := range m.sortedJobIDs() {
		if id == sourceJobID {
			continue
		}
		targetSkills := m.profiles[id].SkillIDs()
		if len(targetSkills) == 0 {
			continue
		}

		similarity := jaccard(sourceSkills, targetSkills)
		if similarity >= minOverlap {
			similar = append(similar, JobSimilarity{JobID: id, Similarity: similarity})
		}
	}

	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].Similarity > similar[j].Similarity
	})
	if len(similar) > topN {
		similar = similar[:topN]
	}
	return similar
}

// FindTransitionPaths returns deduplicated transition paths from source
// to target, sorted by ascending difficulty with ties broken by
// descending common-skills count. It considers the direct transition and,
// when maxHops > 0, every other catalog job as a single intermediate step
// whose two legs are both feasible (difficulty < 1.0). Values of maxHops
// beyond 1 do not widen the search; only single intermediates are
// evaluated. Paths with difficulty >= 1.0 are dropped, and paths sharing
// the exact same missing-skills set collapse to the lower-difficulty one.
func (m *Matcher) FindTransitionPaths(sourceJobID, targetJobID string, maxHops int) []models.TransitionPath {
	source, okSrc := m.profiles[sourceJobID]
	target, okDst := m.profiles[targetJobID]
	if !okSrc || !okDst {
		return nil
	}

	sourceSkills := source.SkillIDs()
	targetSkills := target.SkillIDs()

	direct := newTransitionPath(sourceJobID, targetJobID, sourceSkills, targetSkills)

	if maxHops <= 0 {
		if direct.TransitionDifficulty < 1.0 {
			return []models.TransitionPath{direct}
		}
		return nil
	}

	candidates := []models.TransitionPath{direct}

	for _, id := range m.sortedJobIDs() {
		if id == sourceJobID || id == targetJobID {
			continue
		}
		hopSkills := m.profiles[id].SkillIDs()

		toHop := newTransitionPath(sourceJobID, id, sourceSkills, hopSkills)
		hopToTarget := newTransitionPath(id, targetJobID, hopSkills, targetSkills)

		if toHop.TransitionDifficulty >= 1.0 || hopToTarget.TransitionDifficulty >= 1.0 {
			continue
		}

		combined := models.TransitionPath{
			SourceJob:            sourceJobID,
			TargetJob:            targetJobID,
			SkillOverlap:         unionSets(toHop.SkillOverlap, hopToTarget.SkillOverlap),
			MissingSkills:        unionSets(toHop.MissingSkills, hopToTarget.MissingSkills),
			TransitionDifficulty: maxFloat(toHop.TransitionDifficulty, hopToTarget.TransitionDifficulty),
			SkillGap:             maxFloat(toHop.SkillGap, hopToTarget.SkillGap),
			CommonSkillsCount:    toHop.CommonSkillsCount + hopToTarget.CommonSkillsCount,
			MissingSkillsCount:   toHop.MissingSkillsCount + hopToTarget.MissingSkillsCount,
		}
		candidates = append(candidates, combined)
	}

	// Deduplicate by exact missing-skills set, keeping the easier path.
	unique := make(map[string]models.TransitionPath)
	var keyOrder []string
	for _, path := range candidates {
		if path.TransitionDifficulty >= 1.0 {
			continue
		}
		key := strings.Join(path.MissingSkills, "\x1f")
		existing, seen := unique[key]
		if !seen {
			keyOrder = append(keyOrder, key)
			unique[key] = path
		} else if path.TransitionDifficulty < existing.TransitionDifficulty {
			unique[key] = path
		}
	}

	paths := make([]models.TransitionPath, 0, len(unique))
	for _, key := range keyOrder {
		paths = append(paths, unique[key])
	}

	sort.SliceStable(paths, func(i, j int) bool {
		if paths[i].TransitionDifficulty != paths[j].TransitionDifficulty {
			return paths[i].TransitionDifficulty < paths[j].TransitionDifficulty
		}
		return paths[i].CommonSkillsCount > paths[j].CommonSkillsCount
	})

	return paths
}

// RecommendTraining scores the available courses against the skill gap of
// the source-to-target transition. Relevance is the fraction of missing
// skills a course covers; courses covering none are skipped. An unknown
// job or an empty skill gap returns an empty slice.
func (m *Matcher) RecommendTraining(sourceJobID, targetJobID string, courses []models.Course) []models.CourseRecommendation {
	source, okSrc := m.profiles[sourceJobID]
	target, okDst := m.profiles[targetJobID]
	if !okSrc || !okDst {
		return nil
	}

	sourceSkills := source.SkillIDs()
	missing := make(map[string]struct{})
	for id := range target.SkillIDs() {
		if _, ok := sourceSkills[id]; !ok {
			missing[id] = struct{}{}
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var recs []models.CourseRecommendation
	for _, course := range courses {
		var covered []string
		for _, id := range course.SkillsCovered {
			if _, ok := missing[id]; ok {
				covered = append(covered, id)
			}
		}
		if len(covered) == 0 {
			continue
		}
		sort.Strings(covered)

		recs = append(recs, models.CourseRecommendation{
			CourseID:             course.ID,
			Title:                course.Title,
			Provider:             course.Provider,
			URL:                  course.URL,
			SkillsCovered:        covered,
			RelevanceScore:       float64(len(covered)) / float64(len(missing)),
			MissingSkillsCovered: len(covered),
			TotalMissingSkills:   len(missing),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].RelevanceScore > recs[j].RelevanceScore
	})
	return recs
}

// newTransitionPath builds the path between two skill sets: overlap is
// the intersection, missing is target minus source, and the skill gap is
// the missing fraction of the target set (1.0 when the target set is
// empty). Difficulty currently equals the gap, capped at 1.0.
func newTransitionPath(sourceJobID, targetJobID string, sourceSkills, targetSkills map[string]struct{}) models.TransitionPath {
	var common, missing []string
	for id := range targetSkills {
		if _, ok := sourceSkills[id]; ok {
			common = append(common, id)
		} else {
			missing = append(missing, id)
		}
	}
	skillGap := 1.0
	if len(targetSkills) > 0 {
		skillGap = float64(len(missing)) / float64(len(targetSkills))
	}

	path := models.TransitionPath{
		SourceJob:            sourceJobID,
		TargetJob:            targetJobID,
		SkillOverlap:         common,
		MissingSkills:        missing,
		TransitionDifficulty: minFloat(1.0, skillGap),
		SkillGap:             skillGap,
		CommonSkillsCount:    len(common),
		MissingSkillsCount:   len(missing),
	}
	path.SortSkillSets()
	return path
}

func (m *Matcher) sortedJobIDs() []string {
	ids := make([]string, 0, len(m.profiles))
	for id := range m.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func jaccard(a, b map[string]struct{}) float64 {
	intersection := 0
	for id := range a {
		if _, ok := b[id]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func unionSets(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, id := range a {
		seen[id] = struct{}{}
	}
	for _, id := range b {
		seen[id] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
