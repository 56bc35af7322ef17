package models

import "sort"

// Skill represents a single skill attached to a job profile.
type Skill struct {
	ID          string  `json:"id" db:"skill_id"`
	Name        string  `json:"name" db:"name"`
	Category    string  `json:"category" db:"category"`
	Description string  `json:"description,omitempty" db:"description"`
	Importance  float64 `json:"importance,omitempty" db:"importance"` // 0-1 scale
	Level       float64 `json:"level,omitempty" db:"level"`           // 0-1 scale
}

// JobProfile represents a job and the skills it requires.
// RequiredSkills is keyed by skill ID; insertion order is irrelevant.
type JobProfile struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Industry       string           `json:"industry"`
	RequiredSkills map[string]Skill `json:"required_skills"`
	Description    string           `json:"description,omitempty"`
	AverageSalary  *float64         `json:"average_salary,omitempty"`
	GrowthRate     *float64         `json:"growth_rate,omitempty"` // annual
}

// AddSkill attaches a skill to the profile, replacing any existing
// skill with the same ID.
func (p *JobProfile) AddSkill(skill Skill) {
	if p.RequiredSkills == nil {
		p.RequiredSkills = make(map[string]Skill)
	}
	p.RequiredSkills[skill.ID] = skill
}

// SkillIDs returns the set of skill IDs required for this job.
func (p *JobProfile) SkillIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(p.RequiredSkills))
	for id := range p.RequiredSkills {
		ids[id] = struct{}{}
	}
	return ids
}

// TransitionPath describes a possible career move between two jobs.
// TransitionDifficulty and SkillGap are on a 0-1 scale; as of now
// difficulty equals the skill gap (skill importance and level are not
// yet weighted in).
type TransitionPath struct {
	SourceJob            string   `json:"source_job"`
	TargetJob            string   `json:"target_job"`
	SkillOverlap         []string `json:"skill_overlap"`
	MissingSkills        []string `json:"missing_skills"`
	TransitionDifficulty float64  `json:"transition_difficulty"`
	SkillGap             float64  `json:"skill_gap"`
	CommonSkillsCount    int      `json:"common_skills_count"`
	MissingSkillsCount   int      `json:"missing_skills_count"`
}

// SortSkillSets normalizes the overlap and missing slices into sorted
// order for stable JSON output and set comparisons.
func (t *TransitionPath) SortSkillSets() {
	sort.Strings(t.SkillOverlap)
	sort.Strings(t.MissingSkills)
}

// Course is a training course that covers a set of skills.
type Course struct {
	ID            string   `json:"id" db:"course_id"`
	Title         string   `json:"title" db:"title"`
	Provider      string   `json:"provider" db:"provider"`
	URL           string   `json:"url" db:"url"`
	SkillsCovered []string `json:"skills_covered"`
}

// CourseRecommendation is a course scored against a skill gap.
// RelevanceScore is the fraction of missing skills the course covers.
type CourseRecommendation struct {
	CourseID             string   `json:"course_id"`
	Title                string   `json:"title"`
	Provider             string   `json:"provider"`
	URL                  string   `json:"url"`
	SkillsCovered        []string `json:"skills_covered"`
	RelevanceScore       float64  `json:"relevance_score"`
	MissingSkillsCovered int      `json:"missing_skills_covered"`
	TotalMissingSkills   int      `json:"total_missing_skills"`
}
