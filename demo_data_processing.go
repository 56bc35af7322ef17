package main

import (
	"fmt"
	"time"

	"labor-platform/internal/analysis"
	"labor-platform/internal/models"
	"labor-platform/internal/skills"
)

// DemoDataProcessing demonstrates the analysis engines without a database
func main() {
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("LABOR PLATFORM - ANALYSIS DEMONSTRATION")
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println()

	demoTrends()
	demoShocks()
	demoTransitions()

	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("✅ ANALYSIS DEMONSTRATION COMPLETE")
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Println("The system successfully:")
	fmt.Println("  ✓ Fitted linear trends per demographic group")
	fmt.Println("  ✓ Classified trend direction from percentage change")
	fmt.Println("  ✓ Flagged shock events by z-score")
	fmt.Println("  ✓ Ranked job transitions by skill overlap")
	fmt.Println("  ✓ Computed skill gaps and transition difficulty")
	fmt.Println()
	fmt.Println("With a database, this would:")
	fmt.Println("  • Store BLS observations in unemployment_observations")
	fmt.Println("  • Track layoff events with geocoded locations")
	fmt.Println("  • Serve analysis via REST API endpoints")
	fmt.Println("  • Provide real-time metrics and monitoring")
	fmt.Println()
}

func demoTrends() {
	fmt.Println("─────────────────────────────────────────────────────────────")
	fmt.Println("Trend Detection")
	fmt.Println("─────────────────────────────────────────────────────────────")

	detector := analysis.NewTrendDetector(analysis.DefaultMinPeriods, analysis.DefaultThreshold)

	points := monthlySeries("total", 2023, []float64{3.7, 3.8, 3.9, 4.1, 4.3, 4.5})
	points = append(points, monthlySeries("black", 2023, []float64{5.4, 5.4, 5.3, 5.4, 5.4, 5.3})...)

	trends := detector.DetectTrends(points)
	for _, group := range []string{"total", "black"} {
		trend, ok := trends[group]
		if !ok {
			continue
		}
		fmt.Printf("  %-8s direction=%-10s magnitude=%.3f confidence=%.3f (%s → %s)\n",
			group, trend.Direction, trend.Magnitude, trend.Confidence, trend.PeriodFrom, trend.PeriodTo)
	}
	fmt.Println()
}

func demoShocks() {
	fmt.Println("─────────────────────────────────────────────────────────────")
	fmt.Println("Shock Detection")
	fmt.Println("─────────────────────────────────────────────────────────────")

	detector := analysis.NewTrendDetector(analysis.DefaultMinPeriods, analysis.DefaultThreshold)

	// A flat series with one pandemic-style spike.
	values := []float64{3.6, 3.5, 3.6, 3.5, 3.6, 3.7, 3.5, 3.6, 14.7, 3.6, 3.5, 3.6}
	points := monthlySeries("total", 2020, values)

	shocks := detector.DetectShocks(points, analysis.DefaultZThreshold)
	if len(shocks) == 0 {
		fmt.Println("  no shocks detected")
	}
	for _, shock := range shocks {
		fmt.Printf("  %s %s value=%.1f z=%.2f direction=%s\n",
			shock.GroupKey, shock.Date.Format("2006-01"), shock.Value, shock.ZScore, shock.ShockDirection)
	}
	fmt.Println()
}

func demoTransitions() {
	fmt.Println("─────────────────────────────────────────────────────────────")
	fmt.Println("Job Transitions")
	fmt.Println("─────────────────────────────────────────────────────────────")

	catalog := map[string]*models.JobProfile{
		"data_analyst": profile("data_analyst", "Data Analyst",
			"sql", "excel", "python", "statistics"),
		"data_engineer": profile("data_engineer", "Data Engineer",
			"sql", "python", "spark", "airflow"),
		"bi_developer": profile("bi_developer", "BI Developer",
			"sql", "excel", "tableau"),
	}

	matcher := skills.NewMatcher(catalog)

	fmt.Println("  Similar to data_analyst:")
	for _, similar := range matcher.FindSimilarJobs("data_analyst", skills.DefaultTopN, skills.DefaultMinSkillOverlap) {
		fmt.Printf("    %-14s similarity=%.3f\n", similar.JobID, similar.Similarity)
	}

	fmt.Println("  Paths data_analyst → data_engineer:")
	for _, path := range matcher.FindTransitionPaths("data_analyst", "data_engineer", 1) {
		fmt.Printf("    via=%-30s difficulty=%.3f missing=%v\n",
			path.SourceJob+" → "+path.TargetJob, path.TransitionDifficulty, path.MissingSkills)
	}
	fmt.Println()
}

func monthlySeries(group string, year int, values []float64) []analysis.DataPoint {
	points := make([]analysis.DataPoint, 0, len(values))
	for i, value := range values {
		points = append(points, analysis.DataPoint{
			Date:   time.Date(year, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC),
			Value:  value,
			Groups: []string{group},
		})
	}
	return points
}

func profile(id, title string, skillIDs ...string) *models.JobProfile {
	p := &models.JobProfile{ID: id, Title: title, RequiredSkills: make(map[string]models.Skill)}
	for _, skillID := range skillIDs {
		p.AddSkill(models.Skill{ID: skillID, Name: skillID})
	}
	return p
}
