package models

import (
	"reflect"
	"testing"
)

func TestTransitionPath_SortSkillSets(t *testing.T) {
	path := TransitionPath{
		SkillOverlap:  []string{"sql", "excel", "airflow"},
		MissingSkills: []string{"tableau", "python"},
	}

	path.SortSkillSets()

	if got, want := path.SkillOverlap, []string{"airflow", "excel", "sql"}; !reflect.DeepEqual(got, want) {
		t.Errorf("SkillOverlap = %v, want %v", got, want)
	}
	if got, want := path.MissingSkills, []string{"python", "tableau"}; !reflect.DeepEqual(got, want) {
		t.Errorf("MissingSkills = %v, want %v", got, want)
	}
}
