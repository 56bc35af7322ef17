package models

import (
	"testing"
	"time"
)

// TestRawLayoffRecord_ToEvent tests the CSV row cleaning logic
func TestRawLayoffRecord_ToEvent(t *testing.T) {
	tests := []struct {
		name        string
		record      RawLayoffRecord
		wantErr     bool
		checkValues func(*testing.T, *LayoffEvent)
	}{
		{
			name: "valid record with all fields",
			record: RawLayoffRecord{
				Company:          "acme corp",
				Industry:         "consumer TECH",
				Location:         "San Francisco, CA",
				EmployeesLaidOff: "1,200",
				DateAnnounced:    "2023-01-15",
			},
			wantErr: false,
			checkValues: func(t *testing.T, event *LayoffEvent) {
				if event.Company != "Acme Corp" {
					t.Errorf("Company = %v, want %v", event.Company, "Acme Corp")
				}
				if event.Industry != "Consumer Tech" {
					t.Errorf("Industry = %v, want %v", event.Industry, "Consumer Tech")
				}
				if event.Location != "San Francisco, CA" {
					t.Errorf("Location = %v, want %v", event.Location, "San Francisco, CA")
				}

				expectedDate := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
				if !event.DateAnnounced.Equal(expectedDate) {
					t.Errorf("DateAnnounced = %v, want %v", event.DateAnnounced, expectedDate)
				}

				if event.EmployeesLaidOff == nil {
					t.Error("EmployeesLaidOff should not be nil")
				} else if *event.EmployeesLaidOff != 1200 {
					t.Errorf("EmployeesLaidOff = %v, want %v", *event.EmployeesLaidOff, 1200)
				}

				if event.Latitude != nil || event.Longitude != nil {
					t.Error("coordinates should be nil before geocoding")
				}
			},
		},
		{
			name: "slash date format",
			record: RawLayoffRecord{
				Company:       "Globex",
				DateAnnounced: "1/5/2023",
			},
			wantErr: false,
			checkValues: func(t *testing.T, event *LayoffEvent) {
				expectedDate := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)
				if !event.DateAnnounced.Equal(expectedDate) {
					t.Errorf("DateAnnounced = %v, want %v", event.DateAnnounced, expectedDate)
				}
			},
		},
		{
			name: "timestamp date format",
			record: RawLayoffRecord{
				Company:       "Globex",
				DateAnnounced: "2023-06-01 00:00:00",
			},
			wantErr: false,
			checkValues: func(t *testing.T, event *LayoffEvent) {
				expectedDate := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
				if !event.DateAnnounced.Equal(expectedDate) {
					t.Errorf("DateAnnounced = %v, want %v", event.DateAnnounced, expectedDate)
				}
			},
		},
		{
			name: "unparseable headcount becomes nil",
			record: RawLayoffRecord{
				Company:          "Globex",
				EmployeesLaidOff: "unknown",
				DateAnnounced:    "2023-01-15",
			},
			wantErr: false,
			checkValues: func(t *testing.T, event *LayoffEvent) {
				if event.EmployeesLaidOff != nil {
					t.Error("EmployeesLaidOff should be nil for unparseable input")
				}
			},
		},
		{
			name: "negative headcount becomes nil",
			record: RawLayoffRecord{
				Company:          "Globex",
				EmployeesLaidOff: "-50",
				DateAnnounced:    "2023-01-15",
			},
			wantErr: false,
			checkValues: func(t *testing.T, event *LayoffEvent) {
				if event.EmployeesLaidOff != nil {
					t.Error("EmployeesLaidOff should be nil for negative input")
				}
			},
		},
		{
			name: "empty headcount becomes nil",
			record: RawLayoffRecord{
				Company:       "Globex",
				DateAnnounced: "2023-01-15",
			},
			wantErr: false,
			checkValues: func(t *testing.T, event *LayoffEvent) {
				if event.EmployeesLaidOff != nil {
					t.Error("EmployeesLaidOff should be nil when absent")
				}
			},
		},
		{
			name: "unrecognized date format",
			record: RawLayoffRecord{
				Company:       "Globex",
				DateAnnounced: "January 15th",
			},
			wantErr: true,
		},
		{
			name: "missing company",
			record: RawLayoffRecord{
				Company:       "   ",
				DateAnnounced: "2023-01-15",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := tt.record.ToEvent()

			if (err != nil) != tt.wantErr {
				t.Errorf("ToEvent() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if err != nil {
				validationErr, ok := err.(*ValidationError)
				if !ok {
					t.Errorf("error should be *ValidationError, got %T", err)
				} else if validationErr.IsTransient() {
					t.Error("validation errors should not be transient")
				}
				return
			}

			if tt.checkValues != nil {
				tt.checkValues(t, event)
			}
		})
	}
}

func TestJobProfile_AddSkill(t *testing.T) {
	profile := &JobProfile{ID: "analyst", Title: "Analyst"}

	profile.AddSkill(Skill{ID: "sql", Name: "SQL"})
	profile.AddSkill(Skill{ID: "sql", Name: "SQL (updated)"})

	if len(profile.RequiredSkills) != 1 {
		t.Fatalf("RequiredSkills count = %d, want 1", len(profile.RequiredSkills))
	}
	if profile.RequiredSkills["sql"].Name != "SQL (updated)" {
		t.Errorf("AddSkill should replace the existing skill")
	}
}

func TestFrequency_SeasonalPeriods(t *testing.T) {
	if got := Monthly.SeasonalPeriods(); got != 12 {
		t.Errorf("Monthly periods = %d, want 12", got)
	}
	if got := Quarterly.SeasonalPeriods(); got != 4 {
		t.Errorf("Quarterly periods = %d, want 4", got)
	}
}
