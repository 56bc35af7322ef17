package models

import (
	"strconv"
	"strings"
	"time"
)

// UnemploymentObservation represents a single unemployment-rate data point
// for one demographic series.
type UnemploymentObservation struct {
	ID              int64     `json:"id" db:"id"`
	SeriesID        string    `json:"series_id" db:"series_id"`
	Demographic     string    `json:"demographic" db:"demographic"`
	ObservationDate time.Time `json:"observation_date" db:"observation_date"`
	Value           float64   `json:"value" db:"value"`
	Footnote        string    `json:"footnote,omitempty" db:"footnote"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// LayoffEvent represents a single announced layoff.
// Coordinates are pointers: geocoding is best effort and unresolved
// locations stay NULL.
type LayoffEvent struct {
	ID               int64     `json:"id" db:"id"`
	Company          string    `json:"company" db:"company"`
	Industry         string    `json:"industry" db:"industry"`
	Location         string    `json:"location" db:"location"`
	Latitude         *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude        *float64  `json:"longitude,omitempty" db:"longitude"`
	EmployeesLaidOff *int      `json:"employees_laid_off,omitempty" db:"employees_laid_off"`
	DateAnnounced    time.Time `json:"date_announced" db:"date_announced"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// RawLayoffRecord represents one row of a layoffs CSV export before
// cleaning. All fields are raw strings.
type RawLayoffRecord struct {
	Company          string
	Industry         string
	Location         string
	EmployeesLaidOff string
	DateAnnounced    string
}

// layoffDateLayouts are the date formats seen across layoff exports.
var layoffDateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
}

// ToEvent converts a RawLayoffRecord to a LayoffEvent, normalizing
// company/industry casing and stripping thousands separators from the
// headcount. An unparseable headcount becomes NULL rather than an error.
func (r *RawLayoffRecord) ToEvent() (*LayoffEvent, error) {
	date, err := parseLayoffDate(r.DateAnnounced)
	if err != nil {
		return nil, &ValidationError{
			Field:   "date_announced",
			Value:   r.DateAnnounced,
			Message: "unrecognized date format",
		}
	}

	company := strings.TrimSpace(r.Company)
	if company == "" {
		return nil, &ValidationError{
			Field:   "company",
			Value:   r.Company,
			Message: "company is required",
		}
	}

	event := &LayoffEvent{
		Company:       titleCase(company),
		Industry:      titleCase(strings.TrimSpace(r.Industry)),
		Location:      strings.TrimSpace(r.Location),
		DateAnnounced: date,
		CreatedAt:     time.Now().UTC(),
	}

	cleaned := strings.ReplaceAll(strings.TrimSpace(r.EmployeesLaidOff), ",", "")
	if cleaned != "" {
		if n, err := strconv.Atoi(cleaned); err == nil && n >= 0 {
			event.EmployeesLaidOff = &n
		}
	}

	return event, nil
}

func parseLayoffDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range layoffDateLayouts {
		d, err := time.Parse(layout, raw)
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ValidationError represents a data validation error.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsTransient returns false as validation errors are permanent.
func (e *ValidationError) IsTransient() bool {
	return false
}
