package models

import "time"

// TrendDirection classifies the overall movement of a time series.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
	// TrendVolatile is reserved for a future classifier; the current
	// percentage-change rule never produces it.
	TrendVolatile TrendDirection = "volatile"
)

// TrendResult describes the fitted trend of one grouped series.
// Magnitude is the absolute fractional change from first to last value,
// Confidence is the R-squared of a linear fit over the index sequence.
type TrendResult struct {
	Direction  TrendDirection `json:"direction"`
	Magnitude  float64        `json:"magnitude"`
	Confidence float64        `json:"confidence"`
	StartValue float64        `json:"start_value"`
	EndValue   float64        `json:"end_value"`
	PeriodFrom string         `json:"period_from"` // ISO date of first observation
	PeriodTo   string         `json:"period_to"`   // ISO date of last observation
}

// ShockEvent is a single observation whose z-score within its group
// meets or exceeds the shock threshold.
type ShockEvent struct {
	GroupKey       string    `json:"group_key"`
	Date           time.Time `json:"date"`
	Value          float64   `json:"value"`
	ZScore         float64   `json:"z_score"`
	ShockMagnitude float64   `json:"shock_magnitude"`
	ShockDirection string    `json:"shock_direction"` // "positive" or "negative"
}

// Frequency is the resampling frequency for seasonal decomposition.
type Frequency string

const (
	Monthly   Frequency = "M"
	Quarterly Frequency = "Q"
)

// SeasonalPeriods returns the decomposition period for the frequency.
func (f Frequency) SeasonalPeriods() int {
	if f == Quarterly {
		return 4
	}
	return 12
}

// SeasonalityResult holds the additive decomposition of a resampled series.
// A zero-value result means the analysis was unavailable (too little data
// or a degenerate series), which callers treat as "no seasonality info",
// not as an error.
type SeasonalityResult struct {
	Strength  float64   `json:"seasonal_strength"`
	Seasonal  []float64 `json:"seasonal_component,omitempty"`
	Trend     []float64 `json:"trend_component,omitempty"`
	Residual  []float64 `json:"residual_component,omitempty"`
	Period    int       `json:"period,omitempty"`
	Available bool      `json:"available"`
}
