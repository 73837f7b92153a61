package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailySummary carries the day-level forecast fields the window calculator
// needs. Times are "HH:MM" 24-hour strings as delivered by the provider.
type DailySummary struct {
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}

// ForecastBundle is the engine's input contract: an ordered series of up to
// 24 hourly records plus daily and route metadata.
type ForecastBundle struct {
	RouteID string       `json:"route_id,omitempty"`
	Hours   []RawHour    `json:"hours"`
	Daily   DailySummary `json:"daily"`
	Route   RouteInfo    `json:"route"`
}

// AssessOptions carries the per-scorer configuration. The zero value is
// usable: every scorer falls back to its operational defaults.
type AssessOptions struct {
	Icing  IcingConfig  `json:"icing"`
	Window WindowConfig `json:"window"`
}

// Assessment is the complete flight-weather judgement for one route and
// day. The three hazard analyses are independent verdicts consumed side by
// side; there is deliberately no fused cross-hazard score (see
// WorstCategory for the worst-of-three convenience).
type Assessment struct {
	RunID       string    `json:"run_id"`
	RouteID     string    `json:"route_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Status      string    `json:"status"` // "ok" or "no data"

	Hours      []HourRecord       `json:"hours"`
	Icing      IcingAnalysis      `json:"icing"`
	Wind       WindAnalysis       `json:"wind"`
	Visibility VisibilityAnalysis `json:"visibility"`
	Window     SafetyWindow       `json:"safety_window"`

	Recommendations []string `json:"recommendations"`
}

// categoryRank orders the shared tier vocabulary worst-last.
var categoryRank = map[string]int{
	"low": 0, "excellent": 0,
	"moderate": 1, "good": 1,
	"high": 2, "marginal": 2,
	"critical": 3, "poor": 3,
}

// WorstCategory returns the worst of the three per-hazard tiers on the
// low/moderate/high/critical scale. It is a convenience for callers that
// need a single verdict; the contract remains the three independent
// analyses.
func (a Assessment) WorstCategory() string {
	worst := 0
	for _, cat := range []string{
		a.Wind.Category,
		a.Visibility.Category,
		riskLevelText(a.Icing.Level),
	} {
		if r, ok := categoryRank[cat]; ok && r > worst {
			worst = r
		}
	}
	return []string{"low", "moderate", "high", "critical"}[worst]
}

// Assess runs the whole engine: normalize, score the three hazards, pick
// the safety window, and generate recommendations. An empty series
// short-circuits to a fully-populated "no data" result rather than
// erroring; all failure modes are data states.
func Assess(bundle ForecastBundle, opts AssessOptions) Assessment {
	if opts.Icing == (IcingConfig{}) {
		opts.Icing = DefaultIcingConfig()
	}

	a := Assessment{
		RunID:       uuid.NewString(),
		RouteID:     bundle.RouteID,
		GeneratedAt: clock.Now().UTC(),
	}

	if len(bundle.Hours) == 0 {
		return emptyAssessment(a, bundle, opts)
	}

	a.Status = "ok"
	a.Hours = NormalizeHours(bundle.Hours)
	a.Icing = AnalyzeIcing(a.Hours, opts.Icing)
	a.Wind = AnalyzeWind(a.Hours)
	a.Visibility = AnalyzeVisibility(a.Hours)
	a.Window = CalculateSafetyWindow(a.Hours, a.Icing.Hours, a.Wind.Hours, bundle.Daily, bundle.Route, opts.Window)
	a.Recommendations = Recommendations(a)
	return a
}

// emptyAssessment populates the defined empty-analysis result: zero counts,
// explicit "no data" strings, and placeholder recommendations.
func emptyAssessment(a Assessment, bundle ForecastBundle, opts AssessOptions) Assessment {
	a.Status = "no data"
	a.Hours = []HourRecord{}
	a.Icing = IcingAnalysis{
		Hours:     []IcingHourRisk{},
		Periods:   []IcingPeriod{},
		Segments:  icingSegments(nil),
		LevelText: "none",
	}
	a.Wind = WindAnalysis{
		Hours:             []WindShearHour{},
		Periods:           []CriticalPeriod{},
		Altitudes:         altitudeStatistics(nil),
		RecommendedCruise: Alt10M,
		Category:          "low",
	}
	a.Visibility = VisibilityAnalysis{
		Hours:    []VisibilityHour{},
		Periods:  []VisibilityPeriod{},
		Score:    0,
		Category: "poor",
	}
	a.Window = CalculateSafetyWindow(nil, nil, nil, bundle.Daily, bundle.Route, opts.Window)
	a.Recommendations = []string{"no forecast data available for this route and date"}
	return a
}
