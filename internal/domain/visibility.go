package domain

import "math"

// VisibilityCategory buckets observed visibility by fixed breakpoints.
type VisibilityCategory string

const (
	VisExcellent VisibilityCategory = "excellent" // >= 10 km
	VisGood      VisibilityCategory = "good"      // >= 5 km
	VisModerate  VisibilityCategory = "moderate"  // >= 3 km
	VisPoor      VisibilityCategory = "poor"      // >= 1 km
	VisVeryPoor  VisibilityCategory = "very_poor" // < 1 km
)

// FlightRules is the visual-flight classification for one hour.
type FlightRules string

const (
	RulesVFR  FlightRules = "VFR"
	RulesMVFR FlightRules = "Marginal VFR"
	RulesIFR  FlightRules = "IFR"
)

// VisibilityHour is the visibility judgement for one hour. The ceiling is
// estimated from temperature, humidity, and low cloud, not measured.
type VisibilityHour struct {
	Hour         int                `json:"hour"`
	VisibilityKm float64            `json:"visibility_km"`
	Category     VisibilityCategory `json:"category"`
	CeilingM     float64            `json:"ceiling_m"`
	Rules        FlightRules        `json:"flight_rules"`
}

// VisibilityPeriod is a critical low-visibility period with per-period
// extremes and a two-level severity.
type VisibilityPeriod struct {
	CriticalPeriod
	MinVisibilityKm float64 `json:"min_visibility_km"`
	MaxCloudLowPct  float64 `json:"max_cloud_cover_low_pct"`
	MinCeilingM     float64 `json:"min_ceiling_m"`
	Severity        string  `json:"severity"` // moderate or severe
}

// VisibilityStats aggregates the hourly visibility judgements.
type VisibilityStats struct {
	MinVisibilityKm float64 `json:"min_visibility_km"`
	MaxCloudLowPct  float64 `json:"max_cloud_cover_low_pct"`
	SubVFRHours     int     `json:"sub_vfr_visibility_hours"` // visibility < 5 km
	VFRHours        int     `json:"vfr_hours"`
	IFRHours        int     `json:"ifr_hours"`
}

// VisibilityAnalysis is the full visibility scorer output.
type VisibilityAnalysis struct {
	Hours    []VisibilityHour   `json:"hours"`
	Periods  []VisibilityPeriod `json:"critical_periods"`
	Stats    VisibilityStats    `json:"stats"`
	Score    int                `json:"score"`
	Category string             `json:"category"` // excellent, good, marginal, poor
}

// CategorizeVisibility maps a visibility distance to its category.
func CategorizeVisibility(km float64) VisibilityCategory {
	switch {
	case km >= 10:
		return VisExcellent
	case km >= 5:
		return VisGood
	case km >= 3:
		return VisModerate
	case km >= 1:
		return VisPoor
	default:
		return VisVeryPoor
	}
}

// EstimateCeiling approximates the cloud base height in meters from surface
// temperature, humidity, and low cloud cover. Warm dry air raises the
// estimate, saturated air lowers it; heavy low cloud compresses it further.
// Clamped to [200, 3000] m.
func EstimateCeiling(h HourRecord) float64 {
	base := math.Round(1000 + (h.TemperatureC-10)*50 - (h.HumidityPct-70)*10)

	factor := 1.0
	switch {
	case h.CloudLowPct > 80:
		factor = 0.5
	case h.CloudLowPct > 50:
		factor = 0.7
	}

	return math.Min(3000, math.Max(200, base*factor))
}

// classifyFlightRules applies the VFR ladder: full VFR needs visibility of
// at least 5 km and a ceiling of at least 300 m; marginal VFR covers
// visibility in [3,5) km or ceiling in [200,300) m; everything else is IFR.
func classifyFlightRules(visibilityKm, ceilingM float64) FlightRules {
	if visibilityKm >= 5 && ceilingM >= 300 {
		return RulesVFR
	}
	if (visibilityKm >= 3 && visibilityKm < 5) || (ceilingM >= 200 && ceilingM < 300) {
		return RulesMVFR
	}
	return RulesIFR
}

// ScoreVisibilityHour judges one hour's visibility, estimated ceiling, and
// flight-rules compliance.
func ScoreVisibilityHour(h HourRecord) VisibilityHour {
	ceiling := EstimateCeiling(h)
	return VisibilityHour{
		Hour:         h.Hour,
		VisibilityKm: h.VisibilityKm,
		Category:     CategorizeVisibility(h.VisibilityKm),
		CeilingM:     ceiling,
		Rules:        classifyFlightRules(h.VisibilityKm, ceiling),
	}
}

// AnalyzeVisibility scores every hour, groups critical low-visibility
// periods, and derives the overall visibility score and category.
func AnalyzeVisibility(hours []HourRecord) VisibilityAnalysis {
	hourRisks := make([]VisibilityHour, 0, len(hours))
	for _, h := range hours {
		hourRisks = append(hourRisks, ScoreVisibilityHour(h))
	}

	periods := visibilityPeriods(hours, hourRisks)
	stats := visibilityStats(hourRisks, hours)
	score := visibilityScore(stats, periods, len(hourRisks))

	return VisibilityAnalysis{
		Hours:    hourRisks,
		Periods:  periods,
		Stats:    stats,
		Score:    score,
		Category: visibilityCategoryForScore(score),
	}
}

// visibilityPeriods groups hours matching the low-visibility predicate
// (poor or worse visibility, or an estimated ceiling under 200 m) and
// attaches per-period extremes. Severity is severe when the period's
// minimum visibility drops under 1 km or its minimum ceiling under 150 m.
func visibilityPeriods(hours []HourRecord, hourRisks []VisibilityHour) []VisibilityPeriod {
	items := make([]PeriodItem, len(hourRisks))
	for i, hr := range hourRisks {
		level := 0
		if hr.Category == VisPoor || hr.Category == VisVeryPoor || hr.CeilingM < 200 {
			level = 2
		}
		// Inverted index: lower visibility ranks as higher severity.
		items[i] = PeriodItem{Hour: hr.Hour, Index: round1(math.Max(0, 10-hr.VisibilityKm)), Level: level}
	}
	base := GroupPeriods(items, func(it PeriodItem) bool { return it.Level >= 2 })

	periods := make([]VisibilityPeriod, 0, len(base))
	for _, p := range base {
		vp := VisibilityPeriod{
			CriticalPeriod:  p,
			MinVisibilityKm: math.Inf(1),
			MinCeilingM:     math.Inf(1),
		}
		for i, hr := range hourRisks {
			if hr.Hour < p.StartHour || hr.Hour > p.EndHour {
				continue
			}
			vp.MinVisibilityKm = math.Min(vp.MinVisibilityKm, hr.VisibilityKm)
			vp.MinCeilingM = math.Min(vp.MinCeilingM, hr.CeilingM)
			if i < len(hours) {
				vp.MaxCloudLowPct = math.Max(vp.MaxCloudLowPct, hours[i].CloudLowPct)
			}
		}
		vp.Severity = "moderate"
		if vp.MinVisibilityKm < 1 || vp.MinCeilingM < 150 {
			vp.Severity = "severe"
		}
		periods = append(periods, vp)
	}
	return periods
}

func visibilityStats(hourRisks []VisibilityHour, hours []HourRecord) VisibilityStats {
	s := VisibilityStats{MinVisibilityKm: math.Inf(1)}
	if len(hourRisks) == 0 {
		s.MinVisibilityKm = 0
		return s
	}
	for i, hr := range hourRisks {
		s.MinVisibilityKm = math.Min(s.MinVisibilityKm, hr.VisibilityKm)
		if i < len(hours) {
			s.MaxCloudLowPct = math.Max(s.MaxCloudLowPct, hours[i].CloudLowPct)
		}
		if hr.VisibilityKm < 5 {
			s.SubVFRHours++
		}
		switch hr.Rules {
		case RulesVFR:
			s.VFRHours++
		case RulesIFR:
			s.IFRHours++
		}
	}
	return s
}

// visibilityScore starts at 100 and subtracts fixed penalties for the worst
// observed conditions. The worst bucket in each group applies once.
func visibilityScore(stats VisibilityStats, periods []VisibilityPeriod, hourCount int) int {
	score := 100

	switch {
	case stats.MinVisibilityKm < 1:
		score -= 40
	case stats.MinVisibilityKm < 2:
		score -= 25
	case stats.MinVisibilityKm < 3:
		score -= 15
	}

	switch {
	case stats.SubVFRHours > 8:
		score -= 20
	case stats.SubVFRHours > 4:
		score -= 10
	}

	switch {
	case stats.MaxCloudLowPct > 80:
		score -= 20
	case stats.MaxCloudLowPct > 60:
		score -= 10
	}

	switch {
	case stats.IFRHours > 6:
		score -= 25
	case stats.IFRHours > 3:
		score -= 15
	}

	// VFR shortfall only applies once there are hours to fall short of.
	if hourCount > 0 {
		switch {
		case stats.VFRHours < 6:
			score -= 20
		case stats.VFRHours < 9:
			score -= 10
		}
	}

	total := 0
	for _, p := range periods {
		total += p.Duration
	}
	switch {
	case total > 6:
		score -= 15
	case total > 3:
		score -= 8
	}

	if score < 0 {
		score = 0
	}
	return score
}

func visibilityCategoryForScore(score int) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "marginal"
	default:
		return "poor"
	}
}
