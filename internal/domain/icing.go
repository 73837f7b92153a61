package domain

import (
	"fmt"
	"math"
)

// IcingConfig holds the term weights for the icing index. Weights are
// multiplied into already-scaled terms, so the defaults reproduce the
// operational model exactly; callers override them only for what-if runs.
type IcingConfig struct {
	TempWeight     float64
	HumidityWeight float64
	PrecipWeight   float64
	CloudWeight    float64
}

// DefaultIcingConfig returns the operational icing weights.
func DefaultIcingConfig() IcingConfig {
	return IcingConfig{
		TempWeight:     0.4,
		HumidityWeight: 0.25,
		PrecipWeight:   0.2,
		CloudWeight:    0.15,
	}
}

// IcingType classifies the expected ice accretion form.
type IcingType string

const (
	IcingNone  IcingType = "none"
	IcingClear IcingType = "clear_ice"
	IcingRime  IcingType = "rime_ice"
	IcingMixed IcingType = "mixed_ice"
)

// RiskFactor records one active contribution to an hour's risk index,
// with the numeric contribution and a human-readable reason consumed by
// the recommendation generator.
type RiskFactor struct {
	Factor       string  `json:"factor"`
	Contribution float64 `json:"contribution"`
	Description  string  `json:"description"`
}

// IcingHourRisk is the icing judgement for a single hour.
type IcingHourRisk struct {
	Hour      int          `json:"hour"`
	Index     float64      `json:"index"`
	Level     int          `json:"level"`
	LevelText string       `json:"level_text"`
	IcingType IcingType    `json:"icing_type"`
	Factors   []RiskFactor `json:"factors,omitempty"`
}

// IcingPeriod is a critical period with the predominant ice form among its
// member hours.
type IcingPeriod struct {
	CriticalPeriod
	PredominantType IcingType `json:"predominant_type"`
}

// SegmentRisk summarizes one of the four fixed day segments
// (night 00-05, morning 06-11, day 12-17, evening 18-23).
type SegmentRisk struct {
	Name      string  `json:"name"`
	StartHour int     `json:"start_hour"`
	EndHour   int     `json:"end_hour"`
	AvgIndex  float64 `json:"avg_index"`
	MaxIndex  float64 `json:"max_index"`
	Tier      int     `json:"tier"`
}

// IcingStats aggregates the hourly icing judgements.
type IcingStats struct {
	MaxIndex      float64 `json:"max_index"`
	AvgIndex      float64 `json:"avg_index"`
	LowHours      int     `json:"low_hours"`      // level == 1
	ModerateHours int     `json:"moderate_hours"` // level >= 2
	HighHours     int     `json:"high_hours"`     // level == 3
}

// IcingAnalysis is the full icing scorer output for one forecast series.
type IcingAnalysis struct {
	Hours     []IcingHourRisk `json:"hours"`
	Periods   []IcingPeriod   `json:"critical_periods"`
	Segments  []SegmentRisk   `json:"segments"`
	Stats     IcingStats      `json:"stats"`
	Level     int             `json:"level"`
	LevelText string          `json:"level_text"`
}

// riskLevelText maps an ordinal risk level to its label.
func riskLevelText(level int) string {
	switch level {
	case 3:
		return "high"
	case 2:
		return "moderate"
	case 1:
		return "low"
	default:
		return "none"
	}
}

// ScoreIcingHour computes the icing index for one hour as an accumulation
// of independently-gated weighted terms. The index is rounded to one
// decimal and deliberately not clamped: values above 100 still rank
// severity.
func ScoreIcingHour(h HourRecord, cfg IcingConfig) IcingHourRisk {
	var factors []RiskFactor
	index := 0.0

	// Temperature term peaks at 0 degC and fades linearly toward +-10.
	if h.TemperatureC >= -10 && h.TemperatureC <= 5 {
		c := (1 - math.Abs(h.TemperatureC)/10) * 40 * cfg.TempWeight
		index += c
		factors = append(factors, RiskFactor{
			Factor:       "temperature",
			Contribution: c,
			Description:  fmt.Sprintf("temperature %.1f degC is in the icing band near freezing", h.TemperatureC),
		})
	}

	if h.HumidityPct >= 80 {
		c := ((h.HumidityPct - 80) / 20) * 25 * cfg.HumidityWeight
		index += c
		factors = append(factors, RiskFactor{
			Factor:       "humidity",
			Contribution: c,
			Description:  fmt.Sprintf("relative humidity %.0f%% supports supercooled droplets", h.HumidityPct),
		})
	}

	if h.PrecipMmPerH >= 0.2 {
		c := math.Min(h.PrecipMmPerH/2, 1) * 20 * cfg.PrecipWeight
		index += c
		factors = append(factors, RiskFactor{
			Factor:       "precipitation",
			Contribution: c,
			Description:  fmt.Sprintf("precipitation %.1f mm/h can freeze on contact", h.PrecipMmPerH),
		})
	}

	if h.CloudLowPct > 50 && h.TemperatureC < 5 {
		c := (h.CloudLowPct / 100) * 15 * cfg.CloudWeight
		index += c
		factors = append(factors, RiskFactor{
			Factor:       "low_cloud",
			Contribution: c,
			Description:  fmt.Sprintf("low cloud cover %.0f%% in cold air", h.CloudLowPct),
		})
	}

	if h.FreezingLvlM < 500 && h.TemperatureC > -5 {
		index += 10
		factors = append(factors, RiskFactor{
			Factor:       "freezing_level",
			Contribution: 10,
			Description:  fmt.Sprintf("freezing level at %.0f m is within the operating band", h.FreezingLvlM),
		})
	}

	index = round1(index)
	level := icingLevel(index)

	return IcingHourRisk{
		Hour:      h.Hour,
		Index:     index,
		Level:     level,
		LevelText: riskLevelText(level),
		IcingType: classifyIcingType(h, level),
		Factors:   factors,
	}
}

func icingLevel(index float64) int {
	switch {
	case index >= 70:
		return 3
	case index >= 40:
		return 2
	case index >= 20:
		return 1
	default:
		return 0
	}
}

// icingTypeLadder is evaluated top to bottom, first match wins. The
// conditions are not mutually exclusive, so the order is load-bearing:
// clear ice is checked before rime, rime before mixed.
var icingTypeLadder = []struct {
	typ   IcingType
	match func(h HourRecord, level int) bool
}{
	{IcingClear, func(h HourRecord, _ int) bool {
		return h.PrecipMmPerH > 0 && h.TemperatureC > 0 && h.TemperatureC < 3
	}},
	{IcingRime, func(h HourRecord, _ int) bool {
		return h.TemperatureC < 0 && h.CloudLowPct > 60
	}},
	{IcingMixed, func(h HourRecord, level int) bool {
		return level >= 3 && h.PrecipMmPerH > 0 && h.TemperatureC < 0
	}},
}

// classifyIcingType names the expected ice form for hours at moderate risk
// or above; lower levels report no type.
func classifyIcingType(h HourRecord, level int) IcingType {
	if level < 2 {
		return IcingNone
	}
	for _, rule := range icingTypeLadder {
		if rule.match(h, level) {
			return rule.typ
		}
	}
	return IcingNone
}

// daySegments are the four fixed reporting bins for daily aggregation.
var daySegments = []struct {
	name       string
	start, end int // inclusive hours
}{
	{"night", 0, 5},
	{"morning", 6, 11},
	{"day", 12, 17},
	{"evening", 18, 23},
}

// AnalyzeIcing scores every hour, groups critical periods (level >= 2),
// bins hours into day segments, and aggregates statistics. The overall
// level is the worst hourly level in the series.
func AnalyzeIcing(hours []HourRecord, cfg IcingConfig) IcingAnalysis {
	hourRisks := make([]IcingHourRisk, 0, len(hours))
	for _, h := range hours {
		hourRisks = append(hourRisks, ScoreIcingHour(h, cfg))
	}

	items := make([]PeriodItem, len(hourRisks))
	for i, hr := range hourRisks {
		items[i] = PeriodItem{Hour: hr.Hour, Index: hr.Index, Level: hr.Level}
	}
	base := GroupPeriods(items, func(it PeriodItem) bool { return it.Level >= 2 })

	periods := make([]IcingPeriod, 0, len(base))
	for _, p := range base {
		periods = append(periods, IcingPeriod{
			CriticalPeriod:  p,
			PredominantType: predominantIcingType(hourRisks, p),
		})
	}

	stats := icingStats(hourRisks)
	overall := 0
	for _, hr := range hourRisks {
		if hr.Level > overall {
			overall = hr.Level
		}
	}

	return IcingAnalysis{
		Hours:     hourRisks,
		Periods:   periods,
		Segments:  icingSegments(hourRisks),
		Stats:     stats,
		Level:     overall,
		LevelText: riskLevelText(overall),
	}
}

// predominantIcingType returns the most frequent non-none ice form among a
// period's member hours; earlier-seen forms win ties.
func predominantIcingType(hours []IcingHourRisk, p CriticalPeriod) IcingType {
	counts := map[IcingType]int{}
	var order []IcingType
	for _, hr := range hours {
		if hr.Hour < p.StartHour || hr.Hour > p.EndHour || hr.IcingType == IcingNone {
			continue
		}
		if counts[hr.IcingType] == 0 {
			order = append(order, hr.IcingType)
		}
		counts[hr.IcingType]++
	}
	best := IcingNone
	bestCount := 0
	for _, typ := range order {
		if counts[typ] > bestCount {
			best = typ
			bestCount = counts[typ]
		}
	}
	return best
}

func icingStats(hours []IcingHourRisk) IcingStats {
	var s IcingStats
	if len(hours) == 0 {
		return s
	}
	sum := 0.0
	for _, hr := range hours {
		sum += hr.Index
		if hr.Index > s.MaxIndex {
			s.MaxIndex = hr.Index
		}
		switch {
		case hr.Level == 3:
			s.HighHours++
			s.ModerateHours++
		case hr.Level == 2:
			s.ModerateHours++
		case hr.Level == 1:
			s.LowHours++
		}
	}
	s.AvgIndex = round1(sum / float64(len(hours)))
	return s
}

// icingSegments bins hourly risks into the four fixed day segments. Each
// segment tier uses segment-local thresholds: more than 30% critical hours
// is tier 3, more than 40% high-risk hours tier 2, average index above 30
// tier 1.
func icingSegments(hours []IcingHourRisk) []SegmentRisk {
	segments := make([]SegmentRisk, 0, len(daySegments))
	for _, seg := range daySegments {
		var members []IcingHourRisk
		for _, hr := range hours {
			if hr.Hour >= seg.start && hr.Hour <= seg.end {
				members = append(members, hr)
			}
		}
		sr := SegmentRisk{Name: seg.name, StartHour: seg.start, EndHour: seg.end}
		if len(members) == 0 {
			segments = append(segments, sr)
			continue
		}

		sum := 0.0
		critical, highRisk := 0, 0
		for _, hr := range members {
			sum += hr.Index
			if hr.Index > sr.MaxIndex {
				sr.MaxIndex = hr.Index
			}
			if hr.Level == 3 {
				critical++
			}
			if hr.Level >= 2 {
				highRisk++
			}
		}
		sr.AvgIndex = round1(sum / float64(len(members)))

		n := float64(len(members))
		switch {
		case float64(critical) > 0.3*n:
			sr.Tier = 3
		case float64(highRisk) > 0.4*n:
			sr.Tier = 2
		case sr.AvgIndex > 30:
			sr.Tier = 1
		}
		segments = append(segments, sr)
	}
	return segments
}
