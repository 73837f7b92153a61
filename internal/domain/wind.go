package domain

import (
	"fmt"
	"math"
)

// Altitude identifies one of the three measured wind altitudes.
type Altitude int

const (
	Alt10M  Altitude = 10
	Alt80M  Altitude = 80
	Alt120M Altitude = 120
)

// windAltitudes lists the measured altitudes low to high.
var windAltitudes = []Altitude{Alt10M, Alt80M, Alt120M}

// altitudePairs are the differentials examined per hour, low altitude first.
var altitudePairs = [][2]Altitude{
	{Alt10M, Alt80M},
	{Alt10M, Alt120M},
	{Alt80M, Alt120M},
}

// WindShearHour is the shear judgement for one hour: the worst direction
// and speed differential across the three altitude pairs and the resulting
// level.
type WindShearHour struct {
	Hour         int     `json:"hour"`
	MaxDirDiff   float64 `json:"max_dir_diff_deg"`
	MaxSpeedDiff float64 `json:"max_speed_diff_ms"`
	Level        int     `json:"level"`
	LevelText    string  `json:"level_text"`
}

// AltitudeStats reports the speed and direction distribution at one
// altitude over the whole series, plus the stability index used to pick a
// cruise altitude.
type AltitudeStats struct {
	Altitude             Altitude `json:"altitude_m"`
	MeanSpeed            float64  `json:"mean_speed_ms"`
	MinSpeed             float64  `json:"min_speed_ms"`
	MaxSpeed             float64  `json:"max_speed_ms"`
	StdSpeed             float64  `json:"std_speed_ms"`
	MeanDir              float64  `json:"mean_dir_deg"`
	StdDir               float64  `json:"std_dir_deg"`
	Stability            float64  `json:"stability_index"`
	SpeedCeilingExceeded bool     `json:"speed_ceiling_exceeded"`
}

// WindStats aggregates the hourly shear judgements.
type WindStats struct {
	MaxDirDiff    float64 `json:"max_dir_diff_deg"`
	MaxSpeedDiff  float64 `json:"max_speed_diff_ms"`
	CriticalHours int     `json:"critical_hours"` // level == 3
	ElevatedHours int     `json:"elevated_hours"` // level >= 2
}

// WindAnalysis is the full wind scorer output.
type WindAnalysis struct {
	Hours             []WindShearHour  `json:"hours"`
	Periods           []CriticalPeriod `json:"critical_periods"`
	Altitudes         []AltitudeStats  `json:"altitudes"`
	RecommendedCruise Altitude         `json:"recommended_cruise_m"`
	Stats             WindStats        `json:"stats"`
	Score             int              `json:"score"`
	Category          string           `json:"category"` // low, moderate, high, critical
}

func speedAt(h HourRecord, alt Altitude) float64 {
	switch alt {
	case Alt80M:
		return h.WindSpeed80M
	case Alt120M:
		return h.WindSpeed120M
	default:
		return h.WindSpeed10M
	}
}

func dirAt(h HourRecord, alt Altitude) float64 {
	switch alt {
	case Alt80M:
		return h.WindDir80M
	case Alt120M:
		return h.WindDir120M
	default:
		return h.WindDir10M
	}
}

// ScoreWindShearHour computes the worst inter-altitude direction and speed
// differentials for one hour and maps them to a shear level.
func ScoreWindShearHour(h HourRecord) WindShearHour {
	var maxDir, maxSpeed float64
	for _, pair := range altitudePairs {
		dirDiff := math.Abs(dirAt(h, pair[0]) - dirAt(h, pair[1]))
		speedDiff := math.Abs(speedAt(h, pair[0]) - speedAt(h, pair[1]))
		if dirDiff > maxDir {
			maxDir = dirDiff
		}
		if speedDiff > maxSpeed {
			maxSpeed = speedDiff
		}
	}

	level := shearLevel(maxDir, maxSpeed)
	return WindShearHour{
		Hour:         h.Hour,
		MaxDirDiff:   round1(maxDir),
		MaxSpeedDiff: round1(maxSpeed),
		Level:        level,
		LevelText:    riskLevelText(level),
	}
}

func shearLevel(dirDiff, speedDiff float64) int {
	switch {
	case dirDiff > 40 || speedDiff > 6:
		return 3
	case dirDiff > 25 || speedDiff > 4:
		return 2
	case dirDiff > 15 || speedDiff > 2:
		return 1
	default:
		return 0
	}
}

// AnalyzeWind scores hourly shear, groups critical periods (level >= 2),
// computes per-altitude statistics and a recommended cruise altitude, and
// derives the overall wind risk score and category.
func AnalyzeWind(hours []HourRecord) WindAnalysis {
	hourRisks := make([]WindShearHour, 0, len(hours))
	for _, h := range hours {
		hourRisks = append(hourRisks, ScoreWindShearHour(h))
	}

	items := make([]PeriodItem, len(hourRisks))
	for i, hr := range hourRisks {
		// The shear index for grouping is the scaled worse of the two
		// differentials so period severity sorts like hourly severity.
		idx := math.Max(hr.MaxDirDiff, hr.MaxSpeedDiff*40/6)
		items[i] = PeriodItem{Hour: hr.Hour, Index: round1(idx), Level: hr.Level}
	}
	periods := GroupPeriods(items, func(it PeriodItem) bool { return it.Level >= 2 })

	altitudes := altitudeStatistics(hours)
	stats := windStatistics(hourRisks)
	score := windRiskScore(stats, periods)

	return WindAnalysis{
		Hours:             hourRisks,
		Periods:           periods,
		Altitudes:         altitudes,
		RecommendedCruise: recommendCruise(altitudes),
		Stats:             stats,
		Score:             score,
		Category:          windCategory(score),
	}
}

// altitudeStatistics computes mean/min/max/stddev of speed and direction
// per altitude plus the stability index
//
//	0.7 * 1/(1+cv(speed)) + 0.3 * 1/(1+0.1*cv(direction))
//
// where cv is the coefficient of variation. Higher is steadier.
func altitudeStatistics(hours []HourRecord) []AltitudeStats {
	stats := make([]AltitudeStats, 0, len(windAltitudes))
	for _, alt := range windAltitudes {
		speeds := make([]float64, 0, len(hours))
		dirs := make([]float64, 0, len(hours))
		for _, h := range hours {
			speeds = append(speeds, speedAt(h, alt))
			dirs = append(dirs, dirAt(h, alt))
		}

		meanS, stdS := meanStd(speeds)
		meanD, stdD := meanStd(dirs)
		as := AltitudeStats{
			Altitude:  alt,
			MeanSpeed: round1(meanS),
			MinSpeed:  round1(minOf(speeds)),
			MaxSpeed:  round1(maxOf(speeds)),
			StdSpeed:  round1(stdS),
			MeanDir:   round1(meanD),
			StdDir:    round1(stdD),
		}
		as.Stability = stabilityIndex(meanS, stdS, meanD, stdD)
		as.SpeedCeilingExceeded = ceilingExceeded(hours, alt)
		stats = append(stats, as)
	}
	return stats
}

func stabilityIndex(meanSpeed, stdSpeed, meanDir, stdDir float64) float64 {
	return math.Round((0.7*1/(1+cv(stdSpeed, meanSpeed))+0.3*1/(1+0.1*cv(stdDir, meanDir)))*1000) / 1000
}

// cv is the coefficient of variation; zero mean yields zero rather than
// dividing by zero.
func cv(std, mean float64) float64 {
	if mean == 0 {
		return 0
	}
	return std / mean
}

// ceilingExceeded reports whether any hour at the altitude breaks the
// cruise speed ceiling: speed above 15 m/s at any altitude, or gusts above
// 12 m/s specifically at 120 m.
func ceilingExceeded(hours []HourRecord, alt Altitude) bool {
	for _, h := range hours {
		if speedAt(h, alt) > 15 {
			return true
		}
		if alt == Alt120M && h.WindGustsMs > 12 {
			return true
		}
	}
	return false
}

// recommendCruise picks the altitude with the highest stability index,
// skipping altitudes that exceed the speed ceiling. When every altitude
// exceeds it, the lowest altitude is recommended as the least exposed.
func recommendCruise(altitudes []AltitudeStats) Altitude {
	best := Altitude(0)
	bestStability := -1.0
	for _, as := range altitudes {
		if as.SpeedCeilingExceeded {
			continue
		}
		if as.Stability > bestStability {
			best = as.Altitude
			bestStability = as.Stability
		}
	}
	if best == 0 {
		return Alt10M
	}
	return best
}

func windStatistics(hours []WindShearHour) WindStats {
	var s WindStats
	for _, hr := range hours {
		if hr.MaxDirDiff > s.MaxDirDiff {
			s.MaxDirDiff = hr.MaxDirDiff
		}
		if hr.MaxSpeedDiff > s.MaxSpeedDiff {
			s.MaxSpeedDiff = hr.MaxSpeedDiff
		}
		if hr.Level == 3 {
			s.CriticalHours++
		}
		if hr.Level >= 2 {
			s.ElevatedHours++
		}
	}
	return s
}

// windRiskScore is a weighted sum of bucketed shear statistics: worst
// direction differential (10/20/30 points past 20/30/40 degrees), worst
// speed differential (10/20/30 points past 2/4/6 m/s), critical-hour count
// (15 past zero, 30 past two), elevated-hour count (10 past three, 20 past
// six), and longest critical-period duration (5 past one hour, 15 past
// three).
func windRiskScore(stats WindStats, periods []CriticalPeriod) int {
	score := 0

	switch {
	case stats.MaxDirDiff > 40:
		score += 30
	case stats.MaxDirDiff > 30:
		score += 20
	case stats.MaxDirDiff > 20:
		score += 10
	}

	switch {
	case stats.MaxSpeedDiff > 6:
		score += 30
	case stats.MaxSpeedDiff > 4:
		score += 20
	case stats.MaxSpeedDiff > 2:
		score += 10
	}

	switch {
	case stats.CriticalHours > 2:
		score += 30
	case stats.CriticalHours > 0:
		score += 15
	}

	switch {
	case stats.ElevatedHours > 6:
		score += 20
	case stats.ElevatedHours > 3:
		score += 10
	}

	switch longest := maxDuration(periods); {
	case longest > 3:
		score += 15
	case longest > 1:
		score += 5
	}

	return score
}

func windCategory(score int) string {
	switch {
	case score >= 60:
		return "critical"
	case score >= 40:
		return "high"
	case score >= 25:
		return "moderate"
	default:
		return "low"
	}
}

// CruiseAdvisory renders the cruise recommendation for reporting.
func (w WindAnalysis) CruiseAdvisory() string {
	return fmt.Sprintf("most stable cruise altitude: %d m", int(w.RecommendedCruise))
}

func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
