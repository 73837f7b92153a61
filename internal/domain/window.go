package domain

import "math"

// WindowConfig holds the safety thresholds for takeoff-window selection.
// All fields are overridable by the caller; zero-value fields are replaced
// with defaults by Normalize.
type WindowConfig struct {
	MaxWindSpeed    float64 `json:"max_wind_speed" koanf:"max_wind_speed"`    // gust ceiling, m/s
	MinVisibility   float64 `json:"min_visibility" koanf:"min_visibility"`    // km
	MaxIcingRisk    int     `json:"max_icing_risk" koanf:"max_icing_risk"`    // worst tolerable icing level
	MaxCape         float64 `json:"max_cape" koanf:"max_cape"`                // J/kg
	RequireDaylight bool    `json:"require_daylight" koanf:"require_daylight"`
}

// DefaultWindowConfig returns the operational safety thresholds.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		MaxWindSpeed:    15,
		MinVisibility:   3,
		MaxIcingRisk:    2,
		MaxCape:         1500,
		RequireDaylight: true,
	}
}

// Normalize fills unset numeric thresholds with the operational defaults.
// RequireDaylight is a plain bool and stays as given.
func (c WindowConfig) Normalize() WindowConfig {
	def := DefaultWindowConfig()
	if c.MaxWindSpeed <= 0 {
		c.MaxWindSpeed = def.MaxWindSpeed
	}
	if c.MinVisibility <= 0 {
		c.MinVisibility = def.MinVisibility
	}
	if c.MaxIcingRisk <= 0 {
		c.MaxIcingRisk = def.MaxIcingRisk
	}
	if c.MaxCape <= 0 {
		c.MaxCape = def.MaxCape
	}
	return c
}

// RouteInfo describes the planned flight for window calculation.
type RouteInfo struct {
	DistanceKm     float64 `json:"distance_km"`
	CruiseSpeedKmh float64 `json:"cruise_speed_kmh"` // defaults to 69 km/h
}

// DefaultCruiseSpeedKmh is the platform's constant cruise speed.
const DefaultCruiseSpeedKmh = 69

// daylightMarginH trims takeoff away from civil twilight at both ends.
const daylightMarginH = 0.75

// WindowStatus grades the usability of the selected window.
type WindowStatus string

const (
	WindowOptimal  WindowStatus = "optimal"
	WindowWarning  WindowStatus = "warning"
	WindowCritical WindowStatus = "critical"
)

// SafetyWindow is the takeoff-window judgement for one day.
type SafetyWindow struct {
	DaylightStart float64          `json:"daylight_start_h"` // fractional hour
	DaylightEnd   float64          `json:"daylight_end_h"`
	SafePeriods   []CriticalPeriod `json:"safe_periods"`
	OptimalStart  float64          `json:"optimal_start_h"`
	AdjustedStart float64          `json:"adjusted_start_h"`
	ThermalShift  bool             `json:"thermal_adjusted"`
	Status        WindowStatus     `json:"status"`
	StatusReason  string           `json:"status_reason"`

	MinFlightTimeMin float64 `json:"min_flight_time_min"`
	MaxFlightTimeMin float64 `json:"max_flight_time_min"`
	AvgFlightTimeMin float64 `json:"avg_flight_time_min"`
}

// noSafeWindow is the defined terminal state when zero hours satisfy the
// safety predicate. Not an error.
func noSafeWindow(dayStart, dayEnd float64) SafetyWindow {
	return SafetyWindow{
		DaylightStart: dayStart,
		DaylightEnd:   dayEnd,
		SafePeriods:   []CriticalPeriod{},
		Status:        WindowCritical,
		StatusReason:  "no safe flight window in the forecast period",
	}
}

// CalculateSafetyWindow intersects daylight with the per-hour safety
// predicate, groups safe hours into periods, estimates route flight time
// under the forecast wind, and picks an optimal start time with a thermal
// turbulence adjustment.
//
// icing and shear must be the scorers' hourly outputs for the same series,
// index-aligned with hours.
func CalculateSafetyWindow(
	hours []HourRecord,
	icing []IcingHourRisk,
	shear []WindShearHour,
	daily DailySummary,
	route RouteInfo,
	cfg WindowConfig,
) SafetyWindow {
	cfg = cfg.Normalize()
	if route.CruiseSpeedKmh <= 0 {
		route.CruiseSpeedKmh = DefaultCruiseSpeedKmh
	}

	sunrise, okRise := ParseClockTime(daily.Sunrise)
	sunset, okSet := ParseClockTime(daily.Sunset)
	if !okRise || !okSet {
		// Without a daylight reference the whole day counts as daylight;
		// the thermal window needs sunrise, so it is skipped.
		sunrise, sunset = 0, 24
	}
	dayStart := sunrise + daylightMarginH
	dayEnd := sunset - daylightMarginH

	if len(hours) == 0 {
		return noSafeWindow(dayStart, dayEnd)
	}

	safe := make([]bool, len(hours))
	items := make([]PeriodItem, len(hours))
	for i, h := range hours {
		safe[i] = hourIsSafe(h, riskLevelAt(icing, i), shearLevelAt(shear, i), dayStart, dayEnd, cfg)
		level := 0
		if safe[i] {
			level = 1
		}
		items[i] = PeriodItem{Hour: h.Hour, Index: 0, Level: level}
	}

	// Same grouper as the hazard scorers, predicate inverted: runs of safe
	// hours instead of runs of critical ones.
	safePeriods := GroupPeriods(items, func(it PeriodItem) bool { return it.Level >= 1 })
	if len(safePeriods) == 0 {
		return noSafeWindow(dayStart, dayEnd)
	}

	w := SafetyWindow{
		DaylightStart: dayStart,
		DaylightEnd:   dayEnd,
		SafePeriods:   safePeriods,
	}

	w.MinFlightTimeMin, w.MaxFlightTimeMin = flightTimeBounds(hours, safe, route)
	w.AvgFlightTimeMin = round1((w.MinFlightTimeMin + w.MaxFlightTimeMin) / 2)

	longest := longestPeriod(safePeriods)
	w.OptimalStart = optimalStart(longest, w.MaxFlightTimeMin)
	w.AdjustedStart = w.OptimalStart

	if okRise {
		w.AdjustedStart, w.ThermalShift = thermalAdjust(w.OptimalStart, sunrise, dayStart, dayEnd, hours)
	}

	w.Status, w.StatusReason = windowStatus(w, dayEnd-dayStart)
	return w
}

func riskLevelAt(icing []IcingHourRisk, i int) int {
	if i >= len(icing) {
		return 0
	}
	return icing[i].Level
}

func shearLevelAt(shear []WindShearHour, i int) int {
	if i >= len(shear) {
		return 0
	}
	return shear[i].Level
}

// hourIsSafe applies the full safety predicate for one hour: inside
// daylight (when required), gusts, visibility, icing, convective energy,
// and wind-shear all within limits.
func hourIsSafe(h HourRecord, icingLevel, shearLevel int, dayStart, dayEnd float64, cfg WindowConfig) bool {
	if cfg.RequireDaylight {
		hr := float64(h.Hour)
		if hr < dayStart || hr > dayEnd {
			return false
		}
	}
	return h.WindGustsMs <= cfg.MaxWindSpeed &&
		h.VisibilityKm >= cfg.MinVisibility &&
		icingLevel <= cfg.MaxIcingRisk &&
		h.CapeJPerKg <= cfg.MaxCape &&
		shearLevel < 2
}

// flightTimeBounds estimates the route flight time in minutes under
// tailwind (best case) and headwind (worst case). Both wind components use
// the same approximation, avg(max(0, windSpeed120m*0.8)) over safe hours;
// the asymmetry between the two bounds comes only from the direction of
// the correction and the 30 km/h ground-speed floor. This mirrors the
// operational model as fielded.
func flightTimeBounds(hours []HourRecord, safe []bool, route RouteInfo) (minTime, maxTime float64) {
	sum, count := 0.0, 0
	for i, h := range hours {
		if !safe[i] {
			continue
		}
		sum += math.Max(0, h.WindSpeed120M*0.8)
		count++
	}
	component := 0.0
	if count > 0 {
		component = sum / float64(count)
	}

	tailwind := component
	headwind := component

	minTime = round1(route.DistanceKm / (route.CruiseSpeedKmh + tailwind) * 60)
	maxTime = round1(route.DistanceKm / math.Max(route.CruiseSpeedKmh-headwind, 30) * 60)
	return minTime, maxTime
}

// longestPeriod returns the longest safe period; ties go to the earliest.
func longestPeriod(periods []CriticalPeriod) CriticalPeriod {
	best := periods[0]
	for _, p := range periods[1:] {
		if p.Duration > best.Duration {
			best = p
		}
	}
	return best
}

// optimalStart places takeoff at the midpoint of the longest safe period,
// then pulls it back so that a buffer of max(maxFlightTime, 1h) still fits
// before the period closes, clamped to the period start.
func optimalStart(p CriticalPeriod, maxFlightTimeMin float64) float64 {
	mid := float64(p.StartHour+p.EndHour) / 2
	buffer := math.Max(maxFlightTimeMin/60, 1)
	latest := float64(p.EndHour) + 1 - buffer
	if mid > latest {
		mid = latest
	}
	return math.Max(mid, float64(p.StartHour))
}

// thermalAdjust shifts a start that falls inside the thermal turbulence
// window [sunrise+2h, sunrise+5h] when any hour in that window gusts above
// 8 m/s: to just before the window when that still sits inside daylight,
// otherwise to just after it.
func thermalAdjust(start, sunrise, dayStart, dayEnd float64, hours []HourRecord) (adjusted float64, shifted bool) {
	thermalStart := sunrise + 2
	thermalEnd := sunrise + 5

	if start < thermalStart || start > thermalEnd {
		return start, false
	}

	gusty := false
	for _, h := range hours {
		hr := float64(h.Hour)
		if hr >= thermalStart && hr <= thermalEnd && h.WindGustsMs > 8 {
			gusty = true
			break
		}
	}
	if !gusty {
		return start, false
	}

	if thermalStart >= dayStart {
		return thermalStart, true
	}
	return math.Min(thermalEnd, dayEnd), true
}

// windowStatusLadder is evaluated top to bottom, first match wins; the
// precedence order is part of the contract.
func windowStatus(w SafetyWindow, daylightHours float64) (WindowStatus, string) {
	flightHours := w.MaxFlightTimeMin / 60
	safeHours := totalDuration(w.SafePeriods)

	ladder := []struct {
		match  bool
		status WindowStatus
		reason string
	}{
		{daylightHours > 0 && flightHours > 0.95*daylightHours, WindowCritical, "route flight time exceeds 95% of available daylight"},
		{daylightHours > 0 && flightHours > 0.8*daylightHours, WindowWarning, "route flight time exceeds 80% of available daylight"},
		{w.ThermalShift, WindowWarning, "takeoff shifted to avoid morning thermal turbulence"},
		{safeHours < 3, WindowWarning, "total safe window shorter than 3 hours"},
	}
	for _, rung := range ladder {
		if rung.match {
			return rung.status, rung.reason
		}
	}
	return WindowOptimal, "safe window covers the planned flight comfortably"
}
