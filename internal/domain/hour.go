package domain

import (
	"math"
	"strconv"
	"strings"
)

// RawHour mirrors one hour of the Open-Meteo hourly forecast response.
// Field names match the provider's JSON keys; absent fields decode to zero.
type RawHour struct {
	Time               string  `json:"time"` // ISO 8601, e.g. "2026-05-14T13:00"
	Temperature2M      float64 `json:"temperature_2m"`
	DewPoint2M         float64 `json:"dew_point_2m"`
	RelativeHumidity2M float64 `json:"relative_humidity_2m"`
	Precipitation      float64 `json:"precipitation"`
	CloudCover         float64 `json:"cloud_cover"`
	CloudCoverLow      float64 `json:"cloud_cover_low"`
	FreezingLevel      float64 `json:"freezing_level_height"`
	WindSpeed10M       float64 `json:"wind_speed_10m"`
	WindSpeed80M       float64 `json:"wind_speed_80m"`
	WindSpeed120M      float64 `json:"wind_speed_120m"`
	WindDir10M         float64 `json:"wind_direction_10m"`
	WindDir80M         float64 `json:"wind_direction_80m"`
	WindDir120M        float64 `json:"wind_direction_120m"`
	WindGusts10M       float64 `json:"wind_gusts_10m"`
	Visibility         float64 `json:"visibility"` // meters, per provider convention
	CAPE               float64 `json:"cape"`
}

// HourRecord is the canonical per-hour forecast record the scorers consume.
// Immutable once produced by NormalizeHours; lifetime is one assessment run.
type HourRecord struct {
	Hour          int     `json:"hour"` // 0..23
	TemperatureC  float64 `json:"temperature_c"`
	DewpointC     float64 `json:"dewpoint_c"`
	HumidityPct   float64 `json:"humidity_pct"`
	PrecipMmPerH  float64 `json:"precipitation_mm_h"`
	CloudCoverPct float64 `json:"cloud_cover_pct"`
	CloudLowPct   float64 `json:"cloud_cover_low_pct"`
	FreezingLvlM  float64 `json:"freezing_level_m"`
	WindSpeed10M  float64 `json:"wind_speed_10m"` // m/s
	WindSpeed80M  float64 `json:"wind_speed_80m"`
	WindSpeed120M float64 `json:"wind_speed_120m"`
	WindDir10M    float64 `json:"wind_dir_10m"` // degrees, [0,360)
	WindDir80M    float64 `json:"wind_dir_80m"`
	WindDir120M   float64 `json:"wind_dir_120m"`
	WindGustsMs   float64 `json:"wind_gusts_ms"`
	VisibilityKm  float64 `json:"visibility_km"`
	CapeJPerKg    float64 `json:"cape_j_kg"`
}

// NormalizeHours derives canonical hour records from raw provider rows.
// Percentages are clamped to [0,100], wind directions wrapped to [0,360),
// magnitudes floored at zero, wind speeds converted km/h -> m/s and
// visibility meters -> km. The hour number comes from the row's ISO time
// string when parseable, otherwise from the row's position in the slice.
func NormalizeHours(raws []RawHour) []HourRecord {
	hours := make([]HourRecord, 0, len(raws))
	for i, raw := range raws {
		hours = append(hours, normalizeHour(raw, i))
	}
	return hours
}

func normalizeHour(raw RawHour, position int) HourRecord {
	return HourRecord{
		Hour:          parseHourOr(raw.Time, position%24),
		TemperatureC:  raw.Temperature2M,
		DewpointC:     raw.DewPoint2M,
		HumidityPct:   clampPct(raw.RelativeHumidity2M),
		PrecipMmPerH:  nonNegative(raw.Precipitation),
		CloudCoverPct: clampPct(raw.CloudCover),
		CloudLowPct:   clampPct(raw.CloudCoverLow),
		FreezingLvlM:  nonNegative(raw.FreezingLevel),
		WindSpeed10M:  kmhToMs(raw.WindSpeed10M),
		WindSpeed80M:  kmhToMs(raw.WindSpeed80M),
		WindSpeed120M: kmhToMs(raw.WindSpeed120M),
		WindDir10M:    wrapDegrees(raw.WindDir10M),
		WindDir80M:    wrapDegrees(raw.WindDir80M),
		WindDir120M:   wrapDegrees(raw.WindDir120M),
		WindGustsMs:   kmhToMs(raw.WindGusts10M),
		VisibilityKm:  nonNegative(raw.Visibility) / 1000,
		CapeJPerKg:    nonNegative(raw.CAPE),
	}
}

// parseHourOr extracts the hour from an ISO 8601 timestamp like
// "2026-05-14T13:00". Falls back to the given default when the string is
// missing or malformed.
func parseHourOr(isoTime string, fallback int) int {
	idx := strings.IndexByte(isoTime, 'T')
	if idx < 0 || len(isoTime) < idx+3 {
		return fallback
	}
	h, err := strconv.Atoi(isoTime[idx+1 : idx+3])
	if err != nil || h < 0 || h > 23 {
		return fallback
	}
	return h
}

// ParseClockTime converts an "HH:MM" 24-hour string to a fractional hour,
// e.g. "06:45" -> 6.75. Returns 0 and false when the string is malformed.
func ParseClockTime(hhmm string) (float64, bool) {
	hhmm = strings.TrimSpace(hhmm)
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return float64(h) + float64(m)/60, true
}

func clampPct(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

func nonNegative(v float64) float64 {
	return math.Max(0, v)
}

func wrapDegrees(v float64) float64 {
	v = math.Mod(v, 360)
	if v < 0 {
		v += 360
	}
	return v
}

// kmhToMs converts a provider wind speed (km/h) to m/s, floored at zero.
func kmhToMs(v float64) float64 {
	return nonNegative(v) / 3.6
}

// round1 rounds to one decimal place; scorer indexes are reported at this
// precision.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
