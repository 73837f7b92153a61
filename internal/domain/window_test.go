package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calmDaylightHour(hour int) HourRecord {
	return HourRecord{
		Hour:          hour,
		TemperatureC:  15,
		HumidityPct:   50,
		VisibilityKm:  20,
		WindGustsMs:   5,
		WindSpeed120M: 0,
		FreezingLvlM:  3500,
	}
}

func fullDay(modify func(h *HourRecord)) []HourRecord {
	hours := make([]HourRecord, 24)
	for i := range hours {
		hours[i] = calmDaylightHour(i)
		if modify != nil {
			modify(&hours[i])
		}
	}
	return hours
}

var testDaily = DailySummary{Sunrise: "06:00", Sunset: "20:00"}

func TestCalculateSafetyWindow(t *testing.T) {
	route := RouteInfo{DistanceKm: 30}

	t.Run("calm day yields an optimal window inside daylight", func(t *testing.T) {
		w := CalculateSafetyWindow(fullDay(nil), nil, nil, testDaily, route, WindowConfig{RequireDaylight: true})

		assert.Equal(t, 6.75, w.DaylightStart)
		assert.Equal(t, 19.25, w.DaylightEnd)
		require.Len(t, w.SafePeriods, 1)
		assert.Equal(t, 7, w.SafePeriods[0].StartHour)
		assert.Equal(t, 19, w.SafePeriods[0].EndHour)
		assert.Equal(t, WindowOptimal, w.Status)
		assert.GreaterOrEqual(t, w.OptimalStart, float64(w.SafePeriods[0].StartHour))
	})

	t.Run("zero wind components give the still-air flight time", func(t *testing.T) {
		w := CalculateSafetyWindow(fullDay(nil), nil, nil, testDaily, route, WindowConfig{RequireDaylight: true})

		// 30 km at 69 km/h is about 26.1 minutes either way.
		assert.InDelta(t, 26.1, w.MinFlightTimeMin, 0.05)
		assert.Equal(t, w.MinFlightTimeMin, w.MaxFlightTimeMin)
		assert.Equal(t, w.MinFlightTimeMin, w.AvgFlightTimeMin)
	})

	t.Run("tailwind and headwind components use the same approximation", func(t *testing.T) {
		hours := fullDay(func(h *HourRecord) { h.WindSpeed120M = 10 })
		w := CalculateSafetyWindow(hours, nil, nil, testDaily, route, WindowConfig{RequireDaylight: true})

		// component = 10*0.8 = 8 km/h equivalent in both directions.
		assert.InDelta(t, 30.0/(69+8)*60, w.MinFlightTimeMin, 0.05)
		assert.InDelta(t, 30.0/(69-8)*60, w.MaxFlightTimeMin, 0.05)
		assert.Less(t, w.MinFlightTimeMin, w.MaxFlightTimeMin)
	})

	t.Run("ground speed floored at 30 km/h under strong headwind", func(t *testing.T) {
		hours := fullDay(func(h *HourRecord) { h.WindSpeed120M = 80 })
		w := CalculateSafetyWindow(hours, nil, nil, testDaily, route, WindowConfig{RequireDaylight: true})

		assert.InDelta(t, 30.0/30*60, w.MaxFlightTimeMin, 0.05)
	})

	t.Run("no safe hours returns the defined sentinel", func(t *testing.T) {
		hours := fullDay(func(h *HourRecord) { h.WindGustsMs = 30 })
		w := CalculateSafetyWindow(hours, nil, nil, testDaily, route, WindowConfig{RequireDaylight: true})

		assert.Equal(t, WindowCritical, w.Status)
		assert.Empty(t, w.SafePeriods)
		assert.Zero(t, w.OptimalStart)
	})

	t.Run("empty series returns the sentinel", func(t *testing.T) {
		w := CalculateSafetyWindow(nil, nil, nil, testDaily, route, WindowConfig{})
		assert.Equal(t, WindowCritical, w.Status)
		assert.Empty(t, w.SafePeriods)
	})

	t.Run("gusts above the ceiling exclude the hour", func(t *testing.T) {
		hours := fullDay(nil)
		hours[12].WindGustsMs = 16

		w := CalculateSafetyWindow(hours, nil, nil, testDaily, route, WindowConfig{RequireDaylight: true})
		require.Len(t, w.SafePeriods, 2)
		assert.Equal(t, 11, w.SafePeriods[0].EndHour)
		assert.Equal(t, 13, w.SafePeriods[1].StartHour)
	})

	t.Run("icing level above the limit excludes the hour", func(t *testing.T) {
		hours := fullDay(nil)
		icing := make([]IcingHourRisk, 24)
		for i := range icing {
			icing[i] = IcingHourRisk{Hour: i}
		}
		icing[10].Level = 3

		w := CalculateSafetyWindow(hours, icing, nil, testDaily, route, WindowConfig{RequireDaylight: true})
		require.Len(t, w.SafePeriods, 2)
		assert.Equal(t, 9, w.SafePeriods[0].EndHour)
	})

	t.Run("shear level 2 excludes the hour", func(t *testing.T) {
		hours := fullDay(nil)
		shear := make([]WindShearHour, 24)
		for i := range shear {
			shear[i] = WindShearHour{Hour: i}
		}
		shear[15].Level = 2

		w := CalculateSafetyWindow(hours, nil, shear, testDaily, route, WindowConfig{RequireDaylight: true})
		require.Len(t, w.SafePeriods, 2)
	})

	t.Run("cape above the limit excludes the hour", func(t *testing.T) {
		hours := fullDay(nil)
		hours[14].CapeJPerKg = 2000

		w := CalculateSafetyWindow(hours, nil, nil, testDaily, route, WindowConfig{RequireDaylight: true})
		require.Len(t, w.SafePeriods, 2)
	})

	t.Run("daylight not required admits night hours", func(t *testing.T) {
		w := CalculateSafetyWindow(fullDay(nil), nil, nil, testDaily, route, WindowConfig{RequireDaylight: false})
		require.Len(t, w.SafePeriods, 1)
		assert.Equal(t, 0, w.SafePeriods[0].StartHour)
		assert.Equal(t, 23, w.SafePeriods[0].EndHour)
	})

	t.Run("short safe window warns", func(t *testing.T) {
		hours := fullDay(func(h *HourRecord) {
			if h.Hour < 12 || h.Hour > 13 {
				h.WindGustsMs = 30
			}
		})
		w := CalculateSafetyWindow(hours, nil, nil, testDaily, route, WindowConfig{RequireDaylight: true})

		assert.Equal(t, WindowWarning, w.Status)
		assert.Contains(t, w.StatusReason, "shorter than 3 hours")
	})

	t.Run("route that consumes the daylight is critical", func(t *testing.T) {
		longRoute := RouteInfo{DistanceKm: 900}
		hours := fullDay(func(h *HourRecord) { h.WindSpeed120M = 30 })

		w := CalculateSafetyWindow(hours, nil, nil, testDaily, longRoute, WindowConfig{RequireDaylight: true})
		assert.Equal(t, WindowCritical, w.Status)
		assert.Contains(t, w.StatusReason, "95%")
	})
}

func TestOptimalStart(t *testing.T) {
	t.Run("midpoint of the period", func(t *testing.T) {
		p := CriticalPeriod{StartHour: 8, EndHour: 16}
		assert.Equal(t, 12.0, optimalStart(p, 30))
	})

	t.Run("pulled back to leave the flight buffer", func(t *testing.T) {
		p := CriticalPeriod{StartHour: 12, EndHour: 13}
		// Midpoint 12.5, but a 2h buffer must fit before 14:00.
		assert.Equal(t, 12.0, optimalStart(p, 120))
	})

	t.Run("never before the period start", func(t *testing.T) {
		p := CriticalPeriod{StartHour: 12, EndHour: 12}
		start := optimalStart(p, 240) // 4h flight cannot fit; clamp to start
		assert.Equal(t, 12.0, start)
	})
}

func TestThermalAdjust(t *testing.T) {
	sunrise := 6.0
	dayStart, dayEnd := 6.75, 19.25

	gustyMorning := fullDay(func(h *HourRecord) {
		if h.Hour >= 8 && h.Hour <= 11 {
			h.WindGustsMs = 10
		}
	})

	t.Run("start inside gusty thermal window shifts", func(t *testing.T) {
		// Thermal window is [08:00, 11:00]; start 9.5 is inside it.
		adjusted, shifted := thermalAdjust(9.5, sunrise, dayStart, dayEnd, gustyMorning)
		assert.True(t, shifted)
		assert.Equal(t, 8.0, adjusted) // just before the window, inside daylight
	})

	t.Run("calm thermal window leaves the start alone", func(t *testing.T) {
		adjusted, shifted := thermalAdjust(9.5, sunrise, dayStart, dayEnd, fullDay(nil))
		assert.False(t, shifted)
		assert.Equal(t, 9.5, adjusted)
	})

	t.Run("start outside the window is untouched", func(t *testing.T) {
		adjusted, shifted := thermalAdjust(13, sunrise, dayStart, dayEnd, gustyMorning)
		assert.False(t, shifted)
		assert.Equal(t, 13.0, adjusted)
	})

	t.Run("shifts after the window when before would be night", func(t *testing.T) {
		// Sunrise 5:00 puts the thermal window at [07:00, 10:00], but a late
		// daylight start of 7.5 makes "before the window" unusable.
		hours := fullDay(func(h *HourRecord) {
			if h.Hour >= 7 && h.Hour <= 10 {
				h.WindGustsMs = 10
			}
		})
		adjusted, shifted := thermalAdjust(8, 5.0, 7.5, 19, hours)
		assert.True(t, shifted)
		assert.Equal(t, 10.0, adjusted)
	})
}

func TestWindowConfigNormalize(t *testing.T) {
	t.Run("zero values filled with defaults", func(t *testing.T) {
		cfg := WindowConfig{}.Normalize()
		assert.Equal(t, DefaultWindowConfig().MaxWindSpeed, cfg.MaxWindSpeed)
		assert.Equal(t, DefaultWindowConfig().MaxCape, cfg.MaxCape)
		assert.False(t, cfg.RequireDaylight)
	})

	t.Run("explicit values kept", func(t *testing.T) {
		cfg := WindowConfig{MaxWindSpeed: 12, MinVisibility: 5, MaxIcingRisk: 1, MaxCape: 800}.Normalize()
		assert.Equal(t, 12.0, cfg.MaxWindSpeed)
		assert.Equal(t, 5.0, cfg.MinVisibility)
		assert.Equal(t, 1, cfg.MaxIcingRisk)
		assert.Equal(t, 800.0, cfg.MaxCape)
	})
}
