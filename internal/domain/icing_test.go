package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreIcingHour(t *testing.T) {
	cfg := DefaultIcingConfig()

	t.Run("near-freezing humid precipitating hour", func(t *testing.T) {
		// 40*0.4 + (10/20)*25*0.25 + min(0.5,1)*20*0.2 + 0.7*15*0.15 + 10 = 32.7
		h := HourRecord{
			Hour:         9,
			TemperatureC: 0,
			HumidityPct:  90,
			PrecipMmPerH: 1,
			CloudLowPct:  70,
			FreezingLvlM: 300,
		}

		risk := ScoreIcingHour(h, cfg)

		assert.Equal(t, 32.7, risk.Index)
		assert.Equal(t, 1, risk.Level)
		assert.Equal(t, "low", risk.LevelText)
		assert.Len(t, risk.Factors, 5)
	})

	t.Run("warm dry hour scores zero", func(t *testing.T) {
		h := HourRecord{TemperatureC: 20, HumidityPct: 40, FreezingLvlM: 3500}
		risk := ScoreIcingHour(h, cfg)

		assert.Equal(t, 0.0, risk.Index)
		assert.Equal(t, 0, risk.Level)
		assert.Empty(t, risk.Factors)
	})

	t.Run("temperature gate boundaries", func(t *testing.T) {
		inBand := ScoreIcingHour(HourRecord{TemperatureC: 5, FreezingLvlM: 3000}, cfg)
		assert.Equal(t, 8.0, inBand.Index) // (1-0.5)*40*0.4

		outBand := ScoreIcingHour(HourRecord{TemperatureC: 5.1, FreezingLvlM: 3000}, cfg)
		assert.Equal(t, 0.0, outBand.Index)
	})

	t.Run("index decreases as temperature moves away from zero", func(t *testing.T) {
		base := HourRecord{HumidityPct: 85, FreezingLvlM: 3000}
		prev := 1e9
		for _, temp := range []float64{0, 1, 2, 3, 4, 5} {
			h := base
			h.TemperatureC = temp
			idx := ScoreIcingHour(h, cfg).Index
			assert.LessOrEqual(t, idx, prev, "index must not increase at %.0f degC", temp)
			prev = idx
		}
	})

	t.Run("freezing level bonus requires both gates", func(t *testing.T) {
		// -4 degC, low freezing level: temp term 9.6 plus flat bonus 10.
		with := ScoreIcingHour(HourRecord{TemperatureC: -4, FreezingLvlM: 400}, cfg)
		assert.InDelta(t, 19.6, with.Index, 1e-9)

		// -6 degC is below the bonus gate: temp term 6.4 only.
		without := ScoreIcingHour(HourRecord{TemperatureC: -6, FreezingLvlM: 400}, cfg)
		assert.InDelta(t, 6.4, without.Index, 1e-9)
	})

	t.Run("precipitation term saturates at 2 mm/h", func(t *testing.T) {
		at2 := ScoreIcingHour(HourRecord{TemperatureC: 20, PrecipMmPerH: 2, FreezingLvlM: 3000}, cfg)
		at5 := ScoreIcingHour(HourRecord{TemperatureC: 20, PrecipMmPerH: 5, FreezingLvlM: 3000}, cfg)
		assert.Equal(t, at2.Index, at5.Index)
		assert.InDelta(t, 4.0, at2.Index, 1e-9) // 1*20*0.2
	})
}

func TestClassifyIcingType(t *testing.T) {
	tests := []struct {
		name  string
		h     HourRecord
		level int
		want  IcingType
	}{
		{"below moderate has no type", HourRecord{TemperatureC: 1, PrecipMmPerH: 1}, 1, IcingNone},
		{"clear ice wins first", HourRecord{TemperatureC: 1.5, PrecipMmPerH: 0.5}, 2, IcingClear},
		{"rime in cold cloud", HourRecord{TemperatureC: -3, CloudLowPct: 70}, 2, IcingRime},
		// Rime's condition also matches here; order makes rime win over mixed.
		{"rime beats mixed when both match", HourRecord{TemperatureC: -3, CloudLowPct: 70, PrecipMmPerH: 1}, 3, IcingRime},
		{"mixed needs high level and cold precipitation", HourRecord{TemperatureC: -3, CloudLowPct: 40, PrecipMmPerH: 1}, 3, IcingMixed},
		{"mixed refused at moderate level", HourRecord{TemperatureC: -3, CloudLowPct: 40, PrecipMmPerH: 1}, 2, IcingNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifyIcingType(tc.h, tc.level))
		})
	}
}

func TestAnalyzeIcing(t *testing.T) {
	cfg := DefaultIcingConfig()

	// Hours 10-12 icing-prone, 13 benign, 14 icing-prone again. With the
	// default weights the worst single hour scores 38.3, short of the
	// moderate threshold at 40, so no critical periods form.
	icy := HourRecord{TemperatureC: 0, HumidityPct: 100, PrecipMmPerH: 2, CloudLowPct: 90, FreezingLvlM: 200}
	benign := HourRecord{TemperatureC: 18, HumidityPct: 30, FreezingLvlM: 3800}

	hours := []HourRecord{}
	for h := 10; h <= 12; h++ {
		rec := icy
		rec.Hour = h
		hours = append(hours, rec)
	}
	b := benign
	b.Hour = 13
	hours = append(hours, b)
	rec := icy
	rec.Hour = 14
	hours = append(hours, rec)

	analysis := AnalyzeIcing(hours, cfg)

	t.Run("default weights stay below the critical threshold", func(t *testing.T) {
		assert.Empty(t, analysis.Periods)
		assert.Equal(t, 38.3, analysis.Stats.MaxIndex)
		assert.Equal(t, 4, analysis.Stats.LowHours)
		assert.Equal(t, 0, analysis.Stats.ModerateHours)
	})

	t.Run("overall level is the worst hourly level", func(t *testing.T) {
		worst := 0
		for _, hr := range analysis.Hours {
			if hr.Level > worst {
				worst = hr.Level
			}
		}
		assert.Equal(t, worst, analysis.Level)
		assert.Equal(t, 1, analysis.Level)
		assert.Equal(t, "low", analysis.LevelText)
	})

	t.Run("always reports four segments", func(t *testing.T) {
		require.Len(t, analysis.Segments, 4)
		assert.Equal(t, "night", analysis.Segments[0].Name)
		assert.Equal(t, "morning", analysis.Segments[1].Name)
		assert.Equal(t, "day", analysis.Segments[2].Name)
		assert.Equal(t, "evening", analysis.Segments[3].Name)
	})

	t.Run("empty segments stay tier 0", func(t *testing.T) {
		assert.Equal(t, 0, analysis.Segments[0].Tier)
		assert.Equal(t, 0.0, analysis.Segments[0].AvgIndex)
		assert.Greater(t, analysis.Segments[2].AvgIndex, 0.0)
	})
}

func TestAnalyzeIcingWeightOverrides(t *testing.T) {
	// Unit weights lift a subfreezing saturated hour to 104.5, well past
	// both level thresholds; this is the what-if path that exercises
	// period grouping, predominant type, and the stats counters.
	cfg := IcingConfig{TempWeight: 1, HumidityWeight: 1, PrecipWeight: 1, CloudWeight: 1}

	rimey := HourRecord{TemperatureC: -1, HumidityPct: 100, PrecipMmPerH: 2, CloudLowPct: 90, FreezingLvlM: 200}
	benign := HourRecord{TemperatureC: 18, HumidityPct: 30, FreezingLvlM: 3800}

	hours := []HourRecord{}
	for h := 10; h <= 12; h++ {
		rec := rimey
		rec.Hour = h
		hours = append(hours, rec)
	}
	b := benign
	b.Hour = 13
	hours = append(hours, b)
	rec := rimey
	rec.Hour = 14
	hours = append(hours, rec)

	analysis := AnalyzeIcing(hours, cfg)

	t.Run("groups the two critical periods", func(t *testing.T) {
		require.Len(t, analysis.Periods, 2)
		assert.Equal(t, 10, analysis.Periods[0].StartHour)
		assert.Equal(t, 12, analysis.Periods[0].EndHour)
		assert.Equal(t, 3, analysis.Periods[0].Duration)
		assert.Equal(t, IcingRime, analysis.Periods[0].PredominantType)
		assert.Equal(t, 14, analysis.Periods[1].StartHour)
		assert.Equal(t, 1, analysis.Periods[1].Duration)
	})

	t.Run("stats count levels", func(t *testing.T) {
		assert.Equal(t, 104.5, analysis.Stats.MaxIndex)
		assert.Equal(t, 4, analysis.Stats.ModerateHours)
		assert.Equal(t, 4, analysis.Stats.HighHours)
		assert.Equal(t, 0, analysis.Stats.LowHours)
	})

	t.Run("overall level follows the worst hour", func(t *testing.T) {
		assert.Equal(t, 3, analysis.Level)
		assert.Equal(t, "high", analysis.LevelText)
	})

	t.Run("segments with mostly critical hours reach tier 3", func(t *testing.T) {
		require.Len(t, analysis.Segments, 4)
		assert.Equal(t, 3, analysis.Segments[1].Tier) // morning: hours 10-11 both critical
		assert.Equal(t, 3, analysis.Segments[2].Tier) // day: 2 of 3 critical
	})
}

func TestIcingStatsCountsLevels(t *testing.T) {
	hours := []IcingHourRisk{
		{Hour: 0, Index: 75, Level: 3},
		{Hour: 1, Index: 50, Level: 2},
		{Hour: 2, Index: 25, Level: 1},
		{Hour: 3, Index: 5, Level: 0},
	}

	s := icingStats(hours)

	assert.Equal(t, 75.0, s.MaxIndex)
	assert.Equal(t, 38.8, s.AvgIndex)
	assert.Equal(t, 1, s.HighHours)
	// High hours count into the moderate bucket too.
	assert.Equal(t, 2, s.ModerateHours)
	assert.Equal(t, 1, s.LowHours)
}

func TestIcingSegmentTiers(t *testing.T) {
	t.Run("average index above 30 is tier 1", func(t *testing.T) {
		severe := HourRecord{TemperatureC: 0, HumidityPct: 100, PrecipMmPerH: 3, CloudLowPct: 100, FreezingLvlM: 100}

		// Every default-weight term at its cap: index 38.5, level 1.
		var hours []HourRecord
		for h := 0; h <= 5; h++ {
			rec := severe
			rec.Hour = h
			hours = append(hours, rec)
		}

		analysis := AnalyzeIcing(hours, DefaultIcingConfig())
		night := analysis.Segments[0]
		assert.Equal(t, 38.5, night.AvgIndex)
		assert.Equal(t, 1, night.Tier)
	})

	t.Run("high-risk fraction above 40 percent is tier 2", func(t *testing.T) {
		hours := []IcingHourRisk{
			{Hour: 0, Index: 50, Level: 2},
			{Hour: 1, Index: 50, Level: 2},
			{Hour: 2, Index: 50, Level: 2},
			{Hour: 3, Index: 0, Level: 0},
			{Hour: 4, Index: 0, Level: 0},
			{Hour: 5, Index: 0, Level: 0},
		}

		segments := icingSegments(hours)
		require.Len(t, segments, 4)
		assert.Equal(t, 2, segments[0].Tier)
	})

	t.Run("critical fraction above 30 percent is tier 3", func(t *testing.T) {
		hours := []IcingHourRisk{
			{Hour: 0, Index: 80, Level: 3},
			{Hour: 1, Index: 80, Level: 3},
			{Hour: 2, Index: 10, Level: 0},
			{Hour: 3, Index: 10, Level: 0},
			{Hour: 4, Index: 10, Level: 0},
			{Hour: 5, Index: 10, Level: 0},
		}

		segments := icingSegments(hours)
		require.Len(t, segments, 4)
		assert.Equal(t, 3, segments[0].Tier)
	})
}

func TestPredominantIcingType(t *testing.T) {
	hours := []IcingHourRisk{
		{Hour: 8, IcingType: IcingRime},
		{Hour: 9, IcingType: IcingRime},
		{Hour: 10, IcingType: IcingClear},
		{Hour: 11, IcingType: IcingNone},
	}
	p := CriticalPeriod{StartHour: 8, EndHour: 11}

	assert.Equal(t, IcingRime, predominantIcingType(hours, p))
}
