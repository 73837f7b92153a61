package domain

import "sort"

// PeriodItem is the per-hour view the grouper operates on. Every scorer's
// hourly output projects into one.
type PeriodItem struct {
	Hour  int
	Index float64
	Level int
}

// CriticalPeriod is a maximal run of consecutive qualifying hours.
// StartHour and EndHour are inclusive; a gap of more than one hour always
// starts a new period.
type CriticalPeriod struct {
	StartHour int     `json:"start_hour"`
	EndHour   int     `json:"end_hour"`
	Duration  int     `json:"duration_h"`
	MaxIndex  float64 `json:"max_index"`
	AvgIndex  float64 `json:"avg_index"`
	MaxLevel  int     `json:"max_level"`
}

// GroupPeriods scans items in order and groups consecutive qualifying hours
// into periods. Zero qualifying hours yields an empty list, never an error.
// The result is deterministic: it depends only on item order and the
// predicate. Returned periods are non-overlapping and sorted by hour.
func GroupPeriods(items []PeriodItem, qualify func(PeriodItem) bool) []CriticalPeriod {
	var periods []CriticalPeriod
	var current *CriticalPeriod
	var sum float64
	var count int

	flush := func() {
		if current == nil {
			return
		}
		current.Duration = current.EndHour - current.StartHour + 1
		current.AvgIndex = round1(sum / float64(count))
		periods = append(periods, *current)
		current, sum, count = nil, 0, 0
	}

	for _, item := range items {
		if !qualify(item) {
			continue
		}
		if current != nil && item.Hour == current.EndHour+1 {
			current.EndHour = item.Hour
			if item.Index > current.MaxIndex {
				current.MaxIndex = item.Index
			}
			if item.Level > current.MaxLevel {
				current.MaxLevel = item.Level
			}
			sum += item.Index
			count++
			continue
		}
		flush()
		current = &CriticalPeriod{
			StartHour: item.Hour,
			EndHour:   item.Hour,
			MaxIndex:  item.Index,
			MaxLevel:  item.Level,
		}
		sum = item.Index
		count = 1
	}
	flush()

	return periods
}

// SortPeriodsBySeverity re-orders a copy of periods by MaxIndex descending.
// This is a reporting convenience; the grouper's hour-sorted order is the
// structural one.
func SortPeriodsBySeverity(periods []CriticalPeriod) []CriticalPeriod {
	out := make([]CriticalPeriod, len(periods))
	copy(out, periods)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MaxIndex > out[j].MaxIndex
	})
	return out
}

// totalDuration sums the durations of all periods.
func totalDuration(periods []CriticalPeriod) int {
	total := 0
	for _, p := range periods {
		total += p.Duration
	}
	return total
}

// maxDuration returns the longest period duration, or 0 when empty.
func maxDuration(periods []CriticalPeriod) int {
	longest := 0
	for _, p := range periods {
		if p.Duration > longest {
			longest = p.Duration
		}
	}
	return longest
}
