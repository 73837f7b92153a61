package domain

import (
	"fmt"
	"math"
)

// Recommendations renders the assessment into an ordered list of
// human-readable advisories. Selection is driven by the computed tiers and
// periods; the UI layer consumes the strings verbatim.
func Recommendations(a Assessment) []string {
	var recs []string

	recs = append(recs, overallAdvisory(a.WorstCategory()))
	recs = append(recs, icingAdvisories(a.Icing)...)
	recs = append(recs, windAdvisories(a.Wind)...)
	recs = append(recs, visibilityAdvisories(a.Visibility)...)
	recs = append(recs, windowAdvisories(a.Window)...)

	return recs
}

func overallAdvisory(worst string) string {
	switch worst {
	case "critical":
		return "flight not recommended: at least one hazard is at critical level"
	case "high":
		return "flight restricted: significant weather hazards in the forecast period"
	case "moderate":
		return "flight possible with caution: monitor conditions before and during flight"
	default:
		return "conditions favorable for flight"
	}
}

func icingAdvisories(ic IcingAnalysis) []string {
	var recs []string
	if ic.Level >= 2 {
		recs = append(recs, fmt.Sprintf("icing risk %s (peak index %.1f): avoid flight in cloud and precipitation", ic.LevelText, ic.Stats.MaxIndex))
	}
	for _, p := range SortPeriodsBySeverity(periodsOf(ic.Periods)) {
		recs = append(recs, fmt.Sprintf("sustained icing conditions %02d:00-%02d:59 (%d h, max index %.1f)", p.StartHour, p.EndHour, p.Duration, p.MaxIndex))
	}
	for _, ip := range ic.Periods {
		if ip.PredominantType == IcingClear || ip.PredominantType == IcingMixed {
			recs = append(recs, fmt.Sprintf("expected ice form %02d:00-%02d:59 is %s, which accretes fastest on leading edges", ip.StartHour, ip.EndHour, ip.PredominantType))
			break
		}
	}
	return recs
}

func periodsOf(periods []IcingPeriod) []CriticalPeriod {
	base := make([]CriticalPeriod, len(periods))
	for i, p := range periods {
		base[i] = p.CriticalPeriod
	}
	return base
}

func windAdvisories(w WindAnalysis) []string {
	var recs []string
	switch w.Category {
	case "critical":
		recs = append(recs, fmt.Sprintf("severe wind shear (score %d): flight not advised", w.Score))
	case "high":
		recs = append(recs, fmt.Sprintf("strong wind shear (score %d): expect control difficulty during climb and descent", w.Score))
	case "moderate":
		recs = append(recs, fmt.Sprintf("moderate wind shear (score %d): plan conservative climb rates", w.Score))
	}
	if w.Stats.CriticalHours > 0 {
		recs = append(recs, fmt.Sprintf("%d hour(s) show critical shear between altitudes; avoid altitude changes during those hours", w.Stats.CriticalHours))
	}
	recs = append(recs, w.CruiseAdvisory())
	return recs
}

func visibilityAdvisories(v VisibilityAnalysis) []string {
	var recs []string
	switch v.Category {
	case "poor":
		recs = append(recs, fmt.Sprintf("visibility assessment poor (score %d): visual flight not assured", v.Score))
	case "marginal":
		recs = append(recs, fmt.Sprintf("visibility assessment marginal (score %d): maintain visual contact margins", v.Score))
	}
	if v.Stats.IFRHours > 0 {
		recs = append(recs, fmt.Sprintf("%d hour(s) classified IFR: visual flight rules cannot be met in those hours", v.Stats.IFRHours))
	}
	for _, p := range v.Periods {
		if p.Severity == "severe" {
			recs = append(recs, fmt.Sprintf("severe low-visibility period %02d:00-%02d:59 (min %.1f km, ceiling %.0f m)", p.StartHour, p.EndHour, p.MinVisibilityKm, p.MinCeilingM))
		}
	}
	return recs
}

func windowAdvisories(w SafetyWindow) []string {
	var recs []string
	switch w.Status {
	case WindowCritical:
		recs = append(recs, w.StatusReason)
	case WindowWarning:
		recs = append(recs, fmt.Sprintf("takeoff window limited: %s", w.StatusReason))
	}
	if len(w.SafePeriods) > 0 {
		recs = append(recs, fmt.Sprintf("recommended takeoff at %s (route flight time %.0f-%.0f min)", formatFractionalHour(w.AdjustedStart), w.MinFlightTimeMin, w.MaxFlightTimeMin))
	}
	if w.ThermalShift {
		recs = append(recs, "start time shifted around the morning thermal turbulence window")
	}
	return recs
}

// formatFractionalHour renders 13.5 as "13:30".
func formatFractionalHour(h float64) string {
	hour := int(h)
	minutes := int(math.Round((h - float64(hour)) * 60))
	if minutes == 60 {
		hour++
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", hour, minutes)
}
