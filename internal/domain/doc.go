// Package domain converts an hourly meteorological forecast for a planned
// UAV route into flight-safety judgements: per-hour icing, wind-shear, and
// VFR-compliance risk, sustained "critical periods", and an optimal takeoff
// window.
//
// # Data Source
//
// Hourly records follow the Open-Meteo forecast API hourly schema: the
// upstream collector (or the openmeteo adapter) requests temperature_2m,
// dew_point_2m, relative_humidity_2m, precipitation, cloud_cover,
// cloud_cover_low, freezing_level_height, visibility, cape, and wind
// speed/direction at 10 m, 80 m, and 120 m, plus daily sunrise/sunset.
// Missing numeric fields are treated as zero; parsing never fails on
// absent data, only on malformed JSON at the adapter boundary.
//
// # Risk Model Conventions
//
// Each scorer produces a continuous severity index and an ordinal level:
//
//	0 none | 1 low | 2 moderate | 3 high
//
// Icing indexes accumulate independently-gated weighted terms and are not
// clamped to 100; values above 100 rank severity. Wind shear is judged on
// the worst inter-altitude differential across the 10/80, 10/120, and
// 80/120 m pairs. Visibility hours are classified VFR, Marginal VFR, or
// IFR from observed visibility and an estimated (not measured) ceiling.
//
// Consecutive hours at level >= 2 form critical periods: maximal runs
// grouped by [GroupPeriods], shared by all three scorers and, with the
// predicate inverted, by the safety-window calculator.
//
// # Purity
//
// Every function here is a deterministic, synchronous transformation with
// no I/O and no retained state. Thresholds and weights travel in explicit
// config structs; there is no package-level mutable configuration. The only
// ambient inputs are the clockwork time source (for GeneratedAt stamping,
// swappable via [SetClock]) and the run-ID generator.
package domain
