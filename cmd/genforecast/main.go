// Command genforecast generates synthetic forecast request fixtures for the
// assessment pipeline and test suites. Each scenario shapes a 24-hour series
// toward one hazard so fixture-driven tests exercise a known code path.
//
// Usage:
//
//	go run ./cmd/genforecast -scenario icing -out testdata/icing_day.json
//	go run ./cmd/genforecast -scenario calm -seed 7 -route-id survey-12
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/flightwx/uav-wx-advisor/internal/domain"
	"github.com/flightwx/uav-wx-advisor/internal/pipeline"
)

const forecastDate = "2026-05-14"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	scenario := flag.String("scenario", "calm", "one of: calm, icing, shear, fog, convective")
	out := flag.String("out", "", "output path (default stdout)")
	routeID := flag.String("route-id", "fixture-route", "route identifier for the request")
	lat := flag.Float64("lat", 52.52, "route midpoint latitude")
	lon := flag.Float64("lon", 13.405, "route midpoint longitude")
	distance := flag.Float64("distance", 12, "route distance in km")
	seed := flag.Int64("seed", 1, "jitter seed for reproducible variation")
	flag.Parse()

	build, ok := scenarios[*scenario]
	if !ok {
		return fmt.Errorf("unknown scenario %q", *scenario)
	}

	rng := rand.New(rand.NewSource(*seed))
	req := pipeline.ForecastRequest{
		RouteID:   *routeID,
		Latitude:  *lat,
		Longitude: *lon,
		Route:     domain.RouteInfo{DistanceKm: *distance},
		Hours:     build(rng),
		Daily:     domain.DailySummary{Sunrise: "05:42", Sunset: "20:53"},
	}

	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	data = append(data, '\n')

	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(*out, data, 0o600); err != nil {
		return err
	}
	log.Printf("wrote %s fixture: %s (%d hours)", *scenario, *out, len(req.Hours))
	return nil
}

// scenarios maps names to hour-series builders. Every builder returns a full
// 24-hour day so the safety window has daylight to work with.
var scenarios = map[string]func(*rand.Rand) []domain.RawHour{
	"calm":       calmDay,
	"icing":      icingDay,
	"shear":      shearDay,
	"fog":        fogDay,
	"convective": convectiveDay,
}

// baseHour returns a benign row for the given hour with slight jitter.
func baseHour(rng *rand.Rand, h int) domain.RawHour {
	return domain.RawHour{
		Time:               fmt.Sprintf("%sT%02d:00", forecastDate, h),
		Temperature2M:      14 + 6*dayCurve(h) + jitter(rng, 0.5),
		DewPoint2M:         6 + jitter(rng, 0.5),
		RelativeHumidity2M: 55 + jitter(rng, 5),
		CloudCover:         20 + jitter(rng, 10),
		CloudCoverLow:      5 + jitter(rng, 3),
		FreezingLevel:      3200 + jitter(rng, 100),
		WindSpeed10M:       10 + jitter(rng, 2), // km/h
		WindSpeed80M:       13 + jitter(rng, 2),
		WindSpeed120M:      16 + jitter(rng, 2),
		WindDir10M:         200 + jitter(rng, 5),
		WindDir80M:         205 + jitter(rng, 5),
		WindDir120M:        210 + jitter(rng, 5),
		WindGusts10M:       16 + jitter(rng, 3),
		Visibility:         24000 + jitter(rng, 2000),
		CAPE:               80 + jitter(rng, 40),
	}
}

// dayCurve peaks at mid-afternoon, roughly tracking diurnal heating.
func dayCurve(h int) float64 {
	d := float64(h-15) / 9
	if d < 0 {
		d = -d
	}
	if d > 1 {
		d = 1
	}
	return 1 - d
}

func jitter(rng *rand.Rand, scale float64) float64 {
	return (rng.Float64()*2 - 1) * scale
}

func calmDay(rng *rand.Rand) []domain.RawHour {
	hours := make([]domain.RawHour, 24)
	for h := range hours {
		hours[h] = baseHour(rng, h)
	}
	return hours
}

// icingDay puts the morning below freezing with saturated air and drizzle.
func icingDay(rng *rand.Rand) []domain.RawHour {
	hours := calmDay(rng)
	for h := 4; h <= 10; h++ {
		hours[h].Temperature2M = -4 + jitter(rng, 1)
		hours[h].DewPoint2M = hours[h].Temperature2M - 1
		hours[h].RelativeHumidity2M = 97
		hours[h].Precipitation = 0.6 + jitter(rng, 0.2)
		hours[h].CloudCover = 95
		hours[h].CloudCoverLow = 85
		hours[h].FreezingLevel = 150 + jitter(rng, 50)
	}
	return hours
}

// shearDay swings direction and speed hard between 10m and 120m at midday.
func shearDay(rng *rand.Rand) []domain.RawHour {
	hours := calmDay(rng)
	for h := 11; h <= 16; h++ {
		hours[h].WindSpeed10M = 12 + jitter(rng, 2)
		hours[h].WindSpeed120M = 42 + jitter(rng, 3) // ~8 m/s faster aloft
		hours[h].WindDir10M = 190
		hours[h].WindDir120M = 250 + jitter(rng, 10)
		hours[h].WindGusts10M = 40 + jitter(rng, 5)
	}
	return hours
}

// fogDay holds visibility under a kilometer through the morning with a low
// stratus deck.
func fogDay(rng *rand.Rand) []domain.RawHour {
	hours := calmDay(rng)
	for h := 5; h <= 11; h++ {
		hours[h].Visibility = 600 + jitter(rng, 200)
		hours[h].RelativeHumidity2M = 99
		hours[h].CloudCover = 100
		hours[h].CloudCoverLow = 95
		hours[h].Temperature2M = 8 + jitter(rng, 1)
		hours[h].DewPoint2M = hours[h].Temperature2M
	}
	return hours
}

// convectiveDay builds afternoon instability past the CAPE safety threshold.
func convectiveDay(rng *rand.Rand) []domain.RawHour {
	hours := calmDay(rng)
	for h := 13; h <= 19; h++ {
		hours[h].CAPE = 2200 + jitter(rng, 300)
		hours[h].WindGusts10M = 50 + jitter(rng, 8)
		hours[h].CloudCover = 80
		hours[h].Precipitation = 2 + jitter(rng, 1)
	}
	return hours
}
