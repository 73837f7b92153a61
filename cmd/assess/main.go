// Command assess runs the risk engine once on a forecast bundle read from a
// file or stdin and prints the assessment as JSON. It is the offline
// counterpart of the service's POST /v1/assess endpoint, useful for fixture
// generation and pre-flight checks without a running pipeline.
//
// Usage:
//
//	go run ./cmd/assess -input forecast.json -pretty
//	cat forecast.json | go run ./cmd/assess
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/flightwx/uav-wx-advisor/internal/domain"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "assess: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	input := flag.String("input", "-", "path to a forecast bundle JSON file, or - for stdin")
	pretty := flag.Bool("pretty", false, "indent the JSON output")
	fixedTime := flag.String("fixed-time", "", "RFC3339 timestamp to pin generated_at, for reproducible fixtures")
	maxWind := flag.Float64("max-wind", 0, "override the gust ceiling in m/s (0 = default)")
	minVis := flag.Float64("min-visibility", 0, "override the visibility floor in km (0 = default)")
	flag.Parse()

	if *fixedTime != "" {
		at, err := time.Parse(time.RFC3339, *fixedTime)
		if err != nil {
			return fmt.Errorf("invalid -fixed-time: %w", err)
		}
		domain.SetClock(clockwork.NewFakeClockAt(at))
		defer domain.SetClock(nil)
	}

	data, err := readInput(*input)
	if err != nil {
		return err
	}

	var bundle domain.ForecastBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return fmt.Errorf("parse forecast bundle: %w", err)
	}

	opts := domain.AssessOptions{
		Window: domain.WindowConfig{
			MaxWindSpeed:    *maxWind,
			MinVisibility:   *minVis,
			RequireDaylight: true,
		}.Normalize(),
	}

	assessment := domain.Assess(bundle, opts)

	var out []byte
	if *pretty {
		out, err = json.MarshalIndent(assessment, "", "  ")
	} else {
		out, err = json.Marshal(assessment)
	}
	if err != nil {
		return fmt.Errorf("encode assessment: %w", err)
	}
	out = append(out, '\n')

	_, err = os.Stdout.Write(out)
	return err
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
