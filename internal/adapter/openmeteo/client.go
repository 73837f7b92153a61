// Package openmeteo fetches hourly forecasts from the Open-Meteo API for
// pull-mode requests that carry only coordinates.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/flightwx/uav-wx-advisor/internal/config"
	"github.com/flightwx/uav-wx-advisor/internal/domain"
	"github.com/flightwx/uav-wx-advisor/internal/observability"
)

// hourlyFields is the column list requested from the API. It must stay in
// sync with the raw hour schema the engine normalizes.
const hourlyFields = "temperature_2m,dew_point_2m,relative_humidity_2m,precipitation," +
	"cloud_cover,cloud_cover_low,freezing_level_height," +
	"wind_speed_10m,wind_speed_80m,wind_speed_120m," +
	"wind_direction_10m,wind_direction_80m,wind_direction_120m," +
	"wind_gusts_10m,visibility,cape"

// Client implements pipeline.ForecastProvider against the Open-Meteo API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo forecast client.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.ProviderTimeout,
		},
		baseURL: cfg.ProviderBaseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Forecast fetches one day of hourly forecast rows for a coordinate.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (domain.ForecastBundle, error) {
	params := url.Values{
		"latitude":      {fmt.Sprintf("%.4f", lat)},
		"longitude":     {fmt.Sprintf("%.4f", lon)},
		"hourly":        {hourlyFields},
		"daily":         {"sunrise,sunset"},
		"timezone":      {"auto"},
		"forecast_days": {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.ForecastBundle{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ProviderAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues("error").Inc()
		return domain.ForecastBundle{}, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ProviderRequests.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return domain.ForecastBundle{}, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var apiResp response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		c.metrics.ProviderRequests.WithLabelValues("error").Inc()
		return domain.ForecastBundle{}, fmt.Errorf("decode response: %w", err)
	}

	bundle := apiResp.toBundle()
	if len(bundle.Hours) == 0 {
		c.metrics.ProviderRequests.WithLabelValues("empty").Inc()
		c.logger.Warn("forecast response contained no hourly rows", "lat", lat, "lon", lon)
		return bundle, nil
	}

	c.metrics.ProviderRequests.WithLabelValues("success").Inc()
	return bundle, nil
}

// Open-Meteo response types. Hourly data arrives column-oriented: parallel
// arrays indexed by hour.

type response struct {
	Hourly hourlyBlock `json:"hourly"`
	Daily  dailyBlock  `json:"daily"`
}

type hourlyBlock struct {
	Time               []string  `json:"time"`
	Temperature2M      []float64 `json:"temperature_2m"`
	DewPoint2M         []float64 `json:"dew_point_2m"`
	RelativeHumidity2M []float64 `json:"relative_humidity_2m"`
	Precipitation      []float64 `json:"precipitation"`
	CloudCover         []float64 `json:"cloud_cover"`
	CloudCoverLow      []float64 `json:"cloud_cover_low"`
	FreezingLevel      []float64 `json:"freezing_level_height"`
	WindSpeed10M       []float64 `json:"wind_speed_10m"`
	WindSpeed80M       []float64 `json:"wind_speed_80m"`
	WindSpeed120M      []float64 `json:"wind_speed_120m"`
	WindDir10M         []float64 `json:"wind_direction_10m"`
	WindDir80M         []float64 `json:"wind_direction_80m"`
	WindDir120M        []float64 `json:"wind_direction_120m"`
	WindGusts10M       []float64 `json:"wind_gusts_10m"`
	Visibility         []float64 `json:"visibility"`
	CAPE               []float64 `json:"cape"`
}

type dailyBlock struct {
	Sunrise []string `json:"sunrise"`
	Sunset  []string `json:"sunset"`
}

// toBundle transposes the column-oriented response into row-oriented raw
// hours. Missing columns decode as zero values rather than errors.
func (r response) toBundle() domain.ForecastBundle {
	hours := make([]domain.RawHour, len(r.Hourly.Time))
	for i := range r.Hourly.Time {
		hours[i] = domain.RawHour{
			Time:               r.Hourly.Time[i],
			Temperature2M:      at(r.Hourly.Temperature2M, i),
			DewPoint2M:         at(r.Hourly.DewPoint2M, i),
			RelativeHumidity2M: at(r.Hourly.RelativeHumidity2M, i),
			Precipitation:      at(r.Hourly.Precipitation, i),
			CloudCover:         at(r.Hourly.CloudCover, i),
			CloudCoverLow:      at(r.Hourly.CloudCoverLow, i),
			FreezingLevel:      at(r.Hourly.FreezingLevel, i),
			WindSpeed10M:       at(r.Hourly.WindSpeed10M, i),
			WindSpeed80M:       at(r.Hourly.WindSpeed80M, i),
			WindSpeed120M:      at(r.Hourly.WindSpeed120M, i),
			WindDir10M:         at(r.Hourly.WindDir10M, i),
			WindDir80M:         at(r.Hourly.WindDir80M, i),
			WindDir120M:        at(r.Hourly.WindDir120M, i),
			WindGusts10M:       at(r.Hourly.WindGusts10M, i),
			Visibility:         at(r.Hourly.Visibility, i),
			CAPE:               at(r.Hourly.CAPE, i),
		}
	}

	return domain.ForecastBundle{
		Hours: hours,
		Daily: domain.DailySummary{
			Sunrise: clockTime(first(r.Daily.Sunrise)),
			Sunset:  clockTime(first(r.Daily.Sunset)),
		},
	}
}

func at(vals []float64, i int) float64 {
	if i >= len(vals) {
		return 0
	}
	return vals[i]
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// clockTime extracts "HH:MM" from an ISO timestamp like "2026-05-14T06:01".
func clockTime(iso string) string {
	idx := strings.IndexByte(iso, 'T')
	if idx < 0 || len(iso) < idx+6 {
		return ""
	}
	return iso[idx+1 : idx+6]
}
