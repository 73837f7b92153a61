package openmeteo

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightwx/uav-wx-advisor/internal/observability"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    testMetrics(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func sampleResponse() response {
	return response{
		Hourly: hourlyBlock{
			Time:               []string{"2026-05-14T00:00", "2026-05-14T01:00"},
			Temperature2M:      []float64{12.5, 11.8},
			DewPoint2M:         []float64{7.1, 7.0},
			RelativeHumidity2M: []float64{70, 72},
			CloudCover:         []float64{40, 45},
			CloudCoverLow:      []float64{10, 12},
			FreezingLevel:      []float64{2800, 2750},
			WindSpeed10M:       []float64{14.4, 15.1},
			WindSpeed80M:       []float64{18.0, 18.5},
			WindSpeed120M:      []float64{21.6, 22.0},
			WindDir10M:         []float64{180, 182},
			WindDir80M:         []float64{185, 186},
			WindDir120M:        []float64{190, 191},
			WindGusts10M:       []float64{25.2, 26.0},
			Visibility:         []float64{18000, 17500},
			CAPE:               []float64{120, 150},
		},
		Daily: dailyBlock{
			Sunrise: []string{"2026-05-14T05:42"},
			Sunset:  []string{"2026-05-14T20:53"},
		},
	}
}

func TestClient_Forecast_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "52.5200", r.URL.Query().Get("latitude"))
		assert.Equal(t, "13.4050", r.URL.Query().Get("longitude"))
		assert.Contains(t, r.URL.Query().Get("hourly"), "freezing_level_height")
		assert.Equal(t, "sunrise,sunset", r.URL.Query().Get("daily"))
		assert.Equal(t, "1", r.URL.Query().Get("forecast_days"))

		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(sampleResponse()))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	bundle, err := c.Forecast(context.Background(), 52.52, 13.405)
	require.NoError(t, err)

	require.Len(t, bundle.Hours, 2)
	assert.Equal(t, "2026-05-14T00:00", bundle.Hours[0].Time)
	assert.Equal(t, 12.5, bundle.Hours[0].Temperature2M)
	assert.Equal(t, 14.4, bundle.Hours[0].WindSpeed10M)
	assert.Equal(t, 18000.0, bundle.Hours[0].Visibility)
	assert.Equal(t, 150.0, bundle.Hours[1].CAPE)
	assert.Equal(t, "05:42", bundle.Daily.Sunrise)
	assert.Equal(t, "20:53", bundle.Daily.Sunset)
}

func TestClient_Forecast_ShortColumnsDecodeToZero(t *testing.T) {
	resp := sampleResponse()
	resp.Hourly.CAPE = nil // column omitted by the API

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	bundle, err := testClient(srv.URL).Forecast(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, bundle.Hours, 2)
	assert.Zero(t, bundle.Hours[0].CAPE)
}

func TestClient_Forecast_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{}))
	}))
	defer srv.Close()

	bundle, err := testClient(srv.URL).Forecast(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Empty(t, bundle.Hours)
}

func TestClient_Forecast_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"reason":"invalid coordinates"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Forecast(context.Background(), 999, 999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestClient_Forecast_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := &Client{
		httpClient: &http.Client{Timeout: 50 * time.Millisecond},
		baseURL:    srv.URL,
		metrics:    testMetrics(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	_, err := c.Forecast(context.Background(), 1, 2)
	require.Error(t, err)
}

func TestClockTime(t *testing.T) {
	assert.Equal(t, "05:42", clockTime("2026-05-14T05:42"))
	assert.Equal(t, "20:53", clockTime("2026-05-14T20:53:00"))
	assert.Empty(t, clockTime(""))
	assert.Empty(t, clockTime("2026-05-14"))
	assert.Empty(t, clockTime("2026-05-14T5"))
}
