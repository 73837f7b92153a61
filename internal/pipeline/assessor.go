package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/flightwx/uav-wx-advisor/internal/domain"
	"github.com/flightwx/uav-wx-advisor/internal/observability"
)

// ForecastRequest is the source-topic message contract. A request either
// embeds the hourly forecast (push mode) or carries only coordinates and
// relies on the configured provider to fetch it (pull mode).
type ForecastRequest struct {
	RouteID   string              `json:"route_id"`
	Latitude  float64             `json:"latitude"`
	Longitude float64             `json:"longitude"`
	Route     domain.RouteInfo    `json:"route"`
	Hours     []domain.RawHour    `json:"hours,omitempty"`
	Daily     domain.DailySummary `json:"daily"`
}

// ParseForecastRequest decodes a consumed message into a ForecastRequest.
func ParseForecastRequest(raw RawRequest) (ForecastRequest, error) {
	var req ForecastRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return ForecastRequest{}, fmt.Errorf("unmarshal forecast request: %w", err)
	}
	return req, nil
}

// ForecastProvider fetches an hourly forecast for a coordinate. Implemented
// by the Open-Meteo adapter.
type ForecastProvider interface {
	Forecast(ctx context.Context, lat, lon float64) (domain.ForecastBundle, error)
}

// Assessor turns raw forecast requests into serialized assessments.
type Assessor struct {
	provider ForecastProvider // nil when pull mode is disabled
	opts     domain.AssessOptions
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewAssessor creates an Assessor. provider may be nil, in which case
// requests without embedded forecast hours produce "no data" assessments.
func NewAssessor(provider ForecastProvider, opts domain.AssessOptions, logger *slog.Logger, metrics *observability.Metrics) *Assessor {
	return &Assessor{
		provider: provider,
		opts:     opts,
		logger:   logger,
		metrics:  metrics,
	}
}

// Assess parses the request, fetches the forecast when needed, runs the
// risk engine, and serializes the result for the sink topic.
func (a *Assessor) Assess(ctx context.Context, raw RawRequest) (OutputEvent, error) {
	req, err := ParseForecastRequest(raw)
	if err != nil {
		return OutputEvent{}, err
	}

	bundle := domain.ForecastBundle{
		RouteID: req.RouteID,
		Hours:   req.Hours,
		Daily:   req.Daily,
		Route:   req.Route,
	}

	if len(bundle.Hours) == 0 && a.provider != nil {
		fetched, err := a.provider.Forecast(ctx, req.Latitude, req.Longitude)
		if err != nil {
			return OutputEvent{}, fmt.Errorf("fetch forecast: %w", err)
		}
		bundle.Hours = fetched.Hours
		bundle.Daily = fetched.Daily
	}

	assessment := domain.Assess(bundle, a.opts)
	if assessment.Status != "ok" {
		a.logger.Warn("assessment produced without forecast data", "route_id", req.RouteID)
	}
	a.observe(assessment)

	return SerializeAssessment(assessment)
}

// observe records hazard outcome metrics for one assessment.
func (a *Assessor) observe(assessment domain.Assessment) {
	if a.metrics == nil {
		return
	}
	a.metrics.HazardTier.WithLabelValues("icing", assessment.Icing.LevelText).Inc()
	a.metrics.HazardTier.WithLabelValues("wind", assessment.Wind.Category).Inc()
	a.metrics.HazardTier.WithLabelValues("visibility", assessment.Visibility.Category).Inc()
	a.metrics.WindowStatus.WithLabelValues(string(assessment.Window.Status)).Inc()
}

// SerializeAssessment encodes an assessment for the sink topic. The key is
// the route ID when present so assessments for a route land on one
// partition, falling back to the run ID.
func SerializeAssessment(assessment domain.Assessment) (OutputEvent, error) {
	value, err := json.Marshal(assessment)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("marshal assessment: %w", err)
	}

	key := assessment.RouteID
	if key == "" {
		key = assessment.RunID
	}

	return OutputEvent{
		Key:   []byte(key),
		Value: value,
		Headers: map[string]string{
			"status":         assessment.Status,
			"worst_category": assessment.WorstCategory(),
			"generated_at":   assessment.GeneratedAt.Format(time.RFC3339),
		},
	}, nil
}
