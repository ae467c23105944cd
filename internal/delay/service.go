// Package delay implements the delay aggregation pipeline: it walks the
// planned route producing weather-conditioned regression estimates while a
// text-mined estimate runs concurrently, then blends both under a fixed
// weighting policy.
package delay

import (
	"context"
	"fmt"
	"time"

	"github.com/flightcast/flightcast/internal/features"
	"github.com/flightcast/flightcast/internal/geo"
	"github.com/flightcast/flightcast/internal/route"
	"github.com/flightcast/flightcast/internal/wx"
	"github.com/flightcast/flightcast/pkg/logger"
)

// Weights is the fixed combination policy. Regression 0.9 / text 0.1 with
// linear waypoint-count normalization is the current policy; the weights
// must sum to 1.
type Weights struct {
	Regression float64
	Text       float64
}

// DefaultWeights returns the current combination policy
func DefaultWeights() Weights {
	return Weights{Regression: 0.9, Text: 0.1}
}

// Service is the delay aggregation pipeline
type Service struct {
	airports AirportResolver
	routes   RouteClient
	weather  WeatherClient
	segments SegmentEstimator
	text     TextEstimator
	schema   *features.Schema
	weights  Weights
	logger   *logger.Logger
}

// NewService creates the pipeline over its collaborators
func NewService(
	airports AirportResolver,
	routes RouteClient,
	weather WeatherClient,
	segments SegmentEstimator,
	text TextEstimator,
	schema *features.Schema,
	weights Weights,
	logger *logger.Logger,
) *Service {
	return &Service{
		airports: airports,
		routes:   routes,
		weather:  weather,
		segments: segments,
		text:     text,
		schema:   schema,
		weights:  weights,
		logger:   logger.Named("delay-pipeline"),
	}
}

// EstimateTotalDelay estimates the expected arrival delay for a flight from
// source to destination (IATA codes) departing at the given time. Upstream
// failures degrade per component; the pipeline always yields a result for
// valid inputs.
func (s *Service) EstimateTotalDelay(ctx context.Context, source, destination string, departure time.Time) (*Estimate, error) {
	sourceICAO, err := s.airports.ResolveICAO(source)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source airport: %w", err)
	}
	destICAO, err := s.airports.ResolveICAO(destination)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve destination airport: %w", err)
	}

	rt, err := s.routes.FetchRoute(ctx, sourceICAO, destICAO)
	if err != nil {
		// degrade to a degenerate route rather than aborting
		s.logger.Warn("Route resolution failed, using defaults",
			logger.String("source", sourceICAO),
			logger.String("destination", destICAO),
			logger.Error(err))
		rt = &route.Route{CruiseSpeedKts: s.routes.DefaultSpeedKts()}
	}

	textCh := s.launchTextBranch(ctx, source, destination, departure)

	regressionTotal := s.walkRoute(ctx, rt, departure)

	textDelay := <-textCh

	aggregate := time.Duration(
		s.weights.Regression*float64(regressionTotal) + s.weights.Text*float64(textDelay))

	s.logger.Info("Delay estimate complete",
		logger.String("source", source),
		logger.String("destination", destination),
		logger.Int("waypoints", len(rt.Waypoints)),
		logger.Duration("regression", regressionTotal),
		logger.Duration("text", textDelay),
		logger.Duration("aggregate", aggregate))

	return &Estimate{
		Aggregate:  aggregate,
		Regression: regressionTotal,
		Text:       textDelay,
		Waypoints:  len(rt.Waypoints),
	}, nil
}

// launchTextBranch starts the text-mined estimation in the background. The
// returned channel always delivers exactly one value; failures inside the
// branch degrade to zero contribution.
func (s *Service) launchTextBranch(ctx context.Context, source, destination string, departure time.Time) <-chan time.Duration {
	sourceName := s.displayNameOrCode(source)
	destName := s.displayNameOrCode(destination)

	ch := make(chan time.Duration, 1)
	go func() {
		d, err := s.text.EstimateTextDelay(ctx, sourceName, destName, departure)
		if err != nil {
			s.logger.Warn("Text-mined branch degraded to zero", logger.Error(err))
			d = 0
		}
		ch <- d
	}()
	return ch
}

// walkRoute traverses the waypoints in order, keeping a running expected
// arrival clock, and accumulates the per-waypoint regression delays
func (s *Service) walkRoute(ctx context.Context, rt *route.Route, departure time.Time) time.Duration {
	points := rt.Waypoints
	numPoints := len(points)
	if numPoints == 0 {
		return 0
	}

	speedKmh := geo.KnotsToKmh(float64(rt.CruiseSpeedKts))
	expectedArrival := departure
	var total time.Duration

	// the first segment starts at the first waypoint, so its distance is zero
	prevLat, prevLon := points[0].Lat, points[0].Lon

	for _, p := range points {
		distanceKm := geo.Haversine(prevLat, prevLon, p.Lat, p.Lon)
		travel := time.Duration(distanceKm / speedKmh * float64(time.Hour))
		expectedArrival = expectedArrival.Add(total + travel)

		obs, err := s.weather.FetchObservation(ctx, p.Lat, p.Lon, expectedArrival)
		if err != nil {
			// a full-schema sentinel vector is still built from an empty observation
			s.logger.Warn("Weather lookup failed for waypoint",
				logger.String("ident", p.Ident),
				logger.Error(err))
			obs = wx.Observation{}
		}

		vec := features.Build(obs, expectedArrival, distanceKm, s.schema)
		segment := s.segments.SegmentDelay(vec, numPoints)
		total += segment

		s.logger.Debug("Waypoint estimated",
			logger.String("ident", p.Ident),
			logger.String("name", p.Name),
			logger.Time("expected_arrival", expectedArrival),
			logger.Duration("segment_delay", segment))

		prevLat, prevLon = p.Lat, p.Lon
	}

	return total
}

// displayNameOrCode resolves an airport's display name, falling back to the
// raw code when the lookup fails
func (s *Service) displayNameOrCode(code string) string {
	name, err := s.airports.DisplayName(code)
	if err != nil || name == "" {
		return code
	}
	return name
}
