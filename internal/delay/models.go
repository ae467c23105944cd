package delay

import (
	"context"
	"time"

	"github.com/flightcast/flightcast/internal/features"
	"github.com/flightcast/flightcast/internal/news"
	"github.com/flightcast/flightcast/internal/route"
	"github.com/flightcast/flightcast/internal/wx"
)

// Estimate is the pipeline result: the weighted aggregate plus its two
// components for observability
type Estimate struct {
	Aggregate  time.Duration `json:"aggregate"`
	Regression time.Duration `json:"regression"`
	Text       time.Duration `json:"text"`
	Waypoints  int           `json:"waypoints"`
}

// AirportResolver resolves public airport codes to the route network's
// namespace and to display names
type AirportResolver interface {
	ResolveICAO(iata string) (string, error)
	DisplayName(iata string) (string, error)
}

// RouteClient fetches the planned route for an airport pair
type RouteClient interface {
	FetchRoute(ctx context.Context, sourceICAO, destICAO string) (*route.Route, error)
	DefaultSpeedKts() int
}

// WeatherClient returns the hourly observation closest to ts at a coordinate
type WeatherClient interface {
	FetchObservation(ctx context.Context, lat, lon float64, ts time.Time) (wx.Observation, error)
}

// SegmentEstimator predicts one waypoint's delay contribution
type SegmentEstimator interface {
	SegmentDelay(vec features.Vector, numPoints int) time.Duration
}

// TextEstimator derives a route delay estimate from recent news coverage
type TextEstimator interface {
	EstimateTextDelay(ctx context.Context, sourceName, destName string, departureDate time.Time) (time.Duration, error)
}

// Searcher finds recent news results for a query inside a date window
type Searcher interface {
	Search(ctx context.Context, query string, start, end time.Time) ([]news.SearchResult, error)
}

// ArticleFetcher retrieves and cleans article pages
type ArticleFetcher interface {
	FetchArticles(ctx context.Context, results []news.SearchResult) []string
}

// DelayExtractor turns article texts into per-article delay minutes
type DelayExtractor interface {
	ExtractDelays(ctx context.Context, articles []string, source, destination string) ([]float64, error)
}
