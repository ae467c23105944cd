// Package wx fetches hourly weather observations for a coordinate and
// timestamp. Lookups are memoized in a bounded LRU cache keyed by
// (lat, lon, timestamp) since a single pipeline run revisits the same
// waypoint hours.
package wx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/flightcast/flightcast/pkg/logger"
)

// Client fetches hourly weather observations from the timeline API
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cache      *lru.Cache[string, Observation]
	logger     *logger.Logger
}

// NewClient creates a new weather client with a cache of the given size
func NewClient(baseURL, apiKey string, cacheSize int, timeout time.Duration, logger *logger.Logger) (*Client, error) {
	cache, err := lru.New[string, Observation](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather cache: %w", err)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		cache:   cache,
		logger:  logger.Named("wx-client"),
	}, nil
}

// FetchObservation returns the hourly observation closest in time to ts at
// the given coordinates
func (c *Client) FetchObservation(ctx context.Context, lat, lon float64, ts time.Time) (Observation, error) {
	key := fmt.Sprintf("%.4f,%.4f,%s", lat, lon, ts.Format("2006-01-02T15:04:05"))
	if obs, ok := c.cache.Get(key); ok {
		c.logger.Debug("Weather cache hit", logger.String("key", key))
		return obs, nil
	}

	url := fmt.Sprintf("%s/%.4f,%.4f/%s?key=%s&include=hours",
		c.baseURL, lat, lon, ts.Format("2006-01-02T15:04:05"), c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Fetching weather observation",
		logger.Float64("lat", lat),
		logger.Float64("lon", lon),
		logger.Time("ts", ts))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var timeline timelineResponse
	if err := json.Unmarshal(body, &timeline); err != nil {
		return nil, fmt.Errorf("failed to parse weather JSON: %w", err)
	}
	if len(timeline.Days) == 0 || len(timeline.Days[0].Hours) == 0 {
		return nil, fmt.Errorf("no hourly records for %.4f,%.4f", lat, lon)
	}

	obs := closestObservation(timeline.Days[0].Hours, ts)
	c.cache.Add(key, obs)
	return obs, nil
}

// closestObservation picks the hourly record with the minimum time delta to
// the expected arrival time. Records carry only a clock time, so each is
// anchored to the target's date before comparing.
func closestObservation(hours []Observation, target time.Time) Observation {
	minDiff := math.Inf(1)
	var closest Observation

	for _, obs := range hours {
		raw, ok := obs["datetime"].(string)
		if !ok {
			continue
		}
		clock, err := time.Parse("15:04:05", raw)
		if err != nil {
			continue
		}
		at := time.Date(target.Year(), target.Month(), target.Day(),
			clock.Hour(), clock.Minute(), clock.Second(), 0, target.Location())
		diff := math.Abs(at.Sub(target).Seconds())
		if diff < minDiff {
			minDiff = diff
			closest = obs
		}
	}

	return closest
}
