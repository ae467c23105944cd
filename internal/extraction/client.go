// Package extraction is the client for the article delay extraction
// service: cleaned article texts in, per-article delay minutes out. A value
// of -1 is the service's "expected cancellation" sentinel and is passed
// through untouched.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/flightcast/flightcast/pkg/logger"
)

// CancellationSentinel is the reserved entity value meaning the flight is
// expected to be cancelled rather than delayed.
const CancellationSentinel = -1

// Request is the extraction service request body
type Request struct {
	Articles    []string `json:"articles"`
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
}

// Response is the extraction service response body
type Response struct {
	Entities []float64 `json:"entities"`
}

// Client calls the extraction service behind a circuit breaker so a
// misbehaving model endpoint degrades fast instead of stacking up requests
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]float64]
	serviceURL string
	logger     *logger.Logger
}

// NewClient creates a new extraction client
func NewClient(serviceURL string, timeout time.Duration, logger *logger.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker[[]float64](gobreaker.Settings{
		Name:        "extraction-service",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker:    breaker,
		serviceURL: serviceURL,
		logger:     logger.Named("extraction-cli"),
	}
}

// ExtractDelays submits articles for the route and returns one delay value
// in minutes per successfully parsed article
func (c *Client) ExtractDelays(ctx context.Context, articles []string, source, destination string) ([]float64, error) {
	if len(articles) == 0 {
		return nil, nil
	}

	entities, err := c.breaker.Execute(func() ([]float64, error) {
		return c.post(ctx, articles, source, destination)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Extraction complete",
		logger.Int("articles", len(articles)),
		logger.Int("entities", len(entities)))

	return entities, nil
}

func (c *Client) post(ctx context.Context, articles []string, source, destination string) ([]float64, error) {
	payload, err := json.Marshal(Request{
		Articles:    articles,
		Source:      source,
		Destination: destination,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

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

	var parsed Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse extraction JSON: %w", err)
	}

	return parsed.Entities, nil
}
