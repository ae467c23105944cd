// Package route fetches planned flight routes from the flight plan database
// API: an ordered waypoint sequence plus the plan's filed cruise speed.
package route

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/flightcast/flightcast/pkg/logger"
)

// Cruise speed is filed as free text in the plan notes, e.g. "Cruise Speed: 448kts"
var cruiseSpeedRe = regexp.MustCompile(`Cruise Speed: (\d+)kts`)

// Client fetches flight plan routes between two airports
type Client struct {
	httpClient      *http.Client
	baseURL         string
	defaultSpeedKts int
	logger          *logger.Logger
}

// NewClient creates a new route client
func NewClient(baseURL string, defaultSpeedKts int, timeout time.Duration, logger *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:         baseURL,
		defaultSpeedKts: defaultSpeedKts,
		logger:          logger.Named("route-client"),
	}
}

// DefaultSpeedKts returns the fallback cruise speed used when no plan resolves
func (c *Client) DefaultSpeedKts() int {
	return c.defaultSpeedKts
}

// FetchRoute resolves a plan for the airport pair and returns its waypoints
// and cruise speed. Identifiers are in the route network's ICAO namespace.
func (c *Client) FetchRoute(ctx context.Context, sourceICAO, destICAO string) (*Route, error) {
	planID, err := c.findPlanID(ctx, sourceICAO, destICAO)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/plan/%d", c.baseURL, planID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Fetching route plan",
		logger.Int64("plan_id", planID),
		logger.String("from", sourceICAO),
		logger.String("to", destICAO))

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

	var detail planDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("failed to parse plan JSON: %w", err)
	}

	waypoints := make([]Waypoint, 0, len(detail.Route.Nodes))
	for _, node := range detail.Route.Nodes {
		ident := node.Ident
		if ident == "" {
			ident = "Unknown"
		}
		name := node.Name
		if name == "" {
			name = "Unknown"
		}
		waypoints = append(waypoints, Waypoint{
			Ident: ident,
			Name:  name,
			Lat:   node.Lat,
			Lon:   node.Lon,
		})
	}

	speed := c.extractCruiseSpeed(detail.Notes)

	c.logger.Debug("Resolved route",
		logger.Int("waypoints", len(waypoints)),
		logger.Int("cruise_speed_kts", speed))

	return &Route{Waypoints: waypoints, CruiseSpeedKts: speed}, nil
}

// findPlanID searches for a plan between the two airports and returns the
// first match
func (c *Client) findPlanID(ctx context.Context, sourceICAO, destICAO string) (int64, error) {
	url := fmt.Sprintf("%s/search/plans?fromICAO=%s&toICAO=%s", c.baseURL, sourceICAO, destICAO)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}

	var plans []planSummary
	if err := json.Unmarshal(body, &plans); err != nil {
		return 0, fmt.Errorf("failed to parse plan search JSON: %w", err)
	}
	if len(plans) == 0 {
		return 0, fmt.Errorf("no plan found for %s-%s", sourceICAO, destICAO)
	}

	return plans[0].ID, nil
}

// extractCruiseSpeed pulls the cruise speed out of the plan notes, falling
// back to the configured default when absent or unparseable
func (c *Client) extractCruiseSpeed(notes string) int {
	m := cruiseSpeedRe.FindStringSubmatch(notes)
	if m == nil {
		return c.defaultSpeedKts
	}
	speed, err := strconv.Atoi(m[1])
	if err != nil || speed <= 0 {
		return c.defaultSpeedKts
	}
	return speed
}
