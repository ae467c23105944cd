// Package news finds and fetches recent coverage of a flight route: a
// date-windowed news search plus a bounded-concurrency article fetcher that
// strips page chrome down to body text.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/flightcast/flightcast/pkg/logger"
)

// searchDateLayout is the provider's date filter and result date format
const searchDateLayout = "01/02/2006"

// SearchClient queries a news search provider with a date window
type SearchClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logger.Logger
}

// NewSearchClient creates a new search client
func NewSearchClient(baseURL, apiKey string, timeout time.Duration, logger *logger.Logger) *SearchClient {
	return &SearchClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger.Named("news-search"),
	}
}

// Search returns news results for the query published inside [start, end].
// Results the provider returns outside the window are filtered out.
func (c *SearchClient) Search(ctx context.Context, query string, start, end time.Time) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("engine", "google_news")
	params.Set("api_key", c.apiKey)
	params.Set("q", query)
	params.Set("tbs", fmt.Sprintf("cdr:1,cd_min:%s,cd_max:%s",
		start.Format(searchDateLayout), end.Format(searchDateLayout)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Searching news",
		logger.String("query", query),
		logger.Time("start", start),
		logger.Time("end", end))

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

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search JSON: %w", err)
	}

	results := make([]SearchResult, 0, len(parsed.NewsResults))
	for _, r := range parsed.NewsResults {
		if !c.inWindow(r.Date, start, end) {
			continue
		}
		results = append(results, r)
	}

	c.logger.Debug("News search complete",
		logger.Int("returned", len(parsed.NewsResults)),
		logger.Int("in_window", len(results)))

	return results, nil
}

// inWindow checks the result's publication date against the search window.
// The provider formats dates as "MM/DD/YYYY, HH:MM AM, +0000 UTC"; results
// with unparseable dates are kept rather than dropped.
func (c *SearchClient) inWindow(date string, start, end time.Time) bool {
	day := strings.SplitN(date, ",", 2)[0]
	parsed, err := time.Parse(searchDateLayout, strings.TrimSpace(day))
	if err != nil {
		return true
	}
	return !parsed.Before(truncateDay(start)) && !parsed.After(truncateDay(end))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
