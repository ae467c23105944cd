package news

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/flightcast/flightcast/pkg/logger"
)

// Fetcher retrieves article pages concurrently and reduces them to body
// text. One page failing never cancels the others.
type Fetcher struct {
	httpClient *http.Client
	workers    int
	logger     *logger.Logger
}

// NewFetcher creates a fetcher with a bounded worker pool
func NewFetcher(workers int, timeout time.Duration, logger *logger.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		workers: workers,
		logger:  logger.Named("news-fetcher"),
	}
}

// FetchArticles fetches and cleans every result's page. PDF links, fetch
// failures and access-error pages are discarded; the rest are returned in
// no particular order.
func (f *Fetcher) FetchArticles(ctx context.Context, results []SearchResult) []string {
	var mu sync.Mutex
	var articles []string

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)

	for _, r := range results {
		if strings.Contains(r.Link, "pdf") {
			continue
		}
		link := r.Link

		g.Go(func() error {
			text, err := f.fetchOne(gCtx, link)
			if err != nil {
				// partial-failure tolerance: log and keep going
				f.logger.Warn("Skipping article",
					logger.String("url", link),
					logger.Error(err))
				return nil
			}
			mu.Lock()
			articles = append(articles, text)
			mu.Unlock()
			return nil
		})
	}

	// workers only ever return nil
	_ = g.Wait()

	f.logger.Debug("Article fetch complete",
		logger.Int("requested", len(results)),
		logger.Int("fetched", len(articles)))

	return articles
}

// fetchOne retrieves one page and strips it down to readable text
func (f *Fetcher) fetchOne(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if strings.Contains(title, "403 Forbidden") || strings.Contains(title, "Error") {
		return "", fmt.Errorf("access error page: %q", title)
	}

	return cleanBody(doc), nil
}

// cleanBody removes navigation chrome and returns the page's text content
func cleanBody(doc *goquery.Document) string {
	doc.Find("nav, footer, header, head, script, style").Remove()
	return strings.TrimSpace(doc.Text())
}
