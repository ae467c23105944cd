package delay

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flightcast/flightcast/pkg/logger"
)

// TextMiner derives a delay estimate for a route from recent news coverage:
// search the one-day window ending at the departure date, fetch and clean
// the resulting pages, and average the delays the extraction service reads
// out of them.
type TextMiner struct {
	search    Searcher
	fetcher   ArticleFetcher
	extractor DelayExtractor
	logger    *logger.Logger
}

// NewTextMiner creates a text-mined delay estimator
func NewTextMiner(search Searcher, fetcher ArticleFetcher, extractor DelayExtractor, logger *logger.Logger) *TextMiner {
	return &TextMiner{
		search:    search,
		fetcher:   fetcher,
		extractor: extractor,
		logger:    logger.Named("text-miner"),
	}
}

// EstimateTextDelay returns the mean extracted delay for the route, or zero
// when nothing was found. Errors are returned for the caller to degrade on;
// they never carry a partial result.
func (m *TextMiner) EstimateTextDelay(ctx context.Context, sourceName, destName string, departureDate time.Time) (time.Duration, error) {
	query := buildQuery(sourceName, destName)
	start := departureDate.AddDate(0, 0, -1)

	results, err := m.search.Search(ctx, query, start, departureDate)
	if err != nil {
		return 0, fmt.Errorf("news search failed: %w", err)
	}
	if len(results) == 0 {
		m.logger.Debug("No news coverage for route", logger.String("query", query))
		return 0, nil
	}

	articles := m.fetcher.FetchArticles(ctx, results)
	if len(articles) == 0 {
		return 0, nil
	}

	entities, err := m.extractor.ExtractDelays(ctx, articles, sourceName, destName)
	if err != nil {
		return 0, fmt.Errorf("delay extraction failed: %w", err)
	}
	if len(entities) == 0 {
		return 0, nil
	}

	// the -1 cancellation sentinel stays in the mean as-is
	var sum float64
	for _, e := range entities {
		sum += e
	}
	mean := sum / float64(len(entities))

	m.logger.Debug("Text-mined delay",
		logger.String("query", query),
		logger.Int("articles", len(articles)),
		logger.Int("entities", len(entities)),
		logger.Float64("mean_minutes", mean))

	return time.Duration(mean * float64(time.Minute)), nil
}

// buildQuery forms the news search query from the airport display names.
// Names like "Toronto Pearson International Airport, Ontario" keep only the
// part before the first comma.
func buildQuery(sourceName, destName string) string {
	src := strings.TrimSpace(strings.SplitN(sourceName, ",", 2)[0])
	dst := strings.TrimSpace(strings.SplitN(destName, ",", 2)[0])
	return src + " " + dst + " flight delay"
}
