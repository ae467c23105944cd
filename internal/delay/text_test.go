package delay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightcast/flightcast/internal/news"
)

type mockSearcher struct {
	results   []news.SearchResult
	err       error
	lastQuery string
}

func (m *mockSearcher) Search(_ context.Context, query string, _, _ time.Time) ([]news.SearchResult, error) {
	m.lastQuery = query
	return m.results, m.err
}

type mockFetcher struct {
	articles []string
}

func (m *mockFetcher) FetchArticles(_ context.Context, _ []news.SearchResult) []string {
	return m.articles
}

type mockExtractor struct {
	entities []float64
	err      error
}

func (m *mockExtractor) ExtractDelays(_ context.Context, _ []string, _, _ string) ([]float64, error) {
	return m.entities, m.err
}

func TestTextMinerMeanDelay(t *testing.T) {
	search := &mockSearcher{results: []news.SearchResult{{Link: "https://a.example"}}}
	miner := NewTextMiner(search,
		&mockFetcher{articles: []string{"a", "b", "c"}},
		&mockExtractor{entities: []float64{10, 20, 30}},
		testLogger(t))

	d, err := miner.EstimateTextDelay(context.Background(),
		"John F Kennedy International Airport", "Los Angeles International Airport",
		time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 20*time.Minute, d)
	assert.Equal(t, "John F Kennedy International Airport Los Angeles International Airport flight delay", search.lastQuery)
}

func TestTextMinerQueryDropsCommaSuffix(t *testing.T) {
	search := &mockSearcher{}
	miner := NewTextMiner(search, &mockFetcher{}, &mockExtractor{}, testLogger(t))

	_, err := miner.EstimateTextDelay(context.Background(),
		"Toronto Pearson International Airport, Ontario", "LaGuardia Airport, New York", time.Now())
	require.NoError(t, err)

	assert.Equal(t, "Toronto Pearson International Airport LaGuardia Airport flight delay", search.lastQuery)
}

func TestTextMinerCancellationSentinelKeptInMean(t *testing.T) {
	miner := NewTextMiner(
		&mockSearcher{results: []news.SearchResult{{Link: "x"}}},
		&mockFetcher{articles: []string{"a", "b"}},
		&mockExtractor{entities: []float64{-1, 31}},
		testLogger(t))

	d, err := miner.EstimateTextDelay(context.Background(), "A", "B", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, d)
}

func TestTextMinerNoResults(t *testing.T) {
	miner := NewTextMiner(&mockSearcher{}, &mockFetcher{}, &mockExtractor{}, testLogger(t))

	d, err := miner.EstimateTextDelay(context.Background(), "A", "B", time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), d)
}

func TestTextMinerNoArticlesSurvivingFetch(t *testing.T) {
	miner := NewTextMiner(
		&mockSearcher{results: []news.SearchResult{{Link: "x"}}},
		&mockFetcher{articles: nil},
		&mockExtractor{entities: []float64{99}},
		testLogger(t))

	d, err := miner.EstimateTextDelay(context.Background(), "A", "B", time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), d)
}

func TestTextMinerSearchError(t *testing.T) {
	miner := NewTextMiner(
		&mockSearcher{err: errors.New("rate limited")},
		&mockFetcher{}, &mockExtractor{}, testLogger(t))

	_, err := miner.EstimateTextDelay(context.Background(), "A", "B", time.Now())
	assert.Error(t, err)
}

func TestTextMinerExtractionError(t *testing.T) {
	miner := NewTextMiner(
		&mockSearcher{results: []news.SearchResult{{Link: "x"}}},
		&mockFetcher{articles: []string{"a"}},
		&mockExtractor{err: errors.New("service down")},
		testLogger(t))

	_, err := miner.EstimateTextDelay(context.Background(), "A", "B", time.Now())
	assert.Error(t, err)
}

func TestTextMinerNoEntities(t *testing.T) {
	miner := NewTextMiner(
		&mockSearcher{results: []news.SearchResult{{Link: "x"}}},
		&mockFetcher{articles: []string{"a"}},
		&mockExtractor{entities: []float64{}},
		testLogger(t))

	d, err := miner.EstimateTextDelay(context.Background(), "A", "B", time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), d)
}
