package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightcast/flightcast/pkg/logger"
)

func newTestClient(t *testing.T, serviceURL string) *Client {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)
	return NewClient(serviceURL, 5*time.Second, log)
}

func TestExtractDelays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"article one", "article two"}, req.Articles)
		assert.Equal(t, "John F Kennedy International Airport", req.Source)

		json.NewEncoder(w).Encode(Response{Entities: []float64{30, -1}})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	entities, err := c.ExtractDelays(context.Background(),
		[]string{"article one", "article two"},
		"John F Kennedy International Airport",
		"Los Angeles International Airport")
	require.NoError(t, err)

	// the -1 cancellation sentinel is preserved, not discarded
	assert.Equal(t, []float64{30, CancellationSentinel}, entities)
}

func TestExtractDelaysNoArticles(t *testing.T) {
	c := newTestClient(t, "http://unused")
	entities, err := c.ExtractDelays(context.Background(), nil, "a", "b")
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestExtractDelaysServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.ExtractDelays(context.Background(), []string{"x"}, "a", "b")
	assert.Error(t, err)
}

func TestExtractDelaysMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.ExtractDelays(context.Background(), []string{"x"}, "a", "b")
	assert.Error(t, err)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	for i := 0; i < 10; i++ {
		_, err := c.ExtractDelays(context.Background(), []string{"x"}, "a", "b")
		assert.Error(t, err)
	}

	// breaker trips after 6 consecutive failures; later calls never hit the wire
	assert.Equal(t, 6, calls)
}
