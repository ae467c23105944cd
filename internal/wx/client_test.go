package wx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightcast/flightcast/pkg/logger"
)

const timelineBody = `{
	"days": [{
		"hours": [
			{"datetime": "10:00:00", "temp": 12.5, "icon": "rain", "preciptype": ["rain"]},
			{"datetime": "11:00:00", "temp": 13.1, "icon": "cloudy"},
			{"datetime": "12:00:00", "temp": 14.0, "icon": "clear-day"}
		]
	}]
}`

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)
	c, err := NewClient(baseURL, "test-key", 16, 5*time.Second, log)
	require.NoError(t, err)
	return c
}

func TestFetchObservationPicksClosestHour(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(timelineBody))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ts := time.Date(2026, 3, 14, 11, 20, 0, 0, time.UTC)

	obs, err := c.FetchObservation(context.Background(), 43.67, -79.63, ts)
	require.NoError(t, err)
	assert.Equal(t, "cloudy", obs["icon"]) // 11:00 is 20min away, 12:00 is 40min
}

func TestFetchObservationCaches(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(timelineBody))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ts := time.Date(2026, 3, 14, 11, 20, 0, 0, time.UTC)

	_, err := c.FetchObservation(context.Background(), 43.67, -79.63, ts)
	require.NoError(t, err)
	_, err = c.FetchObservation(context.Background(), 43.67, -79.63, ts)
	require.NoError(t, err)
	assert.Equal(t, int64(1), calls.Load())

	// different coordinates miss the cache
	_, err = c.FetchObservation(context.Background(), 40.64, -73.77, ts)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestFetchObservationUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.FetchObservation(context.Background(), 1, 2, time.Now())
	assert.Error(t, err)
}

func TestClosestObservationSkipsMalformedRecords(t *testing.T) {
	target := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	hours := []Observation{
		{"datetime": 42}, // not a string
		{"datetime": "not-a-time"},
		{"datetime": "08:00:00", "temp": 1.0},
	}
	obs := closestObservation(hours, target)
	require.NotNil(t, obs)
	assert.Equal(t, 1.0, obs["temp"])
}
