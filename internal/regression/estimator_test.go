package regression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightcast/flightcast/internal/features"
	"github.com/flightcast/flightcast/pkg/logger"
)

// stubPredictor returns a fixed prediction regardless of input
type stubPredictor struct {
	prediction float64
}

func (s *stubPredictor) PredictSingle(_ []float64, _ int) float64 {
	return s.prediction
}

func newTestEstimator(t *testing.T, prediction float64) *Estimator {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)
	return NewEstimator(&stubPredictor{prediction: prediction}, log)
}

func TestSegmentDelay(t *testing.T) {
	tests := []struct {
		name       string
		prediction float64
		numPoints  int
		want       time.Duration
	}{
		{"thirty minutes over three points", 30, 3, 10 * time.Minute},
		{"single point route", 12, 1, 12 * time.Minute},
		{"negative prediction clamps to zero", -7.5, 4, 0},
		{"zero points avoids division by zero", 10, 0, 10 * time.Minute},
		{"fractional minutes", 1.5, 1, 90 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEstimator(t, tt.prediction)
			got := e.SegmentDelay(features.Vector{1, 2, 3}, tt.numPoints)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSegmentDelayNeverNegative(t *testing.T) {
	for _, p := range []float64{-1000, -0.001, 0, 0.001, 1000} {
		e := newTestEstimator(t, p)
		assert.GreaterOrEqual(t, e.SegmentDelay(features.Vector{}, 2), time.Duration(0))
	}
}
