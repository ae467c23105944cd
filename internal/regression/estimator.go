// Package regression applies the pre-trained gradient-boosted delay model
// to feature vectors. The model artifact is loaded once at startup and is
// read-only thereafter.
package regression

import (
	"fmt"
	"time"

	"github.com/dmitryikh/leaves"

	"github.com/flightcast/flightcast/internal/features"
	"github.com/flightcast/flightcast/pkg/logger"
)

// Predictor is a single-row inference call. Satisfied by *leaves.Ensemble.
type Predictor interface {
	PredictSingle(fvals []float64, nEstimators int) float64
}

// Estimator turns a feature vector into a per-waypoint segment delay
type Estimator struct {
	model  Predictor
	logger *logger.Logger
}

// NewEstimator creates an estimator over an already-loaded model
func NewEstimator(model Predictor, logger *logger.Logger) *Estimator {
	return &Estimator{
		model:  model,
		logger: logger.Named("regression"),
	}
}

// LoadModel reads the XGBoost model artifact from disk
func LoadModel(path string) (Predictor, error) {
	model, err := leaves.XGEnsembleFromFile(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load regression model: %w", err)
	}
	return model, nil
}

// SegmentDelay predicts one waypoint's delay contribution. The raw model
// output is in minutes; negative predictions are invalid and clamp to zero.
// The result is divided by the route's waypoint count so that summing the
// contributions over the route yields the average segment delay.
func (e *Estimator) SegmentDelay(vec features.Vector, numPoints int) time.Duration {
	predicted := e.model.PredictSingle(vec, 0)
	if predicted < 0 {
		predicted = 0
	}

	if numPoints < 1 {
		numPoints = 1
	}

	delay := time.Duration(predicted * float64(time.Minute))
	return delay / time.Duration(numPoints)
}
