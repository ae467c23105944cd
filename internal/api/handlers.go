package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/flightcast/flightcast/internal/airports"
	"github.com/flightcast/flightcast/internal/delay"
	"github.com/flightcast/flightcast/pkg/logger"
)

// DelayEstimator is the pipeline as seen by the API
type DelayEstimator interface {
	EstimateTotalDelay(ctx context.Context, source, destination string, departure time.Time) (*delay.Estimate, error)
}

// AirportDirectory is the directory as seen by the API
type AirportDirectory interface {
	Known(iata string) bool
	List() ([]airports.Airport, error)
}

// DelayResponse is the delay estimate API response
type DelayResponse struct {
	Source            string    `json:"source"`
	Destination       string    `json:"destination"`
	Departure         time.Time `json:"departure"`
	DelayMinutes      float64   `json:"delay_minutes"`
	RegressionMinutes float64   `json:"regression_minutes"`
	TextMinutes       float64   `json:"text_minutes"`
	Waypoints         int       `json:"waypoints"`
}

// ErrorResponse is the API error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler contains the API handlers
type Handler struct {
	estimator DelayEstimator
	directory AirportDirectory
	logger    *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(estimator DelayEstimator, directory AirportDirectory, logger *logger.Logger) *Handler {
	return &Handler{
		estimator: estimator,
		directory: directory,
		logger:    logger.Named("api-handler"),
	}
}

// GetDelay handles GET /api/v1/delay. Input validation failures are the
// caller's problem (400); the pipeline degrades internally and only fails
// on infrastructure errors (500).
func (h *Handler) GetDelay(w http.ResponseWriter, r *http.Request) {
	source := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("source")))
	destination := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("destination")))
	date := r.URL.Query().Get("date")
	depTime := r.URL.Query().Get("time")

	if source == "" || destination == "" || date == "" {
		h.writeError(w, http.StatusBadRequest, "source, destination and date are required")
		return
	}
	if source == destination {
		h.writeError(w, http.StatusBadRequest, "source and destination airports cannot be the same")
		return
	}
	if !h.directory.Known(source) {
		h.writeError(w, http.StatusBadRequest, "unknown source airport: "+source)
		return
	}
	if !h.directory.Known(destination) {
		h.writeError(w, http.StatusBadRequest, "unknown destination airport: "+destination)
		return
	}

	if depTime == "" {
		depTime = "00:00:00"
	}
	departure, err := time.Parse("2006-01-02 15:04:05", date+" "+depTime)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid date/time, expected date=YYYY-MM-DD time=HH:MM:SS")
		return
	}

	estimate, err := h.estimator.EstimateTotalDelay(r.Context(), source, destination, departure)
	if err != nil {
		h.logger.Error("Delay estimation failed",
			logger.String("source", source),
			logger.String("destination", destination),
			logger.Error(err))
		h.writeError(w, http.StatusInternalServerError, "delay estimation failed")
		return
	}

	h.writeJSON(w, http.StatusOK, DelayResponse{
		Source:            source,
		Destination:       destination,
		Departure:         departure,
		DelayMinutes:      estimate.Aggregate.Minutes(),
		RegressionMinutes: estimate.Regression.Minutes(),
		TextMinutes:       estimate.Text.Minutes(),
		Waypoints:         estimate.Waypoints,
	})
}

// GetAirports handles GET /api/v1/airports
func (h *Handler) GetAirports(w http.ResponseWriter, r *http.Request) {
	list, err := h.directory.List()
	if err != nil {
		h.logger.Error("Failed to list airports", logger.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to list airports")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(list),
		"airports": list,
	})
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", logger.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, ErrorResponse{Error: msg})
}
