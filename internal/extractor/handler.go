package extractor

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flightcast/flightcast/internal/extraction"
	"github.com/flightcast/flightcast/pkg/logger"
)

// Handler exposes the extraction service over HTTP
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates the HTTP handler
func NewHandler(service *Service, logger *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("extractor-api"),
	}
}

// Routes returns the extraction service routes
func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Post("/process_article", h.ProcessArticles)
	router.Get("/health", h.Health)
	return router
}

// ProcessArticles handles POST /process_article
func (h *Handler) ProcessArticles(w http.ResponseWriter, r *http.Request) {
	var req extraction.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if len(req.Articles) == 0 {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No articles provided"})
		return
	}

	h.logger.Info("Processing articles",
		logger.Int("count", len(req.Articles)),
		logger.String("source", req.Source),
		logger.String("destination", req.Destination))

	entities := h.service.ExtractDelays(r.Context(), req.Articles, req.Source, req.Destination)
	h.writeJSON(w, http.StatusOK, extraction.Response{Entities: entities})
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", logger.Error(err))
	}
}
