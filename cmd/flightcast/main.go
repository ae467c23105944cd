package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/flightcast/flightcast/internal/airports"
	"github.com/flightcast/flightcast/internal/api"
	"github.com/flightcast/flightcast/internal/config"
	"github.com/flightcast/flightcast/internal/delay"
	"github.com/flightcast/flightcast/internal/extraction"
	"github.com/flightcast/flightcast/internal/features"
	"github.com/flightcast/flightcast/internal/news"
	"github.com/flightcast/flightcast/internal/regression"
	"github.com/flightcast/flightcast/internal/route"
	"github.com/flightcast/flightcast/internal/wx"
	"github.com/flightcast/flightcast/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "flightcast: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("Starting flightcast",
		logger.String("config", configPath),
		logger.Int("port", cfg.Server.Port))

	// airport directory
	db, err := sql.Open("sqlite", cfg.Airports.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open airport database: %w", err)
	}
	defer db.Close()

	directory, err := airports.NewDirectory(db, log)
	if err != nil {
		return err
	}
	if err := directory.SeedFromCSV(cfg.Airports.CSVPath); err != nil {
		return err
	}

	// regression model and feature schema, loaded once for the process
	schema, err := features.LoadSchema(cfg.Model.SchemaPath)
	if err != nil {
		return err
	}
	model, err := regression.LoadModel(cfg.Model.Path)
	if err != nil {
		return err
	}
	log.Info("Loaded regression model",
		logger.String("path", cfg.Model.Path),
		logger.Int("schema_columns", schema.Len()))

	// clients
	routeClient := route.NewClient(
		cfg.Route.APIBaseURL,
		cfg.Route.DefaultCruiseSpeedKts,
		time.Duration(cfg.Route.RequestTimeoutSeconds)*time.Second,
		log)

	weatherClient, err := wx.NewClient(
		cfg.Weather.APIBaseURL,
		cfg.Weather.APIKey,
		cfg.Weather.CacheSize,
		time.Duration(cfg.Weather.RequestTimeoutSeconds)*time.Second,
		log)
	if err != nil {
		return err
	}

	searchClient := news.NewSearchClient(
		cfg.News.SearchAPIBaseURL,
		cfg.News.SearchAPIKey,
		time.Duration(cfg.News.RequestTimeoutSeconds)*time.Second,
		log)
	fetcher := news.NewFetcher(
		cfg.News.FetchWorkers,
		time.Duration(cfg.News.RequestTimeoutSeconds)*time.Second,
		log)
	extractionClient := extraction.NewClient(
		cfg.Extraction.ServiceURL,
		time.Duration(cfg.Extraction.RequestTimeoutSeconds)*time.Second,
		log)

	textMiner := delay.NewTextMiner(searchClient, fetcher, extractionClient, log)
	estimator := regression.NewEstimator(model, log)

	pipeline := delay.NewService(
		directory,
		routeClient,
		weatherClient,
		estimator,
		textMiner,
		schema,
		delay.Weights{
			Regression: cfg.Pipeline.RegressionWeight,
			Text:       cfg.Pipeline.TextWeight,
		},
		log)

	router := api.NewRouter(pipeline, directory, cfg, log)

	server := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     router.Routes(),
		ReadTimeout: time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
