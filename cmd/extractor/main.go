package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flightcast/flightcast/internal/extractor"
	"github.com/flightcast/flightcast/pkg/logger"
)

func main() {
	addr := flag.String("addr", ":8081", "listen address")
	model := flag.String("model", "gpt-4o-mini", "chat completion model")
	timeout := flag.Duration("timeout", 30*time.Second, "per-article completion timeout")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	if err := run(*addr, *model, *timeout, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "extractor: %v\n", err)
		os.Exit(1)
	}
}

func run(addr, model string, timeout time.Duration, logLevel string) error {
	log, err := logger.New(logger.Config{Level: logLevel, Format: "console"})
	if err != nil {
		return err
	}
	defer log.Sync()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}

	completer := extractor.NewOpenAICompleter(apiKey, model)
	service := extractor.NewService(completer, timeout, log)
	handler := extractor.NewHandler(service, log)

	server := &http.Server{
		Addr:        addr,
		Handler:     handler.Routes(),
		ReadTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Extraction service listening",
			logger.String("addr", addr),
			logger.String("model", model))
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
