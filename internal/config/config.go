package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the top-level service configuration
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Logging    LoggingConfig    `toml:"logging"`
	Airports   AirportsConfig   `toml:"airports"`
	Route      RouteConfig      `toml:"route"`
	Weather    WeatherConfig    `toml:"weather"`
	News       NewsConfig       `toml:"news"`
	Extraction ExtractionConfig `toml:"extraction"`
	Model      ModelConfig      `toml:"model"`
	Pipeline   PipelineConfig   `toml:"pipeline"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Host               string   `toml:"host"`
	Port               int      `toml:"port"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
	ReadTimeoutSeconds int      `toml:"read_timeout_seconds"`
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// AirportsConfig represents the airport directory configuration
type AirportsConfig struct {
	DBPath  string `toml:"db_path"`
	CSVPath string `toml:"csv_path"`
}

// RouteConfig represents the flight plan route client configuration
type RouteConfig struct {
	APIBaseURL            string `toml:"api_base_url"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	DefaultCruiseSpeedKts int    `toml:"default_cruise_speed_kts"`
}

// WeatherConfig represents the hourly weather client configuration
type WeatherConfig struct {
	APIBaseURL            string `toml:"api_base_url"`
	APIKey                string `toml:"api_key"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	CacheSize             int    `toml:"cache_size"`
}

// NewsConfig represents the news search and article fetch configuration
type NewsConfig struct {
	SearchAPIBaseURL      string `toml:"search_api_base_url"`
	SearchAPIKey          string `toml:"search_api_key"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	FetchWorkers          int    `toml:"fetch_workers"`
}

// ExtractionConfig represents the article delay extraction service client configuration
type ExtractionConfig struct {
	ServiceURL            string `toml:"service_url"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// ModelConfig represents the regression model configuration
type ModelConfig struct {
	Path       string `toml:"path"`
	SchemaPath string `toml:"schema_path"`
}

// PipelineConfig represents the delay aggregation pipeline configuration
type PipelineConfig struct {
	RegressionWeight float64 `toml:"regression_weight"`
	TextWeight       float64 `toml:"text_weight"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8080,
			CORSAllowedOrigins: []string{"*"},
			ReadTimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Airports: AirportsConfig{
			DBPath:  "data/airports.db",
			CSVPath: "data/iata-icao.csv",
		},
		Route: RouteConfig{
			APIBaseURL:            "https://api.flightplandatabase.com",
			RequestTimeoutSeconds: 15,
			DefaultCruiseSpeedKts: 800,
		},
		Weather: WeatherConfig{
			APIBaseURL:            "https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline",
			RequestTimeoutSeconds: 15,
			CacheSize:             4096,
		},
		News: NewsConfig{
			SearchAPIBaseURL:      "https://serpapi.com/search.json",
			RequestTimeoutSeconds: 20,
			FetchWorkers:          10,
		},
		Extraction: ExtractionConfig{
			ServiceURL:            "http://localhost:8081/process_article",
			RequestTimeoutSeconds: 60,
		},
		Model: ModelConfig{
			Path:       "models/delay_xgboost.model",
			SchemaPath: "data/training.csv",
		},
		Pipeline: PipelineConfig{
			RegressionWeight: 0.9,
			TextWeight:       0.1,
		},
	}
}

// Load reads the configuration file at path, layered over defaults
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Route.DefaultCruiseSpeedKts <= 0 {
		return fmt.Errorf("invalid default cruise speed: %d", c.Route.DefaultCruiseSpeedKts)
	}
	if c.Weather.CacheSize <= 0 {
		return fmt.Errorf("invalid weather cache size: %d", c.Weather.CacheSize)
	}
	if c.News.FetchWorkers <= 0 {
		return fmt.Errorf("invalid news fetch worker count: %d", c.News.FetchWorkers)
	}
	sum := c.Pipeline.RegressionWeight + c.Pipeline.TextWeight
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("pipeline weights must sum to 1, got %.3f", sum)
	}
	return nil
}
