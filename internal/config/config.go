// Package config provides application configuration management with support for
// command-line flags, environment variables, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Embed     EmbedConfig
	Tracking  TrackingConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string `env:"ENV" envDefault:"development"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string        `env:"SERVER_PORT" envDefault:"8080"`
	PublicURL      string        `env:"SERVER_PUBLIC_URL"` // Optional; derived from the request when empty
	ReadTimeout    time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout    time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// DatabaseConfig holds storage configuration.
type DatabaseConfig struct {
	Path string `env:"DATABASE_PATH"`
}

// EmbedConfig holds settings for the embeddable widget script.
type EmbedConfig struct {
	ScriptCacheTTL   time.Duration `env:"EMBED_SCRIPT_CACHE_TTL" envDefault:"5m"`
	AutoplayInterval time.Duration `env:"EMBED_AUTOPLAY_INTERVAL" envDefault:"5s"`
	RequestTimeout   time.Duration `env:"EMBED_REQUEST_TIMEOUT" envDefault:"10s"`
}

// TrackingConfig holds settings for engagement tracking.
type TrackingConfig struct {
	Workers       int           `env:"TRACKING_WORKERS" envDefault:"2"`
	QueueSize     int           `env:"TRACKING_QUEUE_SIZE" envDefault:"256"`
	TaskTimeout   time.Duration `env:"TRACKING_TASK_TIMEOUT" envDefault:"5s"`
	RatePerMinute int           `env:"TRACKING_RATE_PER_MINUTE" envDefault:"60"`
	Burst         int           `env:"TRACKING_BURST" envDefault:"20"`
}

// TelemetryConfig holds OpenTelemetry configuration.
type TelemetryConfig struct {
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"` // Tracing is disabled when empty
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"wol-server"`
}

// flagValues mirrors the subset of settings that can be overridden on the command line.
type flagValues struct {
	env          string
	logLevel     string
	port         string
	publicURL    string
	databasePath string
	envFile      string
	otlpEndpoint string
}

// LoadConfig loads configuration from the process command line and environment with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	return Load(flag.CommandLine, os.Args[1:])
}

// Load is LoadConfig with an explicit flag set and argument list.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	var fv flagValues
	fs.StringVar(&fv.env, "env", "", "Environment (development, staging, production)")
	fs.StringVar(&fv.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&fv.port, "port", "", "Server port (default: 8080)")
	fs.StringVar(&fv.publicURL, "public-url", "", "Public base URL used in the embed script")
	fs.StringVar(&fv.databasePath, "database-path", "", "Path to the SQLite database file")
	fs.StringVar(&fv.otlpEndpoint, "otlp-endpoint", "", "OTLP/HTTP trace endpoint")
	fs.StringVar(&fv.envFile, "env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(fv.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %q: %w", fv.envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	applyFlag(&cfg.App.Environment, fv.env)
	applyFlag(&cfg.Logger.Level, fv.logLevel)
	applyFlag(&cfg.Server.Port, fv.port)
	applyFlag(&cfg.Server.PublicURL, fv.publicURL)
	applyFlag(&cfg.Database.Path, fv.databasePath)
	applyFlag(&cfg.Telemetry.OTLPEndpoint, fv.otlpEndpoint)

	if err := cfg.expandDatabasePath(); err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}
	cfg.Server.PublicURL = strings.TrimRight(cfg.Server.PublicURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Database.Path == "" {
		return errors.New("database path cannot be empty after expansion")
	}
	if c.Tracking.Workers < 1 {
		return fmt.Errorf("tracking workers must be at least 1, got %d", c.Tracking.Workers)
	}
	if c.Tracking.QueueSize < 1 {
		return fmt.Errorf("tracking queue size must be at least 1, got %d", c.Tracking.QueueSize)
	}
	if c.Tracking.RatePerMinute < 1 || c.Tracking.Burst < 1 {
		return errors.New("tracking rate and burst must be positive")
	}
	if c.Embed.AutoplayInterval <= 0 {
		return errors.New("embed autoplay interval must be positive")
	}
	if c.Embed.ScriptCacheTTL < 0 {
		return errors.New("embed script cache TTL cannot be negative")
	}

	return nil
}

// Summary writes the non-secret settings as key=value lines, for startup diagnostics.
func (c *Config) Summary(w io.Writer) {
	fmt.Fprintf(w, "env=%s\n", c.App.Environment)
	fmt.Fprintf(w, "log_level=%s\n", c.Logger.Level)
	fmt.Fprintf(w, "port=%s\n", c.Server.Port)
	fmt.Fprintf(w, "database_path=%s\n", c.Database.Path)
	fmt.Fprintf(w, "tracing=%t\n", c.Telemetry.OTLPEndpoint != "")
}

func applyFlag(target *string, value string) {
	if value != "" {
		*target = value
	}
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, the default is returned untouched.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDatabasePath defaults the database to ~/WallOfLove/wol.db.
func (c *Config) expandDatabasePath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "WallOfLove", "wol.db")

	expanded, err := expandPath(c.Database.Path, defaultPath)
	if err != nil {
		return err
	}
	c.Database.Path = expanded
	return nil
}
