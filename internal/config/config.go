package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL     string
	Port            int
	JWTSecret       string
	AdminRole       string
	MigrationsPath  string
	LogLevel        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	TracingExporter    string
	TracingEndpoint    string
	TracingInsecure    bool
	TracingSampleRatio float64
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; variables already set win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("port", 8080)
	v.SetDefault("admin_role", "admin")
	v.SetDefault("migrations_path", "migrations")
	v.SetDefault("log_level", "info")
	v.SetDefault("request_timeout", 5*time.Second)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("tracing_exporter", "none")
	v.SetDefault("otel_exporter_otlp_endpoint", "localhost:4318")
	v.SetDefault("otel_exporter_otlp_insecure", true)
	v.SetDefault("tracing_sample_ratio", 1.0)
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:     v.GetString("database_url"),
		Port:            v.GetInt("port"),
		JWTSecret:       v.GetString("jwt_secret"),
		AdminRole:       v.GetString("admin_role"),
		MigrationsPath:  v.GetString("migrations_path"),
		LogLevel:        v.GetString("log_level"),
		RequestTimeout:  v.GetDuration("request_timeout"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),

		TracingExporter:    v.GetString("tracing_exporter"),
		TracingEndpoint:    v.GetString("otel_exporter_otlp_endpoint"),
		TracingInsecure:    v.GetBool("otel_exporter_otlp_insecure"),
		TracingSampleRatio: v.GetFloat64("tracing_sample_ratio"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL not set")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET not set")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid REQUEST_TIMEOUT %s", c.RequestTimeout)
	}
	switch c.TracingExporter {
	case "none", "stdout", "otlp":
	default:
		return fmt.Errorf("invalid TRACING_EXPORTER %q", c.TracingExporter)
	}
	if c.TracingSampleRatio < 0 || c.TracingSampleRatio > 1 {
		return fmt.Errorf("invalid TRACING_SAMPLE_RATIO %v", c.TracingSampleRatio)
	}
	return nil
}
