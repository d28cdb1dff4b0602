package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string `validate:"required,numeric"`
	DatabaseURL string `validate:"required"`
	AppEnv      string `validate:"required"`
	BaseURL     string `validate:"required,url"`
	Version     string `validate:"required"`

	Log  LogConfig
	DB   DBConfig
	HTTP HTTPConfig
}

type LogConfig struct {
	Level      string `validate:"oneof=debug info warn error"`
	Format     string `validate:"oneof=text json"`
	File       string
	MaxSizeMB  int `validate:"gte=1"`
	MaxBackups int `validate:"gte=0"`
	MaxAgeDays int `validate:"gte=0"`
}

// DBConfig only applies to network databases; local SQLite always runs on a
// single connection.
type DBConfig struct {
	MaxOpenConns    int           `validate:"gte=1"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gte=0"`
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// Load reads the configuration from the environment, after loading .env if
// one exists. Variables already set in the environment take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	p := &parser{}
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		AppEnv:      getEnv("APP_ENV", "local"),
		BaseURL:     strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),
		Version:     getEnv("APP_VERSION", "1.0"),
		Log: LogConfig{
			Level:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format:     strings.ToLower(getEnv("LOG_FORMAT", "text")),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  p.int("LOG_MAX_SIZE_MB", 100),
			MaxBackups: p.int("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: p.int("LOG_MAX_AGE_DAYS", 28),
		},
		DB: DBConfig{
			MaxOpenConns:    p.int("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    p.int("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: p.duration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     p.duration("HTTP_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:    p.duration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: p.duration("HTTP_SHUTDOWN_TIMEOUT", 15*time.Second),
		},
	}
	if err := errors.Join(p.errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", describe(err))
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + c.Port }

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// parser collects malformed values instead of silently using the default.
type parser struct {
	errs []error
}

func (p *parser) int(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not an integer", key, value))
		return fallback
	}
	return n
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not a duration", key, value))
		return fallback
	}
	return d
}

var envNames = map[string]string{
	"Port":            "PORT",
	"DatabaseURL":     "DATABASE_URL",
	"AppEnv":          "APP_ENV",
	"BaseURL":         "BASE_URL",
	"Version":         "APP_VERSION",
	"Level":           "LOG_LEVEL",
	"Format":          "LOG_FORMAT",
	"MaxSizeMB":       "LOG_MAX_SIZE_MB",
	"MaxBackups":      "LOG_MAX_BACKUPS",
	"MaxAgeDays":      "LOG_MAX_AGE_DAYS",
	"MaxOpenConns":    "DB_MAX_OPEN_CONNS",
	"MaxIdleConns":    "DB_MAX_IDLE_CONNS",
	"ConnMaxLifetime": "DB_CONN_MAX_LIFETIME",
	"ReadTimeout":     "HTTP_READ_TIMEOUT",
	"WriteTimeout":    "HTTP_WRITE_TIMEOUT",
	"ShutdownTimeout": "HTTP_SHUTDOWN_TIMEOUT",
}

// describe turns validator field errors into messages naming the
// environment variable to fix.
func describe(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := envNames[fe.Field()]
		if name == "" {
			name = fe.Namespace()
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Errorf("%s is required", name))
		case "oneof":
			msgs = append(msgs, fmt.Errorf("%s must be one of: %s", name, fe.Param()))
		case "url":
			msgs = append(msgs, fmt.Errorf("%s must be an absolute URL", name))
		case "numeric":
			msgs = append(msgs, fmt.Errorf("%s must be a port number", name))
		default:
			msgs = append(msgs, fmt.Errorf("%s is invalid (%s=%s)", name, fe.Tag(), fe.Param()))
		}
	}
	return errors.Join(msgs...)
}
