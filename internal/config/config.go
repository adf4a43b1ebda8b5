// Package config builds the run configuration from the environment and
// command-line flags. The resulting value is passed explicitly into every component.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/naka-gawa/github-onboarding/internal/domain"
)

const (
	DefaultTimeout     = 10 * time.Second
	DefaultPageSize    = 100
	DefaultConcurrency = 1
	DefaultFormat      = "json"
	DefaultStrategy    = "aggregated"

	// MaxPageSize is the largest page the GitHub APIs accept.
	MaxPageSize = 100
)

// Config holds the application configuration.
type Config struct {
	// GitHub
	Token      string
	RESTURL    string
	GraphQLURL string

	// Transport
	Timeout          time.Duration
	MaxRateLimitWait time.Duration

	// Run
	PageSize    int
	Concurrency int
	Strategy    string
	Format      string
}

// Load loads the configuration from environment variables.
// A .env file in the working directory is read first when it exists.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	timeout, err := getDuration("GITHUB_TIMEOUT", DefaultTimeout)
	if err != nil {
		return nil, err
	}
	pageSize, err := getInt("GITHUB_PAGE_SIZE", DefaultPageSize)
	if err != nil {
		return nil, err
	}

	token := getEnv("API_ACCESS_TOKEN", "")
	if token == "" {
		token = getEnv("GITHUB_TOKEN", "")
	}

	return &Config{
		Token:       token,
		RESTURL:     getEnv("GITHUB_API_URL", ""),
		GraphQLURL:  getEnv("GITHUB_GRAPHQL_URL", ""),
		Timeout:     timeout,
		PageSize:    pageSize,
		Concurrency: DefaultConcurrency,
		Strategy:    DefaultStrategy,
		Format:      DefaultFormat,
	}, nil
}

// Validate checks the configuration before any network activity happens.
func (c *Config) Validate() error {
	const op = "config.validate"
	if c.Token == "" {
		return domain.ConfigError(op, fmt.Errorf("%w: set API_ACCESS_TOKEN or GITHUB_TOKEN", domain.ErrMissingToken))
	}
	if c.Timeout <= 0 {
		return domain.ConfigError(op, errors.New("timeout must be positive"))
	}
	if c.PageSize <= 0 || c.PageSize > MaxPageSize {
		return domain.ConfigError(op, fmt.Errorf("page size must be between 1 and %d, got %d", MaxPageSize, c.PageSize))
	}
	if c.Concurrency <= 0 {
		return domain.ConfigError(op, fmt.Errorf("concurrency must be positive, got %d", c.Concurrency))
	}
	if c.MaxRateLimitWait < 0 {
		return domain.ConfigError(op, errors.New("max rate limit wait must not be negative"))
	}
	return nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, domain.ConfigError("config.load", fmt.Errorf("%s: %w", key, err))
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, domain.ConfigError("config.load", fmt.Errorf("%s: %w", key, err))
	}
	return n, nil
}
