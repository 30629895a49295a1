// Package config holds the runtime settings shared by every command.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hemantobora/ec2-estimator/internal/ai"
	"github.com/hemantobora/ec2-estimator/internal/logging"
)

// Defaults
const (
	DefaultProvider = "gemini"
	DefaultAddr     = ":8080"
	DefaultLogLevel = "info"
	DefaultTimeout  = ai.DefaultTimeout
)

// Config holds application configuration
type Config struct {
	// AI provider
	Provider string
	Model    string
	Timeout  time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// AWS
	AWSProfile    string
	VerifyPricing bool

	// Server
	Addr string
}

// New creates a configuration with defaults, honouring the environment.
func New() *Config {
	return &Config{
		Provider:   getEnv("EC2_ESTIMATOR_PROVIDER", DefaultProvider),
		Timeout:    DefaultTimeout,
		LogLevel:   DefaultLogLevel,
		LogFormat:  logging.FormatConsole,
		AWSProfile: os.Getenv("AWS_PROFILE"),
		Addr:       getEnv("EC2_ESTIMATOR_ADDR", DefaultAddr),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if _, err := ai.Lookup(c.Provider); err != nil {
		return fmt.Errorf("provider %q is not supported: %w", c.Provider, err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.LogFormat != logging.FormatConsole && c.LogFormat != logging.FormatJSON {
		return fmt.Errorf("log format must be %s or %s", logging.FormatConsole, logging.FormatJSON)
	}
	if c.Addr == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	return nil
}

// AIProvider resolves the configured provider with any model override applied.
func (c *Config) AIProvider() (ai.Provider, error) {
	p, err := ai.Lookup(c.Provider)
	if err != nil {
		return nil, err
	}
	return ai.WithModel(p, c.Model), nil
}
