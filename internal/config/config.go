package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"invoicedesk/internal/logger"
)

type Config struct {
	// Invoice service
	APIURL     string
	APITimeout time.Duration

	// Google Sheets export
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	timeout, err := getEnvSeconds("INVOICE_API_TIMEOUT", 120)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	config := &Config{
		APIURL:               getEnv("INVOICE_API_URL", "http://127.0.0.1:8000"),
		APITimeout:           timeout,
		GoogleSheetURL:       getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet: getEnv("GOOGLE_SHEET_WORKSHEET", "Invoices"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:        getEnv("LOG_TIME_FORMAT", time.RFC3339),
		LogOutput:            getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if err := ValidateAPIURL(c.APIURL); err != nil {
		return fmt.Errorf("INVOICE_API_URL: %w", err)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("INVOICE_API_TIMEOUT must be positive")
	}
	return nil
}

// ValidateAPIURL checks that raw is an absolute http or https URL.
func ValidateAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultSeconds int) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return time.Duration(defaultSeconds) * time.Second, nil
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number of seconds: %w", key, err)
	}
	return time.Duration(seconds) * time.Second, nil
}
