// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package smhi

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DefaultBaseURL = "https://opendata-download-metobs.smhi.se/api"

	maxConcurrency = 64
)

var (
	errParsingConfig = errors.New("error parsing smhi configuration from environment variables")
	errInvalidConfig = errors.New("smhi configuration not valid")
)

// Config holds the environment-driven client settings.
type Config struct {
	BaseURL        string        `env:"SMHI_BASE_URL" envDefault:"https://opendata-download-metobs.smhi.se/api"`
	APIVersion     string        `env:"SMHI_API_VERSION" envDefault:"1.0"`
	RequestTimeout time.Duration `env:"SMHI_REQUEST_TIMEOUT" envDefault:"30s"`
	MaxStationAge  time.Duration `env:"SMHI_MAX_STATION_AGE" envDefault:"48h"`
	Concurrency    int           `env:"SMHI_CONCURRENCY" envDefault:"4"`
	RateLimit      float64       `env:"SMHI_RATE_LIMIT" envDefault:"10"`
}

func loadConfigFromEnv() (*Config, error) {
	config, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errParsingConfig, err.Error())
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	errorsList := make([]string, 0)

	baseURL, err := url.Parse(c.BaseURL)
	switch {
	case err != nil:
		errorsList = append(errorsList, fmt.Sprintf("invalid SMHI_BASE_URL: %s", err))
	case baseURL.Scheme == "" || baseURL.Host == "":
		errorsList = append(errorsList, "SMHI_BASE_URL must be an absolute URL")
	default:
		c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	}

	if strings.TrimSpace(c.APIVersion) == "" {
		errorsList = append(errorsList, "SMHI_API_VERSION is required")
	}
	if c.RequestTimeout <= 0 {
		errorsList = append(errorsList, "SMHI_REQUEST_TIMEOUT must be positive")
	}
	if c.MaxStationAge <= 0 {
		errorsList = append(errorsList, "SMHI_MAX_STATION_AGE must be positive")
	}
	if c.Concurrency < 1 || c.Concurrency > maxConcurrency {
		errorsList = append(errorsList, fmt.Sprintf("SMHI_CONCURRENCY is out of valid range (1-%d)", maxConcurrency))
	}
	if c.RateLimit <= 0 {
		errorsList = append(errorsList, "SMHI_RATE_LIMIT must be positive")
	}

	if len(errorsList) > 0 {
		return fmt.Errorf("%w: %s", errInvalidConfig, strings.Join(errorsList, "; "))
	}
	return nil
}
