// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package smhi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		config, err := loadConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, &Config{
			BaseURL:        DefaultBaseURL,
			APIVersion:     "1.0",
			RequestTimeout: 30 * time.Second,
			MaxStationAge:  48 * time.Hour,
			Concurrency:    4,
			RateLimit:      10,
		}, config)
	})

	t.Run("trailing slash is removed from the base url", func(t *testing.T) {
		t.Setenv("SMHI_BASE_URL", "http://localhost:8080/api/")
		config, err := loadConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/api", config.BaseURL)
	})

	t.Run("fails with a relative base url", func(t *testing.T) {
		t.Setenv("SMHI_BASE_URL", "/api")
		config, err := loadConfigFromEnv()
		require.ErrorIs(t, err, errInvalidConfig)
		require.Nil(t, config)
		assert.Contains(t, err.Error(), "SMHI_BASE_URL must be an absolute URL")
	})

	t.Run("fails with out of range values", func(t *testing.T) {
		t.Setenv("SMHI_CONCURRENCY", "0")
		t.Setenv("SMHI_RATE_LIMIT", "-1")
		t.Setenv("SMHI_MAX_STATION_AGE", "0s")
		config, err := loadConfigFromEnv()
		require.ErrorIs(t, err, errInvalidConfig)
		require.Nil(t, config)
		assert.Contains(t, err.Error(), "SMHI_CONCURRENCY is out of valid range (1-64)")
		assert.Contains(t, err.Error(), "SMHI_RATE_LIMIT must be positive")
		assert.Contains(t, err.Error(), "SMHI_MAX_STATION_AGE must be positive")
	})

	t.Run("fails with unparsable values", func(t *testing.T) {
		t.Setenv("SMHI_REQUEST_TIMEOUT", "soon")
		config, err := loadConfigFromEnv()
		require.ErrorIs(t, err, errParsingConfig)
		require.Nil(t, config)
	})
}
