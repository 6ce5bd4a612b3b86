package observability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/diceman/internal/config"
	"github.com/cory-johannsen/diceman/internal/observability"
)

func TestNewLogger_ValidConfigs(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		for _, format := range []string{"json", "console"} {
			logger, err := observability.NewLogger(config.LoggingConfig{Level: level, Format: format})
			require.NoError(t, err, "level=%s format=%s", level, format)
			require.NotNil(t, logger)
			logger.Info("test entry")
		}
	}
}

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	_, err := observability.NewLogger(config.LoggingConfig{Level: "trace", Format: "json"})
	assert.Error(t, err)
}

func TestNewLogger_RejectsUnknownFormat(t *testing.T) {
	_, err := observability.NewLogger(config.LoggingConfig{Level: "info", Format: "yaml"})
	assert.Error(t, err)
}
