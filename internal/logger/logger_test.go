package logger

import (
	"bytes"
	"em27-metadata/internal/config/components"
	"encoding/json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(components.LoggerConfigImpl{Level: "warn", Format: "json"}, &buf)

	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	logger.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	catalogLogger := GetLogger("catalog")
	catalogLogger.Warn().Str("sensor_id", "ma").Msg("kept")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "catalog", entry["component"])
	assert.Equal(t, "ma", entry["sensor_id"])
	assert.Equal(t, "kept", entry["message"])
}

func TestNewLoggerUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(components.LoggerConfigImpl{Level: "chatty", Format: "console"}, &buf)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}
