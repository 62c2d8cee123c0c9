package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, true, "info")
	log.Debug().Msg("hidden")
	log.Info().Str("order", "o1").Msg("stock deducted")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "stock deducted", line["message"])
	assert.Equal(t, "o1", line["order"])
	assert.Equal(t, "info", line["level"])
}

func TestDevelopmentIsConsole(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, false, "debug")
	log.Debug().Msg("mutation applied")
	assert.Contains(t, buf.String(), "mutation applied")
	assert.Contains(t, buf.String(), "DBG")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	log := NewWithWriter(&bytes.Buffer{}, true, "loud")
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}
