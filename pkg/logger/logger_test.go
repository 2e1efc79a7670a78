package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureJSON(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	Configure(&buf, "json", "warn")

	Log.Info().Msg("dropped")
	Log.Warn().Str("pair", "blinkit:acme").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "blinkit:acme", entry["pair"])
	assert.Contains(t, entry, "caller")
}

func TestSetLevelFallsBackToInfo(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	Configure(&buf, "json", "loud")
	assert.Equal(t, zerolog.InfoLevel, Log.GetLevel())
	assert.Contains(t, buf.String(), "invalid log level")
}
