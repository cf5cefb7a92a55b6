package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/nugudi/nugudi-gateway/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	logging.Configure(&buf, "warn", false)

	log.Info().Msg("hidden")
	require.Zero(t, buf.Len())

	log.Warn().Str("scope", "edge").Msg("shown")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "warn", line["level"])
	require.Equal(t, "edge", line["scope"])
	require.Equal(t, "shown", line["message"])
}

func TestConfigure_InvalidLevelFallsBackToInfo(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	logging.Configure(&buf, "loud", false)
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
