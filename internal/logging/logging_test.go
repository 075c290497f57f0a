package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/qrm/internal/config"
)

func TestSetupWritesFile(t *testing.T) {
	prev, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	path := filepath.Join(t.TempDir(), "qrm.log")
	Setup(&config.Config{LogLevel: "warn", LogFile: path})

	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	log.Info().Msg("dropped")
	log.Warn().Str("guild", "1").Msg("kept")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"guild":"1"`)
	assert.Contains(t, string(data), `"message":"kept"`)
	assert.NotContains(t, string(data), "dropped")
}

func TestSetupUnknownLevel(t *testing.T) {
	prev, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	Setup(&config.Config{LogLevel: "loud", LogPretty: true})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
