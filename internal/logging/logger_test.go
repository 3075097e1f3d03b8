package logging_test

import (
	"bytes"
	"testing"

	"bookclub/internal/logging"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInit_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "debug", Format: "json", Output: &buf})
	defer logging.Init(logging.Config{})

	logging.Info().Str("club", "c-1").Msg("club created")

	assert.Contains(t, buf.String(), `"club":"c-1"`)
	assert.Contains(t, buf.String(), `"message":"club created"`)
	assert.Contains(t, buf.String(), `"level":"info"`)
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "error", Output: &buf})
	defer logging.Init(logging.Config{})

	logging.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	logging.Error().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, logging.ParseLevel("WARNING"))
	assert.Equal(t, zerolog.Disabled, logging.ParseLevel("disabled"))
	assert.Equal(t, zerolog.InfoLevel, logging.ParseLevel("nonsense"))
}
