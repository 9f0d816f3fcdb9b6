package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestWithError(t *testing.T) {
	output := bytes.NewBuffer(nil)
	logger := BuildLoggerWithOutput(output, slog.LevelInfo)

	logger.WithError(errors.New("carrier ended")).Error("Error decoding")
	logger.Debug("Not logged")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(output.Bytes(), &entry))
	assert.Equal(t, "carrier ended", entry["error"])
	assert.Equal(t, "Error decoding", entry["msg"])
}
