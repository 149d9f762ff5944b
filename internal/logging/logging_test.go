package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "docchat.log")
	logger, err := New(Options{Path: path})
	require.NoError(t, err)

	logger.Named("dispatch").Info("query finished")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(strings.Split(string(data), "\n")[0])

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "query finished", entry["message"])
	assert.Equal(t, "dispatch", entry["logger"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewWithoutOutputsIsNop(t *testing.T) {
	t.Parallel()

	logger, err := New(Options{})
	require.NoError(t, err)
	logger.Info("dropped")
}

func TestDebugLevelFiltersInfoOnly(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "debug.log")
	quiet, err := New(Options{Path: path})
	require.NoError(t, err)
	quiet.Debug("hidden")
	_ = quiet.Sync()

	data, err := os.ReadFile(path)
	if err == nil {
		assert.NotContains(t, string(data), "hidden")
	}
}
