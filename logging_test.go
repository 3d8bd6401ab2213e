package dvsim

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "dvsim.log")
	logger, closer, err := NewLogger(slog.LevelInfo, logPath, "test")
	require.NoError(t, err)

	d := buildDriver(t, scenarioA(), nil, WithLogger(logger), WithCountdownSources(everyStep))
	logger.Debug("below the level")
	runToConvergence(t, d)
	require.NoError(t, closer())

	body, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(body), "simulation configured")
	assert.Contains(t, string(body), "simulation converged")
	assert.NotContains(t, string(body), "below the level")
}

func TestNewLoggerWithoutFile(t *testing.T) {
	logger, closer, err := NewLogger(slog.LevelWarn, "", "")
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closer())
}
