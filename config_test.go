package dvsim

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5, cfg.InfinityHops)
	assert.Equal(t, 10, cfg.MailboxCapacity)
	assert.Equal(t, 5, cfg.StaticThreshold)
	assert.Equal(t, 4, cfg.MaxCountdown)
	assert.False(t, cfg.Concurrent)
	assert.NoError(t, cfg.Validate())
}

func TestReadConfigKeepsDefaults(t *testing.T) {
	dict := []byte(`
mailboxcapacity: 1
stepdelay: 250ms
concurrent: true
`)
	cfg, err := ReadConfig("", true, dict)
	require.NoError(t, err)

	want := DefaultConfig()
	want.MailboxCapacity = 1
	want.StepDelay = 250 * time.Millisecond
	want.Concurrent = true
	assert.Equal(t, want, cfg)
}

func TestConfigFiles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 17
	cfg.StepDelay = time.Second
	dir := t.TempDir()

	for _, name := range []string{"cfg.yaml", "cfg.json"} {
		filename := filepath.Join(dir, name)
		require.NoError(t, cfg.WriteToFile(filename))
		back, err := ReadConfig(filename, UseYAML(filename), []byte{})
		require.NoError(t, err)
		assert.Equal(t, cfg, back, name)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InfinityHops = 1
	cfg.MailboxCapacity = 0
	cfg.StepDelay = -time.Second

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadParameter)

	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Len(t, ce.Problems, 3)
	assert.Contains(t, err.Error(), "mailboxcapacity=0")
}

func TestReadConfigJSONDelay(t *testing.T) {
	cfg, err := ReadConfig("", false, []byte(`{"stepdelay": "500ms", "maxsteps": 7}`))
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.StepDelay)
	assert.Equal(t, 7, cfg.MaxSteps)
	assert.Equal(t, DefaultInfinityHops, cfg.InfinityHops)

	cfg, err = ReadConfig("", false, []byte(`{"stepdelay": 250000000}`))
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.StepDelay)

	_, err = ReadConfig("", false, []byte(`{"stepdelay": "soon"}`))
	assert.ErrorIs(t, err, ErrBadParameter)
}

func TestWriteConfigJSONDelay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StepDelay = 1500 * time.Millisecond
	filename := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, cfg.WriteToFile(filename))

	body, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"stepdelay": "1.5s"`)
}
