package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visualbass/visualbass-sync/internal/state"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "visualbass.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 44100.0, cfg.Audio.SampleRate)
	assert.Equal(t, 128, cfg.Audio.BlockSize)
	assert.Equal(t, 16, cfg.Audio.QueueCapacity)
	assert.Equal(t, []float64{35, 40, 45, 50}, cfg.Audio.TargetFrequencies)
	assert.Equal(t, 10, cfg.Smoothing.WindowSize)
	assert.Equal(t, 9*time.Millisecond, cfg.Light.DispatchInterval)
	assert.Equal(t, 3, cfg.Light.Retries)
	assert.Equal(t, 100*time.Millisecond, cfg.Light.RetryDelay)
	assert.Equal(t, uint16(3500), cfg.Light.Kelvin)
	assert.False(t, cfg.Light.Ack, "color updates are fire-and-forget unless acks are asked for")
	assert.Equal(t, state.ModePolygon, cfg.Mode())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
audio:
  block_size: 256
  target_frequencies: [40, 60]
light:
  address: 192.168.1.40
  mac: d0:73:d5:00:11:22
  dispatch_interval: 20ms
params:
  sensitivity: 2.5
  mode: db meters
display:
  stream_addr: 127.0.0.1:8090
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.Audio.BlockSize)
	assert.Equal(t, []float64{40, 60}, cfg.Audio.TargetFrequencies)
	assert.Equal(t, 44100.0, cfg.Audio.SampleRate, "untouched keys keep defaults")
	assert.Equal(t, "192.168.1.40", cfg.Light.Address)
	assert.Equal(t, 20*time.Millisecond, cfg.Light.DispatchInterval)
	assert.Equal(t, 2.5, cfg.Parameters().Sensitivity)
	assert.Equal(t, state.ModeDBMeters, cfg.Mode())
	assert.Equal(t, 20*time.Millisecond, cfg.DispatchOptions().Interval)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "audio:\n  sample_rte: 48000\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateReportsYAMLKeys(t *testing.T) {
	cfg := Default()
	cfg.Params.Sensitivity = 50
	cfg.Params.Mode = "cube"
	cfg.Light.MAC = "nope"
	cfg.Decay.MaxRate = 1

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	msg := err.Error()
	assert.Contains(t, msg, "params.sensitivity must be less than or equal to 10")
	assert.Contains(t, msg, "params.mode must be a visualization mode")
	assert.Contains(t, msg, "light.mac must be a valid MAC address")
	assert.Contains(t, msg, "decay.max_rate")
}

func TestValidateTargetFrequencies(t *testing.T) {
	cfg := Default()
	cfg.Audio.TargetFrequencies = nil
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg.Audio.TargetFrequencies = []float64{40, -1}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}
