package main

import (
	"context"
	"testing"

	"github.com/gordonklaus/portaudio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/visualbass/visualbass-sync/internal/config"
	"github.com/visualbass/visualbass-sync/internal/lifx"
	"github.com/visualbass/visualbass-sync/internal/state"
)

func parseFlags(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()

	var (
		cfg    config.Config
		cfgErr error
	)
	cmd := &cli.Command{
		Name:  "visualbass",
		Flags: runFlags(),
		Action: func(_ context.Context, c *cli.Command) error {
			cfg, cfgErr = loadConfig(c)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"visualbass"}, args...)))

	return cfg, cfgErr
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := parseFlags(t)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	cfg, err := parseFlags(t,
		"--sensitivity", "2.5",
		"--floor", "0.3",
		"--mode", "gravity",
		"--device", "2",
		"--light", "192.168.1.20",
		"--no-light",
		"--stream", "127.0.0.1:8090",
	)
	require.NoError(t, err)

	assert.InDelta(t, 2.5, cfg.Params.Sensitivity, 1e-9)
	assert.InDelta(t, 0.3, cfg.Params.BrightnessFloor, 1e-9)
	assert.Equal(t, state.ModeGravity, cfg.Mode())
	assert.Equal(t, 2, cfg.Audio.Device)
	assert.Equal(t, "192.168.1.20", cfg.Light.Address)
	assert.False(t, cfg.Light.Enabled)
	assert.Equal(t, "127.0.0.1:8090", cfg.Display.StreamAddr)
}

func TestLoadConfigRejectsInvalidOverride(t *testing.T) {
	_, err := parseFlags(t, "--floor", "2")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = parseFlags(t, "--mode", "sparkles")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestSelectLightAndDeviceWithoutPrompt(t *testing.T) {
	bulb, err := lifx.NewBulbFromAddress("192.168.1.20", "d0:73:d5:01:02:03")
	require.NoError(t, err)

	devices := []*portaudio.DeviceInfo{
		{Index: 0, Name: "Mic", MaxInputChannels: 1},
		{Index: 4, Name: "Loopback", MaxInputChannels: 2},
	}

	sel, err := selectLightAndDevice([]*lifx.Bulb{bulb}, devices, 1, 0, false)
	require.NoError(t, err)
	assert.Same(t, bulb, sel.Light)
	assert.Same(t, devices[1], sel.Device)

	_, err = selectLightAndDevice(nil, devices, 5, 0, false)
	assert.Error(t, err)

	sel, err = selectLightAndDevice(nil, nil, -1, -1, false)
	require.NoError(t, err)
	assert.Nil(t, sel.Light)
	assert.Nil(t, sel.Device)
}

func TestDeviceHelpers(t *testing.T) {
	devices := []*portaudio.DeviceInfo{{Index: 2}, {Index: 7}}

	assert.Equal(t, 1, defaultDevicePosition(devices, &portaudio.DeviceInfo{Index: 7}))
	assert.Equal(t, -1, defaultDevicePosition(devices, &portaudio.DeviceInfo{Index: 3}))
	assert.Equal(t, -1, defaultDevicePosition(devices, nil))

	assert.Equal(t, 1, effectiveInitialDeviceIndex(1, 0, 2))
	assert.Equal(t, 0, effectiveInitialDeviceIndex(-1, 0, 2))
	assert.Equal(t, 0, effectiveInitialDeviceIndex(9, 9, 2))

	assert.Equal(t, 1, sanitizeChannelCount(0, 2))
	assert.Equal(t, 2, sanitizeChannelCount(4, 2))
	assert.Equal(t, 2, sanitizeChannelCount(2, 0))
}
