package main

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/rotisserie/eris"

	"github.com/visualbass/visualbass-sync/internal/lifx"
	"github.com/visualbass/visualbass-sync/internal/ui"
)

// selection holds what the user picked. Either field may be nil: no light
// means colors are computed but never sent, no device means file replay.
type selection struct {
	Light  *lifx.Bulb
	Device *portaudio.DeviceInfo
}

// selectLightAndDevice resolves the light and input device, asking the user
// for whichever one was not fixed by configuration. Without a terminal the
// first light and the default device are used.
func selectLightAndDevice(
	lights []*lifx.Bulb,
	devices []*portaudio.DeviceInfo,
	requestedDevice int,
	defaultDeviceIndex int,
	lightFixed bool,
) (selection, error) {
	var sel selection

	if requestedDevice >= 0 {
		if requestedDevice >= len(devices) {
			return sel, eris.Errorf("invalid device index %d", requestedDevice)
		}
		sel.Device = devices[requestedDevice]
	}
	if lightFixed && len(lights) > 0 {
		sel.Light = lights[0]
	}

	needLight := sel.Light == nil && len(lights) > 1
	needDevice := sel.Device == nil && len(devices) > 0
	initialDevice := effectiveInitialDeviceIndex(requestedDevice, defaultDeviceIndex, len(devices))

	if !needLight && sel.Light == nil && len(lights) == 1 {
		sel.Light = lights[0]
	}
	if !needLight && !needDevice {
		return sel, nil
	}

	result, err := ui.RunSetup(
		buildLightOptions(lights),
		buildDeviceOptions(devices),
		ui.SetupConfig{
			RequireLight:  needLight,
			RequireDevice: needDevice,
			InitialLight:  0,
			InitialDevice: initialDevice,
		},
	)
	if err != nil {
		if !eris.Is(err, ui.ErrNoInteractiveTTY) {
			return sel, err
		}
		result = ui.SetupResult{LightIndex: 0, DeviceIndex: initialDevice}
	}

	if needLight {
		sel.Light = lights[result.LightIndex]
	}
	if needDevice {
		sel.Device = devices[result.DeviceIndex]
	}

	return sel, nil
}

func buildLightOptions(lights []*lifx.Bulb) []ui.Option {
	options := make([]ui.Option, len(lights))
	for i, bulb := range lights {
		options[i] = ui.Option{
			Label:  lightName(bulb),
			Detail: fmt.Sprintf("%s · %s", bulb.MAC(), bulb.Addr()),
		}
	}
	return options
}

func describeLight(bulb *lifx.Bulb) string {
	power := "off"
	if bulb.Powered() {
		power = "on"
	}
	return fmt.Sprintf("%s [%s] · power:%s · %s", lightName(bulb), bulb.MAC(), power, bulb.Addr())
}

func lightName(bulb *lifx.Bulb) string {
	if name := bulb.Label(); name != "" {
		return name
	}
	return "LIFX"
}

func buildDeviceOptions(devices []*portaudio.DeviceInfo) []ui.Option {
	options := make([]ui.Option, len(devices))
	for i, dev := range devices {
		options[i] = ui.Option{Label: describeDevice(i, dev)}
	}
	return options
}

func describeDevice(index int, dev *portaudio.DeviceInfo) string {
	return fmt.Sprintf(
		"[%d] %s · %.0fHz · in:%d · latency:%.1fms",
		index,
		dev.Name,
		dev.DefaultSampleRate,
		dev.MaxInputChannels,
		dev.DefaultLowInputLatency.Seconds()*1000,
	)
}

func effectiveInitialDeviceIndex(requested, fallback, length int) int {
	if length == 0 {
		return 0
	}
	if requested >= 0 && requested < length {
		return requested
	}
	if fallback >= 0 && fallback < length {
		return fallback
	}
	return 0
}

// defaultDevicePosition maps the PortAudio default input to its position in
// devices, or -1 when it is absent.
func defaultDevicePosition(devices []*portaudio.DeviceInfo, def *portaudio.DeviceInfo) int {
	if def == nil {
		return -1
	}
	for i, dev := range devices {
		if dev.Index == def.Index {
			return i
		}
	}
	return -1
}

func sanitizeChannelCount(requested, max int) int {
	if requested <= 0 {
		return 1
	}

	if max > 0 && requested > max {
		return max
	}

	return requested
}
