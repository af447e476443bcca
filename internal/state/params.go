package state

import (
	"github.com/visualbass/visualbass-sync/internal/utils"
)

const (
	DefaultSensitivity     = 1.0
	DefaultBrightnessFloor = 0.1
	DefaultCycleRate       = 0.0003
	DefaultWaveformPoints  = 128

	MinSensitivity = 0.1
	MaxSensitivity = 10.0

	// SensitivityStep and FloorStep are the keyboard increments.
	SensitivityStep = 0.1
	FloorStep       = 0.05

	MaxWaveformPoints = 4096
)

// Parameters are the user-adjustable controls read every frame.
type Parameters struct {
	Sensitivity     float64
	BrightnessFloor float64
	WaveformPoints  int
	CycleRate       float64
}

func DefaultParameters() Parameters {
	return Parameters{
		Sensitivity:     DefaultSensitivity,
		BrightnessFloor: DefaultBrightnessFloor,
		WaveformPoints:  DefaultWaveformPoints,
		CycleRate:       DefaultCycleRate,
	}
}

// Normalize clamps every parameter into its accepted range.
func (p Parameters) Normalize() Parameters {
	p.Sensitivity = utils.Clamp(p.Sensitivity, MinSensitivity, MaxSensitivity)
	p.BrightnessFloor = utils.Clamp(p.BrightnessFloor, 0.0, 1.0)
	p.WaveformPoints = utils.Clamp(p.WaveformPoints, 2, MaxWaveformPoints)
	p.CycleRate = utils.Clamp(p.CycleRate, 0.0, 1.0)
	return p
}
