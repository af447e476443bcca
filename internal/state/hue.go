package state

import (
	"github.com/visualbass/visualbass-sync/internal/utils"
)

// InitialHue is the auto-cycle starting point (green).
const InitialHue = 1.0 / 3.0

// HueState is either auto-cycling or pinned to a manual value.
type HueState struct {
	value       float64
	manual      bool
	manualValue float64
}

func NewHueState(initial float64) HueState {
	return HueState{value: utils.WrapUnit(initial)}
}

// Advance moves the hue one tick: hue' = (hue + rate) mod 1 when cycling,
// the pinned value otherwise.
func (h *HueState) Advance(rate float64) float64 {
	if h.manual {
		h.value = utils.WrapUnit(h.manualValue)
		return h.value
	}
	h.value = utils.WrapUnit(h.value + rate)
	return h.value
}

// SetManual commits a manual hue entry. Zero returns to auto-cycling.
func (h *HueState) SetManual(v float64) {
	v = utils.Clamp(v, 0.0, 1.0)
	h.manualValue = v
	h.manual = v != 0
	if h.manual {
		h.value = utils.WrapUnit(v)
	}
}

func (h HueState) Value() float64 {
	return h.value
}

func (h HueState) Manual() bool {
	return h.manual
}

func (h HueState) ManualValue() float64 {
	return h.manualValue
}
