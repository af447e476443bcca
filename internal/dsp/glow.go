package dsp

import (
	"math"

	"github.com/visualbass/visualbass-sync/internal/utils"
)

// DefaultBrightnessGain scales the averaged detection before normalization.
const DefaultBrightnessGain = 1.6

// GlowEnvelope turns detections into the 0..1 glow value through a moving average.
type GlowEnvelope struct {
	window *Window
	gain   float64
}

// NewGlowEnvelope returns an envelope averaging the last windowSize detections.
func NewGlowEnvelope(windowSize int, gain float64) *GlowEnvelope {
	if gain <= 0 {
		gain = DefaultBrightnessGain
	}
	return &GlowEnvelope{
		window: NewWindow(windowSize),
		gain:   gain,
	}
}

// Update records detection and returns the glow for the current window.
func (g *GlowEnvelope) Update(detection, sensitivity float64) float64 {
	g.window.Push(detection)
	return Glow(g.window.Mean(), g.gain, sensitivity)
}

// Mean returns the current moving-average detection.
func (g *GlowEnvelope) Mean() float64 {
	return g.window.Mean()
}

// Glow maps an averaged detection to [0, 1].
func Glow(mean, gain, sensitivity float64) float64 {
	v := mean * gain / 100 * sensitivity
	if math.IsNaN(v) {
		return 0
	}
	return utils.Clamp(v, 0.0, 1.0)
}
