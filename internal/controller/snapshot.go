package controller

import (
	"time"

	"github.com/visualbass/visualbass-sync/internal/colormap"
	"github.com/visualbass/visualbass-sync/internal/light"
	"github.com/visualbass/visualbass-sync/internal/state"
)

// Snapshot is the read-only view of one loop iteration handed to renderers.
type Snapshot struct {
	Time time.Time `json:"time"`

	Mode        state.Mode `json:"-"`
	ModeName    string     `json:"mode"`
	Glow        float64    `json:"glow"`
	DisplayGlow float64    `json:"displayGlow"`
	Hue         float64    `json:"hue"`
	ManualHue   bool       `json:"manualHue"`
	Color       string     `json:"color"`
	Brightness  float64    `json:"brightness"`

	Sensitivity     float64 `json:"sensitivity"`
	BrightnessFloor float64 `json:"brightnessFloor"`
	CycleRate       float64 `json:"cycleRate"`
	WaveformPoints  int     `json:"waveformPoints"`

	GainDB       float64   `json:"gainDb"`
	SmoothedDB   float64   `json:"smoothedDb"`
	ChannelPeaks []float64 `json:"channelPeaks"`

	Waveform []float64   `json:"waveform,omitempty"`
	Orbs     []state.Orb `json:"orbs,omitempty"`
	Bars     []float64   `json:"bars,omitempty"`

	Editor     state.Editor `json:"-"`
	ShowStatus bool         `json:"-"`

	FramesProcessed uint64      `json:"framesProcessed"`
	FramesDropped   uint64      `json:"framesDropped"`
	UpdateRate      float64     `json:"updateRate"`
	Light           string      `json:"light,omitempty"`
	LightStats      light.Stats `json:"lightStats"`
}

// RGB returns the current state color.
func (s Snapshot) RGB() colormap.RGB {
	return colormap.ToRGB(s.Glow, s.Hue, s.Sensitivity, s.BrightnessFloor)
}

// Renderer consumes snapshots. Render is called from the loop goroutine and
// must not block.
type Renderer interface {
	Render(Snapshot)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Snapshot)

func (f RendererFunc) Render(s Snapshot) {
	f(s)
}
