package state

import (
	"math"

	"github.com/visualbass/visualbass-sync/internal/dsp"
)

const (
	// WaveformHistory is the number of positive samples kept per point.
	WaveformHistory = 5
	// WaveformSmoothing is the weight of the per-point history mean.
	WaveformSmoothing = 0.025
)

// WaveformBuffers smooths the downsampled waveform point by point.
type WaveformBuffers struct {
	history []*dsp.Window
}

func NewWaveformBuffers(points int) *WaveformBuffers {
	if points < 1 {
		points = 1
	}
	history := make([]*dsp.Window, points)
	for i := range history {
		history[i] = dsp.NewWindow(WaveformHistory)
	}
	return &WaveformBuffers{history: history}
}

// Points is the number of per-point buffers.
func (w *WaveformBuffers) Points() int {
	return len(w.history)
}

// Smooth downsamples mono to at most one value per point and blends each
// value with the mean of its recent positive samples.
func (w *WaveformBuffers) Smooth(mono []float64) []float64 {
	if len(mono) < 2 {
		return nil
	}

	step := max(1, len(mono)/len(w.history))
	out := make([]float64, 0, (len(mono)+step-1)/step)
	for i := 0; i < len(mono); i += step {
		v := mono[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		out = append(out, v)
	}

	for i, v := range out {
		if i >= len(w.history) {
			break
		}
		buf := w.history[i]
		if v > 0 {
			buf.Push(v)
		}
		if buf.Len() > 0 {
			out[i] = WaveformSmoothing*buf.Mean() + (1-WaveformSmoothing)*v
		}
	}

	return out
}
