package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWaveformDownsamples(t *testing.T) {
	w := NewWaveformBuffers(4)
	mono := []float64{-1, -2, -3, -4, -5, -6, -7, -8}

	out := w.Smooth(mono)
	assert.Equal(t, []float64{-1, -3, -5, -7}, out, "negative samples pass through unsmoothed")
}

func TestWaveformBlendsHistory(t *testing.T) {
	w := NewWaveformBuffers(2)

	w.Smooth([]float64{1, 1})
	out := w.Smooth([]float64{0.5, 0.5})

	want := WaveformSmoothing*0.75 + (1-WaveformSmoothing)*0.5
	assert.InDelta(t, want, out[0], 1e-12)
	assert.InDelta(t, want, out[1], 1e-12)
}

func TestWaveformShortInput(t *testing.T) {
	w := NewWaveformBuffers(8)
	assert.Nil(t, w.Smooth([]float64{1}))
}
