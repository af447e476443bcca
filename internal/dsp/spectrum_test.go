package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpectrumBarsSilence(t *testing.T) {
	bars := SpectrumBars(make([]float64, 128), 30)
	assert.Len(t, bars, 30)
	for _, b := range bars {
		assert.Equal(t, 0.0, b)
	}
}

func TestSpectrumBarsNormalized(t *testing.T) {
	bars := SpectrumBars(sine(44100.0*4/128, 1, 44100, 128), 30)
	assert.InDelta(t, 1.0, bars[4], 1e-9)
	for _, b := range bars {
		assert.LessOrEqual(t, b, 1.0+1e-9)
	}
}
