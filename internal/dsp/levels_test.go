package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeakDBSilenceIsFloor(t *testing.T) {
	assert.Equal(t, FloorDB, PeakDB(Peak(make([]float64, 128))))
	assert.Equal(t, FloorDB, PeakDB(1e-9))
	assert.InDelta(t, 0.0, PeakDB(1), 1e-12)
	assert.InDelta(t, -6.0206, PeakDB(0.5), 1e-4)
}

func TestChannelPeaks(t *testing.T) {
	peaks := ChannelPeaks([]float32{0.1, -0.8, -0.4, 0.2}, 2)
	assert.InDeltaSlice(t, []float64{0.4, 0.8}, peaks, 1e-6)
}

func TestToMono(t *testing.T) {
	mono := ToMono([]float32{1, 0, 0.5, 0.5}, 2, nil)
	assert.Equal(t, []float64{0.5, 0.5}, mono)
}
