package dsp

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// BarThresholdDB silences bars whose magnitude falls below this level.
const BarThresholdDB = -50.0

// SpectrumBars returns count bars from the lowest FFT bins of mono, each
// normalized to the strongest bin of the positive half-spectrum.
func SpectrumBars(mono []float64, count int) []float64 {
	bars := make([]float64, max(count, 0))
	if len(mono) < 2 || count <= 0 {
		return bars
	}

	spectrum := fft.FFTReal(mono)
	half := len(mono) / 2
	mags := make([]float64, half)
	peak := 0.0
	for i := range half {
		mags[i] = cmplx.Abs(spectrum[i])
		if mags[i] > peak {
			peak = mags[i]
		}
	}
	if peak == 0 || math.IsNaN(peak) {
		peak = 1
	}

	for i := 0; i < count && i < half; i++ {
		if PeakDB(mags[i]) < BarThresholdDB {
			continue
		}
		bars[i] = mags[i] / peak
	}

	return bars
}
