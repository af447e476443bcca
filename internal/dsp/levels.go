package dsp

import "math"

// FloorDB is the lowest level reported by any meter.
const FloorDB = -100.0

// Peak returns the largest absolute sample value.
func Peak(samples []float64) float64 {
	var peak float64
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	return peak
}

// PeakDB converts a linear peak to dBFS, never reporting below FloorDB.
func PeakDB(peak float64) float64 {
	if peak <= 0 || math.IsNaN(peak) {
		return FloorDB
	}
	return max(20*math.Log10(peak), FloorDB)
}

// ChannelPeaks returns the absolute peak of each channel of interleaved samples.
func ChannelPeaks(samples []float32, channels int) []float64 {
	channels = max(channels, 1)
	peaks := make([]float64, channels)
	for i, s := range samples {
		a := math.Abs(float64(s))
		if c := i % channels; a > peaks[c] {
			peaks[c] = a
		}
	}
	return peaks
}

// ToMono averages interleaved multi-channel data into a mono frame.
func ToMono(samples []float32, channels int, dst []float64) []float64 {
	if channels <= 0 {
		channels = 1
	}
	frameLen := len(samples) / channels
	if cap(dst) < frameLen {
		dst = make([]float64, frameLen)
	} else {
		dst = dst[:frameLen]
	}
	if frameLen == 0 {
		return dst
	}
	idx := 0
	for i := range frameLen {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += float64(samples[idx])
			idx++
		}
		dst[i] = sum / float64(channels)
	}
	return dst
}
