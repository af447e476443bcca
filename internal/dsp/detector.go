package dsp

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/floats"
)

// ErrDegenerateSpectrum is returned when a frame yields no usable magnitude.
var ErrDegenerateSpectrum = eris.New("degenerate spectrum")

// DefaultTargetFrequencies are the bass frequencies (Hz) watched for energy.
func DefaultTargetFrequencies() []float64 {
	return []float64{35, 40, 45, 50}
}

// Detector reports whether any of a fixed set of target frequencies carries
// signal. The result is the largest magnitude among the bins nearest to each
// target, taken from the unnormalized real FFT of the frame, so its scale
// depends on the frame length.
type Detector struct {
	sampleRate float64
	targets    []float64
	bins       map[int][]int
	magnitudes []float64
}

// NewDetector constructs a Detector for frames sampled at sampleRate.
func NewDetector(sampleRate float64, targets []float64) *Detector {
	if sampleRate <= 0 {
		panic("dsp: sampleRate must be > 0")
	}
	if len(targets) == 0 {
		targets = DefaultTargetFrequencies()
	}

	return &Detector{
		sampleRate: sampleRate,
		targets:    append([]float64(nil), targets...),
		bins:       make(map[int][]int),
		magnitudes: make([]float64, len(targets)),
	}
}

// Detect returns the detection value for a mono frame. Any numerical failure
// yields 0 together with the error describing it.
func (d *Detector) Detect(mono []float64) (value float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = 0
			err = eris.Errorf("spectral detection panicked: %v", r)
		}
	}()

	if len(mono) == 0 {
		return 0, nil
	}

	spectrum := fft.FFTReal(mono)
	for i, bin := range d.binsFor(len(mono)) {
		d.magnitudes[i] = cmplx.Abs(spectrum[bin])
	}

	value = floats.Max(d.magnitudes)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, eris.Wrapf(ErrDegenerateSpectrum, "detection value %v", value)
	}

	return value, nil
}

func (d *Detector) binsFor(n int) []int {
	if bins, ok := d.bins[n]; ok {
		return bins
	}

	bins := make([]int, len(d.targets))
	for i, target := range d.targets {
		bins[i] = NearestBin(target, d.sampleRate, n)
	}
	d.bins[n] = bins

	return bins
}

// NearestBin returns the index of the real-FFT bin (0..n/2) whose centre
// frequency is closest to freq. Ties resolve to the lower bin.
func NearestBin(freq, sampleRate float64, n int) int {
	if n <= 0 {
		return 0
	}

	binWidth := sampleRate / float64(n)
	best := 0
	bestDist := math.Inf(1)
	for k := 0; k <= n/2; k++ {
		dist := math.Abs(float64(k)*binWidth - freq)
		if dist < bestDist {
			best = k
			bestDist = dist
		}
	}

	return best
}
