package dsp

import (
	"log/slog"
)

// Options configures an Analyzer.
type Options struct {
	SampleRate        float64
	TargetFrequencies []float64
	WindowSize        int
	BrightnessGain    float64
	DBSmoothing       float64
}

// Result is everything derived from one frame.
type Result struct {
	Detection    float64
	Glow         float64
	PeakDB       float64
	SmoothedDB   float64
	ChannelPeaks []float64
	Mono         []float64
}

// Analyzer runs both smoothing paths over each frame: the display dB path
// (peak level, exponentially smoothed) and the glow path (target-frequency
// detection through a moving average).
type Analyzer struct {
	detector *Detector
	glow     *GlowEnvelope
	db       *Smoother
	logger   *slog.Logger
}

// NewAnalyzer constructs an Analyzer; zero options fall back to defaults.
func NewAnalyzer(opts Options, logger *slog.Logger) *Analyzer {
	if opts.SampleRate <= 0 {
		opts.SampleRate = 44100
	}
	if opts.DBSmoothing <= 0 {
		opts.DBSmoothing = 0.2
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Analyzer{
		detector: NewDetector(opts.SampleRate, opts.TargetFrequencies),
		glow:     NewGlowEnvelope(opts.WindowSize, opts.BrightnessGain),
		db:       NewSmootherFrom(opts.DBSmoothing, FloorDB),
		logger:   logger,
	}
}

// Process analyzes one interleaved frame. It never fails: a detection error is
// logged and counted as a zero detection.
func (a *Analyzer) Process(samples []float32, channels int, sensitivity float64) Result {
	mono := ToMono(samples, channels, nil)
	peaks := ChannelPeaks(samples, channels)

	peakDB := PeakDB(Peak(mono))
	smoothed := a.db.Step(peakDB)

	detection, err := a.detector.Detect(mono)
	if err != nil {
		a.logger.Error("target frequency detection failed", slog.Any("error", err))
		detection = 0
	}

	return Result{
		Detection:    detection,
		Glow:         a.glow.Update(detection, sensitivity),
		PeakDB:       peakDB,
		SmoothedDB:   smoothed,
		ChannelPeaks: peaks,
		Mono:         mono,
	}
}

// SmoothedDB returns the current display dB value.
func (a *Analyzer) SmoothedDB() float64 {
	return a.db.Value()
}
