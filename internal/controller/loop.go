// Package controller runs the update loop that turns captured audio into
// glow, hue and light commands.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/visualbass/visualbass-sync/internal/audio"
	"github.com/visualbass/visualbass-sync/internal/colormap"
	"github.com/visualbass/visualbass-sync/internal/dsp"
	"github.com/visualbass/visualbass-sync/internal/light"
	"github.com/visualbass/visualbass-sync/internal/state"
)

const (
	// DefaultUpdateInterval is the loop period.
	DefaultUpdateInterval = time.Second / 240
	// DefaultDisplayGlowRate is the per-iteration easing of the meter glow.
	DefaultDisplayGlowRate = 0.05
	// RadialBars is the number of bars computed for the radial mode.
	RadialBars = 30

	actionBuffer = 64
	debugPeriod  = 2 * time.Second
)

// Options configures a Loop.
type Options struct {
	UpdateInterval  time.Duration
	DisplayGlowRate float64
	Kelvin          uint16
	LightName       string
}

// Loop is the single consumer of the frame queue. Each iteration applies
// pending user actions, processes every queued frame in arrival order,
// advances decay and hue, offers a light command and publishes a Snapshot.
type Loop struct {
	queue      *audio.FrameQueue
	analyzer   *dsp.Analyzer
	decay      *dsp.DecayMeter
	store      *state.Store
	dispatcher *light.Dispatcher
	renderers  []Renderer
	logger     *slog.Logger
	opts       Options

	actions     chan state.Action
	displayGlow *dsp.Smoother

	glow       float64
	last       dsp.Result
	lastUpdate time.Time
	processed  uint64
	rate       *dsp.Smoother
}

func NewLoop(
	queue *audio.FrameQueue,
	analyzer *dsp.Analyzer,
	decay *dsp.DecayMeter,
	store *state.Store,
	dispatcher *light.Dispatcher,
	opts Options,
	logger *slog.Logger,
) *Loop {
	if opts.UpdateInterval <= 0 {
		opts.UpdateInterval = DefaultUpdateInterval
	}
	if opts.DisplayGlowRate <= 0 {
		opts.DisplayGlowRate = DefaultDisplayGlowRate
	}
	if opts.Kelvin == 0 {
		opts.Kelvin = light.DefaultKelvin
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Loop{
		queue:       queue,
		analyzer:    analyzer,
		decay:       decay,
		store:       store,
		dispatcher:  dispatcher,
		logger:      logger,
		opts:        opts,
		actions:     make(chan state.Action, actionBuffer),
		displayGlow: dsp.NewSmoother(opts.DisplayGlowRate),
		rate:        dsp.NewSmoother(0.05),
		last:        dsp.Result{PeakDB: dsp.FloorDB, SmoothedDB: dsp.FloorDB},
	}
}

// AddRenderer registers r for every subsequent snapshot.
func (l *Loop) AddRenderer(r Renderer) {
	l.renderers = append(l.renderers, r)
}

// Submit queues a user action for the next iteration. It never blocks and
// reports false when the action buffer is full.
func (l *Loop) Submit(a state.Action) bool {
	select {
	case l.actions <- a:
		return true
	default:
		l.logger.Warn("dropping user action; loop is not keeping up")
		return false
	}
}

// Run ticks the loop until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.opts.UpdateInterval)
	defer ticker.Stop()

	debugTicker := time.NewTicker(debugPeriod)
	defer debugTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			l.Step(now)
		case <-debugTicker.C:
			l.logger.Debug("audio reactive state",
				slog.String("mode", l.store.Mode().String()),
				slog.Float64("glow", l.glow),
				slog.Float64("hue", l.store.Hue().Value()),
				slog.Float64("gain_db", l.decay.Level()),
				slog.Uint64("frames", l.processed),
				slog.Uint64("dropped", l.queue.Dropped()),
			)
		}
	}
}

// Step runs one iteration at time now and returns the published snapshot.
func (l *Loop) Step(now time.Time) Snapshot {
	l.applyActions()

	params := l.store.Parameters()
	l.queue.Drain(func(frame audio.Frame) {
		l.processFrame(frame, params.Sensitivity)
	})

	var dt time.Duration
	if !l.lastUpdate.IsZero() {
		dt = now.Sub(l.lastUpdate)
		if dt > 0 {
			l.rate.Step(1 / dt.Seconds())
		}
	}
	l.lastUpdate = now
	l.decay.Advance(dt)

	displayGlow := l.displayGlow.Step(l.glow)
	hue := l.store.AdvanceHue()

	snap := Snapshot{
		Time:            now,
		Mode:            l.store.Mode(),
		ModeName:        l.store.Mode().String(),
		Glow:            l.glow,
		DisplayGlow:     displayGlow,
		Hue:             hue,
		ManualHue:       l.store.Hue().Manual(),
		Brightness:      colormap.Value(l.glow, params.Sensitivity, params.BrightnessFloor),
		Sensitivity:     params.Sensitivity,
		BrightnessFloor: params.BrightnessFloor,
		CycleRate:       params.CycleRate,
		WaveformPoints:  params.WaveformPoints,
		GainDB:          l.decay.Level(),
		SmoothedDB:      l.last.SmoothedDB,
		ChannelPeaks:    l.last.ChannelPeaks,
		Editor:          l.store.Editor(),
		ShowStatus:      l.store.ShowStatus(),
		FramesProcessed: l.processed,
		FramesDropped:   l.queue.Dropped(),
		UpdateRate:      l.rate.Value(),
		Light:           l.opts.LightName,
	}
	snap.Color = snap.RGB().Hex()
	l.advanceModeBuffers(&snap)

	if l.dispatcher != nil {
		l.dispatcher.Offer(now, light.NewCommand(l.glow, hue, params.Sensitivity, params.BrightnessFloor, l.opts.Kelvin))
		snap.LightStats = l.dispatcher.Stats()
	}

	for _, r := range l.renderers {
		r.Render(snap)
	}

	return snap
}

func (l *Loop) applyActions() {
	for {
		select {
		case a := <-l.actions:
			l.store.Apply(a)
		default:
			return
		}
	}
}

// processFrame runs one frame through both smoothing paths. A failure is
// logged and the frame is skipped; the loop keeps going.
func (l *Loop) processFrame(frame audio.Frame, sensitivity float64) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("failed to process audio frame",
				slog.Int("samples", len(frame.Samples)),
				slog.Any("error", fmt.Errorf("%v", r)),
			)
		}
	}()

	result := l.analyzer.Process(frame.Samples, frame.Channels, sensitivity)
	l.glow = result.Glow
	l.decay.Observe(result.PeakDB)
	l.last = result
	l.processed++
}

func (l *Loop) advanceModeBuffers(snap *Snapshot) {
	switch snap.Mode {
	case state.ModeGravity:
		orbs := l.store.Orbs()
		if l.glow > 0 && orbs.Len() == 0 {
			orbs.Populate()
		}
		orbs.Update(l.glow, snap.Sensitivity)
		snap.Orbs = orbs.Orbs()
	case state.ModeWaveform:
		snap.Waveform = l.store.Waveform().Smooth(l.last.Mono)
	case state.ModeRadial:
		snap.Bars = dsp.SpectrumBars(l.last.Mono, RadialBars)
	}
}
