package dsp

import (
	"math"
	"time"
)

// DecayOptions configures a DecayMeter. Rates are in dB per second.
type DecayOptions struct {
	InitialRate  float64
	MaxRate      float64
	RampInterval time.Duration
	FloorDB      float64
}

// DefaultDecayOptions ramps from 5 to 10 dB/s, one step per second of silence.
func DefaultDecayOptions() DecayOptions {
	return DecayOptions{
		InitialRate:  5,
		MaxRate:      10,
		RampInterval: time.Second,
		FloorDB:      FloorDB,
	}
}

// DecayMeter is a VU-style level that jumps to new peaks instantly and falls
// progressively faster the longer no louder signal arrives.
type DecayMeter struct {
	opts     DecayOptions
	level    float64
	decaying time.Duration
}

// NewDecayMeter returns a meter resting at the floor.
func NewDecayMeter(opts DecayOptions) *DecayMeter {
	def := DefaultDecayOptions()
	if opts.InitialRate <= 0 {
		opts.InitialRate = def.InitialRate
	}
	if opts.MaxRate < opts.InitialRate {
		opts.MaxRate = max(def.MaxRate, opts.InitialRate)
	}
	if opts.RampInterval <= 0 {
		opts.RampInterval = def.RampInterval
	}
	if opts.FloorDB == 0 {
		opts.FloorDB = def.FloorDB
	}
	return &DecayMeter{opts: opts, level: opts.FloorDB}
}

// Observe feeds a new level. A louder level replaces the current one and
// restarts the decay ramp.
func (m *DecayMeter) Observe(db float64) {
	if math.IsNaN(db) || db <= m.level {
		return
	}
	m.level = db
	if db > m.opts.FloorDB {
		m.decaying = 0
	}
}

// Set forces the level and restarts the ramp.
func (m *DecayMeter) Set(db float64) {
	m.level = max(db, m.opts.FloorDB)
	m.decaying = 0
}

// Advance lets dt of decay elapse and returns the new level. The rate for the
// i-th ramp interval of continuous decay is min(InitialRate+i, MaxRate).
func (m *DecayMeter) Advance(dt time.Duration) float64 {
	for dt > 0 && m.level > m.opts.FloorDB {
		step := m.decaying / m.opts.RampInterval
		boundary := (step + 1) * m.opts.RampInterval
		chunk := min(dt, boundary-m.decaying)

		m.level -= m.rateAt(step) * chunk.Seconds()
		m.decaying += chunk
		dt -= chunk
	}
	if m.level < m.opts.FloorDB {
		m.level = m.opts.FloorDB
	}
	return m.level
}

// Rate returns the current decay rate in dB per second.
func (m *DecayMeter) Rate() float64 {
	return m.rateAt(m.decaying / m.opts.RampInterval)
}

func (m *DecayMeter) rateAt(step time.Duration) float64 {
	return math.Min(m.opts.InitialRate+float64(step), m.opts.MaxRate)
}

// Level returns the current meter level in dB.
func (m *DecayMeter) Level() float64 {
	return m.level
}
