// Package config holds the runtime configuration: defaults, YAML loading and validation.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/visualbass/visualbass-sync/internal/audio"
	"github.com/visualbass/visualbass-sync/internal/controller"
	"github.com/visualbass/visualbass-sync/internal/dsp"
	"github.com/visualbass/visualbass-sync/internal/lifx"
	"github.com/visualbass/visualbass-sync/internal/light"
	"github.com/visualbass/visualbass-sync/internal/state"
)

type Config struct {
	Audio     Audio     `yaml:"audio"`
	Smoothing Smoothing `yaml:"smoothing"`
	Decay     Decay     `yaml:"decay"`
	Light     Light     `yaml:"light"`
	Params    Params    `yaml:"params"`
	Display   Display   `yaml:"display"`
}

type Audio struct {
	SampleRate        float64       `yaml:"sample_rate" validate:"gt=0"`
	BlockSize         int           `yaml:"block_size" validate:"min=2,max=65536"`
	Channels          int           `yaml:"channels" validate:"min=1,max=8"`
	Device            int           `yaml:"device" validate:"gte=-1"`
	Latency           time.Duration `yaml:"latency" validate:"gte=0"`
	QueueCapacity     int           `yaml:"queue_capacity" validate:"min=1,max=1024"`
	TargetFrequencies []float64     `yaml:"target_frequencies" validate:"required,min=1,dive,gt=0"`
	InputFile         string        `yaml:"input_file" validate:"omitempty,file"`
	InputLoop         bool          `yaml:"input_loop"`
}

type Smoothing struct {
	WindowSize      int     `yaml:"window_size" validate:"min=1,max=1024"`
	BrightnessGain  float64 `yaml:"brightness_gain" validate:"gt=0"`
	DBSmoothing     float64 `yaml:"db_smoothing" validate:"gt=0,lte=1"`
	DisplayGlowRate float64 `yaml:"display_glow_rate" validate:"gt=0,lte=1"`
}

type Decay struct {
	InitialRate  float64       `yaml:"initial_rate" validate:"gt=0"`
	MaxRate      float64       `yaml:"max_rate" validate:"gtefield=InitialRate"`
	RampInterval time.Duration `yaml:"ramp_interval" validate:"gt=0"`
	FloorDB      float64       `yaml:"floor_db" validate:"lt=0"`
}

type Light struct {
	Enabled          bool          `yaml:"enabled"`
	Address          string        `yaml:"address" validate:"omitempty,hostname_port|ip"`
	MAC              string        `yaml:"mac" validate:"omitempty,mac"`
	Ack              bool          `yaml:"ack"`
	DispatchInterval time.Duration `yaml:"dispatch_interval" validate:"gt=0"`
	Retries          int           `yaml:"retries" validate:"min=1,max=10"`
	RetryDelay       time.Duration `yaml:"retry_delay" validate:"gte=0"`
	AckTimeout       time.Duration `yaml:"ack_timeout" validate:"gt=0"`
	DiscoverTimeout  time.Duration `yaml:"discover_timeout" validate:"gt=0"`
	Kelvin           uint16        `yaml:"kelvin" validate:"min=1500,max=9000"`
}

type Params struct {
	Sensitivity     float64 `yaml:"sensitivity" validate:"gte=0.1,lte=10"`
	BrightnessFloor float64 `yaml:"brightness_floor" validate:"gte=0,lte=1"`
	// Hue pins the hue when nonzero; zero keeps auto-cycling.
	Hue            float64 `yaml:"hue" validate:"gte=0,lte=1"`
	CycleRate      float64 `yaml:"cycle_rate" validate:"gte=0,lte=1"`
	WaveformPoints int     `yaml:"waveform_points" validate:"min=2,max=4096"`
	Mode           string  `yaml:"mode" validate:"vizmode"`
}

type Display struct {
	UpdateInterval time.Duration `yaml:"update_interval" validate:"gt=0"`
	Visualize      bool          `yaml:"visualize"`
	StreamAddr     string        `yaml:"stream_addr" validate:"omitempty,hostname_port"`
}

// Default returns the reference configuration.
func Default() Config {
	dispatch := light.DefaultOptions()
	decay := dsp.DefaultDecayOptions()
	params := state.DefaultParameters()

	return Config{
		Audio: Audio{
			SampleRate:        44100,
			BlockSize:         128,
			Channels:          1,
			Device:            -1,
			QueueCapacity:     audio.DefaultQueueCapacity,
			TargetFrequencies: dsp.DefaultTargetFrequencies(),
		},
		Smoothing: Smoothing{
			WindowSize:      dsp.DefaultWindowSize,
			BrightnessGain:  dsp.DefaultBrightnessGain,
			DBSmoothing:     0.2,
			DisplayGlowRate: controller.DefaultDisplayGlowRate,
		},
		Decay: Decay{
			InitialRate:  decay.InitialRate,
			MaxRate:      decay.MaxRate,
			RampInterval: decay.RampInterval,
			FloorDB:      decay.FloorDB,
		},
		Light: Light{
			Enabled:          true,
			Ack:              false,
			DispatchInterval: dispatch.Interval,
			Retries:          dispatch.Retries,
			RetryDelay:       dispatch.RetryDelay,
			AckTimeout:       lifx.DefaultAckTimeout,
			DiscoverTimeout:  2 * time.Second,
			Kelvin:           light.DefaultKelvin,
		},
		Params: Params{
			Sensitivity:     params.Sensitivity,
			BrightnessFloor: params.BrightnessFloor,
			CycleRate:       params.CycleRate,
			WaveformPoints:  params.WaveformPoints,
			Mode:            state.ModePolygon.String(),
		},
		Display: Display{
			UpdateInterval: controller.DefaultUpdateInterval,
		},
	}
}

// Load reads path over the defaults and validates the result. An empty path
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, eris.Wrapf(err, "failed to read config file %s", path)
	}

	if err := cfg.decode(data); err != nil {
		return cfg, eris.Wrapf(err, "failed to parse config file %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !eris.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Mode returns the configured start mode.
func (c Config) Mode() state.Mode {
	m, _ := state.ParseMode(c.Params.Mode)
	return m
}

// Parameters converts the params section to store parameters.
func (c Config) Parameters() state.Parameters {
	return state.Parameters{
		Sensitivity:     c.Params.Sensitivity,
		BrightnessFloor: c.Params.BrightnessFloor,
		WaveformPoints:  c.Params.WaveformPoints,
		CycleRate:       c.Params.CycleRate,
	}
}

func (c Config) AnalyzerOptions() dsp.Options {
	return dsp.Options{
		SampleRate:        c.Audio.SampleRate,
		TargetFrequencies: c.Audio.TargetFrequencies,
		WindowSize:        c.Smoothing.WindowSize,
		BrightnessGain:    c.Smoothing.BrightnessGain,
		DBSmoothing:       c.Smoothing.DBSmoothing,
	}
}

func (c Config) DecayOptions() dsp.DecayOptions {
	return dsp.DecayOptions{
		InitialRate:  c.Decay.InitialRate,
		MaxRate:      c.Decay.MaxRate,
		RampInterval: c.Decay.RampInterval,
		FloorDB:      c.Decay.FloorDB,
	}
}

func (c Config) DispatchOptions() light.Options {
	return light.Options{
		Interval:   c.Light.DispatchInterval,
		Retries:    c.Light.Retries,
		RetryDelay: c.Light.RetryDelay,
	}
}
