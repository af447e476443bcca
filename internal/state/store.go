package state

import (
	"log/slog"
	"math/rand/v2"

	"github.com/visualbass/visualbass-sync/internal/utils"
)

// Store holds the mode, parameters, hue and editor state. It is owned by the
// update loop; front ends submit Actions instead of mutating it.
type Store struct {
	logger *slog.Logger

	mode       Mode
	params     Parameters
	hue        HueState
	editor     Editor
	showStatus bool

	rng      *rand.Rand
	orbs     *OrbField
	waveform *WaveformBuffers
}

type Options struct {
	Mode       Mode
	Parameters Parameters
	ManualHue  float64
	InitialHue float64
	ShowStatus bool
	Rand       *rand.Rand
}

func DefaultOptions() Options {
	return Options{
		Mode:       ModePolygon,
		Parameters: DefaultParameters(),
		InitialHue: InitialHue,
	}
}

func NewStore(opts Options, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		logger:     logger,
		params:     opts.Parameters.Normalize(),
		hue:        NewHueState(opts.InitialHue),
		showStatus: opts.ShowStatus,
		rng:        opts.Rand,
	}
	if opts.ManualHue != 0 {
		s.hue.SetManual(opts.ManualHue)
	}
	s.SetMode(opts.Mode)

	return s
}

func (s *Store) Mode() Mode {
	return s.mode
}

// SetMode switches mode and lazily creates the buffers the mode needs.
func (s *Store) SetMode(m Mode) {
	s.mode = m.normalized()

	switch s.mode {
	case ModeGravity:
		if s.Orbs().Len() == 0 {
			s.orbs.Populate()
		}
	case ModeWaveform:
		s.Waveform()
	}
}

func (s *Store) Parameters() Parameters {
	return s.params
}

func (s *Store) Hue() HueState {
	return s.hue
}

// AdvanceHue runs one hue tick and returns the new value.
func (s *Store) AdvanceHue() float64 {
	return s.hue.Advance(s.params.CycleRate)
}

func (s *Store) Editor() Editor {
	return s.editor
}

func (s *Store) ShowStatus() bool {
	return s.showStatus
}

// Orbs returns the gravity particle field, creating it on first use.
func (s *Store) Orbs() *OrbField {
	if s.orbs == nil {
		s.orbs = NewOrbField(CanvasWidth, CanvasHeight, s.rng)
	}
	return s.orbs
}

// Waveform returns the waveform buffers, rebuilding them when the point count changed.
func (s *Store) Waveform() *WaveformBuffers {
	if s.waveform == nil || s.waveform.Points() != s.params.WaveformPoints {
		s.waveform = NewWaveformBuffers(s.params.WaveformPoints)
	}
	return s.waveform
}

// Apply mutates the store for one user action.
func (s *Store) Apply(a Action) {
	switch a.Kind {
	case ActionNextMode:
		s.SetMode(s.mode.Next())
		s.logger.Debug("visualization mode changed", slog.String("mode", s.mode.String()))
	case ActionSetMode:
		s.SetMode(a.Mode)
	case ActionStartEdit:
		s.editor.Start(a.Field)
	case ActionInput:
		s.editor.Append(a.Rune)
	case ActionBackspace:
		s.editor.Backspace()
	case ActionCancel:
		s.editor.Cancel()
	case ActionSubmit:
		s.submit()
	case ActionAdjustSensitivity:
		s.params.Sensitivity = utils.Clamp(s.params.Sensitivity+a.Value, MinSensitivity, MaxSensitivity)
	case ActionAdjustBrightnessFloor:
		s.params.BrightnessFloor = utils.Clamp(s.params.BrightnessFloor+a.Value, 0.0, 1.0)
	case ActionSetBrightnessFloor:
		if !s.editor.Editing() || s.editor.Field() != FieldBrightnessFloor {
			s.params.BrightnessFloor = utils.Clamp(a.Value, 0.0, 1.0)
		}
	case ActionSetWaveformPoints:
		s.params.WaveformPoints = utils.Clamp(a.Count, 2, MaxWaveformPoints)
	case ActionToggleStatus:
		s.showStatus = !s.showStatus
	}
}

// submit parses the pending text of the active field. Invalid input leaves
// the committed value untouched.
func (s *Store) submit() {
	field, text := s.editor.finish()

	var err error
	switch field {
	case FieldNone:
		return
	case FieldHue:
		var v float64
		if v, err = ParseHue(text); err == nil {
			s.hue.SetManual(v)
		}
	case FieldCycleRate:
		var v float64
		if v, err = ParseCycleRate(text); err == nil {
			s.params.CycleRate = v
		}
	case FieldBrightnessFloor:
		var v float64
		if v, err = ParseBrightnessFloor(text); err == nil {
			s.params.BrightnessFloor = v
		}
	}

	if err != nil {
		s.logger.Debug("discarding invalid input",
			slog.String("field", field.String()),
			slog.String("input", text),
			slog.Any("error", err),
		)
		return
	}

	s.logger.Debug("parameter updated", slog.String("field", field.String()))
}
