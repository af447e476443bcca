// Package state owns the mutable visualization state: mode selection, user
// parameters, hue, the numeric field editors and the mode-local buffers.
package state

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Mode is the active visualization variant.
type Mode int

const (
	ModePolygon Mode = iota
	ModeCombined
	ModeDBMeters
	ModeGravity
	ModeWaveform
	ModeRadial

	modeCount
)

var ErrUnknownMode = eris.New("unknown visualization mode")

var modeNames = [modeCount]string{
	ModePolygon:  "polygon",
	ModeCombined: "both",
	ModeDBMeters: "db meters",
	ModeGravity:  "gravity",
	ModeWaveform: "waveform",
	ModeRadial:   "radial",
}

// Modes lists every mode in cycling order.
func Modes() []Mode {
	modes := make([]Mode, modeCount)
	for i := range modes {
		modes[i] = Mode(i)
	}
	return modes
}

// Next returns the following mode, wrapping after the last one.
func (m Mode) Next() Mode {
	return Mode((int(m.normalized()) + 1) % int(modeCount))
}

func (m Mode) String() string {
	return modeNames[m.normalized()]
}

// ShowsMeters reports whether the mode draws the dB meter pair.
func (m Mode) ShowsMeters() bool {
	switch m {
	case ModeCombined, ModeDBMeters, ModeGravity:
		return true
	}
	return false
}

func (m Mode) normalized() Mode {
	if m < 0 || m >= modeCount {
		return ModePolygon
	}
	return m
}

// ParseMode accepts a mode name (case-insensitive, "_" or "-" for spaces).
func ParseMode(name string) (Mode, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("_", " ", "-", " ").Replace(normalized)

	for i, candidate := range modeNames {
		if candidate == normalized {
			return Mode(i), nil
		}
	}

	switch normalized {
	case "combined", "meters":
		return ModeCombined, nil
	case "orbs":
		return ModeGravity, nil
	}

	return ModePolygon, eris.Wrapf(ErrUnknownMode, "mode %q", name)
}
