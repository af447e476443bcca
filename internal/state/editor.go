package state

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"

	"github.com/visualbass/visualbass-sync/internal/utils"
)

// Field identifies one of the free-form numeric inputs.
type Field int

const (
	FieldNone Field = iota
	FieldHue
	FieldCycleRate
	FieldBrightnessFloor
)

var ErrInvalidInput = eris.New("invalid numeric input")

func (f Field) String() string {
	switch f {
	case FieldHue:
		return "hue"
	case FieldCycleRate:
		return "cycle rate"
	case FieldBrightnessFloor:
		return "brightness floor"
	default:
		return "none"
	}
}

// accepts reports whether r may be typed into the field given the pending text.
func (f Field) accepts(pending string, r rune) bool {
	switch f {
	case FieldHue, FieldCycleRate:
		return unicode.IsDigit(r) || r == '.'
	case FieldBrightnessFloor:
		if unicode.IsDigit(r) {
			return true
		}
		return r == '%' && !strings.Contains(pending, "%")
	}
	return false
}

// Editor is the text entry state machine: Idle, or Editing one field with
// pending text. Starting an edit cancels whichever field was being edited.
type Editor struct {
	field   Field
	pending string
}

func (e Editor) Editing() bool {
	return e.field != FieldNone
}

// Field returns the field being edited, FieldNone when idle.
func (e Editor) Field() Field {
	return e.field
}

func (e Editor) Pending() string {
	return e.pending
}

func (e *Editor) Start(field Field) {
	e.field = field
	e.pending = ""
}

// Append adds r to the pending text if the field accepts it.
func (e *Editor) Append(r rune) bool {
	if !e.Editing() || !e.field.accepts(e.pending, r) {
		return false
	}
	e.pending += string(r)
	return true
}

func (e *Editor) Backspace() {
	if e.pending == "" {
		return
	}
	runes := []rune(e.pending)
	e.pending = string(runes[:len(runes)-1])
}

func (e *Editor) Cancel() {
	e.field = FieldNone
	e.pending = ""
}

// finish returns the field and text being submitted and returns to Idle.
func (e *Editor) finish() (Field, string) {
	field, text := e.field, e.pending
	e.Cancel()
	return field, text
}

// ParseHue parses a hue entry clamped to [0,1].
func ParseHue(s string) (float64, error) {
	v, err := parseFloat(s)
	if err != nil {
		return 0, err
	}
	return utils.Clamp(v, 0.0, 1.0), nil
}

// ParseCycleRate parses a per-tick hue increment clamped to [0,1].
func ParseCycleRate(s string) (float64, error) {
	v, err := parseFloat(s)
	if err != nil {
		return 0, err
	}
	return utils.Clamp(v, 0.0, 1.0), nil
}

// ParseBrightnessFloor parses a whole percentage with an optional trailing
// "%" and returns it as a fraction.
func ParseBrightnessFloor(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, eris.Wrapf(ErrInvalidInput, "brightness floor %q", s)
	}
	return float64(utils.Clamp(v, 0, 100)) / 100, nil
}

// FormatBrightnessFloor renders a floor fraction the way it is typed.
func FormatBrightnessFloor(floor float64) string {
	return fmt.Sprintf("%d%%", int(floor*100))
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, eris.Wrapf(ErrInvalidInput, "value %q", s)
	}
	return v, nil
}
