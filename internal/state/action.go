package state

// ActionKind enumerates the user inputs the store understands.
type ActionKind int

const (
	ActionNextMode ActionKind = iota
	ActionSetMode
	ActionStartEdit
	ActionInput
	ActionBackspace
	ActionSubmit
	ActionCancel
	ActionAdjustSensitivity
	ActionAdjustBrightnessFloor
	ActionSetBrightnessFloor
	ActionSetWaveformPoints
	ActionToggleStatus
)

// Action is one user input, produced by a front end and applied on the
// update loop.
type Action struct {
	Kind  ActionKind
	Mode  Mode
	Field Field
	Rune  rune
	Value float64
	Count int
}

func NextMode() Action { return Action{Kind: ActionNextMode} }

func SetMode(m Mode) Action { return Action{Kind: ActionSetMode, Mode: m} }

func StartEdit(f Field) Action { return Action{Kind: ActionStartEdit, Field: f} }

func Input(r rune) Action { return Action{Kind: ActionInput, Rune: r} }

func Backspace() Action { return Action{Kind: ActionBackspace} }

func Submit() Action { return Action{Kind: ActionSubmit} }

func Cancel() Action { return Action{Kind: ActionCancel} }

func AdjustSensitivity(delta float64) Action {
	return Action{Kind: ActionAdjustSensitivity, Value: delta}
}

func AdjustBrightnessFloor(delta float64) Action {
	return Action{Kind: ActionAdjustBrightnessFloor, Value: delta}
}

// SetBrightnessFloor is the slider input: an absolute fraction.
func SetBrightnessFloor(v float64) Action {
	return Action{Kind: ActionSetBrightnessFloor, Value: v}
}

func SetWaveformPoints(n int) Action { return Action{Kind: ActionSetWaveformPoints, Count: n} }

func ToggleStatus() Action { return Action{Kind: ActionToggleStatus} }
