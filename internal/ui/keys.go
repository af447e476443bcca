package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/visualbass/visualbass-sync/internal/state"
)

// keyActions maps a key press to store actions. While a field is being
// edited, printable keys go to the editor instead of the shortcuts, one
// Input per rune so pasted text arrives whole.
func keyActions(msg tea.KeyMsg, editing bool) []state.Action {
	if editing {
		switch msg.Type {
		case tea.KeyEnter:
			return []state.Action{state.Submit()}
		case tea.KeyEsc:
			return []state.Action{state.Cancel()}
		case tea.KeyBackspace:
			return []state.Action{state.Backspace()}
		case tea.KeyRunes, tea.KeySpace:
			actions := make([]state.Action, 0, len(msg.Runes))
			for _, r := range msg.Runes {
				actions = append(actions, state.Input(r))
			}
			return actions
		}
		return nil
	}

	if action, ok := shortcut(msg); ok {
		return []state.Action{action}
	}
	return nil
}

func shortcut(msg tea.KeyMsg) (state.Action, bool) {
	switch msg.String() {
	case "m", " ", "tab":
		return state.NextMode(), true
	case "1", "2", "3", "4", "5", "6":
		modes := state.Modes()
		return state.SetMode(modes[int(msg.Runes[0]-'1')]), true
	case "h":
		return state.StartEdit(state.FieldHue), true
	case "c":
		return state.StartEdit(state.FieldCycleRate), true
	case "b":
		return state.StartEdit(state.FieldBrightnessFloor), true
	case "+", "=", "up":
		return state.AdjustSensitivity(state.SensitivityStep), true
	case "-", "_", "down":
		return state.AdjustSensitivity(-state.SensitivityStep), true
	case "]", "right":
		return state.AdjustBrightnessFloor(state.FloorStep), true
	case "[", "left":
		return state.AdjustBrightnessFloor(-state.FloorStep), true
	case "f", "f2":
		return state.ToggleStatus(), true
	}
	return state.Action{}, false
}
