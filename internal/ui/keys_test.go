package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/visualbass/visualbass-sync/internal/state"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestKeyActionsShortcuts(t *testing.T) {
	cases := []struct {
		key  tea.KeyMsg
		want state.Action
	}{
		{runeKey('m'), state.NextMode()},
		{runeKey('3'), state.SetMode(state.ModeDBMeters)},
		{runeKey('h'), state.StartEdit(state.FieldHue)},
		{runeKey('c'), state.StartEdit(state.FieldCycleRate)},
		{runeKey('b'), state.StartEdit(state.FieldBrightnessFloor)},
		{runeKey('+'), state.AdjustSensitivity(state.SensitivityStep)},
		{runeKey('-'), state.AdjustSensitivity(-state.SensitivityStep)},
		{runeKey(']'), state.AdjustBrightnessFloor(state.FloorStep)},
		{tea.KeyMsg{Type: tea.KeyF2}, state.ToggleStatus()},
	}

	for _, tc := range cases {
		assert.Equal(t, []state.Action{tc.want}, keyActions(tc.key, false), tc.key.String())
	}

	assert.Empty(t, keyActions(runeKey('z'), false))
	assert.Empty(t, keyActions(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("12")}, false),
		"pasted text is not a shortcut")
}

func TestKeyActionsWhileEditing(t *testing.T) {
	assert.Equal(t, []state.Action{state.Input('m')}, keyActions(runeKey('m'), true),
		"shortcuts are plain input while editing")
	assert.Equal(t, []state.Action{state.Submit()}, keyActions(tea.KeyMsg{Type: tea.KeyEnter}, true))
	assert.Equal(t, []state.Action{state.Backspace()}, keyActions(tea.KeyMsg{Type: tea.KeyBackspace}, true))
	assert.Equal(t, []state.Action{state.Cancel()}, keyActions(tea.KeyMsg{Type: tea.KeyEsc}, true))
	assert.Empty(t, keyActions(tea.KeyMsg{Type: tea.KeyF2}, true))
}

func TestKeyActionsPasteWhileEditing(t *testing.T) {
	paste := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("0.5")}

	assert.Equal(t,
		[]state.Action{state.Input('0'), state.Input('.'), state.Input('5')},
		keyActions(paste, true))
}
