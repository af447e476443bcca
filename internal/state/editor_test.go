package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorAcceptsPerField(t *testing.T) {
	var e Editor
	assert.False(t, e.Append('1'), "idle editor ignores input")

	e.Start(FieldHue)
	for _, r := range "0.5x%" {
		e.Append(r)
	}
	assert.Equal(t, "0.5", e.Pending())

	e.Start(FieldBrightnessFloor)
	assert.Empty(t, e.Pending(), "starting another field resets pending text")
	for _, r := range "4.5%%" {
		e.Append(r)
	}
	assert.Equal(t, "45%", e.Pending())
}

func TestEditorBackspaceAndCancel(t *testing.T) {
	var e Editor
	e.Start(FieldCycleRate)
	e.Append('1')
	e.Append('2')
	e.Backspace()
	assert.Equal(t, "1", e.Pending())
	e.Backspace()
	e.Backspace()
	assert.Empty(t, e.Pending())

	e.Cancel()
	assert.False(t, e.Editing())
	assert.Equal(t, FieldNone, e.Field())
}

func TestParseBrightnessFloor(t *testing.T) {
	cases := map[string]float64{
		"45":   0.45,
		"45%":  0.45,
		" 7 %": 0.07,
		"250":  1.0,
		"0":    0,
	}
	for input, want := range cases {
		got, err := ParseBrightnessFloor(input)
		require.NoError(t, err, input)
		assert.InDelta(t, want, got, 1e-12, input)
	}

	_, err := ParseBrightnessFloor("%")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ParseBrightnessFloor("")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseHue(t *testing.T) {
	v, err := ParseHue("0.75")
	require.NoError(t, err)
	assert.Equal(t, 0.75, v)

	v, err = ParseHue("3")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	_, err = ParseHue("1.2.3")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ParseHue("NaN")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFormatBrightnessFloor(t *testing.T) {
	assert.Equal(t, "10%", FormatBrightnessFloor(0.1))
	assert.Equal(t, "100%", FormatBrightnessFloor(1))
}
