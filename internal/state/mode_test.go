package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeNextIsCyclic(t *testing.T) {
	for _, start := range Modes() {
		m := start
		seen := map[Mode]bool{}
		for range len(Modes()) {
			seen[m] = true
			m = m.Next()
		}
		assert.Equal(t, start, m, "six steps from %s", start)
		assert.Len(t, seen, 6)
	}
}

func TestModeNames(t *testing.T) {
	names := make([]string, 0, 6)
	for _, m := range Modes() {
		names = append(names, m.String())
	}
	assert.Equal(t, []string{"polygon", "both", "db meters", "gravity", "waveform", "radial"}, names)
	assert.Equal(t, "polygon", Mode(42).String())
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"polygon":   ModePolygon,
		"DB_Meters": ModeDBMeters,
		"db-meters": ModeDBMeters,
		" radial ":  ModeRadial,
		"orbs":      ModeGravity,
		"both":      ModeCombined,
	}
	for input, want := range cases {
		got, err := ParseMode(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseMode("cube")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestModeShowsMeters(t *testing.T) {
	assert.True(t, ModeCombined.ShowsMeters())
	assert.True(t, ModeGravity.ShowsMeters())
	assert.False(t, ModeWaveform.ShowsMeters())
}
