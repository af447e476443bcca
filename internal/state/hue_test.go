package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHueAutoCycleWraps(t *testing.T) {
	h := NewHueState(0.9)

	assert.InDelta(t, 0.95, h.Advance(0.05), 1e-12)

	v := h.Advance(0.05)
	assert.True(t, v < 1e-9 || v > 1-1e-9, "expected wrap to 0, got %v", v)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 1.0)
}

func TestHueManualPinsValue(t *testing.T) {
	h := NewHueState(InitialHue)
	h.SetManual(0.6)

	assert.True(t, h.Manual())
	assert.Equal(t, 0.6, h.Advance(0.1))
	assert.Equal(t, 0.6, h.Advance(0.1))
}

func TestHueManualZeroReturnsToAuto(t *testing.T) {
	h := NewHueState(0.2)
	h.SetManual(0.5)
	h.SetManual(0)

	assert.False(t, h.Manual())
	assert.InDelta(t, 0.6, h.Advance(0.1), 1e-12)
}

func TestHueManualClamped(t *testing.T) {
	h := NewHueState(0)
	h.SetManual(7)

	assert.Equal(t, 1.0, h.ManualValue())
	assert.Equal(t, 0.0, h.Advance(0))
}
