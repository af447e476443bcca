package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1.0, 0.0, 1.0))
	assert.Equal(t, 1.0, Clamp(1e9, 0.0, 1.0))
	assert.Equal(t, 5, Clamp(5, 0, 10))
}

func TestWrapUnit(t *testing.T) {
	assert.InDelta(t, 0.25, WrapUnit(1.25), 1e-12)
	assert.InDelta(t, 0.75, WrapUnit(-0.25), 1e-12)
	assert.Equal(t, 0.0, WrapUnit(1.0))
	assert.Equal(t, 0.0, WrapUnit(math.NaN()))
}

func TestClampIndex(t *testing.T) {
	assert.Equal(t, 0, ClampIndex(-3, 4))
	assert.Equal(t, 3, ClampIndex(10, 4))
	assert.Equal(t, 0, ClampIndex(2, 0))
}

func TestWrapIndex(t *testing.T) {
	assert.Equal(t, 0, WrapIndex(6, 6))
	assert.Equal(t, 5, WrapIndex(-1, 6))
	assert.Equal(t, 0, WrapIndex(3, 0))
}
