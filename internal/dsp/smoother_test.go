package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmootherSeedsWithFirstSample(t *testing.T) {
	s := NewSmoother(0.5)
	assert.Equal(t, 4.0, s.Step(4))
	assert.Equal(t, 3.0, s.Step(2))
}

func TestSmootherFromInitial(t *testing.T) {
	s := NewSmootherFrom(0.2, FloorDB)
	// 0.2*0 + 0.8*(-100)
	assert.InDelta(t, -80.0, s.Step(0), 1e-12)
	assert.InDelta(t, -64.0, s.Step(0), 1e-12)
	assert.InDelta(t, -64.0, s.Value(), 1e-12)
}
