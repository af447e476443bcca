package state

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrbFieldPopulateOnEdges(t *testing.T) {
	f := NewOrbField(CanvasWidth, CanvasHeight, rand.New(rand.NewPCG(3, 4)))
	f.Populate()

	assert.Equal(t, OrbCount, f.Len())
	for _, orb := range f.Orbs() {
		onEdge := orb.X == 0 || orb.X == CanvasWidth || orb.Y == 0 || orb.Y == CanvasHeight
		assert.True(t, onEdge, "orb at (%v,%v)", orb.X, orb.Y)
		assert.Equal(t, orbSpawnRadius, orb.Radius)
	}
}

func TestOrbFieldUpdateStaysOnCanvas(t *testing.T) {
	f := NewOrbField(CanvasWidth, CanvasHeight, rand.New(rand.NewPCG(5, 6)))
	f.Populate()

	for range 20 {
		f.Update(0.4, 1.0)
	}

	assert.Equal(t, OrbCount, f.Len())
	for _, orb := range f.Orbs() {
		assert.InDelta(t, 20, orb.Radius, 1e-9)
		assert.GreaterOrEqual(t, orb.X, 0.0)
		assert.LessOrEqual(t, orb.X, CanvasWidth)
		assert.GreaterOrEqual(t, orb.Y, 0.0)
		assert.LessOrEqual(t, orb.Y, CanvasHeight)
	}
}

func TestOrbFieldSilenceRemovesOrbs(t *testing.T) {
	f := NewOrbField(0, 0, nil)
	f.Populate()

	f.Update(0, 1)
	assert.Zero(t, f.Len())
}
