package dsp

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecayMeterAccelerates(t *testing.T) {
	for _, seconds := range []int{1, 2, 5, 6, 7, 9, 20} {
		m := NewDecayMeter(DefaultDecayOptions())
		m.Set(0)
		for range seconds {
			m.Advance(time.Second)
		}

		want := 0.0
		for i := 1; i <= seconds; i++ {
			want -= math.Min(float64(5+i-1), 10)
		}
		want = math.Max(want, FloorDB)

		assert.InDelta(t, want, m.Level(), 1e-9, "after %ds", seconds)
	}
}

func TestDecayMeterFineTicksMatchWholeSeconds(t *testing.T) {
	m := NewDecayMeter(DefaultDecayOptions())
	m.Set(0)
	for range 3 * 240 {
		m.Advance(time.Second / 240)
	}
	// 5 + 6 + 7
	assert.InDelta(t, -18.0, m.Level(), 1e-3)
}

func TestDecayMeterAttackResetsRamp(t *testing.T) {
	m := NewDecayMeter(DefaultDecayOptions())
	m.Set(0)
	m.Advance(3 * time.Second)
	assert.Equal(t, 8.0, m.Rate())

	m.Observe(-20)
	assert.Equal(t, -18.0, m.Level(), "quieter input does not pull the meter down")

	m.Observe(-1)
	assert.Equal(t, -1.0, m.Level())
	assert.Equal(t, 5.0, m.Rate())
}

func TestDecayMeterRestsAtFloor(t *testing.T) {
	m := NewDecayMeter(DefaultDecayOptions())
	assert.Equal(t, FloorDB, m.Level())
	assert.Equal(t, FloorDB, m.Advance(time.Hour))
}
