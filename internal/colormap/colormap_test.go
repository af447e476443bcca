package colormap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueFloorBinding(t *testing.T) {
	assert.InDelta(t, 0.1, Value(0, 1, 0.1), 1e-12)
	assert.InDelta(t, 0.5, Value(0.5, 1, 0.1), 1e-12)
	assert.Equal(t, 1.0, Value(0.9, 3, 0.1))
}

func TestToRGBBoundaries(t *testing.T) {
	assert.Equal(t, RGB{R: 255}, ToRGB(1, 0, 1, 0))
	assert.Equal(t, RGB{R: 255}, ToRGB(1, 1, 1, 0))
	assert.Equal(t, RGB{}, ToRGB(0, 0.5, 1, 0))
}

func TestToRGBGreen(t *testing.T) {
	c := ToRGB(1, 1.0/3.0, 1, 0)
	assert.Equal(t, uint8(0), c.R)
	assert.Equal(t, uint8(255), c.G)
	assert.Equal(t, "#00ff00", c.Hex())
}

func TestBrightness16(t *testing.T) {
	assert.Equal(t, uint16(32768), Brightness16(0.5, 1, 0.1))
	assert.Equal(t, uint16(6554), Brightness16(0, 1, 0.1))
	assert.Equal(t, uint16(Max16), Brightness16(1, 4, 0))
}

func TestHue16(t *testing.T) {
	assert.Equal(t, uint16(16384), Hue16(0.25))
	assert.Equal(t, uint16(0), Hue16(1))
	assert.Equal(t, uint16(0), Hue16(0))
}

func TestScale(t *testing.T) {
	assert.Equal(t, RGB{R: 127, G: 50}, RGB{R: 255, G: 100}.Scale(0.5))
}
