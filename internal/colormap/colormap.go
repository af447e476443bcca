// Package colormap is the single source of truth for turning glow, hue and the
// user parameters into a displayable or transmittable color.
package colormap

import (
	"fmt"
	"math"

	"github.com/crazy3lf/colorconv"

	"github.com/visualbass/visualbass-sync/internal/utils"
)

// Max16 is the full scale of 16-bit light channels.
const Max16 = 65535

// RGB is an 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Scale multiplies every channel by f (clamped to [0,1]).
func (c RGB) Scale(f float64) RGB {
	f = utils.Clamp(f, 0.0, 1.0)
	return RGB{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
	}
}

// Value is the HSV value used everywhere: max(glow*sensitivity, floor), clamped to [0,1].
func Value(glow, sensitivity, floor float64) float64 {
	v := math.Max(glow*sensitivity, floor)
	if math.IsNaN(v) {
		return utils.Clamp(floor, 0.0, 1.0)
	}
	return utils.Clamp(v, 0.0, 1.0)
}

// ToRGB maps state to a fully saturated color. hue is a fraction of the color
// wheel; both 0 and 1 are accepted.
func ToRGB(glow, hue, sensitivity, floor float64) RGB {
	return HSV(hue, 1, Value(glow, sensitivity, floor))
}

// HSV converts a hue fraction, saturation and value to RGB.
func HSV(hue, saturation, value float64) RGB {
	r, g, b, err := colorconv.HSVToRGB(
		utils.WrapUnit(hue)*360,
		utils.Clamp(saturation, 0.0, 1.0),
		utils.Clamp(value, 0.0, 1.0),
	)
	if err != nil {
		return RGB{}
	}
	return RGB{R: r, G: g, B: b}
}

// Brightness16 is the 16-bit light brightness: max(glow*sensitivity, floor) at full scale.
func Brightness16(glow, sensitivity, floor float64) uint16 {
	level := math.Round(glow * sensitivity * Max16)
	minLevel := math.Round(floor * Max16)
	b := math.Max(level, minLevel)
	if math.IsNaN(b) {
		b = 0
	}
	return uint16(utils.Clamp(b, 0, Max16))
}

// Hue16 is the 16-bit light hue: round(hue*65535) mod 65535.
func Hue16(hue float64) uint16 {
	if math.IsNaN(hue) || math.IsInf(hue, 0) {
		return 0
	}
	h := math.Mod(math.Round(hue*Max16), Max16)
	if h < 0 {
		h += Max16
	}
	return uint16(h)
}
