// Package light delivers color commands to a network light.
package light

import (
	"context"
	"fmt"

	"github.com/visualbass/visualbass-sync/internal/colormap"
)

const (
	// DefaultKelvin is the color temperature sent with every command.
	DefaultKelvin = 3500
	// FullSaturation is the saturation sent with every command.
	FullSaturation = colormap.Max16
)

// Command is one color update in 16-bit HSBK form.
type Command struct {
	Hue        uint16
	Saturation uint16
	Brightness uint16
	Kelvin     uint16
}

// NewCommand derives the command for the current glow and hue.
func NewCommand(glow, hue, sensitivity, floor float64, kelvin uint16) Command {
	if kelvin == 0 {
		kelvin = DefaultKelvin
	}
	return Command{
		Hue:        colormap.Hue16(hue),
		Saturation: FullSaturation,
		Brightness: colormap.Brightness16(glow, sensitivity, floor),
		Kelvin:     kelvin,
	}
}

func (c Command) String() string {
	return fmt.Sprintf("hue=%d sat=%d bright=%d kelvin=%d", c.Hue, c.Saturation, c.Brightness, c.Kelvin)
}

// Light is a network-controlled light. Only success or failure is observed.
type Light interface {
	SetColor(ctx context.Context, cmd Command) error
	String() string
}
