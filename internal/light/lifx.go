package light

import (
	"context"

	"github.com/visualbass/visualbass-sync/internal/lifx"
)

// LIFX adapts a LAN bulb to the Light interface.
type LIFX struct {
	bulb *lifx.Bulb
}

func NewLIFX(bulb *lifx.Bulb) *LIFX {
	return &LIFX{bulb: bulb}
}

func (l *LIFX) SetColor(ctx context.Context, cmd Command) error {
	return l.bulb.SetColor(ctx, lifx.HSBK{
		Hue:        cmd.Hue,
		Saturation: cmd.Saturation,
		Brightness: cmd.Brightness,
		Kelvin:     cmd.Kelvin,
	}, 0)
}

func (l *LIFX) String() string {
	return l.bulb.String()
}
