package state

import (
	"math"
	"math/rand/v2"

	"github.com/visualbass/visualbass-sync/internal/utils"
)

const (
	CanvasWidth  = 900.0
	CanvasHeight = 600.0

	OrbCount       = 50
	ShakeIntensity = 5.0

	orbSpawnRadius = 5.0
	orbMaxRadius   = 50.0
)

// Orb is one particle of the gravity mode, in canvas coordinates.
type Orb struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Radius  float64 `json:"radius"`
	Opacity float64 `json:"opacity"`
}

// OrbField is the particle set of the gravity mode. Orbs spawn on the canvas
// edges and are pulled toward the center harder the quieter the signal is.
type OrbField struct {
	width  float64
	height float64
	orbs   []Orb
	rng    *rand.Rand
}

func NewOrbField(width, height float64, rng *rand.Rand) *OrbField {
	if width <= 0 {
		width = CanvasWidth
	}
	if height <= 0 {
		height = CanvasHeight
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &OrbField{width: width, height: height, rng: rng}
}

// Populate replaces the field with OrbCount orbs on random edges.
func (f *OrbField) Populate() {
	f.orbs = make([]Orb, 0, OrbCount)
	for range OrbCount {
		var x, y float64
		switch f.rng.IntN(4) {
		case 0:
			x, y = f.rng.Float64()*f.width, 0
		case 1:
			x, y = f.rng.Float64()*f.width, f.height
		case 2:
			x, y = 0, f.rng.Float64()*f.height
		default:
			x, y = f.width, f.rng.Float64()*f.height
		}
		f.orbs = append(f.orbs, Orb{X: x, Y: y, Radius: orbSpawnRadius})
	}
}

// Update moves every orb one step and drops the ones that shrank below one unit.
func (f *OrbField) Update(glow, sensitivity float64) {
	centerX, centerY := f.width/2, f.height/2
	maxDistance := math.Floor(math.Min(f.width, f.height) / 2)
	pull := maxDistance * (1 - glow)

	kept := f.orbs[:0]
	for _, orb := range f.orbs {
		dx, dy := centerX-orb.X, centerY-orb.Y
		distance := math.Hypot(dx, dy)
		if distance == 0 {
			distance = 1
		}

		orb.X += dx/distance*pull + f.shake()*glow*sensitivity
		orb.Y += dy/distance*pull + f.shake()*glow*sensitivity
		orb.X = utils.Clamp(orb.X, orb.Radius, f.width-orb.Radius)
		orb.Y = utils.Clamp(orb.Y, orb.Radius, f.height-orb.Radius)

		orb.Radius = glow * orbMaxRadius * sensitivity
		orb.Opacity = utils.Clamp(glow*255*sensitivity, 0, 255)

		if orb.Radius >= 1 {
			kept = append(kept, orb)
		}
	}
	f.orbs = kept
}

func (f *OrbField) shake() float64 {
	return (f.rng.Float64()*2 - 1) * ShakeIntensity
}

// Orbs returns a copy of the current particles.
func (f *OrbField) Orbs() []Orb {
	out := make([]Orb, len(f.orbs))
	copy(out, f.orbs)
	return out
}

func (f *OrbField) Len() int {
	return len(f.orbs)
}

func (f *OrbField) Size() (float64, float64) {
	return f.width, f.height
}
