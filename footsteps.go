package cervus

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultStride is the distance between two footsteps.
const DefaultStride = 15

// Footsteps accumulates the distance its owner travels and emits a
// FootstepEvent each time another Stride is covered. Place it after the Move
// component so it observes the position of the current tick.
type Footsteps struct {
	BaseComponent

	Stride float64

	traveled float64
	last     mgl64.Vec3
	started  bool
}

// NewFootsteps creates a Footsteps with the given stride; a non-positive
// stride means DefaultStride.
func NewFootsteps(stride float64) *Footsteps {
	if stride <= 0 {
		stride = DefaultStride
	}
	return &Footsteps{Stride: stride}
}

// Capability implements Component.
func (f *Footsteps) Capability() Capability { return CapFootsteps }

// Traveled returns the distance covered since the last footstep.
func (f *Footsteps) Traveled() float64 { return f.traveled }

// Update adds the distance moved since the previous tick.
func (f *Footsteps) Update(time.Duration) error {
	t := mustHave(f.entity, CapTransform, "Footsteps").(*Transform)
	pos := t.Position()
	if !f.started {
		f.last, f.started = pos, true
		return nil
	}
	f.traveled += pos.Sub(f.last).Len()
	f.last = pos
	if f.traveled > f.Stride {
		f.traveled = math.Mod(f.traveled, f.Stride)
		if g := f.entity.Game(); g != nil {
			g.Emit(FootstepEvent{Entity: f.entity, Position: pos})
		}
	}
	return nil
}
