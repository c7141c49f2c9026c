package cervus

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Flock timing and shape.
const (
	FlockStagger    = 15 * time.Millisecond // delay between two birds taking off
	FlockFlightTime = 4 * time.Second       // time each bird flies
	FlockAltitude   = 100                   // height of the flight targets
	birdScale       = 0.2
)

// FlockOptions configures SpawnFlock.
type FlockOptions struct {
	Origin mgl64.Vec3
	Color  Color
	// Radius bounds the horizontal distance of the flight targets from Origin.
	Radius float64
	Size   int
	// Frames are the morph frames of one bird. Nil means BirdFrames().
	Frames []*Mesh
}

// SpawnFlock releases opts.Size birds from opts.Origin, one every
// FlockStagger. Each bird faces a random point FlockAltitude above a circle
// around the origin, flies there in FlockFlightTime and is removed from the
// game. Targets are drawn from rnd so flocks replay with the level seed.
// The returned timers allow cancelling birds that have not taken off yet.
func SpawnFlock(g *Game, rnd *Random, opts FlockOptions) []*Timer {
	frames := opts.Frames
	if frames == nil {
		frames = BirdFrames()
	}
	g.log.Debug("flock released",
		zap.Float64("x", opts.Origin[0]), zap.Float64("z", opts.Origin[2]), zap.Int("size", opts.Size))

	timers := make([]*Timer, 0, opts.Size)
	for i := range opts.Size {
		timers = append(timers, g.After(time.Duration(i)*FlockStagger, func() {
			spawnBird(g, rnd, opts, frames)
		}))
	}
	return timers
}

func spawnBird(g *Game, rnd *Random, opts FlockOptions, frames []*Mesh) {
	target := rnd.Position(mgl64.Vec2{opts.Origin[0], opts.Origin[2]}, opts.Radius, FlockAltitude)

	render := NewRenderable(nil)
	render.Color = opts.Color
	bird := NewEntity("bird", NewTransform(), render, NewMorph(DefaultFrameTime, frames...))

	t := bird.Transform()
	t.Set(opts.Origin, mgl64.QuatIdent(), mgl64.Vec3{birdScale, birdScale, birdScale})
	t.LookAt(target)
	t.RotateUD(math.Pi / 2)
	t.RotateRL(math.Pi)
	g.Add(bird)

	NewVecTween(g, bird, target, FlockFlightTime).Start(func() {
		g.Remove(bird)
	})
}
