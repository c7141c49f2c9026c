package cervus

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// levelBaseSeed is the seed every level number derives its own from.
const levelBaseSeed = 19870306 * 6647088

const (
	parkMillerModulus    = 2147483647
	parkMillerMultiplier = 16807
)

// Random is the Park–Miller minimal standard generator. The state is kept as
// a float64 so that the huge seeds derived from level numbers reduce the same
// way on every platform; after the first step it always fits in 31 bits.
type Random struct {
	seed float64
}

// NewRandom creates a generator seeded with seed.
func NewRandom(seed float64) *Random {
	return &Random{seed: seed}
}

// NewLevelRandom creates the generator for a level: (base/level)².
func NewLevelRandom(level int) *Random {
	s := levelBaseSeed / float64(level)
	return NewRandom(s * s)
}

// Next returns the next value, in [0, 1).
func (r *Random) Next() float64 {
	r.seed = math.Mod(r.seed*parkMillerMultiplier, parkMillerModulus)
	return (r.seed - 1) / (parkMillerModulus - 1)
}

// Integer returns an integer in [min, max].
func (r *Random) Integer(min, max int) int {
	return int(math.Floor(r.Next()*float64(max-min+1) + float64(min)))
}

// Float returns a float in [min, max).
func (r *Random) Float(min, max float64) float64 {
	return r.Next()*(max-min) + min
}

// Position returns a random point at height y inside the circle of radius
// maxRadius around center (x, z).
func (r *Random) Position(center mgl64.Vec2, maxRadius, y float64) mgl64.Vec3 {
	angle := r.Float(0, 2*math.Pi)
	radius := r.Float(0, maxRadius)
	return mgl64.Vec3{
		center[0] + radius*math.Cos(angle),
		y,
		center[1] + radius*math.Sin(angle),
	}
}

// LookAround returns a point one unit away in a random direction at most
// π/10 off the forward axis of m (sideways either way, upward only), in the
// space m maps into.
func (r *Random) LookAround(m mgl64.Mat4) mgl64.Vec3 {
	azimuth := r.Float(-math.Pi/10, math.Pi/10)
	polar := r.Float(0, math.Pi/10)
	dir := normalize(mgl64.Vec3{
		math.Cos(polar) * math.Sin(azimuth),
		math.Sin(polar),
		math.Cos(polar) * math.Cos(azimuth),
	})
	return mgl64.TransformCoordinate(dir, m)
}

// ElementOf returns a random element of s. Panics on an empty slice.
func ElementOf[T any](r *Random, s []T) T {
	if len(s) == 0 {
		panic("cervus: ElementOf on empty slice")
	}
	return s[r.Integer(0, len(s)-1)]
}
