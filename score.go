package cervus

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is a position and orientation in world space.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// PoseOf returns the current position and rotation of t.
func PoseOf(t *Transform) Pose {
	return Pose{Position: t.Position(), Rotation: t.Rotation()}
}

// Smooth is the descending weight 1-x for x in [0, 1], written as the
// magnitude so that inputs slightly outside the range stay non-negative.
func Smooth(x float64) float64 {
	return math.Sqrt((1 - x) * (1 - x))
}

// PositionScore is 1 at the target, falling linearly to 0 at half the world
// size and clamped there.
func PositionScore(target, current mgl64.Vec3, worldSize float64) float64 {
	dist := target.Sub(current).Len()
	maxDistance := math.Sqrt(worldSize*worldSize) / 2
	return math.Max(0, 1-dist/maxDistance)
}

// RotationScore is the absolute dot product of the two unit quaternions over
// all four components: 1 for the same orientation (q and -q included),
// falling towards 0 as they diverge.
func RotationScore(target, current mgl64.Quat) float64 {
	return math.Abs(target.Dot(current))
}

// Score blends the position and rotation scores so that each counts only as
// much as the other allows. The result is in [0, 1] and is 1 only when both
// are 1.
func Score(target, current Pose, worldSize float64) float64 {
	p := PositionScore(target.Position, current.Position, worldSize)
	r := RotationScore(target.Rotation, current.Rotation)
	return (p*math.Sin(r) + r*math.Sin(p)) / (2 * math.Sin(1))
}

// Hint is the in-play proximity signal. Far from the target, looking at it
// (current rotation against toTarget, the rotation that faces the target)
// counts; close to it, matching the target's own rotation does. The weights
// always sum to 1 and the result is halved twice to stay subtle, so it lies
// in [0, 0.5].
func Hint(target, current Pose, toTarget mgl64.Quat, worldSize float64) float64 {
	p := PositionScore(target.Position, current.Position, worldSize)
	aligned := RotationScore(target.Rotation, current.Rotation)
	facing := RotationScore(current.Rotation, toTarget)
	w := Smooth(p)
	r := aligned*(1-w) + facing*w
	return (p + r) / 2 / 2
}
