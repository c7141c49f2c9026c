package cervus

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rotisserie/eris"
)

// Transform is the component that places an entity in space. It keeps a local
// matrix composed from position, rotation and scale, and per tick derives the
// world matrix (composed with the parent's) and its inverse.
//
// The local matrix is recomposed by every setter. Position is read back from
// the matrix; rotation is the last quaternion assigned, never decomposed.
type Transform struct {
	BaseComponent

	rotation mgl64.Quat
	scale    mgl64.Vec3

	matrix      mgl64.Mat4
	worldMatrix mgl64.Mat4
	worldToSelf mgl64.Mat4
	singular    bool
}

// NewTransform creates an identity transform: origin, no rotation, unit scale.
func NewTransform() *Transform {
	t := &Transform{
		rotation:    mgl64.QuatIdent(),
		scale:       mgl64.Vec3{1, 1, 1},
		worldMatrix: mgl64.Ident4(),
		worldToSelf: mgl64.Ident4(),
	}
	t.matrix = composeTRS(mgl64.Vec3{}, t.rotation, t.scale)
	return t
}

// Capability implements Component.
func (t *Transform) Capability() Capability { return CapTransform }

// composeTRS builds T * R * S: the rotation applied to a scaled basis, with the
// translation written into the last column.
func composeTRS(position mgl64.Vec3, rotation mgl64.Quat, scale mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(position[0], position[1], position[2]).
		Mul4(rotation.Mat4()).
		Mul4(mgl64.Scale3D(scale[0], scale[1], scale[2]))
}

// --- Transform property setters ---

// Set assigns position, rotation and scale together and recomposes once.
func (t *Transform) Set(position mgl64.Vec3, rotation mgl64.Quat, scale mgl64.Vec3) {
	t.rotation = rotation
	t.scale = scale
	t.matrix = composeTRS(position, rotation, scale)
}

// SetPosition sets the local position and recomposes the matrix.
func (t *Transform) SetPosition(p mgl64.Vec3) {
	t.matrix = composeTRS(p, t.rotation, t.scale)
}

// SetRotation sets the local rotation and recomposes the matrix.
func (t *Transform) SetRotation(q mgl64.Quat) {
	t.rotation = q
	t.matrix = composeTRS(t.Position(), q, t.scale)
}

// SetScale sets the local scale and recomposes the matrix.
func (t *Transform) SetScale(s mgl64.Vec3) {
	t.scale = s
	t.matrix = composeTRS(t.Position(), t.rotation, s)
}

// Position returns the translation column of the local matrix.
func (t *Transform) Position() mgl64.Vec3 {
	return t.matrix.Col(3).Vec3()
}

// Rotation returns the last rotation assigned.
func (t *Transform) Rotation() mgl64.Quat {
	return t.rotation
}

// Scale returns the last scale assigned.
func (t *Transform) Scale() mgl64.Vec3 {
	return t.scale
}

// Matrix returns the local (parent-space) matrix.
func (t *Transform) Matrix() mgl64.Mat4 {
	return t.matrix
}

// WorldMatrix returns the matrix computed by the most recent Update.
func (t *Transform) WorldMatrix() mgl64.Mat4 {
	return t.worldMatrix
}

// WorldToSelf returns the inverse of the world matrix. After an Update that
// found the world matrix singular it returns the last valid inverse together
// with ErrSingularMatrix.
func (t *Transform) WorldToSelf() (mgl64.Mat4, error) {
	if t.singular {
		return t.worldToSelf, ErrSingularMatrix
	}
	return t.worldToSelf, nil
}

// Up is the unit local +Y axis of the local matrix.
func (t *Transform) Up() mgl64.Vec3 {
	return normalize(t.matrix.Col(1).Vec3())
}

// Forward is the unit local +Z axis of the local matrix.
func (t *Transform) Forward() mgl64.Vec3 {
	return normalize(t.matrix.Col(2).Vec3())
}

// Left is the unit local +X axis of the local matrix.
func (t *Transform) Left() mgl64.Vec3 {
	return normalize(t.matrix.Col(0).Vec3())
}

// --- Orientation ---

// LookAt turns the transform so that Forward points at target, which must be
// given in the same space as Position (the parent's space).
//
// The world's horizontal plane is the frame of reference: left is the
// horizontal projection of forward rotated 90° about +Y, and up is
// forward × left, so no roll is ever introduced. When the direction is
// degenerate (target at the current position, or straight up or down) the
// rotation is left unchanged.
func (t *Transform) LookAt(target mgl64.Vec3) {
	forward := normalize(target.Sub(t.Position()))
	// Rotating (x, y, z) by 90° about +Y yields (z, y, -x); y is dropped to
	// project onto the horizontal plane.
	left := normalize(mgl64.Vec3{forward[2], 0, -forward[0]})
	if forward.Len() == 0 || left.Len() == 0 {
		return
	}
	up := forward.Cross(left)
	axes := mgl64.Mat3FromCols(left, up, forward)
	t.SetRotation(mgl64.Mat4ToQuat(axes.Mat4()).Normalize())
}

// RotateAlong rotates by rad radians about axis, expressed in the frame of the
// current rotation (current * delta).
func (t *Transform) RotateAlong(axis mgl64.Vec3, rad float64) {
	delta := mgl64.QuatRotate(rad, axis)
	t.SetRotation(t.rotation.Mul(delta))
}

// RotateRL yaws about the local up axis.
func (t *Transform) RotateRL(rad float64) {
	t.RotateAlong(AxisUp, rad)
}

// RotateUD pitches about the local left axis.
func (t *Transform) RotateUD(rad float64) {
	t.RotateAlong(AxisLeft, rad)
}

// Translate adds delta to the position. delta is in the parent's space; to
// move in self space, transform it by Matrix first.
func (t *Transform) Translate(delta mgl64.Vec3) {
	t.SetPosition(t.Position().Add(delta))
}

// ViewMatrix returns a look-at view matrix from Position towards
// Position+Forward with Up as the up vector. Returns the identity when the
// eye and the look target coincide or up is parallel to the view direction.
func (t *Transform) ViewMatrix() mgl64.Mat4 {
	eye := t.Position()
	center := eye.Add(t.Forward())
	if eye.ApproxEqualThreshold(center, epsilon) {
		return mgl64.Ident4()
	}
	up := t.Up()
	if center.Sub(eye).Cross(up).Len() < epsilon {
		return mgl64.Ident4()
	}
	return mgl64.LookAtV(eye, center, up)
}

// --- Tick ---

// Update recomputes the world matrix from the parent's (already updated)
// world matrix and inverts it. A singular world matrix is reported as
// ErrSingularMatrix; WorldToSelf keeps its previous value.
func (t *Transform) Update(time.Duration) error {
	world := t.matrix
	if parent := t.parentTransform(); parent != nil {
		world = parent.worldMatrix.Mul4(t.matrix)
	}
	t.worldMatrix = world

	if det, ok := invertible(world); !ok {
		t.singular = true
		name := ""
		if t.entity != nil {
			name = t.entity.Name
		}
		return eris.Wrapf(ErrSingularMatrix, "entity %q (det %g)", name, det)
	}
	t.singular = false
	t.worldToSelf = world.Inv()
	return nil
}

// invertible compares the determinant of m's linear part with the product of
// its column lengths, which bounds it, so uniformly small scales still count
// as invertible while collapsed axes do not.
func invertible(m mgl64.Mat4) (float64, bool) {
	det := m.Det()
	volume := m.Col(0).Vec3().Len() * m.Col(1).Vec3().Len() * m.Col(2).Vec3().Len()
	if math.IsNaN(det) || volume == 0 {
		return det, false
	}
	return det, math.Abs(det) >= singularThreshold*volume
}

// parentTransform returns the Transform of the owning entity's parent, or nil
// at the root of the hierarchy.
func (t *Transform) parentTransform() *Transform {
	if t.entity == nil || t.entity.parent == nil {
		return nil
	}
	return t.entity.parent.Transform()
}
