package cervus

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// LookAtTarget tracks the rotation that would make its owner face a target
// position, without turning the owner. Each tick it copies the owner's
// position into a private Transform and points that at the target. Requires
// a Transform on the same entity.
type LookAtTarget struct {
	BaseComponent

	Target mgl64.Vec3
	dummy  *Transform
}

// NewLookAtTarget creates a tracker aimed at target.
func NewLookAtTarget(target mgl64.Vec3) *LookAtTarget {
	return &LookAtTarget{Target: target, dummy: NewTransform()}
}

// Capability implements Component.
func (l *LookAtTarget) Capability() Capability { return CapLookAt }

// Update re-aims the tracker from the owner's current position.
func (l *LookAtTarget) Update(time.Duration) error {
	owner := mustHave(l.entity, CapTransform, "LookAtTarget").(*Transform)
	l.dummy.SetPosition(owner.Position())
	l.dummy.LookAt(l.Target)
	return nil
}

// Rotation returns the rotation facing the target as of the last Update.
func (l *LookAtTarget) Rotation() mgl64.Quat {
	return l.dummy.Rotation()
}
