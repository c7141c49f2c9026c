package cervus

import (
	"errors"
	"slices"
	"time"
)

// Component is a unit of behavior attached to an Entity. The engine calls
// Mount once when the component is added, Update once per simulation tick and
// Render once per rendered frame.
type Component interface {
	// Capability identifies the slot this component occupies on its entity.
	Capability() Capability
	// Mount receives the owning entity. Called from Entity.AddComponent.
	Mount(e *Entity)
	// Update advances the component by one fixed tick.
	Update(dt time.Duration) error
	// Render is invoked after all ticks of a frame have been applied.
	Render()
}

// BaseComponent holds the owning-entity back-reference and no-op hooks.
// Embed it and override what you need.
type BaseComponent struct {
	entity *Entity
}

// Mount stores the owning entity. Components that override Mount must call
// BaseComponent.Mount first.
func (b *BaseComponent) Mount(e *Entity) { b.entity = e }

// Entity returns the owning entity, or nil before mounting.
func (b *BaseComponent) Entity() *Entity { return b.entity }

// Update does nothing.
func (b *BaseComponent) Update(time.Duration) error { return nil }

// Render does nothing.
func (b *BaseComponent) Render() {}

// entityIDCounter is a plain counter; the core is single-threaded.
var entityIDCounter uint32

func nextEntityID() uint32 {
	entityIDCounter++
	return entityIDCounter
}

// Entity is a node of the scene graph: a named set of components plus child
// entities. Parent and Game are non-owning back-references.
type Entity struct {
	ID   uint32
	Name string

	// Skip suppresses Update and Render for this entity's whole subtree.
	Skip bool

	parent   *Entity
	game     *Game
	children []*Entity

	components []Component
	slots      map[Capability]int
}

// NewEntity creates a detached entity and adds the given components in order.
func NewEntity(name string, components ...Component) *Entity {
	e := &Entity{
		ID:    nextEntityID(),
		Name:  name,
		slots: make(map[Capability]int, len(components)),
	}
	for _, c := range components {
		e.AddComponent(c)
	}
	return e
}

// AddComponent mounts c on this entity and stores it under its capability.
// A previous component of the same capability is replaced in place, without
// any teardown hook, so traversal order stays the registration order.
func (e *Entity) AddComponent(c Component) {
	if c == nil {
		panic("cervus: cannot add nil component")
	}
	if e.slots == nil {
		e.slots = make(map[Capability]int)
	}
	c.Mount(e)
	capability := c.Capability()
	if i, ok := e.slots[capability]; ok {
		e.components[i] = c
		return
	}
	e.slots[capability] = len(e.components)
	e.components = append(e.components, c)
}

// Component returns the component registered for capability c, or nil.
func (e *Entity) Component(c Capability) Component {
	i, ok := e.slots[c]
	if !ok {
		return nil
	}
	return e.components[i]
}

// Components looks up several capabilities at once. Missing entries are nil.
func (e *Entity) Components(caps ...Capability) []Component {
	out := make([]Component, len(caps))
	for i, c := range caps {
		out[i] = e.Component(c)
	}
	return out
}

// HasComponent reports whether a component with capability c is registered.
func (e *Entity) HasComponent(c Capability) bool {
	_, ok := e.slots[c]
	return ok
}

// Transform returns the entity's Transform, or nil.
func (e *Entity) Transform() *Transform {
	t, _ := e.Component(CapTransform).(*Transform)
	return t
}

// Move returns the entity's Move component, or nil.
func (e *Entity) Move() *Move {
	m, _ := e.Component(CapMove).(*Move)
	return m
}

// Renderable returns the entity's Renderable component, or nil.
func (e *Entity) Renderable() *Renderable {
	r, _ := e.Component(CapRender).(*Renderable)
	return r
}

// Morph returns the entity's Morph component, or nil.
func (e *Entity) Morph() *Morph {
	m, _ := e.Component(CapMorph).(*Morph)
	return m
}

// Footsteps returns the entity's Footsteps component, or nil.
func (e *Entity) Footsteps() *Footsteps {
	f, _ := e.Component(CapFootsteps).(*Footsteps)
	return f
}

// LookAt returns the entity's LookAtTarget component, or nil.
func (e *Entity) LookAt() *LookAtTarget {
	l, _ := e.Component(CapLookAt).(*LookAtTarget)
	return l
}

// --- Tree manipulation ---

// Add appends child to this entity's children and sets its parent.
// If child already has a parent, it is removed from that parent first.
// Components of child are not re-mounted.
// Panics if child is nil or child is an ancestor of this entity (cycle).
func (e *Entity) Add(child *Entity) {
	if child == nil {
		panic("cervus: cannot add nil child")
	}
	if isAncestor(child, e) {
		panic("cervus: adding child would create a cycle")
	}
	if child.parent != nil {
		child.parent.removeChildByPtr(child)
	}
	child.parent = e
	e.children = append(e.children, child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(e)
	}
}

// Remove detaches child. No further traversal reaches it.
// Panics if child's parent is not this entity.
func (e *Entity) Remove(child *Entity) {
	if child.parent != e {
		panic("cervus: child's parent is not this entity")
	}
	e.removeChildByPtr(child)
	child.parent = nil
}

// RemoveFromParent detaches this entity from its parent entity.
// No-op for entities without a parent.
func (e *Entity) RemoveFromParent() {
	if e.parent == nil {
		return
	}
	e.parent.Remove(e)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (e *Entity) Children() []*Entity {
	return e.children
}

// Parent returns the parent entity, or nil for scene roots and detached entities.
func (e *Entity) Parent() *Entity {
	return e.parent
}

// Game returns the game this entity's tree was added to, or nil.
func (e *Entity) Game() *Game {
	for p := e; p != nil; p = p.parent {
		if p.game != nil {
			return p.game
		}
	}
	return nil
}

// --- Traversal ---

// Update runs one tick on every component in registration order, then on
// every child. Children run strictly after their parent's components, which
// keeps parent world matrices current before any child reads them.
// Errors are collected and returned together; traversal does not stop early.
// Children removed during the pass are skipped; children added during it run
// from the next tick.
func (e *Entity) Update(dt time.Duration) error {
	if e.Skip {
		return nil
	}
	var errs []error
	for _, c := range e.components {
		if err := c.Update(dt); err != nil {
			errs = append(errs, err)
		}
	}
	for _, child := range slices.Clone(e.children) {
		if child.parent != e {
			continue
		}
		if err := child.Update(dt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Render invokes Render on every component, then on every child.
func (e *Entity) Render() {
	if e.Skip {
		return
	}
	for _, c := range e.components {
		c.Render()
	}
	for _, child := range slices.Clone(e.children) {
		if child.parent == e {
			child.Render()
		}
	}
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of entity (or entity itself).
func isAncestor(candidate, entity *Entity) bool {
	for p := entity; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from e.children without clearing child.parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (e *Entity) removeChildByPtr(child *Entity) {
	for i, c := range e.children {
		if c == child {
			copy(e.children[i:], e.children[i+1:])
			e.children[len(e.children)-1] = nil
			e.children = e.children[:len(e.children)-1]
			return
		}
	}
}
