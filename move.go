package cervus

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// keyRotationDelta is the simulated pointer movement, per tick, produced by a
// held rotation key.
const keyRotationDelta = 3

// Direction is an abstract movement a key can be bound to.
type Direction uint8

const (
	DirNone      Direction = iota // unbound
	DirForward                    // f
	DirBack                       // b
	DirLeft                       // l
	DirRight                      // r
	DirUp                         // u
	DirDown                       // d
	DirPitchUp                    // pu
	DirPitchDown                  // pd
	DirYawLeft                    // yl
	DirYawRight                   // yr
	numDirections
)

var directionLabels = [numDirections]string{
	DirNone:      "-",
	DirForward:   "f",
	DirBack:      "b",
	DirLeft:      "l",
	DirRight:     "r",
	DirUp:        "u",
	DirDown:      "d",
	DirPitchUp:   "pu",
	DirPitchDown: "pd",
	DirYawLeft:   "yl",
	DirYawRight:  "yr",
}

func (d Direction) String() string {
	if d < numDirections {
		return directionLabels[d]
	}
	return "?"
}

// ParseDirection returns the direction with the given label.
func ParseDirection(label string) (Direction, error) {
	for d, l := range directionLabels {
		if l == label {
			return Direction(d), nil
		}
	}
	return DirNone, eris.Errorf("unknown direction %q", label)
}

// MarshalYAML writes the direction label.
func (d Direction) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalYAML reads a direction label.
func (d *Direction) UnmarshalYAML(node *yaml.Node) error {
	var label string
	if err := node.Decode(&label); err != nil {
		return err
	}
	parsed, err := ParseDirection(label)
	if err != nil {
		return eris.Wrapf(err, "line %d", node.Line)
	}
	*d = parsed
	return nil
}

// DirectionStates holds the 0/1 state of every direction for one tick.
type DirectionStates [numDirections]float64

// DefaultBindings returns WASD for walking, E/Q for rising and sinking and the
// arrow keys for turning.
func DefaultBindings() map[KeyCode]Direction {
	return map[KeyCode]Direction{
		KeyW:     DirForward,
		KeyA:     DirLeft,
		KeyD:     DirRight,
		KeyS:     DirBack,
		KeyE:     DirUp,
		KeyQ:     DirDown,
		KeyUp:    DirPitchUp,
		KeyDown:  DirPitchDown,
		KeyRight: DirYawRight,
		KeyLeft:  DirYawLeft,
	}
}

// Move turns held keys and pointer movement into translation and rotation of
// the owner's Transform. Requires a Transform on the same entity.
type Move struct {
	BaseComponent

	KeyboardControlled bool
	MouseControlled    bool
	// MoveSpeed is in units per second.
	MoveSpeed float64
	// RotateSpeed is in radians per second per unit of pointer movement.
	RotateSpeed float64
	// Bindings maps key codes to directions. Several keys may share one.
	Bindings map[KeyCode]Direction
}

// NewMove creates a Move from cfg. Nil bindings mean DefaultBindings; keys
// bound to DirNone are dropped.
func NewMove(cfg MoveConfig) *Move {
	bindings := cfg.Bindings
	if bindings == nil {
		bindings = DefaultBindings()
	}
	m := &Move{
		KeyboardControlled: cfg.KeyboardControlled,
		MouseControlled:    cfg.MouseControlled,
		MoveSpeed:          cfg.MoveSpeed,
		RotateSpeed:        cfg.RotateSpeed,
		Bindings:           make(map[KeyCode]Direction, len(bindings)),
	}
	for k, d := range bindings {
		if d != DirNone {
			m.Bindings[k] = d
		}
	}
	return m
}

// Capability implements Component.
func (m *Move) Capability() Capability { return CapMove }

// Unbind removes the bindings of the given keys.
func (m *Move) Unbind(keys ...KeyCode) {
	for _, k := range keys {
		delete(m.Bindings, k)
	}
}

// Update applies keyboard and pointer input for one tick. Without a game the
// component is idle.
func (m *Move) Update(dt time.Duration) error {
	g := m.entity.Game()
	if g == nil {
		return nil
	}
	if m.KeyboardControlled {
		var held DirectionStates
		for k, d := range m.Bindings {
			held[d] = math.Max(held[d], float64(g.Key(k)))
		}
		m.HandleKeys(dt, held)
	}
	if m.MouseControlled {
		m.HandleMouse(dt, g.PointerDelta())
	}
	return nil
}

// HandleKeys moves the transform for one tick given the 0/1 state of every
// direction. Horizontal movement follows the owner's heading; vertical
// movement is always along the parent's Y axis.
func (m *Move) HandleKeys(dt time.Duration, held DirectionStates) {
	t := mustHave(m.entity, CapTransform, "Move").(*Transform)
	dist := dt.Seconds() * m.MoveSpeed

	self := mgl64.Vec3{
		held[DirLeft] - held[DirRight],
		0,
		held[DirForward] - held[DirBack],
	}
	direction := mgl64.TransformCoordinate(self, t.Matrix()).Sub(t.Position())
	direction[1] = held[DirUp] - held[DirDown]
	if direction = normalize(direction); direction.Len() > 0 {
		t.Translate(direction.Mul(dist))
	}

	m.HandleMouse(dt, mgl64.Vec2{
		(held[DirYawLeft] - held[DirYawRight]) * keyRotationDelta,
		(held[DirPitchUp] - held[DirPitchDown]) * keyRotationDelta,
	})
}

// HandleMouse turns the transform by a pointer movement, already in engine
// axes. A zero movement leaves the transform untouched.
func (m *Move) HandleMouse(dt time.Duration, delta mgl64.Vec2) {
	if delta[0] == 0 && delta[1] == 0 {
		return
	}
	t := mustHave(m.entity, CapTransform, "Move").(*Transform)

	secs := dt.Seconds()
	azimuth := m.RotateSpeed * secs * delta[0]
	polar := m.RotateSpeed * secs * delta[1]

	// Polar is measured from the horizontal plane, not from the zenith.
	forward := normalize(mgl64.Vec3{
		math.Cos(polar) * math.Sin(azimuth),
		math.Sin(polar),
		math.Cos(polar) * math.Cos(azimuth),
	})
	t.LookAt(mgl64.TransformCoordinate(forward, t.Matrix()))
}
