package cervus

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newWalker() (*Entity, *Move) {
	m := NewMove(DefaultMoveConfig())
	return NewEntity("walker", NewTransform(), m), m
}

func held(dirs ...Direction) DirectionStates {
	var s DirectionStates
	for _, d := range dirs {
		s[d] = 1
	}
	return s
}

func TestHandleKeysTranslation(t *testing.T) {
	tests := []struct {
		name string
		held DirectionStates
		want mgl64.Vec3
	}{
		{"forward", held(DirForward), mgl64.Vec3{0, 0, 3.5}},
		{"back", held(DirBack), mgl64.Vec3{0, 0, -3.5}},
		{"left", held(DirLeft), mgl64.Vec3{3.5, 0, 0}},
		{"right", held(DirRight), mgl64.Vec3{-3.5, 0, 0}},
		{"up", held(DirUp), mgl64.Vec3{0, 3.5, 0}},
		{"down", held(DirDown), mgl64.Vec3{0, -3.5, 0}},
		{"forward and back cancel", held(DirForward, DirBack), mgl64.Vec3{}},
		{"nothing", held(), mgl64.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, m := newWalker()
			m.HandleKeys(time.Second, tt.held)
			assertVec(t, "position", e.Transform().Position(), tt.want)
		})
	}
}

func TestHandleKeysDiagonalIsNormalized(t *testing.T) {
	e, m := newWalker()
	m.HandleKeys(time.Second, held(DirForward, DirLeft))
	pos := e.Transform().Position()
	assertNear(t, "distance", pos.Len(), 3.5)
	assertNear(t, "x", pos[0], pos[2])
}

func TestHandleKeysFollowsHeading(t *testing.T) {
	e, m := newWalker()
	e.Transform().RotateRL(math.Pi / 2)
	m.HandleKeys(time.Second, held(DirForward))
	assertVec(t, "position", e.Transform().Position(), mgl64.Vec3{3.5, 0, 0})
}

func TestHandleKeysVerticalIgnoresPitch(t *testing.T) {
	e, m := newWalker()
	e.Transform().LookAt(mgl64.Vec3{0, 10, 10})
	m.HandleKeys(time.Second, held(DirUp))
	assertVec(t, "position", e.Transform().Position(), mgl64.Vec3{0, 3.5, 0})
}

func TestHandleKeysYaw(t *testing.T) {
	e, m := newWalker()
	// 3 units of simulated pointer movement at 0.5 rad/s over 1s: 1.5 rad.
	m.HandleKeys(time.Second, held(DirYawLeft))
	assertVec(t, "forward", e.Transform().Forward(), mgl64.Vec3{math.Sin(1.5), 0, math.Cos(1.5)})
	assertVec(t, "position", e.Transform().Position(), mgl64.Vec3{})
}

func TestHandleKeysPitch(t *testing.T) {
	e, m := newWalker()
	m.HandleKeys(100*time.Millisecond, held(DirPitchUp))
	// 3 * 0.5 * 0.1 = 0.15 rad above the horizon.
	assertVec(t, "forward", e.Transform().Forward(), mgl64.Vec3{0, math.Sin(0.15), math.Cos(0.15)})
}

func TestHandleMouseZeroIsNoop(t *testing.T) {
	e, m := newWalker()
	e.Transform().RotateRL(0.4)
	before := e.Transform().Matrix()
	m.HandleMouse(time.Second, mgl64.Vec2{})
	assert.Equal(t, before, e.Transform().Matrix())
}

func TestHandleMouseComposesWithHeading(t *testing.T) {
	e, m := newWalker()
	e.Transform().SetPosition(mgl64.Vec3{5, 1.74, 5})
	m.HandleMouse(time.Second, mgl64.Vec2{math.Pi, 0}) // 0.5π: a quarter turn left
	m.HandleMouse(time.Second, mgl64.Vec2{math.Pi, 0})
	assertVec(t, "forward", e.Transform().Forward(), mgl64.Vec3{0, 0, -1})
	assertVec(t, "position", e.Transform().Position(), mgl64.Vec3{5, 1.74, 5})
}

func TestMoveUpdateReadsGameInput(t *testing.T) {
	g := newTestGame(t)
	cfg := DefaultMoveConfig()
	cfg.KeyboardControlled = true
	cfg.MouseControlled = true
	walker := NewEntity("walker", NewTransform(), NewMove(cfg))
	g.Add(walker)
	g.Start()

	g.SetKey(KeyW, true)
	require.NoError(t, g.Frame(20*time.Millisecond))
	want := testTick.Seconds() * 3.5
	assertVec(t, "position", walker.Transform().Position(), mgl64.Vec3{0, 0, want})

	// Two held keys bound to the same direction count once.
	walker.Move().Bindings[KeyEnter] = DirForward
	g.SetKey(KeyEnter, true)
	require.NoError(t, g.Frame(40*time.Millisecond))
	assertVec(t, "position", walker.Transform().Position(), mgl64.Vec3{0, 0, 2 * want})
}

func TestMoveIdleWithoutGame(t *testing.T) {
	cfg := DefaultMoveConfig()
	cfg.KeyboardControlled = true
	e := NewEntity("walker", NewTransform(), NewMove(cfg))
	require.NoError(t, e.Update(time.Second))
	assert.Equal(t, mgl64.Vec3{}, e.Transform().Position())
}

func TestMoveRequiresTransform(t *testing.T) {
	m := NewMove(DefaultMoveConfig())
	NewEntity("bare", m)
	assert.Panics(t, func() { m.HandleKeys(time.Second, held(DirForward)) })
}

func TestNewMoveBindings(t *testing.T) {
	m := NewMove(MoveConfig{})
	assert.Equal(t, DefaultBindings(), m.Bindings)

	m = NewMove(MoveConfig{Bindings: map[KeyCode]Direction{KeyW: DirForward, KeyE: DirNone}})
	assert.Equal(t, map[KeyCode]Direction{KeyW: DirForward}, m.Bindings)

	m = NewMove(DefaultMoveConfig())
	m.Unbind(KeyE, KeyQ)
	assert.NotContains(t, m.Bindings, KeyE)
	assert.NotContains(t, m.Bindings, KeyQ)
	assert.Equal(t, DirForward, m.Bindings[KeyW])
}

func TestParseDirection(t *testing.T) {
	for d := range numDirections {
		got, err := ParseDirection(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
	_, err := ParseDirection("sideways")
	assert.Error(t, err)
	assert.Equal(t, "?", Direction(200).String())
}

func TestDirectionYAML(t *testing.T) {
	var bindings map[KeyCode]Direction
	require.NoError(t, yaml.Unmarshal([]byte("87: b\n69: \"-\"\n"), &bindings))
	assert.Equal(t, map[KeyCode]Direction{KeyW: DirBack, KeyE: DirNone}, bindings)

	out, err := yaml.Marshal(map[KeyCode]Direction{KeyA: DirYawLeft})
	require.NoError(t, err)
	assert.Equal(t, "65: yl\n", string(out))

	err = yaml.Unmarshal([]byte("87: fly\n"), &bindings)
	assert.ErrorContains(t, err, "line 1")
}
