package cervus

import (
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTick is a 60 TPS step rounded to the microsecond, so tick arithmetic in
// tests is exact.
const testTick = 16670 * time.Microsecond

func newClockedGame(t *testing.T, tick time.Duration) (*Game, *ManualClock) {
	t.Helper()
	clock := NewManualClock(time.Unix(0, 0))
	cfg := DefaultConfig()
	cfg.TickDelta = tick
	cfg.Clock = clock
	g, err := NewGame(cfg)
	require.NoError(t, err)
	return g, clock
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g, _ := newClockedGame(t, testTick)
	return g
}

// funcComponent runs fn on every Update.
type funcComponent struct {
	BaseComponent
	capability Capability
	fn         func() error
}

func (f *funcComponent) Capability() Capability { return f.capability }

func (f *funcComponent) Update(time.Duration) error { return f.fn() }

// frameRecorder is a FrameRenderer that logs its calls.
type frameRecorder struct {
	log *[]string
}

func (r *frameRecorder) BeginFrame(*Game) { *r.log = append(*r.log, "begin") }

func (r *frameRecorder) DrawEntity(e *Entity, _ *Renderable) {
	*r.log = append(*r.log, "draw "+e.Name)
}

func (r *frameRecorder) EndFrame() { *r.log = append(*r.log, "end") }

func TestNewGameDefaults(t *testing.T) {
	g := newTestGame(t)

	assert.Equal(t, testTick, g.TickDelta())
	assert.False(t, g.Running())
	assert.NotNil(t, g.Logger())
	require.NotNil(t, g.Camera())
	assert.NotNil(t, g.Camera().Transform())
	assert.NotNil(t, g.Camera().Move())
	assert.Same(t, g, g.Camera().Game())
	assert.Equal(t, ColorWhite, g.ClearColor())
	assert.Equal(t, mgl64.Vec3{}, g.LightPosition())
	assert.InDelta(t, 0.6, g.LightIntensity(), 1e-12)
}

func TestNewGameRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TPS = 0
	_, err := NewGame(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestTickDeltaFromTPS(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TPS = 50
	g, err := NewGame(cfg)
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, g.TickDelta())
}

func TestFrameRunsWholeTicks(t *testing.T) {
	g := newTestGame(t)
	var times []time.Duration
	g.On(EventTick, func(e Event) { times = append(times, e.(TickEvent).Time) })
	g.Start()

	require.NoError(t, g.Frame(50*time.Millisecond))

	assert.Equal(t, uint64(2), g.Ticks())
	assert.Equal(t, uint64(1), g.Frames())
	assert.Equal(t, 33340*time.Microsecond, g.LastTick())
	assert.Equal(t, []time.Duration{testTick, 2 * testTick}, times)
}

func TestFrameWaitsForMoreThanOneDelta(t *testing.T) {
	tests := []struct {
		name string
		now  time.Duration
	}{
		{"before", 10 * time.Millisecond},
		{"exactly one delta", testTick},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t)
			rendered := 0
			g.On(EventAfterRender, func(Event) { rendered++ })
			g.Start()

			require.NoError(t, g.Frame(tt.now))
			assert.Zero(t, g.Ticks())
			assert.Zero(t, rendered)
			assert.Zero(t, g.LastTick())
		})
	}
}

func TestFrameStoppedIsNoop(t *testing.T) {
	g := newTestGame(t)
	require.NoError(t, g.Frame(time.Second))
	assert.Zero(t, g.Ticks())
	assert.Zero(t, g.Frames())

	g.Start()
	require.NoError(t, g.Frame(50*time.Millisecond))
	g.Stop()
	require.NoError(t, g.Frame(time.Second))
	assert.Equal(t, uint64(2), g.Ticks())
}

func TestStartRebasesClock(t *testing.T) {
	g, clock := newClockedGame(t, testTick)
	clock.Advance(time.Second)
	g.Start()
	assert.Equal(t, time.Second, g.LastTick())

	// The second spent stopped is not replayed.
	clock.Advance(20 * time.Millisecond)
	require.NoError(t, g.Step())
	assert.Equal(t, uint64(1), g.Ticks())
}

func TestPointerDeltaSplitAcrossTicks(t *testing.T) {
	g := newTestGame(t)
	var seen []mgl64.Vec2
	watcher := NewEntity("watcher", &funcComponent{capability: CapMove, fn: func() error {
		seen = append(seen, g.PointerDelta())
		return nil
	}})
	g.Add(watcher)
	g.Start()

	// Device movement left and down is +X, -Y in engine axes.
	g.MovePointer(-10, 4)
	require.NoError(t, g.Frame(50*time.Millisecond))

	assert.Equal(t, []mgl64.Vec2{{5, -2}, {5, -2}}, seen)
	assert.Equal(t, mgl64.Vec2{}, g.PointerDelta())
}

func TestInjectPointerAppliesToOneTick(t *testing.T) {
	g := newTestGame(t)
	var seen []mgl64.Vec2
	g.Add(NewEntity("watcher", &funcComponent{capability: CapMove, fn: func() error {
		seen = append(seen, g.PointerDelta())
		return nil
	}}))
	g.Start()

	g.InjectPointer(-4, 0)
	require.NoError(t, g.Frame(50*time.Millisecond))

	assert.Equal(t, []mgl64.Vec2{{4, 0}, {0, 0}}, seen)
	assert.Equal(t, mgl64.Vec2{}, g.PointerDelta())
}

func TestTickOrder(t *testing.T) {
	g := newTestGame(t)
	var log []string
	g.On(EventTick, func(Event) { log = append(log, "tick") })
	g.After(0, func() { log = append(log, "timer") })
	g.Add(NewEntity("watcher", &funcComponent{capability: CapMove, fn: func() error {
		log = append(log, "update")
		return nil
	}}))
	g.On(EventAfterRender, func(Event) { log = append(log, "afterrender") })
	g.Start()

	require.NoError(t, g.Frame(20*time.Millisecond))
	assert.Equal(t, []string{"tick", "timer", "update", "afterrender"}, log)
}

func TestFrameRendererWrapsDraws(t *testing.T) {
	g := newTestGame(t)
	var log []string
	g.SetRenderer(&frameRecorder{log: &log})
	g.Add(NewEntity("box", NewTransform(), NewRenderable(boxMesh)))
	hidden := NewRenderable(boxMesh)
	hidden.Hidden = true
	g.Add(NewEntity("hidden", NewTransform(), hidden))
	g.Add(NewEntity("empty", NewTransform(), NewRenderable(nil)))
	g.On(EventAfterRender, func(Event) { log = append(log, "afterrender") })
	g.Start()

	require.NoError(t, g.Frame(20*time.Millisecond))
	assert.Equal(t, []string{"begin", "draw box", "end", "afterrender"}, log)
}

func TestFrameReturnsTickErrorsAndStillRenders(t *testing.T) {
	g := newTestGame(t)
	boom := errors.New("boom")
	g.Add(NewEntity("bad", &funcComponent{capability: CapMove, fn: func() error { return boom }}))
	g.Start()

	err := g.Frame(50 * time.Millisecond)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(2), g.Ticks())
	assert.Equal(t, uint64(1), g.Frames())
}

func TestCameraDefinesViewMatrix(t *testing.T) {
	g := newTestGame(t)
	cam := g.Camera().Transform()
	cam.SetPosition(mgl64.Vec3{0, 1.74, 0})
	cam.LookAt(mgl64.Vec3{5, 1.74, 5})
	g.Start()

	require.NoError(t, g.Frame(20*time.Millisecond))
	assertMat(t, "view", g.ViewMatrix(), cam.ViewMatrix())
}

func TestGameAddRemove(t *testing.T) {
	g := newTestGame(t)
	a := NewEntity("a")
	b := NewEntity("b")
	g.Add(a)
	g.Add(b)
	g.Add(a)
	assert.Equal(t, []*Entity{a, b}, g.Entities())

	g.Remove(a)
	assert.Equal(t, []*Entity{b}, g.Entities())
	assert.Nil(t, a.Game())
	g.Remove(a) // not registered

	child := NewEntity("child")
	b.Add(child)
	assert.PanicsWithValue(t, "cervus: only root entities can be added to a game", func() { g.Add(child) })
	assert.PanicsWithValue(t, "cervus: cannot add nil entity", func() { g.Add(nil) })
}

func TestRemoveDuringTick(t *testing.T) {
	g := newTestGame(t)
	updates := 0
	victim := NewEntity("victim", &funcComponent{capability: CapMove, fn: func() error {
		updates++
		return nil
	}})
	g.Add(victim)
	g.On(EventTick, func(Event) { g.Remove(victim) })
	g.Start()

	require.NoError(t, g.Frame(50*time.Millisecond))
	assert.Zero(t, updates)
}

func TestEntityRemovesItselfDuringTick(t *testing.T) {
	g := newTestGame(t)
	var a *Entity
	a = NewEntity("a", &funcComponent{capability: CapMove, fn: func() error {
		a.Game().Remove(a)
		return nil
	}})
	updates := map[string]int{}
	counter := func(name string) *funcComponent {
		return &funcComponent{capability: CapMove, fn: func() error {
			updates[name]++
			return nil
		}}
	}
	b := NewEntity("b", counter("b"))
	c := NewEntity("c", counter("c"))
	g.Add(a)
	g.Add(b)
	g.Add(c)
	g.Start()

	require.NotPanics(t, func() { require.NoError(t, g.Frame(20*time.Millisecond)) })
	assert.Equal(t, map[string]int{"b": 1, "c": 1}, updates)
	assert.Equal(t, []*Entity{b, c}, g.Entities())
	assert.Nil(t, a.Game())
}

func TestEntityRemovesLaterSiblingDuringTick(t *testing.T) {
	g := newTestGame(t)
	updates := 0
	victim := NewEntity("victim", &funcComponent{capability: CapMove, fn: func() error {
		updates++
		return nil
	}})
	g.Add(NewEntity("remover", &funcComponent{capability: CapMove, fn: func() error {
		g.Remove(victim)
		return nil
	}}))
	g.Add(victim)
	g.Start()

	require.NoError(t, g.Frame(20*time.Millisecond))
	assert.Zero(t, updates)
}

func TestKeys(t *testing.T) {
	g := newTestGame(t)
	assert.Equal(t, 0, g.Key(KeyW))
	g.SetKey(KeyW, true)
	assert.Equal(t, 1, g.Key(KeyW))
	g.SetKey(KeyW, false)
	assert.Equal(t, 0, g.Key(KeyW))

	g.SetKey(KeyA, true)
	g.SetKey(KeyD, true)
	g.ReleaseKeys()
	assert.Equal(t, 0, g.Key(KeyA))
	assert.Equal(t, 0, g.Key(KeyD))
}

func TestProjectionFollowsViewport(t *testing.T) {
	g := newTestGame(t)
	before := g.ProjectionMatrix()
	g.SetViewport(1600, 600)
	assert.NotEqual(t, before, g.ProjectionMatrix())

	after := g.ProjectionMatrix()
	g.SetViewport(0, 600)
	assert.Equal(t, after, g.ProjectionMatrix())
}

func TestDebugModeLogsFrames(t *testing.T) {
	g := newTestGame(t)
	g.SetDebugMode(true)
	defer g.SetDebugMode(false)
	g.Start()
	require.NoError(t, g.Frame(20*time.Millisecond))
	assert.Equal(t, uint64(1), g.Frames())
}
