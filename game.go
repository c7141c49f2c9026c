package cervus

import (
	"errors"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Renderer draws renderable entities. Game.Render hands every visible
// Renderable to it; the host decides how pixels are produced.
type Renderer interface {
	DrawEntity(e *Entity, r *Renderable)
}

// FrameRenderer is a Renderer that batches a frame. BeginFrame runs before
// the first DrawEntity of a frame and EndFrame after the last, before
// after-render handlers see the result.
type FrameRenderer interface {
	Renderer
	BeginFrame(g *Game)
	EndFrame()
}

// Game owns the top-level entities, the camera entity, the event bus and the
// input state, and drives the fixed-tick loop.
//
// Frame is the single entry point for a host: it consumes as many whole ticks
// as fit into the time elapsed since the last tick, then renders once.
type Game struct {
	cfg Config

	entities []*Entity
	camera   *Entity

	tickDelta time.Duration
	running   bool
	clock     Clock
	epoch     time.Time
	lastTick  time.Duration
	ticks     uint64
	frames    uint64

	bus    *EventBus
	input  Input
	timers timerQueue

	renderer   Renderer
	clearColor Color
	view       mgl64.Mat4
	projection mgl64.Mat4

	log   *zap.Logger
	debug bool
}

// NewGame validates cfg and creates a stopped game with a camera entity
// carrying a Transform and a Move configured from cfg.Move.
func NewGame(cfg Config) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clearColor, _ := ParseHexColor(cfg.ClearColor)

	g := &Game{
		cfg:        cfg,
		tickDelta:  cfg.TickDuration(),
		clock:      cfg.Clock,
		bus:        NewEventBus(),
		input:      newInput(),
		clearColor: clearColor,
		view:       mgl64.Ident4(),
		log:        zap.NewNop(),
	}
	if g.clock == nil {
		g.clock = SystemClock{}
	}
	if cfg.Logger != nil {
		g.log = cfg.Logger.Named("cervus")
	}
	g.epoch = g.clock.Now()
	g.SetViewport(cfg.Width, cfg.Height)

	g.camera = NewEntity("camera", NewTransform(), NewMove(cfg.Move))
	g.camera.game = g

	g.SetDebugMode(cfg.Debug)
	return g, nil
}

// Config returns the configuration the game was created with.
func (g *Game) Config() Config { return g.cfg }

// Logger returns the game's logger. Never nil.
func (g *Game) Logger() *zap.Logger { return g.log }

// Camera returns the camera entity. Its Transform defines the view matrix.
func (g *Game) Camera() *Entity { return g.camera }

// Events returns the game's event bus.
func (g *Game) Events() *EventBus { return g.bus }

// TickDelta returns the fixed simulation step.
func (g *Game) TickDelta() time.Duration { return g.tickDelta }

// LastTick returns the simulation time of the most recent tick, measured from
// the game's creation.
func (g *Game) LastTick() time.Duration { return g.lastTick }

// Ticks returns the number of ticks run so far.
func (g *Game) Ticks() uint64 { return g.ticks }

// Frames returns the number of frames rendered so far.
func (g *Game) Frames() uint64 { return g.frames }

// Elapsed returns the clock time since the game was created.
func (g *Game) Elapsed() time.Duration { return g.clock.Now().Sub(g.epoch) }

// ClearColor returns the background color.
func (g *Game) ClearColor() Color { return g.clearColor }

// SetClearColor sets the background color.
func (g *Game) SetClearColor(c Color) { g.clearColor = c }

// ViewMatrix returns the camera view matrix built by the most recent tick.
func (g *Game) ViewMatrix() mgl64.Mat4 { return g.view }

// ProjectionMatrix returns the perspective projection.
func (g *Game) ProjectionMatrix() mgl64.Mat4 { return g.projection }

// SetViewport updates the aspect ratio of the projection.
func (g *Game) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	aspect := float64(width) / float64(height)
	g.projection = mgl64.Perspective(mgl64.DegToRad(g.cfg.FOV), aspect, g.cfg.Near, g.cfg.Far)
}

// SetRenderer sets the renderer Renderable components draw through.
func (g *Game) SetRenderer(r Renderer) { g.renderer = r }

// SetEventSink forwards every emitted event to sink in addition to handlers.
func (g *Game) SetEventSink(sink EventSink) { g.bus.SetSink(sink) }

// SetDebugMode enables or disables debug timing and scene-graph warnings.
func (g *Game) SetDebugMode(enabled bool) {
	g.debug = enabled
	globalDebug = enabled
	if enabled {
		debugLogger = g.log
	}
}

// --- Entities ---

// Add registers a top-level entity. Adding an entity already in the game is
// a no-op.
func (g *Game) Add(e *Entity) {
	if e == nil {
		panic("cervus: cannot add nil entity")
	}
	if e.parent != nil {
		panic("cervus: only root entities can be added to a game")
	}
	if slices.Contains(g.entities, e) {
		return
	}
	e.game = g
	g.entities = append(g.entities, e)
}

// Remove unregisters a top-level entity. No-op if it is not registered.
func (g *Game) Remove(e *Entity) {
	i := slices.Index(g.entities, e)
	if i < 0 {
		return
	}
	g.entities = slices.Delete(g.entities, i, i+1)
	e.game = nil
}

// Entities returns the top-level entities in insertion order. The returned
// slice MUST NOT be mutated by the caller.
func (g *Game) Entities() []*Entity { return g.entities }

// --- Events ---

// On registers fn for events named name.
func (g *Game) On(name EventName, fn func(Event)) Subscription { return g.bus.On(name, fn) }

// Off removes a handler registered with On.
func (g *Game) Off(sub Subscription) { g.bus.Off(sub) }

// Emit delivers e to every handler registered for its name.
func (g *Game) Emit(e Event) { g.bus.Emit(e) }

// --- Loop ---

// Start marks the game running and rebases the tick clock to now, so time
// spent stopped is not replayed as catch-up ticks.
func (g *Game) Start() {
	g.running = true
	g.lastTick = g.Elapsed()
	g.log.Info("game started", zap.Duration("tick_delta", g.tickDelta))
}

// Stop marks the game stopped. Frame calls become no-ops.
func (g *Game) Stop() {
	if !g.running {
		return
	}
	g.running = false
	g.log.Info("game stopped", zap.Uint64("ticks", g.ticks), zap.Uint64("frames", g.frames))
}

// Running reports whether the game is running.
func (g *Game) Running() bool { return g.running }

// Step runs one frame at the clock's current time.
func (g *Game) Step() error {
	return g.Frame(g.Elapsed())
}

// Frame processes the frame at simulation time now (measured like LastTick).
// If more than one tick delta has passed since the last tick, it runs
// floor(elapsed/delta) ticks and renders once; otherwise, or while stopped,
// it does nothing.
func (g *Game) Frame(now time.Duration) error {
	var stats debugStats
	var start time.Time
	if g.debug {
		start = time.Now()
	}

	ticks, err := g.Advance(now)
	if ticks == 0 {
		return err
	}

	if g.debug {
		stats.ticks = ticks
		stats.tickTime = time.Since(start)
		start = time.Now()
	}
	g.Render()
	if g.debug {
		stats.renderTime = time.Since(start)
		stats.entities = len(g.entities)
		g.debugLog(stats)
	}
	return err
}

// Advance runs the ticks due at time now without rendering and reports how
// many ran. The pointer delta accumulated since the previous pass is split
// evenly across those ticks and reset afterwards. No-op while stopped.
func (g *Game) Advance(now time.Duration) (int, error) {
	if !g.running || now <= g.lastTick+g.tickDelta {
		return 0, nil
	}
	ticks := int((now - g.lastTick) / g.tickDelta)

	g.input.pointer = g.input.pointer.Mul(1 / float64(ticks))
	var errs []error
	for range ticks {
		g.lastTick += g.tickDelta
		if err := g.tick(); err != nil {
			errs = append(errs, err)
		}
	}
	g.input.pointer = mgl64.Vec2{}

	err := errors.Join(errs...)
	if err != nil {
		g.log.Error("tick errors", zap.Int("ticks", ticks), zap.Error(err))
	}
	return ticks, err
}

// tick runs one simulation step: tick handlers, due timers, every entity tree,
// then the camera, whose transform yields the new view matrix.
func (g *Game) tick() error {
	g.ticks++
	g.bus.Emit(TickEvent{Time: g.lastTick, Tick: g.ticks})
	g.timers.runDue(g.lastTick)

	injected := g.input.injected
	g.input.pointer = g.input.pointer.Add(injected)
	defer func() {
		g.input.pointer = g.input.pointer.Sub(injected)
		g.input.injected = mgl64.Vec2{}
	}()

	var errs []error
	for _, e := range slices.Clone(g.entities) {
		if e.game != g {
			continue
		}
		if err := e.Update(g.tickDelta); err != nil {
			errs = append(errs, err)
		}
	}
	if err := g.camera.Update(g.tickDelta); err != nil {
		errs = append(errs, err)
	}
	g.view = g.camera.Transform().ViewMatrix()
	return errors.Join(errs...)
}

// Render renders every entity tree once, then emits AfterRenderEvent.
func (g *Game) Render() {
	g.frames++
	fr, batched := g.renderer.(FrameRenderer)
	if batched {
		fr.BeginFrame(g)
	}
	for _, e := range slices.Clone(g.entities) {
		if e.game == g {
			e.Render()
		}
	}
	if batched {
		fr.EndFrame()
	}
	g.bus.Emit(AfterRenderEvent{Frame: g.frames})
}

// LightPosition returns the world position of the scene's point light.
func (g *Game) LightPosition() mgl64.Vec3 { return mgl64.Vec3(g.cfg.LightPosition) }

// LightIntensity returns the strength of the diffuse light in [0, 1].
func (g *Game) LightIntensity() float64 { return g.cfg.LightIntensity }
