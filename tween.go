package cervus

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 values at once. Create one via the
// convenience constructors (TweenPosition, TweenScale, TweenColor) and call
// Update(dt) each tick, or wrap it in a VecTween to have the game drive it.
// A group created for an entity in a game stops as soon as the entity leaves
// that game; one created for a detached entity runs regardless.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	apply  func(vals [4]float64)
	target *Entity
	game   *Game
	Done   bool
}

// Update advances all tweens by dt seconds and applies the values.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.game != nil && g.target.Game() != g.game {
		g.Done = true
		return
	}

	var vals [4]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.apply(vals)
	g.Done = allDone
}

func newTweenGroup(target *Entity, from, to []float64, duration time.Duration, fn ease.TweenFunc, apply func([4]float64)) *TweenGroup {
	if fn == nil {
		fn = ease.Linear
	}
	g := &TweenGroup{count: len(from), target: target, game: target.Game(), apply: apply}
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), float32(duration.Seconds()), fn)
	}
	return g
}

// TweenPosition creates a TweenGroup that moves the entity's Transform from
// its current position to `to`.
func TweenPosition(e *Entity, to mgl64.Vec3, duration time.Duration, fn ease.TweenFunc) *TweenGroup {
	t := mustHave(e, CapTransform, "TweenPosition").(*Transform)
	from := t.Position()
	return newTweenGroup(e, from[:], to[:], duration, fn, func(v [4]float64) {
		t.SetPosition(mgl64.Vec3{v[0], v[1], v[2]})
	})
}

// TweenScale creates a TweenGroup that animates the entity's Transform scale.
func TweenScale(e *Entity, to mgl64.Vec3, duration time.Duration, fn ease.TweenFunc) *TweenGroup {
	t := mustHave(e, CapTransform, "TweenScale").(*Transform)
	from := t.Scale()
	return newTweenGroup(e, from[:], to[:], duration, fn, func(v [4]float64) {
		t.SetScale(mgl64.Vec3{v[0], v[1], v[2]})
	})
}

// TweenColor creates a TweenGroup that animates all four components of the
// entity's Renderable color.
func TweenColor(e *Entity, to Color, duration time.Duration, fn ease.TweenFunc) *TweenGroup {
	r := mustHave(e, CapRender, "TweenColor").(*Renderable)
	from := []float64{r.Color.R, r.Color.G, r.Color.B, r.Color.A}
	return newTweenGroup(e, from, []float64{to.R, to.G, to.B, to.A}, duration, fn, func(v [4]float64) {
		r.Color = Color{v[0], v[1], v[2], v[3]}
	})
}

// VecTween moves an entity's position to a target over a duration of
// simulation time, stepped by the game's tick events.
type VecTween struct {
	game     *Game
	entity   *Entity
	to       mgl64.Vec3
	duration time.Duration
	// Easing defaults to ease.Linear.
	Easing ease.TweenFunc

	group  *TweenGroup
	sub    Subscription
	onDone func()
	active bool
}

// NewVecTween prepares a tween of e's position. Nothing moves until Start.
func NewVecTween(g *Game, e *Entity, to mgl64.Vec3, duration time.Duration) *VecTween {
	return &VecTween{game: g, entity: e, to: to, duration: duration, Easing: ease.Linear}
}

// Start captures the current position as the origin and advances the tween
// by one tick delta on every tick. onDone, if set, runs once when the target
// is reached. The tween also stops, without calling onDone, if the entity
// leaves the game.
func (v *VecTween) Start(onDone func()) *VecTween {
	v.Stop()
	v.onDone = onDone
	v.group = TweenPosition(v.entity, v.to, v.duration, v.Easing)
	v.active = true
	v.sub = v.game.On(EventTick, func(Event) { v.step() })
	return v
}

// Stop detaches the tween from the tick event. Safe to call at any time.
func (v *VecTween) Stop() {
	if !v.active {
		return
	}
	v.active = false
	v.sub.Cancel()
}

// Active reports whether the tween is still running.
func (v *VecTween) Active() bool { return v.active }

func (v *VecTween) step() {
	v.group.Update(float32(v.game.TickDelta().Seconds()))
	if !v.group.Done {
		return
	}
	reached := v.entity.Game() != nil
	v.Stop()
	if reached && v.onDone != nil {
		v.onDone()
	}
}
