package cervus

import "github.com/go-gl/mathgl/mgl64"

// Input is the polled input snapshot the simulation reads each tick: key
// states by numeric code and the pointer movement accumulated since the last
// tick-processing pass.
type Input struct {
	keys     map[KeyCode]bool
	pointer  mgl64.Vec2
	injected mgl64.Vec2
}

func newInput() Input {
	return Input{keys: make(map[KeyCode]bool)}
}

// SetKey records the pressed state of a key.
func (g *Game) SetKey(code KeyCode, pressed bool) {
	g.input.keys[code] = pressed
}

// Key returns 1 if the key is held and 0 otherwise, including keys never seen.
func (g *Game) Key(code KeyCode) int {
	if g.input.keys[code] {
		return 1
	}
	return 0
}

// ReleaseKeys clears every key state.
func (g *Game) ReleaseKeys() {
	clear(g.input.keys)
}

// MovePointer accumulates a raw device pointer movement. Device axes point
// right and down; the engine's +X is left and +Y is up, so both are inverted.
func (g *Game) MovePointer(dx, dy float64) {
	g.input.pointer[0] -= dx
	g.input.pointer[1] -= dy
}

// PointerDelta returns the pointer movement assigned to the current tick,
// already in engine axes.
func (g *Game) PointerDelta() mgl64.Vec2 {
	return g.input.pointer
}

// InjectPointer queues a synthetic pointer movement, in device axes like
// MovePointer, that applies to the next tick only instead of being spread
// over the ticks of a frame.
func (g *Game) InjectPointer(dx, dy float64) {
	g.input.injected[0] -= dx
	g.input.injected[1] -= dy
}
