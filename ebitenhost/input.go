package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/cervus"
)

// keyMap maps polled ebiten keys to the numeric codes bindings use.
var keyMap = map[ebiten.Key]cervus.KeyCode{
	ebiten.KeyW:          cervus.KeyW,
	ebiten.KeyA:          cervus.KeyA,
	ebiten.KeyS:          cervus.KeyS,
	ebiten.KeyD:          cervus.KeyD,
	ebiten.KeyE:          cervus.KeyE,
	ebiten.KeyQ:          cervus.KeyQ,
	ebiten.KeyArrowUp:    cervus.KeyUp,
	ebiten.KeyArrowDown:  cervus.KeyDown,
	ebiten.KeyArrowLeft:  cervus.KeyLeft,
	ebiten.KeyArrowRight: cervus.KeyRight,
	ebiten.KeyEnter:      cervus.KeyEnter,
	ebiten.KeyEscape:     cervus.KeyEsc,
}

// KeyCode returns the cervus code for an ebiten key.
func KeyCode(k ebiten.Key) (cervus.KeyCode, bool) {
	c, ok := keyMap[k]
	return c, ok
}

// pointerTracker turns absolute cursor positions into movement deltas.
type pointerTracker struct {
	x, y   int
	primed bool
}

// delta returns the movement since the previous call. The first call only
// records the position.
func (p *pointerTracker) delta(x, y int) (dx, dy float64) {
	if !p.primed {
		p.x, p.y, p.primed = x, y, true
		return 0, 0
	}
	dx, dy = float64(x-p.x), float64(y-p.y)
	p.x, p.y = x, y
	return dx, dy
}

// pollInput copies the current key states and cursor movement into g.
func (h *Host) pollInput() {
	for k, code := range keyMap {
		h.game.SetKey(code, ebiten.IsKeyPressed(k))
	}
	dx, dy := h.pointer.delta(ebiten.CursorPosition())
	if dx != 0 || dy != 0 {
		h.game.MovePointer(dx, dy)
	}
}
