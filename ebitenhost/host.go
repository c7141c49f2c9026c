// Package ebitenhost runs a cervus Game in an Ebitengine window.
//
// The host polls the keyboard and cursor into the game's input snapshot on
// every ebiten Update, advances the simulation by the elapsed time, and
// renders a frame through a flat-shaded triangle Renderer whenever ticks
// ran. Snapshot reads the frame back as PNG from after-render handlers, which
// is how a level captures its target image.
//
// Usage:
//
//	host := ebitenhost.New(game, ebitenhost.RunConfig{Title: "cervus"})
//	level.CaptureTarget(host.Snapshot)
//	game.Start()
//	err := host.Run()
package ebitenhost

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/phanxgames/cervus"
)

// RunConfig configures the window.
type RunConfig struct {
	Title string
	// Width and Height default to the game config's viewport.
	Width, Height int
	ShowFPS       bool
	// CaptureCursor hides the cursor and reports unbounded movement, for
	// mouse look.
	CaptureCursor bool
	// Lit shades faces by the game's point light.
	Lit bool
	// Update, if set, runs after the simulation advanced on every ebiten
	// update. Returning ebiten.Termination closes the window.
	Update func() error
	// OnError receives the errors of the ticks run by one update. A non-nil
	// return ends Run with that error. Without it tick errors are logged and
	// the window keeps running.
	OnError func(error) error
}

// Host implements ebiten.Game around a cervus Game.
type Host struct {
	game     *cervus.Game
	cfg      RunConfig
	renderer *Renderer
	pointer  pointerTracker
	fps      *fpsOverlay

	dirty   bool
	drawing *ebiten.Image
	quit    bool
}

// New creates a host for g and installs its renderer on g.
func New(g *cervus.Game, cfg RunConfig) *Host {
	gc := g.Config()
	if cfg.Width <= 0 {
		cfg.Width = gc.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = gc.Height
	}
	h := &Host{
		game:     g,
		cfg:      cfg,
		renderer: NewRenderer(),
	}
	h.renderer.Lit = cfg.Lit
	if cfg.ShowFPS {
		h.fps = newFPSOverlay()
	}
	g.SetRenderer(h.renderer)
	return h
}

// Run opens the window and blocks until it is closed or Quit is called.
func (h *Host) Run() error {
	ebiten.SetWindowTitle(h.cfg.Title)
	ebiten.SetWindowSize(h.cfg.Width, h.cfg.Height)
	ebiten.SetScreenClearedEveryFrame(false)
	if h.cfg.CaptureCursor {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	}
	h.game.Logger().Info("window opened",
		zap.String("title", h.cfg.Title), zap.Int("width", h.cfg.Width), zap.Int("height", h.cfg.Height))
	return ebiten.RunGame(h)
}

// Run is a convenience for New(g, cfg).Run().
func Run(g *cervus.Game, cfg RunConfig) error {
	return New(g, cfg).Run()
}

// Quit closes the window after the current update.
func (h *Host) Quit() {
	h.quit = true
}

// Renderer returns the host's renderer.
func (h *Host) Renderer() *Renderer {
	return h.renderer
}

// Update implements ebiten.Game.
func (h *Host) Update() error {
	if h.quit {
		return ebiten.Termination
	}
	h.pollInput()
	if err := h.advance(); err != nil {
		return err
	}
	if h.fps != nil {
		h.fps.update()
	}
	if h.cfg.Update != nil {
		return h.cfg.Update()
	}
	return nil
}

// advance runs the due ticks and hands their errors to OnError.
func (h *Host) advance() error {
	ticks, err := h.game.Advance(h.game.Elapsed())
	if ticks > 0 {
		h.dirty = true
	}
	if err == nil {
		return nil
	}
	if h.cfg.OnError != nil {
		return h.cfg.OnError(err)
	}
	h.game.Logger().Warn("tick errors ignored by host", zap.Error(err))
	return nil
}

// Draw implements ebiten.Game. The screen is only repainted after ticks ran;
// otherwise the previous frame stays up.
func (h *Host) Draw(screen *ebiten.Image) {
	if h.dirty {
		h.dirty = false
		screen.Fill(toRGBA(h.game.ClearColor()))
		h.renderer.SetTarget(screen)
		h.drawing = screen
		h.game.Render()
		h.drawing = nil
		h.renderer.SetTarget(nil)
		if h.fps != nil {
			h.fps.draw(screen)
		}
	}
}

// Layout implements ebiten.Game. The projection follows the window size.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	h.game.SetViewport(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// toRGBA converts a straight-alpha color to premultiplied 8-bit RGBA.
func toRGBA(c cervus.Color) color.RGBA {
	a := unit(c.A)
	byteOf := func(v float64) uint8 { return uint8(v*255 + 0.5) }
	return color.RGBA{R: byteOf(unit(c.R) * a), G: byteOf(unit(c.G) * a), B: byteOf(unit(c.B) * a), A: byteOf(a)}
}

func unit(v float64) float64 {
	return min(max(v, 0), 1)
}
