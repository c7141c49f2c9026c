package ebitenhost

import (
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/cervus"
)

func TestClipNear(t *testing.T) {
	tests := []struct {
		name string
		poly []clipVertex
		want int
	}{
		{"all in front", []clipVertex{{0, 0, 0, 1}, {1, 0, 0, 1}, {0, 1, 0, 1}}, 3},
		{"all behind", []clipVertex{{0, 0, -2, 1}, {1, 0, -2, 1}, {0, 1, -2, 1}}, 0},
		{"one behind", []clipVertex{{0, 0, -2, 1}, {1, 0, 0, 1}, {0, 1, 0, 1}}, 4},
		{"two behind", []clipVertex{{0, 0, -2, 1}, {1, 0, -2, 1}, {0, 1, 0, 1}}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clipNear(tt.poly)
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			for _, v := range got {
				if v.Z()+v.W() < -1e-9 {
					t.Errorf("vertex %v behind near plane", v)
				}
			}
		})
	}
}

func TestClipNearIntersection(t *testing.T) {
	// Edge from z=-3 to z=1 with w=1 crosses z=-1 halfway.
	got := clipNear([]clipVertex{{0, 0, -3, 1}, {2, 0, 1, 1}, {0, 2, 1, 1}})
	found := false
	for _, v := range got {
		if v.ApproxEqualThreshold(mgl64.Vec4{1, 0, -1, 1}, 1e-9) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected intersection (1,0,-1,1) in %v", got)
	}
}

func TestPointerTracker(t *testing.T) {
	var p pointerTracker
	if dx, dy := p.delta(10, 20); dx != 0 || dy != 0 {
		t.Errorf("first delta = (%v, %v), want zero", dx, dy)
	}
	if dx, dy := p.delta(13, 18); dx != 3 || dy != -2 {
		t.Errorf("delta = (%v, %v), want (3, -2)", dx, dy)
	}
}

func TestUnpremultiply(t *testing.T) {
	img := unpremultiply([]byte{64, 32, 0, 128, 10, 20, 30, 255}, 2, 1)
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{R: 127, G: 63, B: 0, A: 128}) {
		t.Errorf("pixel 0 = %v", got)
	}
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("pixel 1 = %v", got)
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := encodePNG(unpremultiply(make([]byte, 16), 2, 2))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Errorf("not a PNG: % x", data[:min(len(data), 8)])
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := map[string]string{
		"":                "unlabeled",
		"  level 3  ":     "level_3",
		"target/../x.png": "target_.._x.png",
	}
	for in, want := range tests {
		if got := sanitizeLabel(in); got != want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToRGBA(t *testing.T) {
	got := toRGBA(cervus.Color{R: 1, G: 0.5, B: 0, A: 1})
	if got != (color.RGBA{R: 255, G: 128, B: 0, A: 255}) {
		t.Errorf("toRGBA = %v", got)
	}
	if got := toRGBA(cervus.Color{R: 2, G: -1, B: 1, A: 0.5}); got.R != 128 || got.G != 0 || got.A != 128 {
		t.Errorf("toRGBA clamped = %v", got)
	}
}

func TestKeyCode(t *testing.T) {
	if c, ok := KeyCode(ebiten.KeyW); !ok || c != cervus.KeyW {
		t.Errorf("KeyCode(W) = %v, %v", c, ok)
	}
	if _, ok := KeyCode(ebiten.KeyF12); ok {
		t.Error("F12 should not be mapped")
	}
}

func TestLitColor(t *testing.T) {
	c := cervus.Color{R: 1, G: 1, B: 1, A: 1}
	face := [3]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, -1}}
	// Light straight above the face: full diffuse.
	got := litColor(c, face, mgl64.Vec3{0.3, 10, -0.3}, 0.6)
	if got.R < 0.99 {
		t.Errorf("lit from above R = %v, want ~1", got.R)
	}
	// Light in the face's plane: ambient only.
	got = litColor(c, face, mgl64.Vec3{100, 0, 0}, 0.6)
	if d := got.R - 0.4; d > 0.01 || d < -0.01 {
		t.Errorf("grazing light R = %v, want ~0.4", got.R)
	}
}

type failing struct {
	cervus.BaseComponent
	err error
}

func (f *failing) Capability() cervus.Capability { return cervus.CapMove }

func (f *failing) Update(time.Duration) error { return f.err }

func TestAdvanceHandsTickErrorsToOnError(t *testing.T) {
	boom := errors.New("boom")
	clock := cervus.NewManualClock(time.Unix(0, 0))
	cfg := cervus.DefaultConfig()
	cfg.TickDelta = 10 * time.Millisecond
	cfg.Clock = clock
	g, err := cervus.NewGame(cfg)
	if err != nil {
		t.Fatal(err)
	}
	g.Add(cervus.NewEntity("bad", &failing{err: boom}))

	var got []error
	h := New(g, RunConfig{OnError: func(err error) error {
		got = append(got, err)
		return err
	}})
	g.Start()
	clock.Advance(25 * time.Millisecond)

	if err := h.advance(); !errors.Is(err, boom) {
		t.Errorf("advance = %v, want boom", err)
	}
	if len(got) != 1 {
		t.Errorf("OnError calls = %d, want 1", len(got))
	}
	if !h.dirty {
		t.Error("ticks ran but the frame is not dirty")
	}

	// Without OnError the host keeps going.
	h.cfg.OnError = nil
	clock.Advance(25 * time.Millisecond)
	if err := h.advance(); err != nil {
		t.Errorf("advance without OnError = %v", err)
	}
}
