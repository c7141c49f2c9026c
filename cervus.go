package cervus

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rotisserie/eris"
)

// epsilon guards degenerate vectors and coincident points, matching the
// tolerance of the look-at view construction.
const epsilon = 1e-6

// singularThreshold is the ratio of a world matrix's determinant to the
// product of its axis lengths below which it has no usable inverse.
const singularThreshold = 1e-12

var (
	// AxisUp is the local +Y axis.
	AxisUp = mgl64.Vec3{0, 1, 0}
	// AxisLeft is the local +X axis. The engine is right-handed with +Z forward,
	// so +X points to the viewer's left.
	AxisLeft = mgl64.Vec3{1, 0, 0}
	// AxisForward is the local +Z axis.
	AxisForward = mgl64.Vec3{0, 0, 1}
)

// normalize returns v scaled to unit length, or the zero vector when v is
// too short to have a direction.
func normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < epsilon {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

var (
	// ColorWhite is the default tint.
	ColorWhite = Color{1, 1, 1, 1}
	// ColorBlack is used to hide the level while the player searches.
	ColorBlack = Color{0, 0, 0, 1}
)

// ParseHexColor parses "#rrggbb", "#rgb", "rrggbb" or "rgb".
func ParseHexColor(s string) (Color, error) {
	if len(s) > 0 && s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, eris.Wrapf(err, "parse color %q", s)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// HSL builds an opaque color from hue, saturation and lightness, all in [0, 1].
func HSL(hue, saturation, lightness float64) Color {
	c := colorful.Hsl(hue*360, saturation, lightness).Clamped()
	return Color{R: c.R, G: c.G, B: c.B, A: 1}
}

// Hex formats the color as "#rrggbb", ignoring alpha.
func (c Color) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// KeyCode is a numeric key identifier. Values follow the classic DOM keyCode
// table so bindings stay readable in config files.
type KeyCode int

const (
	KeyEnter KeyCode = 13
	KeyEsc   KeyCode = 27
	KeyLeft  KeyCode = 37
	KeyUp    KeyCode = 38
	KeyRight KeyCode = 39
	KeyDown  KeyCode = 40
	KeyA     KeyCode = 65
	KeyD     KeyCode = 68
	KeyE     KeyCode = 69
	KeyQ     KeyCode = 81
	KeyS     KeyCode = 83
	KeyW     KeyCode = 87
)

// Capability identifies the kind of a Component. An entity holds at most one
// component per capability.
type Capability uint8

const (
	CapTransform Capability = iota // position, rotation and scale
	CapMove                        // input-driven movement
	CapRender                      // mesh and color handed to the renderer
	CapMorph                       // vertex animation frames
	CapLookAt                      // orientation that tracks a target pose
	CapFootsteps                   // traveled-distance events
)

var capabilityNames = [...]string{
	CapTransform: "Transform",
	CapMove:      "Move",
	CapRender:    "Render",
	CapMorph:     "Morph",
	CapLookAt:    "LookAt",
	CapFootsteps: "Footsteps",
}

func (c Capability) String() string {
	if int(c) < len(capabilityNames) {
		return capabilityNames[c]
	}
	return "Capability(" + strconv.Itoa(int(c)) + ")"
}
