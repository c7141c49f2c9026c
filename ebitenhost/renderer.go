package ebitenhost

import (
	"image/color"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/cervus"
)

// whitePixel is the source image for all solid color triangles
// (no sync.Once; ebiten drives everything from one goroutine).
var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}

// clipVertex is a vertex in clip space.
type clipVertex = mgl64.Vec4

// triangle is a projected, shaded triangle waiting to be sorted.
type triangle struct {
	pts   [3][2]float32
	depth float64
	color cervus.Color
}

// Renderer is a flat-shaded painter's-algorithm renderer. Triangles from all
// entities of a frame are projected on the CPU, clipped against the near
// plane, sorted back to front and submitted in one DrawTriangles32 call.
//
// Set Lit to shade faces by the game's point light; unlit faces take their
// Renderable color as is.
type Renderer struct {
	Lit bool

	target *ebiten.Image
	game   *cervus.Game
	vp     mgl64.Mat4
	width  float64
	height float64

	tris  []triangle
	verts []ebiten.Vertex
	inds  []uint32
}

// NewRenderer creates an unlit renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// SetTarget sets the image the next frame is drawn into.
func (r *Renderer) SetTarget(img *ebiten.Image) {
	r.target = img
	if img != nil {
		b := img.Bounds()
		r.width, r.height = float64(b.Dx()), float64(b.Dy())
	}
}

// BeginFrame implements cervus.FrameRenderer.
func (r *Renderer) BeginFrame(g *cervus.Game) {
	r.game = g
	r.vp = g.ProjectionMatrix().Mul4(g.ViewMatrix())
	r.tris = r.tris[:0]
}

// DrawEntity implements cervus.Renderer.
func (r *Renderer) DrawEntity(e *cervus.Entity, rend *cervus.Renderable) {
	t := e.Transform()
	if t == nil || r.game == nil {
		return
	}
	world := t.WorldMatrix()
	vertices := rend.Vertices()
	indices := rend.Indices()
	c := rend.Color
	c.A *= rend.Opacity

	var light mgl64.Vec3
	var intensity float64
	if r.Lit {
		light, intensity = r.game.LightPosition(), r.game.LightIntensity()
	}

	for i := 0; i+2 < len(indices); i += 3 {
		var wp [3]mgl64.Vec3
		for k := range 3 {
			j := int(indices[i+k]) * 3
			if j+2 >= len(vertices) {
				return
			}
			v := mgl64.Vec3{float64(vertices[j]), float64(vertices[j+1]), float64(vertices[j+2])}
			wp[k] = mgl64.TransformCoordinate(v, world)
		}
		shade := c
		if r.Lit {
			shade = litColor(c, wp, light, intensity)
		}
		var cv [3]clipVertex
		for k := range 3 {
			cv[k] = r.vp.Mul4x1(wp[k].Vec4(1))
		}
		r.appendClipped(cv, shade)
	}
}

// litColor scales c by an ambient term plus a diffuse term from the light at
// light, using the face normal.
func litColor(c cervus.Color, wp [3]mgl64.Vec3, light mgl64.Vec3, intensity float64) cervus.Color {
	n := wp[1].Sub(wp[0]).Cross(wp[2].Sub(wp[0]))
	if n.Len() == 0 {
		return c
	}
	n = n.Normalize()
	center := wp[0].Add(wp[1]).Add(wp[2]).Mul(1.0 / 3)
	toLight := light.Sub(center)
	diffuse := 0.0
	if toLight.Len() > 0 {
		diffuse = math.Abs(n.Dot(toLight.Normalize()))
	}
	k := (1 - intensity) + intensity*diffuse
	return cervus.Color{R: c.R * k, G: c.G * k, B: c.B * k, A: c.A}
}

// appendClipped clips a clip-space triangle against the near plane (z >= -w)
// and queues the resulting one or two triangles.
func (r *Renderer) appendClipped(cv [3]clipVertex, c cervus.Color) {
	poly := clipNear(cv[:])
	if len(poly) < 3 {
		return
	}
	var screen [][2]float32
	depth := 0.0
	for _, v := range poly {
		ndc := v.Vec3().Mul(1 / v.W())
		screen = append(screen, [2]float32{
			float32((ndc[0] + 1) / 2 * r.width),
			float32((1 - ndc[1]) / 2 * r.height),
		})
		depth += v.W()
	}
	depth /= float64(len(poly))
	for i := 1; i+1 < len(screen); i++ {
		r.tris = append(r.tris, triangle{
			pts:   [3][2]float32{screen[0], screen[i], screen[i+1]},
			depth: depth,
			color: c,
		})
	}
}

// clipNear returns the part of the polygon where z + w >= 0.
func clipNear(poly []clipVertex) []clipVertex {
	dist := func(v clipVertex) float64 { return v.Z() + v.W() }
	var out []clipVertex
	for i, cur := range poly {
		prev := poly[(i+len(poly)-1)%len(poly)]
		dc, dp := dist(cur), dist(prev)
		if dc >= 0 {
			if dp < 0 {
				out = append(out, lerp4(prev, cur, dp/(dp-dc)))
			}
			out = append(out, cur)
		} else if dp >= 0 {
			out = append(out, lerp4(prev, cur, dp/(dp-dc)))
		}
	}
	return out
}

func lerp4(a, b clipVertex, t float64) clipVertex {
	return a.Add(b.Sub(a).Mul(t))
}

// EndFrame implements cervus.FrameRenderer: sorts the frame's triangles far
// to near and draws them.
func (r *Renderer) EndFrame() {
	if r.target == nil || len(r.tris) == 0 {
		return
	}
	slices.SortStableFunc(r.tris, func(a, b triangle) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})

	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
	for _, t := range r.tris {
		// Premultiplied RGBA.
		ca := float32(t.color.A)
		cr, cg, cb := float32(t.color.R)*ca, float32(t.color.G)*ca, float32(t.color.B)*ca
		base := uint32(len(r.verts))
		for _, p := range t.pts {
			r.verts = append(r.verts, ebiten.Vertex{
				DstX: p[0], DstY: p[1],
				SrcX: 0.5, SrcY: 0.5,
				ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
			})
		}
		r.inds = append(r.inds, base, base+1, base+2)
	}

	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	r.target.DrawTriangles32(r.verts, r.inds, ensureWhitePixel(), &op)
}

// Triangles returns the number of triangles queued in the current frame.
func (r *Renderer) Triangles() int {
	return len(r.tris)
}
