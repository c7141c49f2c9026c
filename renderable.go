package cervus

// Mesh is an indexed triangle list. Vertices and Normals hold x, y, z
// triplets; Indices reference vertices three per triangle.
type Mesh struct {
	Vertices []float32
	Normals  []float32
	Indices  []uint16
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// Renderable hands its entity to the Game's renderer once per frame. The
// renderer reads Mesh, Color and Opacity; a Morph on the same entity overrides
// the mesh with interpolated frames.
type Renderable struct {
	BaseComponent

	Mesh    *Mesh
	Color   Color
	Opacity float64
	// Hidden suppresses drawing without skipping the entity's updates.
	Hidden bool
}

// NewRenderable creates an opaque white renderable for mesh.
func NewRenderable(mesh *Mesh) *Renderable {
	return &Renderable{Mesh: mesh, Color: ColorWhite, Opacity: 1}
}

// Capability implements Component.
func (r *Renderable) Capability() Capability { return CapRender }

// Render draws the entity through the game's renderer. No-op without a game,
// a renderer or a mesh.
func (r *Renderable) Render() {
	if r.Hidden {
		return
	}
	g := r.entity.Game()
	if g == nil || g.renderer == nil {
		return
	}
	if r.Mesh == nil && r.entity.Morph() == nil {
		return
	}
	g.renderer.DrawEntity(r.entity, r)
}

// Vertices returns the positions to draw this frame: the morph blend when the
// entity carries a Morph with frames, the mesh vertices otherwise.
func (r *Renderable) Vertices() []float32 {
	if m := r.entity.Morph(); m != nil && len(m.Frames) > 0 {
		return m.Vertices()
	}
	if r.Mesh == nil {
		return nil
	}
	return r.Mesh.Vertices
}

// Indices returns the triangle indices matching Vertices.
func (r *Renderable) Indices() []uint16 {
	if m := r.entity.Morph(); m != nil && len(m.Frames) > 0 {
		return m.Current().Indices
	}
	if r.Mesh == nil {
		return nil
	}
	return r.Mesh.Indices
}
