package cervus

import "math"

// Unit meshes. Each is centered on the origin and spans one unit, so a
// Transform's scale gives its size directly.
var (
	boxMesh    = buildBoxMesh()
	planeMesh  = buildPlaneMesh()
	sphereMesh = buildIcosahedronMesh()
)

// NewBox creates an entity with a Transform and a unit cube.
func NewBox(name string) *Entity {
	return NewEntity(name, NewTransform(), NewRenderable(boxMesh))
}

// NewPlane creates an entity with a Transform and a unit square on the XZ
// plane, facing +Y.
func NewPlane(name string) *Entity {
	return NewEntity(name, NewTransform(), NewRenderable(planeMesh))
}

// NewSphere creates an entity with a Transform and an icosahedron of unit
// diameter.
func NewSphere(name string) *Entity {
	return NewEntity(name, NewTransform(), NewRenderable(sphereMesh))
}

func buildBoxMesh() *Mesh {
	// One quad per face so every face gets its own flat normal.
	faces := [6]struct{ n, u, v [3]float32 }{
		{n: [3]float32{0, 0, 1}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{0, 0, -1}, u: [3]float32{-1, 0, 0}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{1, 0, 0}, u: [3]float32{0, 0, -1}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{-1, 0, 0}, u: [3]float32{0, 0, 1}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{0, 1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, -1}},
		{n: [3]float32{0, -1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, 1}},
	}
	m := &Mesh{}
	for f, face := range faces {
		for _, c := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			for k := range 3 {
				m.Vertices = append(m.Vertices, 0.5*(face.n[k]+c[0]*face.u[k]+c[1]*face.v[k]))
			}
			m.Normals = append(m.Normals, face.n[:]...)
		}
		base := uint16(f * 4)
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

func buildPlaneMesh() *Mesh {
	return &Mesh{
		Vertices: []float32{
			-0.5, 0, 0.5,
			0.5, 0, 0.5,
			0.5, 0, -0.5,
			-0.5, 0, -0.5,
		},
		Normals: []float32{
			0, 1, 0,
			0, 1, 0,
			0, 1, 0,
			0, 1, 0,
		},
		Indices: []uint16{0, 1, 2, 0, 2, 3},
	}
}

func buildIcosahedronMesh() *Mesh {
	t := (1 + math.Sqrt(5)) / 2
	raw := [12][3]float64{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	m := &Mesh{}
	for _, v := range raw {
		l := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
		for k := range 3 {
			n := float32(v[k] / l)
			m.Normals = append(m.Normals, n)
			m.Vertices = append(m.Vertices, 0.5*n)
		}
	}
	m.Indices = []uint16{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}
	return m
}

// BirdFrames returns the two wing-beat frames of a low-poly bird, nose along
// +Y so that pitching it by π/2 points it along its Transform's forward.
func BirdFrames() []*Mesh {
	return []*Mesh{buildBirdMesh(0.6), buildBirdMesh(-0.6)}
}

func buildBirdMesh(wingLift float32) *Mesh {
	return &Mesh{
		Vertices: []float32{
			0, 2.6, 0, // nose
			0, -3.5, 0.1, // tail
			-0.6, 1.4, 0.1, // left shoulder
			0.6, 1.4, 0.1, // right shoulder
			-3.4, 0.6, wingLift * 3, // left wing tip
			3.4, 0.6, wingLift * 3, // right wing tip
			0, 0, 0.5, // back
		},
		Normals: []float32{
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
		},
		Indices: []uint16{
			0, 2, 6, 0, 6, 3,
			2, 1, 6, 6, 1, 3,
			2, 4, 1, 3, 1, 5,
		},
	}
}
