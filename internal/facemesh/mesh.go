package facemesh

import (
	"github.com/osuushi/hullcarve/internal/geom"
	"gonum.org/v1/gonum/spatial/r2"
)

// Mesh is an indexed triangle list ready for upload. Positions, Normals and
// UVs run in parallel; Indices has three entries per triangle and Materials
// one.
type Mesh struct {
	Positions []geom.Point3
	Normals   []geom.Point3
	UVs       []r2.Vec
	Indices   []int
	Materials []int
	Shaded    bool
}

func (m Mesh) Triangles() int {
	return len(m.Materials)
}

// Triangle returns the corners of triangle i.
func (m Mesh) Triangle(i int) (a, b, c geom.Point3) {
	return m.Positions[m.Indices[3*i]], m.Positions[m.Indices[3*i+1]], m.Positions[m.Indices[3*i+2]]
}

func (m Mesh) Area() float64 {
	var sum float64
	for i := 0; i < m.Triangles(); i++ {
		sum += geom.TriangleArea(m.Triangle(i))
	}
	return sum
}

// Translate moves every position by d.
func (m *Mesh) Translate(d geom.Point3) {
	for i, p := range m.Positions {
		m.Positions[i] = geom.Add(p, d)
	}
}

// mesh compacts tris into a Mesh, keeping only the store records they use.
func (b *builder) mesh(tris []geom.Triangle) Mesh {
	m := Mesh{Shaded: b.face.Shaded}
	index := make(map[int]int)
	for _, t := range tris {
		for _, v := range t.V {
			i, ok := index[v]
			if !ok {
				i = len(m.Positions)
				index[v] = i
				p := b.store.Position(v)
				m.Positions = append(m.Positions, p)
				m.Normals = append(m.Normals, b.store.Normal(v))
				m.UVs = append(m.UVs, b.uv(p))
			}
			m.Indices = append(m.Indices, i)
		}
		m.Materials = append(m.Materials, t.Material)
	}
	return m
}

// uv maps p into the face polygon's bounds in the face plane, so the face
// spans 0 to 1 on both axes.
func (b *builder) uv(p geom.Point3) r2.Vec {
	q := b.basis.Project(p)
	uv := r2.Vec{}
	if w := b.bound.Right() - b.bound.Left(); w > 0 {
		uv.X = (q.X - b.bound.Left()) / w
	}
	if h := b.bound.Top() - b.bound.Bottom(); h > 0 {
		uv.Y = (q.Y - b.bound.Bottom()) / h
	}
	return uv
}
