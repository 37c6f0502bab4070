package geom

// Triangle is three vertex indices plus a material tag. The vertex order is
// the winding: counterclockwise about the outward normal of the face it came
// from.
type Triangle struct {
	V        [3]int
	Material int
}

func NewTriangle(a, b, c, material int) Triangle {
	return Triangle{V: [3]int{a, b, c}, Material: material}
}

// Corners resolves the triangle's positions.
func (t Triangle) Corners(p Positions) (a, b, c Point3) {
	return p.Position(t.V[0]), p.Position(t.V[1]), p.Position(t.V[2])
}

func (t Triangle) Area(p Positions) float64 {
	a, b, c := t.Corners(p)
	return TriangleArea(a, b, c)
}

// SignedArea is the triangle's area with the sign of its winding about n.
func (t Triangle) SignedArea(p Positions, n Point3) float64 {
	a, b, c := t.Corners(p)
	return 0.5 * Orient(a, b, c, n)
}

// TotalArea sums the unsigned areas of a triangle list.
func TotalArea(tris []Triangle, p Positions) float64 {
	var sum float64
	for _, t := range tris {
		sum += t.Area(p)
	}
	return sum
}
