package geom

import (
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/spatial/r2"
)

// Basis is an orthonormal frame lying in a face plane. U and V span the plane
// and N is the face normal, so (U, V, N) is right handed and counterclockwise
// about N in 3D stays counterclockwise in (U, V).
type Basis struct {
	Origin  Point3
	U, V, N Point3
}

// NewBasis picks U along the world axis least aligned with the normal.
func NewBasis(normal, origin Point3) Basis {
	n := Unit(normal)
	var axis Point3
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	switch {
	case ax <= ay && ax <= az:
		axis = Point3{X: 1}
	case ay <= ax && ay <= az:
		axis = Point3{Y: 1}
	default:
		axis = Point3{Z: 1}
	}
	u := Unit(Sub(axis, Scale(Dot(axis, n), n)))
	v := Cross(n, u)
	return Basis{Origin: origin, U: u, V: v, N: n}
}

func (b Basis) Project(p Point3) r2.Vec {
	d := Sub(p, b.Origin)
	return r2.Vec{X: Dot(d, b.U), Y: Dot(d, b.V)}
}

// Lift maps plane coordinates back to model space.
func (b Basis) Lift(p r2.Vec) Point3 {
	return Add(b.Origin, Add(Scale(p.X, b.U), Scale(p.Y, b.V)))
}

// Ring projects a loop of points into a closed orb.Ring.
func (b Basis) Ring(points []Point3) orb.Ring {
	r := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		q := b.Project(p)
		r = append(r, orb.Point{q.X, q.Y})
	}
	if len(r) > 0 {
		r = append(r, r[0])
	}
	return r
}
