package geom

import "math"

// Plane is the implicit plane A*x + B*y + C*z + D = 0. Planes built by this
// package have a unit normal, so SignedDistance is a true distance.
type Plane struct {
	A, B, C, D float64
}

// PlaneFromPoints builds the plane through p0, p1, p2 with the normal given by
// the right hand rule. Collinear points produce a plane full of NaNs.
func PlaneFromPoints(p0, p1, p2 Point3) Plane {
	return PlaneFromNormal(TriangleNormal(p0, p1, p2), p0)
}

// PlaneFromNormal builds the plane with normal n through p. The normal is
// expected to be unit length already.
func PlaneFromNormal(n, p Point3) Plane {
	return Plane{A: n.X, B: n.Y, C: n.Z, D: -Dot(n, p)}
}

// SidePlane builds the plane containing the edge a->b and the direction up.
// Its normal points to the left of a->b when looking down up, which is the
// inside of a counterclockwise loop.
func SidePlane(a, b, up Point3) Plane {
	return PlaneFromNormal(Unit(Cross(up, Sub(b, a))), a)
}

func (p Plane) Normal() Point3 {
	return Point3{X: p.A, Y: p.B, Z: p.C}
}

// SignedDistance is positive on the normal side.
func (p Plane) SignedDistance(v Point3) float64 {
	return p.A*v.X + p.B*v.Y + p.C*v.Z + p.D
}

// Valid reports whether every coefficient is a finite number.
func (p Plane) Valid() bool {
	for _, v := range [4]float64{p.A, p.B, p.C, p.D} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Flip returns the same plane facing the other way.
func (p Plane) Flip() Plane {
	return Plane{A: -p.A, B: -p.B, C: -p.C, D: -p.D}
}

// Project drops v onto the plane along its normal.
func (p Plane) Project(v Point3) Point3 {
	return Sub(v, Scale(p.SignedDistance(v), p.Normal()))
}
