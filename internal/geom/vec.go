// Package geom holds the small amount of 3D algebra the carving engine needs:
// points, oriented planes, parametric lines, a 2D basis for projecting onto a
// face, and the deduplicated vertex records shared by everything cut into one
// hull face.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point3 is a position or a direction in model space. It is a plain value;
// two points are "the same" only under one of the tolerance based
// comparisons below.
type Point3 = r3.Vec

func Add(a, b Point3) Point3 { return r3.Add(a, b) }

func Sub(a, b Point3) Point3 { return r3.Sub(a, b) }

func Scale(f float64, a Point3) Point3 { return r3.Scale(f, a) }

func Dot(a, b Point3) float64 { return r3.Dot(a, b) }

func Cross(a, b Point3) Point3 { return r3.Cross(a, b) }

func Length(a Point3) float64 { return r3.Norm(a) }

// Unit normalizes a. A zero vector comes back as NaNs, which is how
// degenerate source edges show up later as invalid planes.
func Unit(a Point3) Point3 { return r3.Unit(a) }

func Distance(a, b Point3) float64 { return r3.Norm(r3.Sub(a, b)) }

func Midpoint(a, b Point3) Point3 { return Lerp(a, b, 0.5) }

// Lerp returns a + t*(b-a).
func Lerp(a, b Point3, t float64) Point3 {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// Orient is twice the signed area of the triangle abc as seen looking down
// the normal n. Positive means counterclockwise about n.
func Orient(a, b, c, n Point3) float64 {
	return r3.Dot(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)), n)
}

func TriangleArea(a, b, c Point3) float64 {
	return 0.5 * r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
}

// TriangleNormal is the unit normal of abc following the right hand rule.
func TriangleNormal(a, b, c Point3) Point3 {
	return r3.Unit(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
}

// PolygonNormal is the Newell normal of a ring: unit length, counterclockwise
// about the ring. Rings with no area give a zero vector.
func PolygonNormal(ring []Point3) Point3 {
	var n Point3
	for i, a := range ring {
		b := ring[(i+1)%len(ring)]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	if r3.Norm(n) == 0 {
		return n
	}
	return r3.Unit(n)
}

func IsFinite(a Point3) bool {
	for _, v := range [3]float64{a.X, a.Y, a.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Angle returns the angle at b in the corner a-b-c, in radians.
func Angle(a, b, c Point3) float64 {
	u := r3.Sub(a, b)
	v := r3.Sub(c, b)
	lu, lv := r3.Norm(u), r3.Norm(v)
	if lu == 0 || lv == 0 {
		return 0
	}
	cos := r3.Dot(u, v) / (lu * lv)
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}

// PointInTriangle reports whether p lies inside abc (seen along n) by more
// than eps from every edge. Points on an edge are not inside.
func PointInTriangle(p, a, b, c, n Point3, eps float64) bool {
	for _, e := range [3][2]Point3{{a, b}, {b, c}, {c, a}} {
		side := SidePlane(e[0], e[1], n)
		if side.SignedDistance(p) <= eps {
			return false
		}
	}
	return true
}
