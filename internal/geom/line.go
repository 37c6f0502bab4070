package geom

import "math"

// Line is an origin plus a direction. The direction is stored as given, so a
// line made by Segment(a, b) reaches b at parameter 1.
type Line struct {
	Origin    Point3
	Direction Point3
}

// Segment returns the line from a through b, parameterized so that t=0 is a
// and t=1 is b.
func Segment(a, b Point3) Line {
	return Line{Origin: a, Direction: Sub(b, a)}
}

func (l Line) At(t float64) Point3 {
	return Add(l.Origin, Scale(t, l.Direction))
}

func (l Line) End() Point3 {
	return l.At(1)
}

func (l Line) Length() float64 {
	return Length(l.Direction)
}

// IntersectPlane returns the parameter at which the line meets the plane, in
// units of the direction's length. ok is false when the line is parallel to
// the plane.
func (l Line) IntersectPlane(p Plane) (t float64, ok bool) {
	dir := Unit(l.Direction)
	denom := Dot(p.Normal(), dir)
	if math.Abs(denom) < 1e-12 || math.IsNaN(denom) {
		return 0, false
	}
	dist := -p.SignedDistance(l.Origin) / denom
	return dist / l.Length(), true
}

// ClosestParam returns the parameter of the point on the (infinite) line
// nearest to p.
func (l Line) ClosestParam(p Point3) float64 {
	len2 := Dot(l.Direction, l.Direction)
	if len2 == 0 {
		return 0
	}
	return Dot(Sub(p, l.Origin), l.Direction) / len2
}

func (l Line) ClosestPoint(p Point3) Point3 {
	return l.At(l.ClosestParam(p))
}

// ClosestPointOnSegment clamps the projection of p to the segment a-b.
func ClosestPointOnSegment(a, b, p Point3) Point3 {
	l := Segment(a, b)
	t := math.Max(0, math.Min(1, l.ClosestParam(p)))
	return l.At(t)
}

// ClosestParams finds the parameters of the mutually closest points of two
// lines. ok is false when the lines are parallel.
func ClosestParams(l1, l2 Line) (t1, t2 float64, ok bool) {
	r := Sub(l1.Origin, l2.Origin)
	a := Dot(l1.Direction, l1.Direction)
	e := Dot(l2.Direction, l2.Direction)
	b := Dot(l1.Direction, l2.Direction)
	c := Dot(l1.Direction, r)
	f := Dot(l2.Direction, r)
	denom := a*e - b*b
	if math.Abs(denom) <= 1e-12*a*e || a == 0 || e == 0 {
		return 0, 0, false
	}
	t1 = (b*f - c*e) / denom
	t2 = (a*f - b*c) / denom
	return t1, t2, true
}
