package geom

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlane(t *testing.T) {
	p := PlaneFromPoints(Point3{}, Point3{X: 1}, Point3{Y: 1})
	assert.Equal(t, Point3{Z: 1}, p.Normal())
	assert.InDelta(t, 2, p.SignedDistance(Point3{X: 3, Y: -1, Z: 2}), 1e-12)
	assert.InDelta(t, -2, p.Flip().SignedDistance(Point3{X: 3, Y: -1, Z: 2}), 1e-12)
	assert.Equal(t, Point3{X: 3, Y: -1}, p.Project(Point3{X: 3, Y: -1, Z: 2}))
	assert.True(t, p.Valid())

	assert.False(t, PlaneFromPoints(Point3{}, Point3{X: 1}, Point3{X: 2}).Valid())

	side := SidePlane(Point3{}, Point3{X: 1}, Point3{Z: 1})
	assert.Greater(t, side.SignedDistance(Point3{X: 0.5, Y: 1}), 0.0, "left of the edge is positive")
	assert.Less(t, side.SignedDistance(Point3{X: 0.5, Y: -1}), 0.0)
}

func TestLine(t *testing.T) {
	l := Segment(Point3{Z: 4}, Point3{Z: 0})
	tt, ok := l.IntersectPlane(PlaneFromNormal(Point3{Z: 1}, Point3{Z: 1}))
	require.True(t, ok)
	assert.InDelta(t, 0.75, tt, 1e-12)
	assert.Equal(t, Point3{Z: 1}, l.At(tt))

	_, ok = Segment(Point3{}, Point3{X: 1}).IntersectPlane(PlaneFromNormal(Point3{Z: 1}, Point3{Z: 1}))
	assert.False(t, ok)

	assert.Equal(t, Point3{X: 2}, Segment(Point3{}, Point3{X: 1}).ClosestPoint(Point3{X: 2, Y: 3}))
	assert.Equal(t, Point3{X: 1}, ClosestPointOnSegment(Point3{}, Point3{X: 1}, Point3{X: 2, Y: 3}))

	t1, t2, ok := ClosestParams(
		Segment(Point3{X: -1}, Point3{X: 1}),
		Segment(Point3{Y: -1, Z: 1}, Point3{Y: 1, Z: 1}),
	)
	require.True(t, ok)
	assert.InDelta(t, 0.5, t1, 1e-12)
	assert.InDelta(t, 0.5, t2, 1e-12)

	_, _, ok = ClosestParams(Segment(Point3{}, Point3{X: 1}), Segment(Point3{Y: 1}, Point3{X: 1, Y: 1}))
	assert.False(t, ok)
}

func TestVectorHelpers(t *testing.T) {
	a, b, c := Point3{}, Point3{X: 1}, Point3{Y: 1}
	assert.InDelta(t, 1, Orient(a, b, c, Point3{Z: 1}), 1e-12)
	assert.InDelta(t, -1, Orient(a, c, b, Point3{Z: 1}), 1e-12)
	assert.InDelta(t, 0.5, TriangleArea(a, b, c), 1e-12)
	assert.Equal(t, Point3{Z: 1}, TriangleNormal(a, b, c))
	assert.False(t, IsFinite(TriangleNormal(a, b, b)))
	assert.InDelta(t, math.Pi/2, Angle(b, a, c), 1e-12)
	assert.Equal(t, Point3{X: 0.5, Y: 0.5}, Midpoint(b, c))

	n := Point3{Z: 1}
	assert.True(t, PointInTriangle(Point3{X: 0.2, Y: 0.2}, a, b, c, n, 0))
	assert.False(t, PointInTriangle(Point3{X: 0.5}, a, b, c, n, 0), "edges are not inside")
	assert.False(t, PointInTriangle(Point3{X: 0.2, Y: 0.2}, a, b, c, n, 0.3))

	square := []Point3{{}, {X: 2}, {X: 2, Y: 2}, {Y: 2}}
	assert.Equal(t, Point3{Z: 1}, PolygonNormal(square))
	assert.Equal(t, Point3{Z: -1}, PolygonNormal([]Point3{square[3], square[2], square[1], square[0]}))
	assert.Equal(t, Point3{}, PolygonNormal([]Point3{{}, {X: 1}, {X: 2}}))
}

func TestBasis(t *testing.T) {
	n := Unit(Point3{X: 1, Y: 1, Z: 1})
	origin := Point3{X: 2, Y: -1, Z: 0.5}
	b := NewBasis(n, origin)
	assert.InDelta(t, 0, Dot(b.U, n), 1e-12)
	assert.InDelta(t, 0, Dot(b.V, n), 1e-12)
	assert.InDelta(t, 1, Dot(Cross(b.U, b.V), n), 1e-12)

	p := Add(origin, Add(Scale(0.3, b.U), Scale(-0.7, b.V)))
	q := b.Project(p)
	assert.InDelta(t, 0.3, q.X, 1e-12)
	assert.InDelta(t, -0.7, q.Y, 1e-12)
	assert.InDelta(t, 0, Distance(p, b.Lift(q)), 1e-12)

	// Counterclockwise about the normal stays counterclockwise in the plane.
	tri := []Point3{origin, Add(origin, b.U), Add(origin, b.V)}
	ring := b.Ring(tri)
	require.Len(t, ring, 4)
	assert.Equal(t, ring[0], ring[3])
	assert.Equal(t, orb.CCW, ring.Orientation())
}

func TestVertexStore(t *testing.T) {
	s := NewVertexStore(1e-7)
	up := Point3{Z: 1}
	a := s.Intern(Point3{X: 1}, up)
	assert.Equal(t, a, s.Intern(Point3{X: 1 + 5e-8}, up), "close positions merge")
	assert.NotEqual(t, a, s.Intern(Point3{X: 1 + 5e-7}, up))
	assert.NotEqual(t, a, s.Intern(Point3{X: 1}, Point3{Y: 1}), "different normals never merge")
	assert.Equal(t, 3, s.Len())

	// Neighboring grid cells are searched too.
	edge := 1e-7 * 16
	b := s.Intern(Point3{X: edge - 1e-8}, up)
	assert.Equal(t, b, s.Intern(Point3{X: edge + 1e-8}, up))

	_, ok := s.Find(Point3{X: 9}, up)
	assert.False(t, ok)
	assert.Equal(t, PositionNormal{Position: Point3{X: 1}, Normal: up}, s.Record(a))
}

func TestTriangle(t *testing.T) {
	points := PointList{{}, {X: 2}, {Y: 2}, {X: 2, Y: 2}}
	tri := NewTriangle(0, 1, 2, 5)
	assert.Equal(t, 5, tri.Material)
	assert.InDelta(t, 2, tri.Area(points), 1e-12)
	assert.InDelta(t, -2, tri.SignedArea(points, Point3{Z: -1}), 1e-12)
	assert.InDelta(t, 4, TotalArea([]Triangle{tri, NewTriangle(1, 3, 2, 0)}, points), 1e-12)
}

func TestUtil(t *testing.T) {
	assert.True(t, Equal(1, 1+Tolerance/2))
	assert.False(t, Equal(1, 1+Tolerance*2))
	assert.Equal(t, 4, CircularIndex(-1, 5))
	assert.Equal(t, 0, CircularIndex(5, 5))
}
