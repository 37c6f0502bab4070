package carve

// Shared fixtures for the carve tests. Nothing in here is a test itself.

import (
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/osuushi/hullcarve/internal/geom"
	"github.com/osuushi/hullcarve/internal/prism"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var up = geom.Point3{Z: 1}

func xy(x, y float64) geom.Point3 {
	return geom.Point3{X: x, Y: y}
}

type scene struct {
	store  *geom.VertexStore
	cutter *Cutter
	diags  *Collector
}

func newScene() *scene {
	cfg := DefaultConfig()
	store := geom.NewVertexStore(cfg.MergeEpsilon)
	diags := &Collector{}
	return &scene{store: store, cutter: NewCutter(store, cfg, diags), diags: diags}
}

func (s *scene) tri(a, b, c geom.Point3, material int) geom.Triangle {
	return geom.NewTriangle(s.store.Intern(a, up), s.store.Intern(b, up), s.store.Intern(c, up), material)
}

// fanPrism extrudes a convex counterclockwise outline along +z.
func fanPrism(outline []geom.Point3) *prism.Prism {
	var tris [][3]int
	for i := 1; i+1 < len(outline); i++ {
		tris = append(tris, [3]int{0, i, i + 1})
	}
	return prism.New(outline, tris, up, DefaultConfig().Epsilon)
}

func rect(x0, y0, x1, y1 float64) []geom.Point3 {
	return []geom.Point3{xy(x0, y0), xy(x1, y0), xy(x1, y1), xy(x0, y1)}
}

// polygon returns a regular n-gon around (cx, cy), rotated by phase.
func polygon(cx, cy, radius float64, n int, phase float64) []geom.Point3 {
	points := make([]geom.Point3, n)
	for i := range points {
		a := phase + 2*math.Pi*float64(i)/float64(n)
		points[i] = xy(cx+radius*math.Cos(a), cy+radius*math.Sin(a))
	}
	return points
}

// equalAreaRadius is the circumradius of the n-gon whose area matches a
// circle of radius r.
func equalAreaRadius(r float64, n int) float64 {
	return r * math.Sqrt(2*math.Pi/(float64(n)*math.Sin(2*math.Pi/float64(n))))
}

func outlineArea(points []geom.Point3) float64 {
	var sum float64
	for i, p := range points {
		q := points[(i+1)%len(points)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

func assertCounterclockwise(t *testing.T, pos geom.Positions, tris []geom.Triangle) {
	t.Helper()
	for _, tri := range tris {
		assert.Greater(t, tri.SignedArea(pos, up), 0.0, "triangle %v winds the wrong way", tri.V)
	}
}

func covering(pos geom.Positions, tris []geom.Triangle, p geom.Point3) int {
	count := 0
	for _, tri := range tris {
		a, b, c := tri.Corners(pos)
		if geom.PointInTriangle(p, a, b, c, up, 0) {
			count++
		}
	}
	return count
}

func polygonSDF(t *testing.T, outline []geom.Point3) sdf.SDF2 {
	t.Helper()
	vertices := make([]v2.Vec, len(outline))
	for i, p := range outline {
		vertices[i] = v2.Vec{X: p.X, Y: p.Y}
	}
	shape, err := sdf.Polygon2D(vertices)
	require.NoError(t, err)
	return shape
}

// multiPrism extrudes several disjoint convex counterclockwise outlines into
// one prism along +z.
func multiPrism(outlines ...[]geom.Point3) *prism.Prism {
	var vertices []geom.Point3
	var tris [][3]int
	for _, outline := range outlines {
		base := len(vertices)
		vertices = append(vertices, outline...)
		for i := 1; i+1 < len(outline); i++ {
			tris = append(tris, [3]int{base, base + i, base + i + 1})
		}
	}
	return prism.New(vertices, tris, up, DefaultConfig().Epsilon)
}

// assertCoverage samples the hull triangle on a skewed grid and checks every
// sample clearly inside the outline is covered once by the marking patch and
// not at all by the retained triangles, and the other way around for samples
// clearly outside. The outline's distance field comes from sdfx, which shares
// no code with the carve.
func assertCoverage(t *testing.T, pos geom.Positions, hull [3]geom.Point3, outline []geom.Point3, res Result) {
	t.Helper()
	assertShapeCoverage(t, pos, hull, polygonSDF(t, outline), res)
}

func assertShapeCoverage(t *testing.T, pos geom.Positions, hull [3]geom.Point3, shape sdf.SDF2, res Result) {
	t.Helper()
	minX := math.Min(hull[0].X, math.Min(hull[1].X, hull[2].X))
	maxX := math.Max(hull[0].X, math.Max(hull[1].X, hull[2].X))
	minY := math.Min(hull[0].Y, math.Min(hull[1].Y, hull[2].Y))
	maxY := math.Max(hull[0].Y, math.Max(hull[1].Y, hull[2].Y))
	step := math.Max(maxX-minX, maxY-minY) / 41
	margin := step / 10

	for y := minY + step*0.3183; y < maxY; y += step {
		for x := minX + step*0.2718; x < maxX; x += step {
			p := xy(x, y)
			if !geom.PointInTriangle(p, hull[0], hull[1], hull[2], up, margin) {
				continue
			}
			d := shape.Evaluate(v2.Vec{X: x, Y: y})
			if math.Abs(d) < margin {
				continue
			}
			inMarking := covering(pos, res.Marking, p)
			inRetained := covering(pos, res.Retained, p)
			if d < 0 {
				assert.Equal(t, 1, inMarking, "%v is inside the marking", p)
				assert.Equal(t, 0, inRetained, "%v is inside the marking", p)
			} else {
				assert.Equal(t, 0, inMarking, "%v is outside the marking", p)
				assert.Equal(t, 1, inRetained, "%v is outside the marking", p)
			}
		}
	}
}

// assertNoOverlap checks that no vertex of the carve lies strictly inside any
// of its triangles. Sampling cannot see a sliver overlap; this can.
func assertNoOverlap(t *testing.T, pos geom.Positions, res Result) {
	t.Helper()
	all := append(append([]geom.Triangle(nil), res.Retained...), res.Marking...)
	used := make(map[int]bool)
	for _, tri := range all {
		for _, v := range tri.V {
			used[v] = true
		}
	}
	for v := range used {
		p := pos.Position(v)
		for _, tri := range all {
			if tri.V[0] == v || tri.V[1] == v || tri.V[2] == v {
				continue
			}
			a, b, c := tri.Corners(pos)
			assert.False(t, geom.PointInTriangle(p, a, b, c, up, 1e-9), "vertex %v is inside triangle %v", p, tri.V)
		}
	}
}
