package outline

import (
	"embed"
	"testing"

	"github.com/osuushi/hullcarve/internal/carve"
	"github.com/osuushi/hullcarve/internal/geom"
	"github.com/osuushi/hullcarve/internal/svgmark"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/*.svg
var fixtures embed.FS

var up = geom.Point3{Z: 1}

func xy(x, y float64) geom.Point3 {
	return geom.Point3{X: x, Y: y}
}

func loadFixture(t *testing.T, name string) []geom.Point3 {
	f, err := fixtures.Open("testdata/" + name)
	require.NoError(t, err)
	defer f.Close()
	outlines, err := svgmark.Parse(f)
	require.NoError(t, err)
	require.Len(t, outlines, 1)
	return outlines[0].Points
}

func signedArea(ring []geom.Point3) float64 {
	var sum float64
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

func totalLength(rings [][]geom.Point3) int {
	n := 0
	for _, r := range rings {
		n += len(r)
	}
	return n
}

func TestResolve(t *testing.T) {
	hull := []geom.Point3{xy(0, 0), xy(1, 0), xy(1, 1), xy(0, 1)}

	t.Run("weights pull toward neighbors", func(t *testing.T) {
		r := Record{Type: MarkTriangle, Points: []Point{
			{Anchor: 0, Left: 0.25, Right: 0.5},
			{Anchor: 2, Left: 0.5},
			{Anchor: 2, Left: 0.5, Right: 0.5},
		}}
		ring, err := r.Resolve(hull)
		require.NoError(t, err)
		require.Len(t, ring, 3)
		assert.InDelta(t, 0.5, ring[0].X, 1e-12)
		assert.InDelta(t, 0.25, ring[0].Y, 1e-12)
		assert.InDelta(t, 1, ring[1].X, 1e-12)
		assert.InDelta(t, 0.5, ring[1].Y, 1e-12)
		assert.InDelta(t, 0.5, ring[2].X, 1e-12)
		assert.InDelta(t, 0.5, ring[2].Y, 1e-12)
	})

	t.Run("zero weights sit on the anchor", func(t *testing.T) {
		r := Record{Type: MarkQuad, Points: []Point{{Anchor: 0}, {Anchor: 1}, {Anchor: 2}, {Anchor: 3}}}
		ring, err := r.Resolve(hull)
		require.NoError(t, err)
		assert.Equal(t, hull, ring)
	})

	t.Run("wrong point count", func(t *testing.T) {
		r := Record{Type: MarkTriangle, Points: make([]Point, 4)}
		_, err := r.Resolve(hull)
		assert.Error(t, err)
	})

	t.Run("anchor out of range", func(t *testing.T) {
		r := Record{Type: MarkPolygon, Points: []Point{{Anchor: 0}, {Anchor: 1}, {Anchor: 4}}}
		_, err := r.Resolve(hull)
		assert.Error(t, err)
	})
}

func TestMarkTypeCheck(t *testing.T) {
	assert.NoError(t, MarkTriangle.Check(3))
	assert.Error(t, MarkTriangle.Check(4))
	assert.NoError(t, MarkQuad.Check(4))
	assert.Error(t, MarkQuad.Check(3))
	assert.NoError(t, MarkPolygon.Check(9))
	assert.Error(t, MarkPolygon.Check(2))
	assert.Error(t, MarkType(7).Check(3))
	assert.Equal(t, "quad", MarkQuad.String())
}

func TestSplit(t *testing.T) {
	t.Run("simple ring is untouched", func(t *testing.T) {
		ring := []geom.Point3{xy(0, 0), xy(1, 0), xy(1, 1), xy(0, 1)}
		rings := Split(ring, up)
		require.Len(t, rings, 1)
		assert.Equal(t, ring, rings[0])
		assert.True(t, Simple(ring, up))
	})

	t.Run("bowtie", func(t *testing.T) {
		ring := []geom.Point3{xy(0, 0), xy(2, 2), xy(2, 0), xy(0, 2)}
		assert.False(t, Simple(ring, up))
		rings := Split(ring, up)
		require.Len(t, rings, 2)
		assert.Equal(t, len(ring)+2, totalLength(rings))
		for _, r := range rings {
			assert.Len(t, r, 3)
			assert.True(t, Simple(r, up))
			assert.Contains(t, r, xy(1, 1))
		}
	})

	t.Run("figure eight crossing once", func(t *testing.T) {
		ring := loadFixture(t, "figure8.svg")
		rings := Split(ring, up)
		require.Len(t, rings, 2)
		assert.Equal(t, len(ring)+2, totalLength(rings))
		for _, r := range rings {
			assert.Len(t, r, 4)
			assert.True(t, Simple(r, up))
			assert.InDelta(t, 3, abs(signedArea(r)), 1e-9)
		}
		assert.Equal(t, ring[0], rings[0][0])
	})

	t.Run("pentagram", func(t *testing.T) {
		ring := loadFixture(t, "pentagram.svg")
		rings := Split(ring, up)
		require.Greater(t, len(rings), 1)
		// Every split adds the crossing point to both halves.
		assert.Equal(t, len(ring)+2*(len(rings)-1), totalLength(rings))
		var sum float64
		for _, r := range rings {
			assert.True(t, Simple(r, up))
			sum += signedArea(r)
		}
		assert.InDelta(t, signedArea(ring), sum, 1e-9)
	})

	t.Run("crossing point splits the height difference", func(t *testing.T) {
		ring := []geom.Point3{{}, {X: 2, Y: 2}, {X: 2, Z: 0.2}, {Y: 2, Z: 0.2}}
		rings := Split(ring, up)
		require.Len(t, rings, 2)
		x := rings[1][0]
		assert.InDelta(t, 1, x.X, 1e-9)
		assert.InDelta(t, 1, x.Y, 1e-9)
		assert.InDelta(t, 0.1, x.Z, 1e-9)
	})

	t.Run("touching is not crossing", func(t *testing.T) {
		// The vertex at (1, 0) rests on the bottom edge without crossing it.
		ring := []geom.Point3{xy(0, 0), xy(2, 0), xy(2, 2), xy(1, 0), xy(0, 2)}
		assert.True(t, Simple(ring, up))
		assert.Len(t, Split(ring, up), 1)
	})

	t.Run("too short", func(t *testing.T) {
		assert.Nil(t, Split([]geom.Point3{xy(0, 0), xy(1, 0)}, up))
	})
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func TestPrepare(t *testing.T) {
	cfg := carve.DefaultConfig()

	t.Run("figure eight", func(t *testing.T) {
		ring := loadFixture(t, "figure8.svg")
		out := Prepare(ring, up, cfg)
		assert.True(t, out.Split)
		assert.Zero(t, out.Relaxed)
		require.Len(t, out.Pieces, 2)

		var area float64
		for _, piece := range out.Pieces {
			basis := geom.NewBasis(up, piece.Ring[0])
			assert.Equal(t, orb.CCW, basis.Ring(piece.Ring).Orientation())
			for _, tri := range piece.Tris {
				area += geom.NewTriangle(tri[0], tri[1], tri[2], 0).SignedArea(piece.Ring, up)
			}
		}
		assert.InDelta(t, 6, area, 1e-9)

		// y is flipped by the svg reader.
		left, right := xy(0, -1), xy(4, -1)
		inside := func(p geom.Point3) int {
			n := 0
			for _, piece := range out.Pieces {
				if piece.Prism(up, cfg.Epsilon).Contains(p) {
					n++
				}
			}
			return n
		}
		assert.Equal(t, 1, inside(left))
		assert.Equal(t, 1, inside(right))
		assert.Equal(t, 0, inside(xy(2, -3)))
	})

	t.Run("clockwise ring is rewound", func(t *testing.T) {
		ring := []geom.Point3{xy(0, 0), xy(0, 1), xy(1, 1), xy(1, 0)}
		out := Prepare(ring, up, cfg)
		require.Len(t, out.Pieces, 1)
		assert.False(t, out.Split)
		assert.Greater(t, signedArea(out.Pieces[0].Ring), 0.0)
		assert.Len(t, out.Pieces[0].Tris, 2)
	})

	t.Run("straight points are dropped", func(t *testing.T) {
		ring := []geom.Point3{xy(0, 0), xy(0.5, 0), xy(1, 0), xy(1, 1), xy(1, 1), xy(0, 1)}
		out := Prepare(ring, up, cfg)
		require.Len(t, out.Pieces, 1)
		assert.Len(t, out.Pieces[0].Ring, 4)
	})

	t.Run("flat ring has no pieces", func(t *testing.T) {
		ring := []geom.Point3{xy(0, 0), xy(1, 0), xy(2, 0)}
		out := Prepare(ring, up, cfg)
		assert.Empty(t, out.Pieces)
	})
}
