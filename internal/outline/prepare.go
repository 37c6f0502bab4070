package outline

import (
	"github.com/osuushi/hullcarve/internal/carve"
	"github.com/osuushi/hullcarve/internal/geom"
	"github.com/osuushi/hullcarve/internal/prism"
	"github.com/paulmach/orb"
)

// Piece is one simple, counterclockwise outline ring and its triangles.
type Piece struct {
	Ring geom.PointList
	Tris [][3]int
}

// Prism extrudes the piece along dir.
func (p Piece) Prism(dir geom.Point3, eps float64) *prism.Prism {
	return prism.New(p.Ring, p.Tris, dir, eps)
}

type Outline struct {
	Pieces []Piece
	// Split is set when the ring crossed itself.
	Split bool
	// Relaxed counts pieces whose triangulation had to relax its ear checks.
	Relaxed int
}

// Prepare splits ring into simple pieces, winds each one counterclockwise
// about normal, drops repeated and straight points, and triangulates it.
// Pieces with no area are dropped.
func Prepare(ring []geom.Point3, normal geom.Point3, cfg carve.Config) Outline {
	var out Outline
	if len(ring) < 3 {
		return out
	}
	cfg = cfg.WithDefaults()
	rings := Split(ring, normal)
	out.Split = len(rings) > 1
	basis := geom.NewBasis(normal, ring[0])

	for _, r := range rings {
		switch basis.Ring(r).Orientation() {
		case orb.CW:
			r = reversed(r)
		case orb.CCW:
		default:
			continue
		}

		points := geom.PointList(r)
		loop := carve.MergeCollinear(points, sequence(len(points)), cfg.CollinearCos, cfg.MergeEpsilon)
		if loop == nil {
			continue
		}
		clean := make(geom.PointList, len(loop))
		for i, v := range loop {
			clean[i] = points[v]
		}

		tris, relaxed := carve.WindLoop(clean, sequence(len(clean)), normal, 0, cfg)
		if relaxed {
			out.Relaxed++
		}
		if len(tris) == 0 {
			continue
		}
		piece := Piece{Ring: clean}
		for _, t := range tris {
			piece.Tris = append(piece.Tris, t.V)
		}
		out.Pieces = append(out.Pieces, piece)
	}
	return out
}

func sequence(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

func reversed(r []geom.Point3) []geom.Point3 {
	out := make([]geom.Point3, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}
