package carve

import (
	"math"

	"github.com/osuushi/hullcarve/internal/edgeloop"
	"github.com/osuushi/hullcarve/internal/geom"
)

// WindLoop triangulates a simple closed loop of vertex indices, wound
// counterclockwise about normal, by repeatedly cutting off ears.
//
// An ear is valid when it winds with the normal, none of its corners is
// thinner than cfg.SliverCos allows, and no other remaining loop vertex lies
// inside it or on its closing diagonal. Among valid ears, the one whose tip
// angle is closest to cfg.EarAngle goes first. When no ear is valid, WindLoop
// first drops a flat vertex, then allows thin ears, and finally ignores the
// enclosure test; relaxed reports that the last step was needed.
func WindLoop(pos geom.Positions, loop []int, normal geom.Point3, material int, cfg Config) (tris []geom.Triangle, relaxed bool) {
	cfg = cfg.WithDefaults()
	n := geom.Unit(normal)
	if len(loop) < 3 {
		return nil, false
	}
	w := winder{pos: pos, n: n, cfg: cfg, arena: edgeloop.New()}
	cur := w.arena.NewLoop(loop)
	count := len(loop)

	for count > 3 {
		ids, ok := w.arena.Collect(cur)
		if !ok {
			fatalf("ear loop does not close:\n%s", w.arena)
		}

		ear := w.bestEar(ids, true, true)
		if ear == edgeloop.None {
			if flat := w.flatVertex(ids); flat != edgeloop.None {
				cur = w.cut(flat)
				count--
				continue
			}
			ear = w.bestEar(ids, false, true)
		}
		if ear == edgeloop.None {
			relaxed = true
			ear = w.bestEar(ids, false, false)
		}
		if ear == edgeloop.None {
			return tris, true
		}

		a, b, c := w.arena.Start(w.arena.Prev(ear)), w.arena.Start(ear), w.arena.End(ear)
		tris = append(tris, geom.NewTriangle(a, b, c, material))
		cur = w.cut(ear)
		count--
	}

	ids, ok := w.arena.Collect(cur)
	if !ok || len(ids) != 3 {
		fatalf("ear loop ended with %d edges:\n%s", len(ids), w.arena)
	}
	a, b, c := w.arena.Start(ids[0]), w.arena.Start(ids[1]), w.arena.Start(ids[2])
	if geom.Orient(pos.Position(a), pos.Position(b), pos.Position(c), n) > 0 {
		tris = append(tris, geom.NewTriangle(a, b, c, material))
	}
	return tris, relaxed
}

type winder struct {
	pos   geom.Positions
	n     geom.Point3
	cfg   Config
	arena *edgeloop.Arena
}

func (w *winder) at(v int) geom.Point3 {
	return w.pos.Position(v)
}

// cut removes the vertex at the start of e, joining its two neighbors with a
// new edge, which is returned.
func (w *winder) cut(e edgeloop.ID) edgeloop.ID {
	p := w.arena.Prev(e)
	before, after := w.arena.Prev(p), w.arena.Next(e)
	joined := w.arena.Add(w.arena.Start(p), w.arena.End(e))
	w.arena.Remove(p)
	w.arena.Remove(e)
	w.arena.SetNext(before, joined)
	w.arena.SetNext(joined, after)
	return joined
}

// bestEar returns the edge whose start vertex is the tip of the best ear, or
// None.
func (w *winder) bestEar(ids []edgeloop.ID, rejectSlivers, checkEnclosure bool) edgeloop.ID {
	best := edgeloop.None
	bestScore := math.Inf(1)
	bestArea := 0.0
	for _, e := range ids {
		ia, ib, ic := w.arena.Start(w.arena.Prev(e)), w.arena.Start(e), w.arena.End(e)
		if ia == ib || ib == ic || ia == ic {
			continue
		}
		a, b, c := w.at(ia), w.at(ib), w.at(ic)
		orient := geom.Orient(a, b, c, w.n)
		if orient <= 0 {
			continue
		}
		if rejectSlivers && w.sliver(a, b, c) {
			continue
		}
		if checkEnclosure && w.encloses(ids, ia, ib, ic) {
			continue
		}
		if !checkEnclosure {
			// Last resort: the biggest ear loses the least if it is wrong.
			if orient > bestArea {
				best, bestArea = e, orient
			}
			continue
		}
		score := math.Abs(geom.Angle(a, b, c) - w.cfg.EarAngle)
		if score < bestScore {
			best, bestScore = e, score
		}
	}
	return best
}

func (w *winder) sliver(a, b, c geom.Point3) bool {
	return thin(a, b, c, w.cfg.SliverCos)
}

// thin reports whether any corner of abc has a cosine above cos.
func thin(a, b, c geom.Point3, cos float64) bool {
	for _, corner := range [3][3]geom.Point3{{c, a, b}, {a, b, c}, {b, c, a}} {
		if math.Cos(geom.Angle(corner[0], corner[1], corner[2])) > cos {
			return true
		}
	}
	return false
}

// encloses tests every other remaining vertex against the ear's three side
// planes. Points on the boundary count as inside, since a vertex sitting on
// the closing diagonal would be left hanging.
func (w *winder) encloses(ids []edgeloop.ID, ia, ib, ic int) bool {
	a, b, c := w.at(ia), w.at(ib), w.at(ic)
	sides := [3]geom.Plane{
		geom.SidePlane(a, b, w.n),
		geom.SidePlane(b, c, w.n),
		geom.SidePlane(c, a, w.n),
	}
	eps := w.cfg.Epsilon
	for _, e := range ids {
		iv := w.arena.Start(e)
		if iv == ia || iv == ib || iv == ic {
			continue
		}
		v := w.at(iv)
		if geom.Distance(v, a) <= eps || geom.Distance(v, b) <= eps || geom.Distance(v, c) <= eps {
			continue
		}
		inside := true
		for _, s := range sides {
			if s.SignedDistance(v) < -eps {
				inside = false
				break
			}
		}
		if inside {
			return true
		}
	}
	return false
}

// flatVertex finds a vertex whose corner has no width: its neighbors and it
// are collinear to within eps.
func (w *winder) flatVertex(ids []edgeloop.ID) edgeloop.ID {
	for _, e := range ids {
		a, b, c := w.at(w.arena.Start(w.arena.Prev(e))), w.at(w.arena.Start(e)), w.at(w.arena.End(e))
		span := math.Max(geom.Distance(a, c), math.Max(geom.Distance(a, b), geom.Distance(b, c)))
		if span == 0 || math.Abs(geom.Orient(a, b, c, w.n))/span <= w.cfg.Epsilon {
			return e
		}
	}
	return edgeloop.None
}
