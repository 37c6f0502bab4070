package carve

import (
	"math"

	"github.com/osuushi/hullcarve/internal/edgeloop"
	"github.com/osuushi/hullcarve/internal/geom"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// bridgeHoles joins each enclosed silhouette loop to the loop around it. The
// hole is traced clockwise, and one edge of each loop is swapped for a quad
// whose other two sides become the bridge, so outer loop and hole turn into a
// single simple loop. The quads are returned as triangles.
func (k *cut) bridgeHoles(loops [][]int, material int) ([][]int, []geom.Triangle, bool) {
	basis := geom.NewBasis(k.normal, k.corners[0])
	obstacles := append(append([][]int(nil), loops...), k.enclosed...)

	var quads []geom.Triangle
	for hi, enclosed := range k.enclosed {
		hole := append([]int(nil), enclosed...)
		reverse(hole)

		sample := basis.Project(k.at(hole[0]))
		owner := -1
		for i, loop := range loops {
			if planar.RingContains(basis.Ring(k.positions(loop)), orb.Point{sample.X, sample.Y}) {
				owner = i
				break
			}
		}
		if owner < 0 {
			k.Diagnose(UnresolvableBridge, "enclosed loop %d of triangle %v is not inside any remaining loop", hi, k.tri.V)
			return nil, nil, false
		}

		merged, quad, ok := k.bridge(loops[owner], hole, obstacles, material)
		if !ok {
			k.Diagnose(UnresolvableBridge, "no bridge from enclosed loop %d to triangle %v", hi, k.tri.V)
			return nil, nil, false
		}
		loops[owner] = merged
		obstacles = append(obstacles, merged)
		quads = append(quads, quad...)
	}
	return loops, quads, true
}

// bridge looks at every pairing of an outer edge p->q with a hole edge r->s
// and takes the shortest valid quad p, q, r, s. Convex quads are tried first;
// when none works, a quad that is only simple is accepted if it splits along
// one of its diagonals into two good triangles.
func (k *cut) bridge(outer, hole []int, obstacles [][]int, material int) ([]int, []geom.Triangle, bool) {
	arena := edgeloop.New()
	outerIDs, _ := arena.Collect(arena.NewLoop(outer))
	holeIDs, _ := arena.Collect(arena.NewLoop(hole))

	bestOuter, bestHole := edgeloop.None, edgeloop.None
	var bestSplit [2][3]int
	for _, convex := range [2]bool{true, false} {
		bestLength := math.Inf(1)
		for _, eo := range outerIDs {
			p, q := arena.Start(eo), arena.End(eo)
			for _, eh := range holeIDs {
				r, s := arena.Start(eh), arena.End(eh)
				split, ok := k.validBridge(p, q, r, s, obstacles, convex)
				if !ok {
					continue
				}
				length := geom.Distance(k.at(q), k.at(r)) + geom.Distance(k.at(s), k.at(p))
				if length < bestLength {
					bestOuter, bestHole, bestSplit, bestLength = eo, eh, split, length
				}
			}
		}
		if bestOuter != edgeloop.None {
			break
		}
	}
	if bestOuter == edgeloop.None {
		return nil, nil, false
	}

	p, q := arena.Start(bestOuter), arena.End(bestOuter)
	r, s := arena.Start(bestHole), arena.End(bestHole)
	before, after := arena.Prev(bestOuter), arena.Next(bestOuter)
	holeBefore, holeAfter := arena.Prev(bestHole), arena.Next(bestHole)
	ps := arena.Add(p, s)
	rq := arena.Add(r, q)
	arena.Remove(bestOuter)
	arena.Remove(bestHole)
	arena.SetNext(before, ps)
	arena.SetNext(ps, holeAfter)
	arena.SetNext(holeBefore, rq)
	arena.SetNext(rq, after)

	merged, ok := arena.Vertices(ps)
	if !ok {
		fatalf("bridged loop does not close:\n%s", arena)
	}
	quad := []geom.Triangle{
		geom.NewTriangle(bestSplit[0][0], bestSplit[0][1], bestSplit[0][2], material),
		geom.NewTriangle(bestSplit[1][0], bestSplit[1][1], bestSplit[1][2], material),
	}
	return merged, quad, true
}

// validBridge checks the quad p, q, r, s and returns the two triangles that
// fill it. Both must wind counterclockwise with no fat free corners, no other
// loop vertex may lie inside or on them, and no loop edge may cut across the
// quad's two new sides. With convex set, all four corners must turn left and
// the quad is split along p-r; otherwise the p-r split is tried, then q-s.
func (k *cut) validBridge(p, q, r, s int, obstacles [][]int, convex bool) ([2][3]int, bool) {
	if p == s || q == r {
		return [2][3]int{}, false
	}
	quad := [4]geom.Point3{k.at(p), k.at(q), k.at(r), k.at(s)}
	if convex {
		for i := 0; i < 4; i++ {
			if geom.Orient(quad[i], quad[(i+1)%4], quad[(i+2)%4], k.normal) <= 0 {
				return [2][3]int{}, false
			}
		}
	}

	var split [2][3]int
	found := false
	for _, cand := range [2][2][3]int{
		{{p, q, r}, {p, r, s}},
		{{p, q, s}, {q, r, s}},
	} {
		if k.goodTriangle(cand[0]) && k.goodTriangle(cand[1]) {
			split, found = cand, true
			break
		}
	}
	if !found {
		return split, false
	}

	corner := func(v int) bool {
		return v == p || v == q || v == r || v == s
	}
	for _, loop := range obstacles {
		for i, v := range loop {
			w := loop[(i+1)%len(loop)]
			pv, pw := k.at(v), k.at(w)
			if !corner(v) && !k.nearCorner(pv, quad, k.cfg.Epsilon) &&
				(k.covers(split[0], pv) || k.covers(split[1], pv)) {
				return split, false
			}
			if v != q && v != r && w != q && w != r && segmentsCross(quad[1], quad[2], pv, pw, k.normal) {
				return split, false
			}
			if v != s && v != p && w != s && w != p && segmentsCross(quad[3], quad[0], pv, pw, k.normal) {
				return split, false
			}
		}
	}
	return split, true
}

func (k *cut) goodTriangle(t [3]int) bool {
	a, b, c := k.at(t[0]), k.at(t[1]), k.at(t[2])
	return geom.Orient(a, b, c, k.normal) > 0 && !thin(a, b, c, k.cfg.SliverCos)
}

// covers reports whether v is inside triangle t or within eps of its sides.
func (k *cut) covers(t [3]int, v geom.Point3) bool {
	for i := 0; i < 3; i++ {
		side := geom.SidePlane(k.at(t[i]), k.at(t[(i+1)%3]), k.normal)
		if side.SignedDistance(v) < -k.cfg.Epsilon {
			return false
		}
	}
	return true
}

func (k *cut) nearCorner(v geom.Point3, quad [4]geom.Point3, eps float64) bool {
	for _, c := range quad {
		if geom.Distance(v, c) <= eps {
			return true
		}
	}
	return false
}

// segmentsCross reports a proper crossing of a-b and c-d, seen along n.
// Touching at an endpoint does not count.
func segmentsCross(a, b, c, d, n geom.Point3) bool {
	d1 := geom.Orient(a, b, c, n)
	d2 := geom.Orient(a, b, d, n)
	d3 := geom.Orient(c, d, a, n)
	d4 := geom.Orient(c, d, b, n)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}
