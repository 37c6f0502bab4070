package carve

import (
	"github.com/osuushi/hullcarve/internal/edgeloop"
	"github.com/osuushi/hullcarve/internal/geom"
	"github.com/osuushi/hullcarve/internal/prism"
)

// port is a place where the kept part of the triangle's boundary meets the
// silhouette. At an exit the boundary runs out; at a re-entry it resumes.
type port struct {
	vertex int
	edge   edgeloop.ID
	loc    prism.Loc
	used   bool
}

// solveGaps keeps the ring edges on one side of the prism and closes the
// gaps between them by following the silhouette from each exit to the
// nearest re-entry point. The loops come back counterclockwise about the
// triangle's normal.
func (k *cut) solveGaps(keepInside bool) [][]int {
	n := len(k.ring)
	alive := func(i int) bool {
		return k.inside[(i+n)%n] == keepInside
	}

	arena := edgeloop.New()
	edges := make([]edgeloop.ID, n)
	for i, v := range k.ring {
		edges[i] = edgeloop.None
		if alive(i) {
			edges[i] = arena.Add(v, k.ring[(i+1)%n])
		}
	}

	var exits, entries []*port
	for i, v := range k.ring {
		if !alive(i) {
			continue
		}
		if alive(i + 1) {
			arena.SetNext(edges[i], edges[(i+1)%n])
		} else {
			exits = append(exits, &port{vertex: k.ring[(i+1)%n], edge: edges[i]})
		}
		if !alive(i - 1) {
			entries = append(entries, &port{vertex: v, edge: edges[i]})
		}
	}
	for _, p := range exits {
		p.loc = k.locate(p.vertex)
	}
	for _, p := range entries {
		p.loc = k.locate(p.vertex)
	}

	// Outside the prism the boundary goes around the silhouette against its
	// winding; inside it goes with it.
	forward := keepInside
	if geom.Dot(k.p.Direction(), k.normal) < 0 {
		forward = !forward
	}
	for _, exit := range exits {
		k.closeGap(arena, exit, entries, forward)
	}

	loops, err := arena.Cycles()
	if err != nil {
		fatalf("gap solving left an open loop in triangle %v: %v\n%s", k.tri.V, err, arena)
	}
	return loops
}

// locate finds where a ring vertex sits on the silhouette. Every vertex
// between a kept and a dropped edge must be on it.
func (k *cut) locate(v int) prism.Loc {
	if l, ok := k.locs[v]; ok {
		return l
	}
	l, ok := k.p.Locate(k.at(v))
	if !ok {
		fatalf("position mismatch: vertex %d at %v of triangle %v is not on the silhouette", v, k.at(v), k.tri.V)
	}
	k.locs[v] = l
	return l
}

func (k *cut) closeGap(arena *edgeloop.Arena, exit *port, entries []*port, forward bool) {
	last, lastVertex := exit.edge, exit.vertex
	extend := func(v int) {
		if v == lastVertex {
			return
		}
		e := arena.Add(lastVertex, v)
		arena.SetNext(last, e)
		last, lastVertex = e, v
	}
	finish := func(entry *port) {
		extend(entry.vertex)
		arena.SetNext(last, entry.edge)
		entry.used = true
	}

	loc := exit.loc
	limit := len(k.p.Faces()) + 2
	for step := 0; step <= limit; step++ {
		if entry := k.nextEntry(entries, loc, forward); entry != nil {
			finish(entry)
			return
		}
		next, ok := k.p.Walk(loc, forward)
		if !ok {
			fatalf("position mismatch: silhouette is open at face %d", loc.Face)
		}
		if entry := k.entryAtCorner(entries, next); entry != nil {
			finish(entry)
			return
		}
		extend(k.intern(k.cornerPoint(next.Face)))
		loc = next
	}
	fatalf("position mismatch: walked %d silhouette faces from vertex %d without reaching a re-entry point", limit, exit.vertex)
}

// nextEntry finds the closest unused re-entry point on the stretch of
// silhouette between loc and the next corner in the walking direction.
func (k *cut) nextEntry(entries []*port, loc prism.Loc, forward bool) *port {
	face, lo, hi := loc.Face, loc.U, 1.0
	if !forward {
		if loc.U > 0 {
			lo, hi = 0, loc.U
		} else {
			face, lo, hi = k.p.Prev(loc.Face), 0, 1
			if face < 0 {
				return nil
			}
		}
	}
	tol := 4 * k.p.UTolerance(face)

	var best *port
	for _, e := range entries {
		if e.used || e.loc.Face != face || e.loc.U < lo-tol || e.loc.U > hi+tol {
			continue
		}
		if best == nil || (forward && e.loc.U < best.loc.U) || (!forward && e.loc.U > best.loc.U) {
			best = e
		}
	}
	return best
}

func (k *cut) entryAtCorner(entries []*port, corner prism.Loc) *port {
	tol := 4 * k.p.UTolerance(corner.Face)
	for _, e := range entries {
		if !e.used && e.loc.Face == corner.Face && e.loc.U <= tol {
			return e
		}
	}
	return nil
}
