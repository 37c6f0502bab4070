package prism

import (
	"math"

	"github.com/osuushi/hullcarve/internal/geom"
)

// Stash nudges the prism away from the hull triangle abc wherever the two
// line up exactly, so that a carve never has to produce a zero length or zero
// area piece. It looks for:
//
//   - silhouette faces lying along one of the triangle's edges (both of the
//     face's corners within tol of the edge line and overlapping it), which
//     move outward along the face normal by offset;
//   - silhouette corners touching one of the triangle's edges (closest point
//     on the segment within tol), which retreat off the edge, into the
//     prism, by offset.
//
// All face planes are then rebuilt from the moved edges. The returned
// function puts every edge and plane back exactly as it was and must be
// called before the prism is used for another triangle.
func (p *Prism) Stash(tri [3]geom.Point3, tol, offset float64) (unstash func()) {
	savedEdges := make([]Edge, len(p.edges))
	copy(savedEdges, p.edges)
	savedFaces := make([]Face, len(p.faces))
	copy(savedFaces, p.faces)
	savedBad := append([]int(nil), p.bad...)
	unstash = func() {
		copy(p.edges, savedEdges)
		copy(p.faces, savedFaces)
		p.bad = append(p.bad[:0], savedBad...)
	}

	hull := geom.PlaneFromPoints(tri[0], tri[1], tri[2])
	if !hull.Valid() {
		return unstash
	}

	// Silhouette corners as they land on the triangle's plane.
	onPlane := make(map[int]geom.Point3)
	for _, f := range p.faces {
		if !f.External() {
			continue
		}
		for _, e := range [2]int{f.From, f.To} {
			if _, ok := onPlane[e]; ok {
				continue
			}
			l := p.edges[e].Line
			t, ok := l.IntersectPlane(hull)
			if !ok {
				onPlane[e] = l.Origin
				continue
			}
			onPlane[e] = l.At(t)
		}
	}

	moves := make(map[int]geom.Point3)
	for k := 0; k < 3; k++ {
		a, b := tri[k], tri[(k+1)%3]
		line := geom.Segment(a, b)
		for fi, f := range p.faces {
			if !f.External() || !f.Plane.Valid() {
				continue
			}
			qa, qb := onPlane[f.From], onPlane[f.To]
			if geom.Distance(line.ClosestPoint(qa), qa) > tol || geom.Distance(line.ClosestPoint(qb), qb) > tol {
				continue
			}
			ta, tb := line.ClosestParam(qa), line.ClosestParam(qb)
			if math.Max(ta, tb) <= 0 || math.Min(ta, tb) >= 1 {
				continue
			}
			out := geom.Scale(-offset, p.faces[fi].Plane.Normal())
			for _, e := range [2]int{f.From, f.To} {
				if _, done := moves[e]; !done {
					moves[e] = out
				}
			}
		}
	}

	for k := 0; k < 3; k++ {
		a, b := tri[k], tri[(k+1)%3]
		for e, q := range onPlane {
			if _, done := moves[e]; done {
				continue
			}
			if geom.Distance(geom.ClosestPointOnSegment(a, b, q), q) > tol {
				continue
			}
			moves[e] = geom.Scale(offset, p.retreat(e, a, b))
		}
	}

	if len(moves) == 0 {
		return unstash
	}
	for e, d := range moves {
		p.edges[e].Line.Origin = geom.Add(p.edges[e].Line.Origin, d)
	}
	p.rebuildPlanes()
	return unstash
}

// retreat picks the unit direction, in the cut plane and perpendicular to a-b,
// that moves corner edge e further into the prism. The choice only depends on
// the line through a and b, so both hull triangles sharing that edge move the
// corner the same way. When the corner's bisector runs along the line, the
// sign is fixed by the perpendicular's first nonzero component instead.
func (p *Prism) retreat(e int, a, b geom.Point3) geom.Point3 {
	perp := geom.Unit(geom.Cross(p.dir, geom.Sub(b, a)))
	var inward geom.Point3
	for _, f := range p.faces {
		if f.External() && (f.From == e || f.To == e) && f.Plane.Valid() {
			inward = geom.Add(inward, f.Plane.Normal())
		}
	}
	d := geom.Dot(perp, inward)
	switch {
	case d < -1e-9:
		return geom.Scale(-1, perp)
	case d > 1e-9:
		return perp
	}
	for _, c := range [3]float64{perp.X, perp.Y, perp.Z} {
		if math.Abs(c) > 1e-12 {
			if c < 0 {
				return geom.Scale(-1, perp)
			}
			return perp
		}
	}
	return perp
}
