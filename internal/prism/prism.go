// Package prism builds the "cookie cutter": a closed solid made by extruding
// a marking's outline triangles along the cut direction. Every source
// triangle contributes three side faces. A side face whose edge is shared
// (in reverse) with another triangle is internal to the outline and is
// ignored by every clipping query; the remaining external faces form the
// outline's silhouette, which the cut engine walks around.
package prism

import (
	"math"

	"github.com/osuushi/hullcarve/internal/geom"
)

// Edge is one vertical side edge of the prism. Triangles that use the same
// marking vertex share the same Edge, which is what makes face sharing
// detectable.
type Edge struct {
	Line   geom.Line
	Vertex int // marking vertex that generated this edge
}

// Face is one rectangular side of a triangle's column.
type Face struct {
	Plane    geom.Plane // normal points into the triangle's column
	Tri      int
	Side     int
	From, To int // prism edges, in winding order
	Opposite int // face across an internal edge, or -1 when external

	// Silhouette position; only meaningful for external faces.
	Cycle, Ordinal int
}

func (f Face) External() bool {
	return f.Opposite < 0
}

// Loc is a position on the silhouette: U runs from 0 at the face's From edge
// to 1 at its To edge. Locations are normalized so that U is always below 1;
// a point sitting on a silhouette corner is reported at U=0 of the face that
// leaves that corner.
type Loc struct {
	Face int
	U    float64
}

// Hit is a crossing of a segment with an external face. Wall is the face
// actually crossed; Loc may name the following face when the crossing sits on
// a silhouette corner.
type Hit struct {
	Loc
	Wall  int
	T     float64 // parameter along the segment, 0 at its start
	Point geom.Point3
}

type Prism struct {
	dir    geom.Point3
	eps    float64
	edges  []Edge
	faces  []Face
	tris   [][3]int // prism edge at each corner
	cycles [][]int  // external faces in silhouette order
	next   []int    // silhouette successor per face, -1 for internal faces
	prev   []int
	bad    []int // faces whose plane came out NaN
}

// New builds a prism from marking vertices and triangles over them. Each
// triangle is rewound if needed so that it is counterclockwise about dir.
// Construction never fails: faces built from zero length edges keep their NaN
// planes and are listed by Degenerate.
func New(vertices []geom.Point3, tris [][3]int, dir geom.Point3, eps float64) *Prism {
	p := &Prism{
		dir: geom.Unit(dir),
		eps: eps,
	}
	edgeOf := make(map[int]int)
	edgeFor := func(v int) int {
		if e, ok := edgeOf[v]; ok {
			return e
		}
		p.edges = append(p.edges, Edge{
			Line:   geom.Line{Origin: vertices[v], Direction: p.dir},
			Vertex: v,
		})
		edgeOf[v] = len(p.edges) - 1
		return len(p.edges) - 1
	}

	for _, t := range tris {
		a, b, c := vertices[t[0]], vertices[t[1]], vertices[t[2]]
		if geom.Orient(a, b, c, p.dir) < 0 {
			t[1], t[2] = t[2], t[1]
		}
		p.tris = append(p.tris, [3]int{edgeFor(t[0]), edgeFor(t[1]), edgeFor(t[2])})
	}

	type directed struct{ from, to int }
	byEdge := make(map[directed]int)
	for ti, t := range p.tris {
		for k := 0; k < 3; k++ {
			f := Face{
				Tri:      ti,
				Side:     k,
				From:     t[k],
				To:       t[(k+1)%3],
				Opposite: -1,
				Cycle:    -1,
				Ordinal:  -1,
			}
			byEdge[directed{f.From, f.To}] = len(p.faces)
			p.faces = append(p.faces, f)
		}
	}
	for i := range p.faces {
		f := &p.faces[i]
		if o, ok := byEdge[directed{f.To, f.From}]; ok {
			f.Opposite = o
		}
	}

	p.rebuildPlanes()
	p.linkSilhouette()
	return p
}

func (p *Prism) rebuildPlanes() {
	p.bad = p.bad[:0]
	for i := range p.faces {
		f := &p.faces[i]
		a := p.edges[f.From].Line.Origin
		b := p.edges[f.To].Line.Origin
		f.Plane = geom.SidePlane(a, b, p.dir)
		if !f.Plane.Valid() {
			p.bad = append(p.bad, i)
		}
	}
}

func (p *Prism) linkSilhouette() {
	leaving := make(map[int][]int)
	for i, f := range p.faces {
		if f.External() {
			leaving[f.From] = append(leaving[f.From], i)
		}
	}
	p.next = make([]int, len(p.faces))
	p.prev = make([]int, len(p.faces))
	for i := range p.next {
		p.next[i], p.prev[i] = -1, -1
	}
	for i, f := range p.faces {
		if !f.External() || f.Cycle >= 0 {
			continue
		}
		cycle := len(p.cycles)
		var order []int
		for cur := i; cur >= 0 && p.faces[cur].Cycle < 0; {
			p.faces[cur].Cycle = cycle
			p.faces[cur].Ordinal = len(order)
			order = append(order, cur)
			nxt := -1
			for _, cand := range leaving[p.faces[cur].To] {
				if p.faces[cand].Cycle < 0 || cand == i {
					nxt = cand
					break
				}
			}
			if nxt >= 0 {
				p.next[cur] = nxt
				p.prev[nxt] = cur
			}
			cur = nxt
		}
		p.cycles = append(p.cycles, order)
	}
}

func (p *Prism) Direction() geom.Point3 { return p.dir }

func (p *Prism) Faces() []Face { return p.faces }

func (p *Prism) Face(i int) Face { return p.faces[i] }

func (p *Prism) Edges() []Edge { return p.edges }

func (p *Prism) Edge(i int) Edge { return p.edges[i] }

// Degenerate lists faces whose plane could not be computed.
func (p *Prism) Degenerate() []int {
	return append([]int(nil), p.bad...)
}

// Cycles lists the external faces of each closed silhouette loop, in order.
func (p *Prism) Cycles() [][]int { return p.cycles }

// Next is the external face following f around the silhouette, or -1.
func (p *Prism) Next(f int) int { return p.next[f] }

func (p *Prism) Prev(f int) int { return p.prev[f] }

// Depth is how far inside the prism p is: the largest, over all triangle
// columns, of the smallest signed distance to that column's three faces.
// Negative values are outside.
func (p *Prism) Depth(v geom.Point3) float64 {
	best := math.Inf(-1)
	for ti := range p.tris {
		d := math.Inf(1)
		for k := 0; k < 3; k++ {
			sd := p.faces[3*ti+k].Plane.SignedDistance(v)
			if math.IsNaN(sd) {
				continue
			}
			d = math.Min(d, sd)
		}
		best = math.Max(best, d)
	}
	return best
}

// Contains reports whether v is inside some triangle's column, within eps.
func (p *Prism) Contains(v geom.Point3) bool {
	return p.Depth(v) >= -p.eps
}

// edgeParam measures where x sits along face f's edge, ignoring any offset
// along the extrusion direction.
func (p *Prism) edgeParam(f int, x geom.Point3) float64 {
	a := p.edges[p.faces[f].From].Line.Origin
	b := p.edges[p.faces[f].To].Line.Origin
	e := geom.Sub(b, a)
	e = geom.Sub(e, geom.Scale(geom.Dot(e, p.dir), p.dir))
	len2 := geom.Dot(e, e)
	if len2 == 0 {
		return 0
	}
	return geom.Dot(geom.Sub(x, a), e) / len2
}

func (p *Prism) edgeLength(f int) float64 {
	a := p.edges[p.faces[f].From].Line.Origin
	b := p.edges[p.faces[f].To].Line.Origin
	e := geom.Sub(b, a)
	return geom.Length(geom.Sub(e, geom.Scale(geom.Dot(e, p.dir), p.dir)))
}

// inWindow checks x against the two other faces of f's triangle, which bound
// the part of f's plane that is actually prism wall.
func (p *Prism) inWindow(f int, x geom.Point3) bool {
	face := p.faces[f]
	for _, k := range [2]int{(face.Side + 1) % 3, (face.Side + 2) % 3} {
		if p.faces[3*face.Tri+k].Plane.SignedDistance(x) < -p.eps {
			return false
		}
	}
	return true
}

// normalize folds U=1 onto the start of the following face.
func (p *Prism) normalize(l Loc) Loc {
	tol := p.eps / math.Max(p.edgeLength(l.Face), p.eps)
	if l.U < tol {
		l.U = 0
	}
	if l.U >= 1-tol {
		if n := p.next[l.Face]; n >= 0 {
			return Loc{Face: n, U: 0}
		}
		l.U = 1
	}
	return l
}

func (p *Prism) crossing(f int, a, b geom.Point3) (Hit, bool) {
	pl := p.faces[f].Plane
	sa, sb := pl.SignedDistance(a), pl.SignedDistance(b)
	if !((sa > p.eps && sb < -p.eps) || (sa < -p.eps && sb > p.eps)) {
		return Hit{}, false
	}
	t := sa / (sa - sb)
	x := geom.Lerp(a, b, t)
	if geom.Distance(x, a) <= p.eps || geom.Distance(x, b) <= p.eps {
		return Hit{}, false
	}
	if !p.inWindow(f, x) {
		return Hit{}, false
	}
	u := math.Max(0, math.Min(1, p.edgeParam(f, x)))
	return Hit{Loc: p.normalize(Loc{Face: f, U: u}), Wall: f, T: t, Point: x}, true
}

// Crossings lists every external face the segment a-b passes through,
// strictly between its endpoints.
func (p *Prism) Crossings(a, b geom.Point3) []Hit {
	var hits []Hit
	for i, f := range p.faces {
		if !f.External() {
			continue
		}
		if h, ok := p.crossing(i, a, b); ok {
			hits = append(hits, h)
		}
	}
	return hits
}

// FirstCrossing returns the crossing closest to a. Faces in recent are
// skipped: a walk that just split an edge on a face must not find the same
// face again at the same point. Only external faces are candidates, and they
// have no opposite, so the wall just entered through is the only one to
// exclude.
func (p *Prism) FirstCrossing(a, b geom.Point3, recent FaceSet) (Hit, bool) {
	var best Hit
	found := false
	for i, f := range p.faces {
		if !f.External() || recent.Has(i) {
			continue
		}
		h, ok := p.crossing(i, a, b)
		if !ok {
			continue
		}
		if !found || h.T < best.T {
			best, found = h, true
		}
	}
	return best, found
}

// Locate finds where on the silhouette v lies, if it is within eps of it.
func (p *Prism) Locate(v geom.Point3) (Loc, bool) {
	best := Loc{Face: -1}
	bestDist := math.Inf(1)
	for i, f := range p.faces {
		if !f.External() {
			continue
		}
		d := math.Abs(f.Plane.SignedDistance(v))
		if math.IsNaN(d) || d > p.eps*4 || d >= bestDist {
			continue
		}
		u := p.edgeParam(i, v)
		tol := p.eps * 4 / math.Max(p.edgeLength(i), p.eps)
		if u < -tol || u > 1+tol {
			continue
		}
		best = Loc{Face: i, U: math.Max(0, math.Min(1, u))}
		bestDist = d
	}
	if best.Face < 0 {
		return Loc{}, false
	}
	return p.normalize(best), true
}

// Walk steps to the next silhouette corner: forward follows the winding,
// backward goes against it. The result always has U=0, meaning the corner at
// the start of the returned face.
func (p *Prism) Walk(l Loc, forward bool) (Loc, bool) {
	if forward {
		n := p.next[l.Face]
		return Loc{Face: n}, n >= 0
	}
	if l.U > 0 {
		return Loc{Face: l.Face}, true
	}
	n := p.prev[l.Face]
	return Loc{Face: n}, n >= 0
}

// CornerEdge is the prism edge standing at the start of l's face.
func (p *Prism) CornerEdge(l Loc) Edge {
	return p.edges[p.faces[l.Face].From]
}

// UTolerance converts the prism's distance tolerance into face parameter
// units for face f.
func (p *Prism) UTolerance(f int) float64 {
	return p.eps / math.Max(p.edgeLength(f), p.eps)
}
