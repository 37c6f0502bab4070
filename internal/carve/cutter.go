package carve

import (
	"fmt"

	"github.com/osuushi/hullcarve/internal/edgeloop"
	"github.com/osuushi/hullcarve/internal/geom"
	"github.com/osuushi/hullcarve/internal/prism"
)

// Cutter carves the triangles of one hull face against marking prisms. New
// vertices all go through the face's VertexStore, so two triangles sharing an
// edge also share the vertices a cut puts on it.
type Cutter struct {
	cfg    Config
	store  *geom.VertexStore
	report Reporter
	face   int
}

// NewCutter makes a Cutter over store. Zero fields in cfg take their default
// value, and a nil report discards diagnostics.
func NewCutter(store *geom.VertexStore, cfg Config, report Reporter) *Cutter {
	if report == nil {
		report = discard{}
	}
	return &Cutter{
		cfg:    cfg.WithDefaults(),
		store:  store,
		report: report,
		face:   -1,
	}
}

// SetFace tags later diagnostics with a hull face index.
func (c *Cutter) SetFace(face int) {
	c.face = face
}

// Diagnose reports a problem tagged with the current face.
func (c *Cutter) Diagnose(kind Kind, format string, args ...interface{}) {
	c.report.Report(Diagnostic{Kind: kind, Face: c.face, Message: fmt.Sprintf(format, args...)})
}

// CheckPrism reports every prism face that came out without a plane. The
// prism is still usable; those faces are skipped by its queries.
func (c *Cutter) CheckPrism(p *prism.Prism) {
	for _, f := range p.Degenerate() {
		face := p.Face(f)
		c.Diagnose(DegeneratePlane, "prism triangle %d side %d has a zero length edge", face.Tri, face.Side)
	}
}

// Result is the outcome of cutting one triangle: what stays hull, and what
// the marking takes over.
type Result struct {
	Retained []geom.Triangle
	Marking  []geom.Triangle
}

// NeedsCut reports whether the prism touches tri at all: one of its edges
// crosses the silhouette, the silhouette dips inside it, or the prism
// swallows it whole.
func (c *Cutter) NeedsCut(tri geom.Triangle, p *prism.Prism) bool {
	k, ok := c.begin(tri, p)
	if !ok {
		return false
	}
	unstash := p.Stash(k.corners, c.cfg.StashTolerance, c.cfg.StashOffset)
	defer unstash()
	return k.needsCut()
}

// CutTriangle splits tri into the part outside the prism, which keeps tri's
// material, and the part inside it, which gets material. A triangle the prism
// does not touch comes back unchanged as the only retained triangle.
//
// The prism is stashed against tri for the duration of the call and restored
// before it returns, including when it panics.
func (c *Cutter) CutTriangle(tri geom.Triangle, p *prism.Prism, material int) Result {
	unchanged := Result{Retained: []geom.Triangle{tri}}
	k, ok := c.begin(tri, p)
	if !ok {
		return unchanged
	}
	unstash := p.Stash(k.corners, c.cfg.StashTolerance, c.cfg.StashOffset)
	defer unstash()

	if !k.needsCut() {
		return unchanged
	}
	k.refine()
	k.classify()
	k.findEnclosed()

	retained, ok := k.assemble(false, tri.Material)
	if !ok {
		return unchanged
	}
	marking, ok := k.assemble(true, material)
	if !ok {
		return unchanged
	}
	return Result{Retained: retained, Marking: marking}
}

// cut is the state of one CutTriangle call.
type cut struct {
	*Cutter
	p       *prism.Prism
	tri     geom.Triangle
	corners [3]geom.Point3
	normal  geom.Point3 // geometric normal of tri
	plane   geom.Plane
	record  geom.Point3 // normal stored with new vertices

	ring     []int // tri's boundary after splitting at every crossing
	inside   []bool
	locs     map[int]prism.Loc
	enclosed [][]int
}

func (c *Cutter) begin(tri geom.Triangle, p *prism.Prism) (*cut, bool) {
	a, b, cc := tri.Corners(c.store)
	normal := geom.TriangleNormal(a, b, cc)
	if !geom.IsFinite(normal) {
		return nil, false
	}
	return &cut{
		Cutter:  c,
		p:       p,
		tri:     tri,
		corners: [3]geom.Point3{a, b, cc},
		normal:  normal,
		plane:   geom.PlaneFromNormal(normal, a),
		record:  c.store.Normal(tri.V[0]),
		locs:    make(map[int]prism.Loc),
	}, true
}

func (k *cut) at(v int) geom.Point3 {
	return k.store.Position(v)
}

func (k *cut) intern(p geom.Point3) int {
	return k.store.Intern(p, k.record)
}

func (k *cut) positions(loop []int) []geom.Point3 {
	points := make([]geom.Point3, len(loop))
	for i, v := range loop {
		points[i] = k.at(v)
	}
	return points
}

// cornerPoint is where the prism edge at the start of face f pierces the
// triangle's plane.
func (k *cut) cornerPoint(f int) geom.Point3 {
	l := k.p.Edge(k.p.Face(f).From).Line
	if t, ok := l.IntersectPlane(k.plane); ok {
		return l.At(t)
	}
	return k.plane.Project(l.Origin)
}

func (k *cut) needsCut() bool {
	a, b, c := k.corners[0], k.corners[1], k.corners[2]
	for i := 0; i < 3; i++ {
		if len(k.p.Crossings(k.corners[i], k.corners[(i+1)%3])) > 0 {
			return true
		}
	}
	for _, cycle := range k.p.Cycles() {
		for _, f := range cycle {
			if geom.PointInTriangle(k.cornerPoint(f), a, b, c, k.normal, k.cfg.Epsilon) {
				return true
			}
		}
	}
	centroid := geom.Scale(1.0/3, geom.Add(geom.Add(a, b), c))
	return k.p.Contains(centroid)
}

// refine walks the triangle's boundary, splitting each edge wherever it
// crosses the silhouette, until it is back at the first edge.
func (k *cut) refine() {
	arena := edgeloop.New()
	start := arena.NewLoop(k.tri.V[:])
	recent := make(prism.FaceSet)
	limit := 4 * (len(k.p.Faces()) + 3)

	cur := start
	for steps := 0; ; steps++ {
		if steps > limit {
			fatalf("splitting triangle %v did not come back around after %d steps:\n%s", k.tri.V, steps, arena)
		}
		from, to := arena.Start(cur), arena.End(cur)
		hit, ok := k.p.FirstCrossing(k.at(from), k.at(to), recent)
		if ok {
			v := k.intern(hit.Point)
			if v == from || v == to {
				// Snapped onto an endpoint: not a real split. Look past this face.
				recent.Add(hit.Wall)
				continue
			}
			k.locs[v] = hit.Loc
			recent = make(prism.FaceSet)
			recent.Add(hit.Wall)
			cur = arena.Split(cur, v)
			continue
		}
		recent.Clear()
		cur = arena.Next(cur)
		if cur == start {
			break
		}
	}

	ring, ok := arena.Vertices(start)
	if !ok {
		fatalf("split loop of triangle %v is open:\n%s", k.tri.V, arena)
	}
	k.ring = ring
}

// classify marks each ring edge by whether its midpoint is inside the prism.
func (k *cut) classify() {
	n := len(k.ring)
	k.inside = make([]bool, n)
	for i, v := range k.ring {
		mid := geom.Midpoint(k.at(v), k.at(k.ring[(i+1)%n]))
		k.inside[i] = k.p.Contains(mid)
	}
}

// findEnclosed collects silhouette loops that lie inside the triangle without
// touching its boundary. Each comes back as interned corner vertices, wound
// counterclockwise about the triangle's normal.
func (k *cut) findEnclosed() {
	touched := make(map[int]bool)
	for _, l := range k.locs {
		touched[k.p.Face(l.Face).Cycle] = true
	}
	for _, v := range k.corners {
		if l, ok := k.p.Locate(v); ok {
			touched[k.p.Face(l.Face).Cycle] = true
		}
	}

	a, b, c := k.corners[0], k.corners[1], k.corners[2]
	flip := geom.Dot(k.p.Direction(), k.normal) < 0
	for ci, cycle := range k.p.Cycles() {
		if touched[ci] || len(cycle) < 3 || k.p.Next(cycle[len(cycle)-1]) != cycle[0] {
			continue
		}
		in := false
		for _, f := range cycle {
			if geom.PointInTriangle(k.cornerPoint(f), a, b, c, k.normal, k.cfg.Epsilon) {
				in = true
				break
			}
		}
		if !in {
			continue
		}
		loop := make([]int, len(cycle))
		for i, f := range cycle {
			loop[i] = k.intern(k.cornerPoint(f))
		}
		if flip {
			reverse(loop)
		}
		k.enclosed = append(k.enclosed, loop)
	}
}

// assemble builds the triangles on one side of the prism: outside it when
// keepInside is false, inside it otherwise. ok is false when an enclosed
// silhouette could not be bridged, in which case the triangle should be left
// as it was.
func (k *cut) assemble(keepInside bool, material int) (tris []geom.Triangle, ok bool) {
	alive := 0
	for _, in := range k.inside {
		if in == keepInside {
			alive++
		}
	}

	var loops [][]int
	switch {
	case alive == len(k.ring) && keepInside:
		t := k.tri
		t.Material = material
		return []geom.Triangle{t}, true
	case alive == len(k.ring):
		if len(k.enclosed) == 0 {
			return []geom.Triangle{k.tri}, true
		}
		loops = [][]int{k.ring}
	case alive > 0:
		loops = k.solveGaps(keepInside)
	}

	if keepInside {
		loops = append(loops, k.enclosed...)
		return k.wind(loops, material), true
	}
	if alive == 0 {
		return nil, true
	}

	var quads []geom.Triangle
	if len(k.enclosed) > 0 {
		loops, quads, ok = k.bridgeHoles(loops, material)
		if !ok {
			return nil, false
		}
	}
	return append(quads, k.wind(loops, material)...), true
}

// wind triangulates the loops of one side. Every loop point is on the
// triangle's edges, the silhouette or a bridge quad, and is used by triangles
// outside the loop too, so only repeats and spikes are dropped.
func (k *cut) wind(loops [][]int, material int) []geom.Triangle {
	var tris []geom.Triangle
	for _, loop := range loops {
		loop = DropRepeats(k.store, loop, k.cfg.MergeEpsilon)
		if loop == nil {
			continue
		}
		t, relaxed := WindLoop(k.store, loop, k.normal, material, k.cfg)
		if relaxed {
			k.Diagnose(EarFallback, "loop of %d vertices in triangle %v needed relaxed ears", len(loop), k.tri.V)
		}
		tris = append(tris, t...)
	}
	return DropSlivers(k.store, tris, k.cfg.Epsilon)
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
