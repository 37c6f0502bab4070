// Package facemesh runs the whole carve for one hull face. It triangulates
// the face polygon, cuts every marking into it in priority order and
// assembles the carved surface and the marking patches as two meshes.
//
// A face owns everything it builds: its vertex store, cutter and prisms are
// created here and dropped on return, so separate faces can be built in
// parallel.
package facemesh

import (
	"github.com/osuushi/hullcarve/internal/carve"
	"github.com/osuushi/hullcarve/internal/geom"
	"github.com/osuushi/hullcarve/internal/outline"
	"github.com/osuushi/hullcarve/internal/prism"
	"github.com/paulmach/orb"
)

type Marking struct {
	Outline  []geom.Point3
	Material int
}

type Face struct {
	Index    int
	Points   []geom.Point3 // polygon ring in winding order
	Normal   geom.Point3   // zero to take it from Points
	Shaded   bool
	Material int
	Markings []Marking // lowest priority first
}

type Result struct {
	Base    Mesh // hull surface left after carving
	Marking Mesh // every marking patch
}

// layer is one simple piece of a marking outline.
type layer struct {
	prism    *prism.Prism
	material int
}

type builder struct {
	face   Face
	cfg    carve.Config
	store  *geom.VertexStore
	cutter *carve.Cutter
	normal geom.Point3
	basis  geom.Basis
	bound  orb.Bound
}

// Build carves f. Recoverable problems go to report; internal consistency
// failures panic with a *carve.CarveError.
func Build(f Face, cfg carve.Config, report carve.Reporter) Result {
	cfg = cfg.WithDefaults()
	store := geom.NewVertexStore(cfg.MergeEpsilon)
	b := &builder{
		face:   f,
		cfg:    cfg,
		store:  store,
		cutter: carve.NewCutter(store, cfg, report),
	}
	b.cutter.SetFace(f.Index)
	empty := Result{Base: Mesh{Shaded: f.Shaded}, Marking: Mesh{Shaded: f.Shaded}}

	if len(f.Points) < 3 {
		b.cutter.Diagnose(carve.DegeneratePlane, "face polygon has %d points", len(f.Points))
		return empty
	}
	normal := f.Normal
	if !geom.IsFinite(normal) || geom.Length(normal) <= cfg.Epsilon {
		normal = geom.PolygonNormal(f.Points)
	}
	if geom.Length(normal) <= cfg.Epsilon {
		b.cutter.Diagnose(carve.DegeneratePlane, "face polygon has no area")
		return empty
	}
	b.normal = geom.Unit(normal)
	b.basis = geom.NewBasis(b.normal, f.Points[0])
	b.bound = b.project(f.Points).Bound()

	retained := b.triangulateFace()
	retained, marked := b.resolve(retained, b.layers())
	return Result{
		Base:    b.mesh(carve.DropSlivers(store, retained, cfg.Epsilon)),
		Marking: b.mesh(carve.DropSlivers(store, marked, cfg.Epsilon)),
	}
}

func (b *builder) project(points []geom.Point3) orb.MultiPoint {
	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		q := b.basis.Project(p)
		mp[i] = orb.Point{q.X, q.Y}
	}
	return mp
}

func (b *builder) triangulateFace() []geom.Triangle {
	ring := b.face.Points
	loop := make([]int, len(ring))
	for i, p := range ring {
		loop[i] = b.store.Intern(p, b.normal)
	}
	if b.basis.Ring(ring).Orientation() == orb.CW {
		for i, j := 0, len(loop)-1; i < j; i, j = i+1, j-1 {
			loop[i], loop[j] = loop[j], loop[i]
		}
	}
	loop = carve.MergeCollinear(b.store, loop, b.cfg.CollinearCos, b.cfg.MergeEpsilon)
	if loop == nil {
		b.cutter.Diagnose(carve.DegeneratePlane, "face polygon collapses once straight points are merged")
		return nil
	}
	tris, relaxed := carve.WindLoop(b.store, loop, b.normal, b.face.Material, b.cfg)
	if relaxed {
		b.cutter.Diagnose(carve.EarFallback, "face polygon of %d vertices needed relaxed ears", len(loop))
	}
	return tris
}

func (b *builder) layers() []layer {
	var layers []layer
	for mi, m := range b.face.Markings {
		out := outline.Prepare(m.Outline, b.normal, b.cfg)
		if out.Split {
			b.cutter.Diagnose(carve.OutlineSplit, "marking %d crossed itself and became %d pieces", mi, len(out.Pieces))
		}
		if out.Relaxed > 0 {
			b.cutter.Diagnose(carve.EarFallback, "marking %d: %d pieces needed relaxed ears", mi, out.Relaxed)
		}
		for _, piece := range out.Pieces {
			p := piece.Prism(b.normal, b.cfg.Epsilon)
			b.cutter.CheckPrism(p)
			layers = append(layers, layer{prism: p, material: m.Material})
		}
	}
	return layers
}

// resolve applies layers in order. Each layer cuts the remaining hull and
// also every patch laid down before it, taking over whatever part of those
// patches it covers.
func (b *builder) resolve(retained []geom.Triangle, layers []layer) (base, marked []geom.Triangle) {
	for _, l := range layers {
		var keep, claimed []geom.Triangle
		for _, t := range retained {
			r := b.cutter.CutTriangle(t, l.prism, l.material)
			keep = append(keep, r.Retained...)
			claimed = append(claimed, r.Marking...)
		}
		for _, t := range marked {
			r := b.cutter.CutTriangle(t, l.prism, l.material)
			claimed = append(claimed, r.Retained...)
			claimed = append(claimed, r.Marking...)
		}
		retained, marked = keep, claimed
	}
	return retained, marked
}
