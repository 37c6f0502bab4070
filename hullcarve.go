// Carves decals into the flat hull faces of starship models.
//
// A hull face is a planar polygon. A marking is an outline laid over it,
// usually given relative to the face polygon's own vertices. Carving splits
// each face into the hull surface the markings leave behind and the marking
// patches themselves, as two triangle meshes that never overlap. Later
// markings on a face win over earlier ones.
package hullcarve

import (
	"log"
	"sort"

	"github.com/osuushi/hullcarve/internal/carve"
	"github.com/osuushi/hullcarve/internal/facemesh"
	"github.com/osuushi/hullcarve/internal/geom"
	"github.com/osuushi/hullcarve/internal/outline"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type Point3 = geom.Point3
type MarkType = outline.MarkType
type OutlinePoint = outline.Point
type Diagnostic = carve.Diagnostic
type MeshData = facemesh.Mesh
type FaceMesh = facemesh.Result

const (
	MarkTriangle = outline.MarkTriangle
	MarkQuad     = outline.MarkQuad
	MarkPolygon  = outline.MarkPolygon
)

type Model struct {
	Vertices []Point3
	Faces    []Face
}

type Face struct {
	Polygon  []int  // indices into Model.Vertices, in winding order
	Normal   Point3 // zero to derive it from the polygon
	Shaded   bool
	Material int
	Markings []Marking // lowest priority first
}

// Marking is either a record over the face polygon (Type and Points) or an
// explicit Outline in model space. Outline wins when both are set.
type Marking struct {
	Type     MarkType
	Points   []OutlinePoint
	Outline  []Point3
	Material int
}

type Result struct {
	Faces []FaceMesh
	// Center is the middle of the model's bounding box. It has been
	// subtracted from every output position.
	Center      Point3
	Diagnostics []Diagnostic
}

// Carve processes every face of the model. Faces are independent and are
// carved in parallel, up to cfg.Workers at a time.
//
// Geometric trouble that only affects part of a face is reported in
// Result.Diagnostics. An error means a face could not be carved at all,
// either because the model is invalid or because the carve hit an internal
// inconsistency.
func Carve(model *Model, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	diags := &carve.Collector{}
	faces := make([]FaceMesh, len(model.Faces))

	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for i := range model.Faces {
		i := i
		g.Go(func() error {
			fm, err := carveFace(model, i, cfg.Config, diags)
			faces[i] = fm
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		Faces:       faces,
		Center:      model.Center(),
		Diagnostics: diags.Diagnostics(),
	}
	offset := geom.Scale(-1, result.Center)
	for i := range result.Faces {
		result.Faces[i].Base.Translate(offset)
		result.Faces[i].Marking.Translate(offset)
	}
	// Each face reports from a single goroutine, so a stable sort keeps every
	// face's own order.
	sort.SliceStable(result.Diagnostics, func(a, b int) bool {
		return result.Diagnostics[a].Face < result.Diagnostics[b].Face
	})
	logDiagnostics(cfg, result.Diagnostics)
	return result, nil
}

// CarveFace processes a single face. Positions are left in model space.
func CarveFace(model *Model, face int, cfg Config) (FaceMesh, []Diagnostic, error) {
	cfg = cfg.withDefaults()
	diags := &carve.Collector{}
	fm, err := carveFace(model, face, cfg.Config, diags)
	logDiagnostics(cfg, diags.Diagnostics())
	return fm, diags.Diagnostics(), err
}

func carveFace(model *Model, i int, cfg carve.Config, report carve.Reporter) (result FaceMesh, err error) {
	defer func() {
		recoveredErr := carve.HandlePanicRecover(recover())
		if recoveredErr != nil {
			result = FaceMesh{}
			err = errors.Wrapf(recoveredErr, "carving face %d", i)
		}
	}()
	f, err := model.resolveFace(i)
	if err != nil {
		return FaceMesh{}, err
	}
	return facemesh.Build(f, cfg, report), nil
}

func logDiagnostics(cfg Config, diags []Diagnostic) {
	if !cfg.Verbose {
		return
	}
	for _, d := range diags {
		log.Printf("hullcarve: %s", d)
	}
}

// Center is the middle of the bounding box of all vertices.
func (m *Model) Center() Point3 {
	if len(m.Vertices) == 0 {
		return Point3{}
	}
	lo, hi := m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		lo = Point3{X: min(lo.X, v.X), Y: min(lo.Y, v.Y), Z: min(lo.Z, v.Z)}
		hi = Point3{X: max(hi.X, v.X), Y: max(hi.Y, v.Y), Z: max(hi.Z, v.Z)}
	}
	return geom.Midpoint(lo, hi)
}

// resolveFace looks up the face's points and turns every marking into an
// outline ring.
func (m *Model) resolveFace(i int) (facemesh.Face, error) {
	if i < 0 || i >= len(m.Faces) {
		return facemesh.Face{}, errors.Errorf("face %d out of range (%d faces)", i, len(m.Faces))
	}
	src := m.Faces[i]
	points := make([]Point3, len(src.Polygon))
	for k, v := range src.Polygon {
		if v < 0 || v >= len(m.Vertices) {
			return facemesh.Face{}, errors.Errorf("face %d: vertex %d out of range (%d vertices)", i, v, len(m.Vertices))
		}
		points[k] = m.Vertices[v]
	}

	f := facemesh.Face{
		Index:    i,
		Points:   points,
		Normal:   src.Normal,
		Shaded:   src.Shaded,
		Material: src.Material,
	}
	for k, mark := range src.Markings {
		ring := mark.Outline
		if ring == nil {
			var err error
			ring, err = outline.Record{Type: mark.Type, Points: mark.Points}.Resolve(points)
			if err != nil {
				return facemesh.Face{}, errors.Wrapf(err, "face %d marking %d", i, k)
			}
		}
		f.Markings = append(f.Markings, facemesh.Marking{Outline: ring, Material: mark.Material})
	}
	return f, nil
}
