// Package outline turns marking records into simple, triangulated outlines
// ready to become cutter prisms. A record places each outline point relative
// to the hull polygon's own vertices; the resulting ring may cross itself and
// is split into simple pieces first.
package outline

import (
	"fmt"

	"github.com/osuushi/hullcarve/internal/geom"
	"github.com/pkg/errors"
)

type MarkType int

const (
	MarkTriangle MarkType = iota
	MarkQuad
	MarkPolygon
)

func (t MarkType) String() string {
	switch t {
	case MarkTriangle:
		return "triangle"
	case MarkQuad:
		return "quad"
	case MarkPolygon:
		return "polygon"
	}
	return fmt.Sprintf("MarkType(%d)", int(t))
}

// Check validates a point count for the mark type.
func (t MarkType) Check(n int) error {
	switch t {
	case MarkTriangle:
		if n != 3 {
			return errors.Errorf("triangle mark needs 3 points, got %d", n)
		}
	case MarkQuad:
		if n != 4 {
			return errors.Errorf("quad mark needs 4 points, got %d", n)
		}
	case MarkPolygon:
		if n < 3 {
			return errors.Errorf("polygon mark needs at least 3 points, got %d", n)
		}
	default:
		return errors.Errorf("unknown mark type %d", int(t))
	}
	return nil
}

// Point is one outline point: the hull vertex at Anchor, pulled toward its
// previous neighbor by Left and toward its next neighbor by Right.
type Point struct {
	Anchor      int
	Left, Right float64
}

type Record struct {
	Type   MarkType
	Points []Point
}

// Resolve computes the record's outline over the hull polygon ring.
func (r Record) Resolve(hull []geom.Point3) ([]geom.Point3, error) {
	if err := r.Type.Check(len(r.Points)); err != nil {
		return nil, err
	}
	n := len(hull)
	ring := make([]geom.Point3, len(r.Points))
	for i, p := range r.Points {
		if p.Anchor < 0 || p.Anchor >= n {
			return nil, errors.Errorf("point %d anchors to vertex %d of a %d vertex polygon", i, p.Anchor, n)
		}
		v := hull[p.Anchor]
		prev := hull[geom.CircularIndex(p.Anchor-1, n)]
		next := hull[geom.CircularIndex(p.Anchor+1, n)]
		ring[i] = geom.Add(v, geom.Add(
			geom.Scale(p.Left, geom.Sub(prev, v)),
			geom.Scale(p.Right, geom.Sub(next, v)),
		))
	}
	return ring, nil
}
