package outline

import (
	"math"

	"github.com/osuushi/hullcarve/internal/geom"
	"gonum.org/v1/gonum/spatial/r2"
)

// Split breaks a ring into simple rings. Crossings are found in the plane
// seen along normal, but the point inserted at a crossing is the midpoint of
// the two edges' closest approach in 3D, so an outline that is not quite flat
// keeps its shape.
//
// A ring crossing itself at edges i and j (i < j) becomes
//
//	r[0..i], x, r[j+1..]   and   x, r[i+1..j]
//
// which between them have two more points than the original. Both are
// strictly shorter than it, so the worklist drains.
func Split(ring []geom.Point3, normal geom.Point3) [][]geom.Point3 {
	if len(ring) < 3 {
		return nil
	}
	basis := geom.NewBasis(normal, ring[0])

	work := [][]geom.Point3{ring}
	var done [][]geom.Point3
	for len(work) > 0 {
		r := work[len(work)-1]
		work = work[:len(work)-1]

		i, j, ok := firstCrossing(basis, r)
		if !ok {
			done = append(done, r)
			continue
		}
		x := crossingPoint(basis, r, i, j)

		a := make([]geom.Point3, 0, len(r)+1+i-j)
		a = append(a, r[:i+1]...)
		a = append(a, x)
		a = append(a, r[j+1:]...)

		b := make([]geom.Point3, 0, 1+j-i)
		b = append(b, x)
		b = append(b, r[i+1:j+1]...)

		for _, piece := range [2][]geom.Point3{a, b} {
			if len(piece) >= 3 {
				work = append(work, piece)
			}
		}
	}

	// The worklist pops from the end; put pieces back in discovery order.
	for i, j := 0, len(done)-1; i < j; i, j = i+1, j-1 {
		done[i], done[j] = done[j], done[i]
	}
	return done
}

// Simple reports whether no two non-adjacent edges of the ring cross.
func Simple(ring []geom.Point3, normal geom.Point3) bool {
	if len(ring) < 3 {
		return true
	}
	_, _, found := firstCrossing(geom.NewBasis(normal, ring[0]), ring)
	return !found
}

func firstCrossing(basis geom.Basis, r []geom.Point3) (i, j int, ok bool) {
	n := len(r)
	flat := make([]r2.Vec, n)
	for k, p := range r {
		flat[k] = basis.Project(p)
	}
	for i = 0; i < n; i++ {
		for j = i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			if crosses(flat[i], flat[(i+1)%n], flat[j], flat[(j+1)%n]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// crosses is a strict test: segments that only touch do not cross.
func crosses(a, b, c, d r2.Vec) bool {
	d1 := r2.Cross(r2.Sub(b, a), r2.Sub(c, a))
	d2 := r2.Cross(r2.Sub(b, a), r2.Sub(d, a))
	d3 := r2.Cross(r2.Sub(d, c), r2.Sub(a, c))
	d4 := r2.Cross(r2.Sub(d, c), r2.Sub(b, c))
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func crossingPoint(basis geom.Basis, r []geom.Point3, i, j int) geom.Point3 {
	n := len(r)
	e1 := geom.Segment(r[i], r[(i+1)%n])
	e2 := geom.Segment(r[j], r[(j+1)%n])
	t1, t2, ok := geom.ClosestParams(e1, e2)
	if !ok {
		// Parallel in 3D but crossing in projection: take the 2D crossing.
		a, b := basis.Project(e1.Origin), basis.Project(e1.End())
		c, d := basis.Project(e2.Origin), basis.Project(e2.End())
		den := r2.Cross(r2.Sub(b, a), r2.Sub(d, c))
		t1 = r2.Cross(r2.Sub(c, a), r2.Sub(d, c)) / den
		return e1.At(t1)
	}
	t1 = math.Max(0, math.Min(1, t1))
	t2 = math.Max(0, math.Min(1, t2))
	return geom.Midpoint(e1.At(t1), e2.At(t2))
}
