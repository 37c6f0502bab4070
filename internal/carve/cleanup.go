package carve

import (
	"github.com/osuushi/hullcarve/internal/geom"
)

// MergeCollinear removes boundary points that do not change the loop's
// direction: repeated vertices, points whose two edges have a direction dot
// product above cos, and spikes whose edges run back on each other just as
// closely. Loops that collapse below three points come back nil.
//
// Only use it on a loop whose points nothing else shares yet, such as a face
// polygon or marking outline before cutting.
func MergeCollinear(pos geom.Positions, loop []int, cos, eps float64) []int {
	return prune(pos, loop, eps, func(a, b, c geom.Point3) bool {
		d := geom.Dot(geom.Unit(geom.Sub(b, a)), geom.Unit(geom.Sub(c, b)))
		return d > cos || d < -cos
	})
}

// DropRepeats removes repeated vertices and zero width spikes and leaves
// every other point alone, so a loop whose edges are shared with neighboring
// triangles keeps the exact outline they see.
func DropRepeats(pos geom.Positions, loop []int, eps float64) []int {
	return prune(pos, loop, eps, nil)
}

func prune(pos geom.Positions, loop []int, eps float64, straight func(a, b, c geom.Point3) bool) []int {
	out := append([]int(nil), loop...)
	for changed := true; changed; {
		changed = false
		for i := 0; i < len(out) && len(out) >= 3; {
			n := len(out)
			ia, ib, ic := out[(i+n-1)%n], out[i], out[(i+1)%n]
			a, b, c := pos.Position(ia), pos.Position(ib), pos.Position(ic)
			drop := ia == ib || geom.Distance(a, b) <= eps
			if !drop {
				// a, b, a: the walk goes out to b and straight back.
				drop = ia == ic || geom.Distance(a, c) <= eps
			}
			if !drop && straight != nil && ib != ic && geom.Distance(b, c) > eps {
				drop = straight(a, b, c)
			}
			if !drop {
				i++
				continue
			}
			out = append(out[:i], out[i+1:]...)
			changed = true
		}
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

// DropSlivers filters out triangles whose height over their longest edge is
// at most eps.
func DropSlivers(pos geom.Positions, tris []geom.Triangle, eps float64) []geom.Triangle {
	out := make([]geom.Triangle, 0, len(tris))
	for _, t := range tris {
		if !isSliver(pos, t, eps) {
			out = append(out, t)
		}
	}
	return out
}

func isSliver(pos geom.Positions, t geom.Triangle, eps float64) bool {
	a, b, c := t.Corners(pos)
	longest := 0.0
	for _, l := range [3]float64{geom.Distance(a, b), geom.Distance(b, c), geom.Distance(c, a)} {
		if l > longest {
			longest = l
		}
	}
	if longest <= eps {
		return true
	}
	return 2*geom.TriangleArea(a, b, c)/longest <= eps
}
