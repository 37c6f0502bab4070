package geom

import "math"

// PositionNormal is the canonical per-vertex record used while carving. Two
// records closer than the store's epsilon in both position and normal are the
// same vertex.
type PositionNormal struct {
	Position Point3
	Normal   Point3
}

// Positions is anything that can turn a vertex index into a position.
type Positions interface {
	Position(i int) Point3
}

// PointList is a plain slice of points addressed by index.
type PointList []Point3

func (l PointList) Position(i int) Point3 { return l[i] }

type cellKey struct{ x, y, z int64 }

// VertexStore accumulates PositionNormal records for one hull face. New cut
// vertices that land on an existing record reuse its index, which is what
// keeps neighboring triangles sharing vertices along a cut.
type VertexStore struct {
	records []PositionNormal
	eps     float64
	cell    float64
	grid    map[cellKey][]int
}

func NewVertexStore(eps float64) *VertexStore {
	if eps <= 0 {
		eps = Tolerance
	}
	return &VertexStore{
		eps:  eps,
		cell: eps * 16,
		grid: make(map[cellKey][]int),
	}
}

func (s *VertexStore) key(p Point3) cellKey {
	return cellKey{
		int64(math.Floor(p.X / s.cell)),
		int64(math.Floor(p.Y / s.cell)),
		int64(math.Floor(p.Z / s.cell)),
	}
}

// Intern returns the index of the record matching (p, n), adding one if none
// is within epsilon.
func (s *VertexStore) Intern(p, n Point3) int {
	if i, ok := s.Find(p, n); ok {
		return i
	}
	i := len(s.records)
	s.records = append(s.records, PositionNormal{Position: p, Normal: n})
	k := s.key(p)
	s.grid[k] = append(s.grid[k], i)
	return i
}

// Find looks for an existing record without adding one.
func (s *VertexStore) Find(p, n Point3) (int, bool) {
	k := s.key(p)
	best, bestDist := -1, math.Inf(1)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				for _, i := range s.grid[cellKey{k.x + dx, k.y + dy, k.z + dz}] {
					r := s.records[i]
					d := Distance(r.Position, p)
					if d > s.eps || Distance(r.Normal, n) > s.eps {
						continue
					}
					if d < bestDist {
						best, bestDist = i, d
					}
				}
			}
		}
	}
	return best, best >= 0
}

func (s *VertexStore) Position(i int) Point3 { return s.records[i].Position }

func (s *VertexStore) Normal(i int) Point3 { return s.records[i].Normal }

func (s *VertexStore) Record(i int) PositionNormal { return s.records[i] }

func (s *VertexStore) Len() int { return len(s.records) }
