package prism

// FaceSet is per-carve state for FirstCrossing: the faces already split on at
// the walk's current vertex. It belongs to the caller so that one prism can
// serve many carves.
type FaceSet map[int]struct{}

func (s FaceSet) Add(f int) {
	s[f] = struct{}{}
}

func (s FaceSet) Has(f int) bool {
	_, ok := s[f]
	return ok
}

func (s FaceSet) Clear() {
	for f := range s {
		delete(s, f)
	}
}
