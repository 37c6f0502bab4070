// Package edgeloop stores polygon boundaries as directed edges in an arena.
// Edges refer to each other by index, so splicing a loop is a handful of
// index rewrites and nothing ever holds a pointer into the arena.
//
// The invariant every splice keeps is vertex continuity: whenever a.Next is b,
// a.End equals b.Start and b.Prev is a. Loops are cyclic once an algorithm is
// done with them, but may be open while it is mid-splice.
package edgeloop

import (
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/osuushi/hullcarve/dbg"
	"github.com/pkg/errors"
)

type ID int

// None is the missing link.
const None ID = -1

// Edge is a directed edge between two vertex indices.
type Edge struct {
	Start, End int
	next, prev ID
	removed    bool
}

type Arena struct {
	edges []Edge
}

func New() *Arena {
	return &Arena{}
}

// Add creates an unlinked edge.
func (a *Arena) Add(start, end int) ID {
	a.edges = append(a.edges, Edge{Start: start, End: end, next: None, prev: None})
	return ID(len(a.edges) - 1)
}

// NewLoop links one edge per consecutive vertex pair, closing back to the
// first vertex, and returns the edge leaving vertices[0].
func (a *Arena) NewLoop(vertices []int) ID {
	if len(vertices) == 0 {
		return None
	}
	first := None
	last := None
	for i, v := range vertices {
		id := a.Add(v, vertices[(i+1)%len(vertices)])
		if first == None {
			first = id
		} else {
			a.SetNext(last, id)
		}
		last = id
	}
	a.SetNext(last, first)
	return first
}

func (a *Arena) Start(id ID) int { return a.edges[id].Start }

func (a *Arena) End(id ID) int { return a.edges[id].End }

func (a *Arena) Next(id ID) ID { return a.edges[id].next }

func (a *Arena) Prev(id ID) ID { return a.edges[id].prev }

func (a *Arena) Removed(id ID) bool { return a.edges[id].removed }

func (a *Arena) Len() int { return len(a.edges) }

// SetNext makes next follow id. Whatever previously followed id loses its
// prev link, and whatever previously preceded next loses its next link, so
// both directions stay consistent. Either side may be None.
func (a *Arena) SetNext(id, next ID) {
	if id != None {
		if old := a.edges[id].next; old != None && old != next {
			a.edges[old].prev = None
		}
		a.edges[id].next = next
	}
	if next != None {
		if old := a.edges[next].prev; old != None && old != id {
			a.edges[old].next = None
		}
		a.edges[next].prev = id
	}
}

// SetPrev is SetNext seen from the other end.
func (a *Arena) SetPrev(id, prev ID) {
	if prev != None {
		a.SetNext(prev, id)
		return
	}
	if old := a.edges[id].prev; old != None {
		a.edges[old].next = None
	}
	a.edges[id].prev = None
}

// Split shortens id so that it ends at v and inserts a new edge from v to the
// old end, linked in after id. It returns the new edge.
func (a *Arena) Split(id ID, v int) ID {
	oldEnd := a.edges[id].End
	oldNext := a.edges[id].next
	n := a.Add(v, oldEnd)
	a.edges[id].End = v
	a.SetNext(id, n)
	if oldNext != None {
		a.SetNext(n, oldNext)
	}
	return n
}

// Unlink detaches id from both neighbors, leaving them open.
func (a *Arena) Unlink(id ID) {
	a.SetPrev(id, None)
	a.SetNext(id, None)
}

// Remove unlinks id and drops it from Live and Cycles.
func (a *Arena) Remove(id ID) {
	a.Unlink(id)
	a.edges[id].removed = true
}

// Live lists every edge that has not been removed.
func (a *Arena) Live() []ID {
	var ids []ID
	for i := range a.edges {
		if !a.edges[i].removed {
			ids = append(ids, ID(i))
		}
	}
	return ids
}

// Collect follows next links from start until it comes back around. ok is
// false if the walk falls off an open end.
func (a *Arena) Collect(start ID) (ids []ID, ok bool) {
	id := start
	for {
		ids = append(ids, id)
		id = a.edges[id].next
		if id == None || len(ids) > len(a.edges) {
			return ids, false
		}
		if id == start {
			return ids, true
		}
	}
}

// Vertices returns the start vertex of each edge of the loop through start.
func (a *Arena) Vertices(start ID) ([]int, bool) {
	ids, ok := a.Collect(start)
	vertices := make([]int, len(ids))
	for i, id := range ids {
		vertices[i] = a.edges[id].Start
	}
	return vertices, ok
}

// Cycles splits the live edges into closed loops, returned as vertex lists.
func (a *Arena) Cycles() ([][]int, error) {
	seen := make(map[ID]bool)
	var cycles [][]int
	for _, id := range a.Live() {
		if seen[id] {
			continue
		}
		ids, ok := a.Collect(id)
		if !ok {
			return nil, errors.Errorf("edge %s does not close into a loop", dbg.Name(edgeKey{a, id}))
		}
		cycle := make([]int, len(ids))
		for i, e := range ids {
			seen[e] = true
			cycle[i] = a.edges[e].Start
		}
		cycles = append(cycles, cycle)
	}
	return cycles, nil
}

// Check verifies vertex continuity and link symmetry over all live edges.
func (a *Arena) Check() error {
	for _, id := range a.Live() {
		e := a.edges[id]
		if e.next != None {
			n := a.edges[e.next]
			if n.Start != e.End {
				return errors.Errorf("edge %d ends at %d but next edge %d starts at %d", id, e.End, e.next, n.Start)
			}
			if n.prev != id {
				return errors.Errorf("edge %d links to %d, which links back to %d", id, e.next, n.prev)
			}
		}
		if e.prev != None && a.edges[e.prev].next != id {
			return errors.Errorf("edge %d has prev %d, which does not link forward to it", id, e.prev)
		}
	}
	return nil
}

type edgeKey struct {
	arena *Arena
	id    ID
}

func (a *Arena) name(id ID) string {
	if id == None {
		return "Ø"
	}
	return dbg.Name(edgeKey{a, id})
}

// String dumps the arena for debugging. Open ends are highlighted.
func (a *Arena) String() string {
	var lines []string
	for _, id := range a.Live() {
		e := a.edges[id]
		line := fmt.Sprintf("%s %d→%d next:%s prev:%s", a.name(id), e.Start, e.End, a.name(e.next), a.name(e.prev))
		if e.next == None || e.prev == None {
			line = aurora.Red(line).String()
		} else {
			line = aurora.Green(line).String()
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
