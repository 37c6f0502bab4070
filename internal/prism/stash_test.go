package prism

import (
	"testing"

	"github.com/osuushi/hullcarve/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(p *Prism) ([]Edge, []Face) {
	return append([]Edge(nil), p.Edges()...), append([]Face(nil), p.Faces()...)
}

func TestStashUntouched(t *testing.T) {
	p := unitSquare()
	edges, faces := snapshot(p)

	unstash := p.Stash([3]geom.Point3{xy(5, 5), xy(6, 5), xy(5, 6)}, 1e-6, 1e-3)
	assert.Equal(t, edges, p.Edges())
	assert.Equal(t, faces, p.Faces())
	unstash()
	assert.Equal(t, edges, p.Edges())
	assert.Equal(t, faces, p.Faces())
}

func TestStashCollinearFace(t *testing.T) {
	p := unitSquare()
	edges, faces := snapshot(p)

	// The triangle's bottom edge runs along the square's bottom face.
	unstash := p.Stash([3]geom.Point3{xy(-1, 0), xy(2, 0), xy(0.5, 3)}, 1e-6, 1e-3)
	for _, e := range p.Edges() {
		if e.Vertex == 0 || e.Vertex == 1 {
			assert.InDelta(t, -1e-3, e.Line.Origin.Y, 1e-12, "bottom corners move out of the prism")
		}
	}
	assert.True(t, p.Contains(xy(0.5, -0.0005)))
	// The edge now passes cleanly through the side faces instead of along one.
	assert.Len(t, p.Crossings(xy(-1, 0), xy(2, 0)), 2)

	unstash()
	assert.Equal(t, edges, p.Edges())
	assert.Equal(t, faces, p.Faces())
}

func TestStashCornerOnEdge(t *testing.T) {
	p := unitSquare()
	edges, faces := snapshot(p)

	// The square's corner (1,1) sits on the triangle's edge from (0,2) to (2,0).
	unstash := p.Stash([3]geom.Point3{xy(2, 0), xy(0, 2), xy(2, 2)}, 1e-6, 1e-3)
	var moved geom.Point3
	for _, e := range p.Edges() {
		if e.Vertex == 2 {
			moved = e.Line.Origin
		}
	}
	require.NotEqual(t, xy(1, 1), moved)
	assert.InDelta(t, 1e-3, geom.Distance(moved, xy(1, 1)), 1e-12)
	assert.Less(t, moved.X+moved.Y, 2.0, "the corner retreats into the square")

	unstash()
	assert.Equal(t, edges, p.Edges())
	assert.Equal(t, faces, p.Faces())
}
