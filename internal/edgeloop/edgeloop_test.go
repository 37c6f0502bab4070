package edgeloop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoop(t *testing.T) {
	a := New()
	start := a.NewLoop([]int{4, 5, 6})
	ids, ok := a.Collect(start)
	require.True(t, ok)
	require.Len(t, ids, 3)

	vertices, ok := a.Vertices(start)
	require.True(t, ok)
	assert.Equal(t, []int{4, 5, 6}, vertices)
	assert.Equal(t, 6, a.Start(a.Prev(start)))
	assert.NoError(t, a.Check())

	assert.Equal(t, None, New().NewLoop(nil))
}

func TestSetNextUnlinksOldNeighbors(t *testing.T) {
	a := New()
	e1 := a.Add(0, 1)
	e2 := a.Add(1, 2)
	e3 := a.Add(1, 3)

	a.SetNext(e1, e2)
	assert.Equal(t, e2, a.Next(e1))
	assert.Equal(t, e1, a.Prev(e2))

	a.SetNext(e1, e3)
	assert.Equal(t, e3, a.Next(e1))
	assert.Equal(t, e1, a.Prev(e3))
	assert.Equal(t, None, a.Prev(e2), "the old successor loses its back link")

	e0 := a.Add(9, 1)
	a.SetPrev(e3, e0)
	assert.Equal(t, None, a.Next(e1), "the old predecessor loses its forward link")
	assert.Equal(t, e3, a.Next(e0))

	a.SetPrev(e3, None)
	assert.Equal(t, None, a.Next(e0))
	assert.Equal(t, None, a.Prev(e3))
}

func TestSplit(t *testing.T) {
	a := New()
	start := a.NewLoop([]int{0, 1, 2})
	n := a.Split(start, 7)

	assert.Equal(t, 7, a.End(start))
	assert.Equal(t, 7, a.Start(n))
	assert.Equal(t, 1, a.End(n))
	vertices, ok := a.Vertices(start)
	require.True(t, ok)
	assert.Equal(t, []int{0, 7, 1, 2}, vertices)
	assert.NoError(t, a.Check())
}

func TestRemoveAndCycles(t *testing.T) {
	a := New()
	a.NewLoop([]int{0, 1, 2})
	second := a.NewLoop([]int{3, 4, 5, 6})

	cycles, err := a.Cycles()
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4, 5, 6}}, cycles)

	// Cut vertex 4 out of the second loop by hand.
	doomed := a.Next(second)
	before, after := a.Prev(second), a.Next(doomed)
	a.Remove(second)
	_, err = a.Cycles()
	assert.Error(t, err, "an open loop is reported")

	a.Remove(doomed)
	joined := a.Add(a.End(before), a.Start(after))
	a.SetNext(before, joined)
	a.SetNext(joined, after)
	cycles, err = a.Cycles()
	require.NoError(t, err)
	require.Len(t, cycles, 2)
	assert.ElementsMatch(t, []int{3, 5, 6}, cycles[1])
	assert.True(t, a.Removed(second))
	assert.NoError(t, a.Check())
}

func TestCheckCatchesDiscontinuity(t *testing.T) {
	a := New()
	e1 := a.Add(0, 1)
	e2 := a.Add(2, 3)
	a.SetNext(e1, e2)
	assert.Error(t, a.Check())
}

func TestString(t *testing.T) {
	a := New()
	a.NewLoop([]int{0, 1, 2})
	open := a.Add(5, 6)
	dump := a.String()
	assert.Contains(t, dump, "0→1")
	assert.Contains(t, dump, "5→6")
	assert.Contains(t, dump, a.name(open))
}
