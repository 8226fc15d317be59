package quadtree

import (
	"testing"

	"github.com/piwi3910/SquareFit/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type box struct {
	name string
	r    geom.Rect
}

func (b *box) Box() geom.Rect { return b.r }

func newBox(name string, x, y, w, h float64) *box {
	return &box{name: name, r: geom.RectXYWH(x, y, w, h)}
}

func TestTree_InsertAndQuery(t *testing.T) {
	tree := New[*box](geom.RectXYWH(-100, -100, 200, 200))
	a := newBox("a", 0, 0, 2, 2)
	b := newBox("b", 2, 0, 2, 2)
	c := newBox("c", 10, 10, 1, 1)

	require.True(t, tree.Insert(a))
	require.True(t, tree.Insert(b))
	require.True(t, tree.Insert(c))
	assert.Equal(t, 3, tree.Len())

	hits := tree.Query(geom.RectXYWH(1, 1, 2, 2), false)
	assert.ElementsMatch(t, []*box{a, b}, hits)

	// b only shares the border x=2 with the query
	hits = tree.Query(geom.RectXYWH(0, 0, 2, 2), false)
	assert.ElementsMatch(t, []*box{a}, hits)

	hits = tree.Query(geom.RectXYWH(0, 0, 2, 2), true)
	assert.ElementsMatch(t, []*box{a, b}, hits)
}

func TestTree_InsertOutsideRootIsRejected(t *testing.T) {
	tree := New[*box](geom.RectXYWH(0, 0, 10, 10))
	assert.False(t, tree.Insert(newBox("out", 20, 20, 1, 1)))
	assert.False(t, tree.Insert(newBox("straddle", 9, 9, 2, 2)))
	assert.Equal(t, 0, tree.Len())
}

func TestTree_DuplicateInsertIsRejected(t *testing.T) {
	tree := New[*box](geom.RectXYWH(0, 0, 10, 10))
	a := newBox("a", 1, 1, 1, 1)
	assert.True(t, tree.Insert(a))
	assert.False(t, tree.Insert(a))
	assert.Equal(t, 1, tree.Len())
}

func TestTree_SplitsAboveThreshold(t *testing.T) {
	tree := New[*box](geom.RectXYWH(0, 0, 64, 64))
	var all []*box
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			b := newBox("grid", float64(i*8), float64(j*8), 1, 1)
			all = append(all, b)
			require.True(t, tree.Insert(b))
		}
	}

	assert.Greater(t, tree.Depth(), 0, "64 entries must split the root")

	for _, b := range all {
		hits := tree.Query(b.r, false)
		assert.Equal(t, []*box{b}, hits)
	}
	assert.Len(t, tree.Query(tree.Bounds(), false), 64)
}

func TestTree_CoincidentBoxesTerminate(t *testing.T) {
	tree := New[*box](geom.RectXYWH(0, 0, 16, 16))
	for i := 0; i < 20; i++ {
		require.True(t, tree.Insert(newBox("same", 3, 3, 1, 1)))
	}

	assert.Len(t, tree.Query(geom.RectXYWH(3, 3, 1, 1), false), 20)
	assert.LessOrEqual(t, tree.Depth(), 4)
}

func TestTree_Delete(t *testing.T) {
	tree := New[*box](geom.RectXYWH(0, 0, 32, 32))
	var all []*box
	for i := 0; i < 10; i++ {
		b := newBox("b", float64(i*3), 0, 3, 3)
		all = append(all, b)
		tree.Insert(b)
	}

	assert.True(t, tree.Delete(all[4]))
	assert.False(t, tree.Delete(all[4]), "second delete is a no-op")
	assert.Equal(t, 9, tree.Len())

	hits := tree.Query(all[4].r, false)
	assert.Empty(t, hits)

	hits = tree.Query(all[4].r, true)
	assert.ElementsMatch(t, []*box{all[3], all[5]}, hits)
}
