package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoint_Arithmetic(t *testing.T) {
	p := Pt(1, 2)
	q := Pt(4, 6)

	assert.Equal(t, Pt(5, 8), p.Add(q))
	assert.Equal(t, Pt(3, 4), q.Sub(p))
	assert.Equal(t, Pt(2, 4), p.Scale(2))
	assert.InDelta(t, 5.0, p.Dist(q), 1e-9)
	assert.InDelta(t, 25.0, p.Dist2(q), 1e-9)
	assert.InDelta(t, 7.0, p.Manhattan(q), 1e-9)
	assert.InDelta(t, 4.0, p.Chebyshev(q), 1e-9)
}

func TestRound_HalvesRoundUp(t *testing.T) {
	assert.Equal(t, IntPoint{X: -1, Y: 2}, Round(Pt(-1.5, 1.5)))
	assert.Equal(t, IntPoint{X: 0, Y: 1}, Round(Pt(0.4, 0.6)))
	assert.Equal(t, IntPoint{X: 0, Y: -1}, Round(Pt(-0.5, -0.6)))
}

func TestRound_ShiftInvariant(t *testing.T) {
	for _, v := range []float64{-2.5, -1.5, -0.5, 0.5, 1.5} {
		base := Round(Pt(v, v))
		shifted := Round(Pt(v+10, v-10))
		assert.Equal(t, IntPoint{X: base.X + 10, Y: base.Y - 10}, shifted, "tie at %v", v)
	}
}

func TestRect_OverlapsExcludesBorder(t *testing.T) {
	a := RectXYWH(0, 0, 2, 2)
	b := RectXYWH(2, 0, 2, 2)

	assert.False(t, a.Overlaps(b), "shared border is not an overlap")
	assert.True(t, a.Touches(b), "shared border touches")
	assert.True(t, a.Intersects(b, true))
	assert.False(t, a.Intersects(b, false))

	c := RectXYWH(1, 1, 2, 2)
	assert.True(t, a.Overlaps(c))
}

func TestRect_UnionAndScale(t *testing.T) {
	a := RectXYWH(0, 0, 2, 2)
	b := RectXYWH(3, -1, 1, 1)

	u := a.Union(b)
	assert.Equal(t, Rect{MinX: 0, MinY: -1, MaxX: 4, MaxY: 2}, u)

	s := a.Scale(3)
	assert.InDelta(t, 6.0, s.Width(), 1e-9)
	assert.Equal(t, a.Center(), s.Center())
}

func TestRect_ChebyshevDist(t *testing.T) {
	r := RectXYWH(0, 0, 2, 2)

	assert.InDelta(t, 0.0, r.ChebyshevDist(Pt(1, 1)), 1e-9)
	assert.InDelta(t, 1.0, r.ChebyshevDist(Pt(3, 1)), 1e-9)
	assert.InDelta(t, 2.0, r.ChebyshevDist(Pt(-1, 4)), 1e-9)
}
