package model

import (
	"testing"

	"github.com/piwi3910/SquareFit/internal/geom"
	"github.com/stretchr/testify/assert"
)

func TestWeightedPoint_OddWeightCentroidIsHalfInteger(t *testing.T) {
	p := NewWeightedPoint(0, 0, 0, 3)

	assert.Equal(t, geom.IntPoint{X: -1, Y: -1}, p.ReferenceCorner())
	assert.Equal(t, geom.Pt(0.5, 0.5), p.Centroid())

	sq := p.Square()
	assert.Equal(t, geom.Rect{MinX: -1, MinY: -1, MaxX: 2, MaxY: 2}, sq)
}

func TestWeightedPoint_EvenWeightCentroidIsInteger(t *testing.T) {
	p := NewWeightedPoint(1, 2.3, -0.6, 2)

	assert.Equal(t, geom.IntPoint{X: 1, Y: -2}, p.ReferenceCorner())
	assert.Equal(t, geom.Pt(2, -1), p.Centroid())
}

func TestInstance_ExtentAndCentroid(t *testing.T) {
	in := Instance{
		ID:     4,
		Bounds: Bounds{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10},
		Points: []WeightedPoint{
			NewWeightedPoint(0, 0, 0, 2),
			NewWeightedPoint(1, 10, 10, 4),
		},
	}

	ext := in.Extent()
	assert.Equal(t, geom.Rect{MinX: -1, MinY: -1, MaxX: 12, MaxY: 12}, ext)
	assert.Equal(t, geom.Pt(5, 5), in.Centroid())
}

func TestSolution_Displacement(t *testing.T) {
	in := Instance{Points: []WeightedPoint{
		NewWeightedPoint(0, 0, 0, 1),
		NewWeightedPoint(1, 0, 0, 1),
	}}
	sol := Solution{Positions: []geom.Point{geom.Pt(3, 4), geom.Pt(0, 1)}}

	total, maxDist := sol.Displacement(in)
	assert.InDelta(t, 6.0, total, 1e-9)
	assert.InDelta(t, 5.0, maxDist, 1e-9)
}

func TestHeuristicValid(t *testing.T) {
	for _, h := range AllHeuristics {
		assert.True(t, h.Valid(), h)
	}
	assert.False(t, Heuristic("spiral").Valid())
}
