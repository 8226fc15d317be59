package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SquareFit/internal/geom"
	"github.com/piwi3910/SquareFit/internal/model"
)

func testInstance() model.Instance {
	return model.Instance{
		ID:     3,
		Bounds: model.Bounds{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10},
		Points: []model.WeightedPoint{
			model.NewWeightedPoint(10, 0, 0, 2),
			model.NewWeightedPoint(11, 1, 0, 2),
			model.NewWeightedPoint(12, 5, 5, 1),
		},
	}
}

func TestValidate_ValidSolution(t *testing.T) {
	sol := model.Solution{
		Tag:        1,
		InstanceID: 3,
		Positions:  []geom.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 5.5, Y: 5.5}},
	}
	assert.Empty(t, Validate(testInstance(), sol))
}

func TestValidate_InstanceMismatch(t *testing.T) {
	sol := model.Solution{
		InstanceID: 4,
		Positions:  []geom.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 5.5, Y: 5.5}},
	}
	v := Validate(testInstance(), sol)
	require.Len(t, v, 1)
	assert.Equal(t, KindInstanceMismatch, v[0].Kind)
}

func TestValidate_CountMismatchStopsEarly(t *testing.T) {
	sol := model.Solution{InstanceID: 3, Positions: []geom.Point{{X: 0, Y: 0}}}
	v := Validate(testInstance(), sol)
	require.Len(t, v, 1)
	assert.Equal(t, KindCountMismatch, v[0].Kind)
}

func TestValidate_OffGrid(t *testing.T) {
	sol := model.Solution{
		InstanceID: 3,
		Positions:  []geom.Point{{X: 0, Y: 0}, {X: 2, Y: 0.5}, {X: 5.505, Y: 5.5}},
	}
	v := Validate(testInstance(), sol)
	require.Len(t, v, 1)
	assert.Equal(t, KindOffGrid, v[0].Kind)
	assert.Equal(t, 1, v[0].Point)
}

func TestValidate_Overlap(t *testing.T) {
	sol := model.Solution{
		InstanceID: 3,
		Positions:  []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 5.5, Y: 5.5}},
	}
	v := Validate(testInstance(), sol)
	require.Len(t, v, 1)
	assert.Equal(t, KindOverlap, v[0].Kind)
	assert.Equal(t, 0, v[0].Point)
	assert.Equal(t, 1, v[0].Other)

	msgs := FormatViolations(testInstance(), v)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "#10")
	assert.Contains(t, msgs[0], "#11")
}

func TestOverlaps_SharedSideIsAllowed(t *testing.T) {
	assert.False(t, Overlaps(geom.Pt(0, 0), 2, geom.Pt(2, 0), 2))
	assert.False(t, Overlaps(geom.Pt(0, 0), 2, geom.Pt(2, 2), 2))
	assert.False(t, Overlaps(geom.Pt(0, 0), 2, geom.Pt(1.95, 0), 2))
	assert.True(t, Overlaps(geom.Pt(0, 0), 2, geom.Pt(1.5, 1.5), 2))
	assert.True(t, Overlaps(geom.Pt(0, 0), 3, geom.Pt(0.5, 0.5), 1))
}
