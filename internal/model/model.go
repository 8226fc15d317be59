package model

import (
	"math"

	"github.com/piwi3910/SquareFit/internal/geom"
)

// WeightedPoint is an input point. Its weight is the side length of the square
// it occupies once placed.
type WeightedPoint struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Weight int     `json:"weight"`
}

func NewWeightedPoint(id int, x, y float64, weight int) WeightedPoint {
	return WeightedPoint{ID: id, X: x, Y: y, Weight: weight}
}

// Position returns the original coordinates of the point.
func (p WeightedPoint) Position() geom.Point {
	return geom.Point{X: p.X, Y: p.Y}
}

// HalfWeight is half the side length of the point's square.
func (p WeightedPoint) HalfWeight() float64 {
	return float64(p.Weight) / 2
}

// ReferenceCorner is the grid point nearest to the lower-left corner of the
// square centered on the point.
func (p WeightedPoint) ReferenceCorner() geom.IntPoint {
	h := p.HalfWeight()
	return geom.Round(geom.Point{X: p.X - h, Y: p.Y - h})
}

// Centroid is the center of the square anchored at the reference corner. It is
// always a valid assigned position for the point.
func (p WeightedPoint) Centroid() geom.Point {
	h := p.HalfWeight()
	return p.ReferenceCorner().Float().Add(geom.Point{X: h, Y: h})
}

// Square returns the box the point occupies at its natural position.
func (p WeightedPoint) Square() geom.Rect {
	return p.SquareAt(p.Centroid())
}

// SquareAt returns the box the point occupies when centered on c.
func (p WeightedPoint) SquareAt(c geom.Point) geom.Rect {
	w := float64(p.Weight)
	return geom.RectAround(c, w, w)
}

// Bounds is the viewport of an instance.
type Bounds struct {
	MinX int `json:"min_x"`
	MaxX int `json:"max_x"`
	MinY int `json:"min_y"`
	MaxY int `json:"max_y"`
}

// Rect converts the bounds to a box.
func (b Bounds) Rect() geom.Rect {
	return geom.Rect{MinX: float64(b.MinX), MinY: float64(b.MinY), MaxX: float64(b.MaxX), MaxY: float64(b.MaxY)}
}

// Instance is a problem instance: a viewport and the points to place.
type Instance struct {
	ID     int             `json:"id"`
	Bounds Bounds          `json:"bounds"`
	Points []WeightedPoint `json:"points"`
}

// Extent returns the bounding box of all point squares at their natural
// positions merged with the viewport bounds.
func (in Instance) Extent() geom.Rect {
	box := in.Bounds.Rect()
	for _, p := range in.Points {
		box = box.Union(p.Square())
	}
	return box
}

// Centroid returns the mean of all point positions.
func (in Instance) Centroid() geom.Point {
	if len(in.Points) == 0 {
		return in.Bounds.Rect().Center()
	}
	var sx, sy float64
	for _, p := range in.Points {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(in.Points))
	return geom.Point{X: sx / n, Y: sy / n}
}

// Solution holds one assigned position per instance point, in input order.
type Solution struct {
	Tag        int          `json:"tag"`
	InstanceID int          `json:"instance_id"`
	Positions  []geom.Point `json:"positions"`
}

// Displacement returns the total and maximum Euclidean distance between the
// original points and their assigned positions.
func (s Solution) Displacement(in Instance) (total, maxDist float64) {
	for i, p := range in.Points {
		if i >= len(s.Positions) {
			break
		}
		d := p.Position().Dist(s.Positions[i])
		total += d
		maxDist = math.Max(maxDist, d)
	}
	return total, maxDist
}
