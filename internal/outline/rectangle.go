package outline

import (
	"github.com/piwi3910/SquareFit/internal/geom"
	"github.com/piwi3910/SquareFit/internal/model"
)

// ID identifies an outline within one solver run.
type ID int

// NoOwner marks a rectangle that is not part of any outline yet.
const NoOwner ID = -1

// Rectangle is a placed square together with the point it stands for and the
// outline currently owning it.
type Rectangle struct {
	X, Y          float64
	Width, Height float64
	Point         model.WeightedPoint
	Owner         ID
	IncludeBorder bool
}

// NewRectangle places the square of p centred on center.
func NewRectangle(p model.WeightedPoint, center geom.Point) *Rectangle {
	h := p.HalfWeight()
	return &Rectangle{
		X:      center.X - h,
		Y:      center.Y - h,
		Width:  float64(p.Weight),
		Height: float64(p.Weight),
		Point:  p,
		Owner:  NoOwner,
	}
}

// Box returns the axis-aligned bounds, used as the quadtree key.
func (r *Rectangle) Box() geom.Rect {
	return geom.RectXYWH(r.X, r.Y, r.Width, r.Height)
}

// Center returns the centroid of the rectangle.
func (r *Rectangle) Center() geom.Point {
	return geom.Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Intersects tests r against o. Shared borders count only when r includes
// its border.
func (r *Rectangle) Intersects(o *Rectangle) bool {
	return r.Box().Intersects(o.Box(), r.IncludeBorder)
}
