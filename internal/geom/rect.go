package geom

import "math"

// Rect is an axis-aligned box given by its min and max corners.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// RectXYWH builds a box from its lower-left corner and size.
func RectXYWH(x, y, w, h float64) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// RectAround builds a box of the given size centered on c.
func RectAround(c Point, w, h float64) Rect {
	return Rect{MinX: c.X - w/2, MinY: c.Y - h/2, MaxX: c.X + w/2, MaxY: c.Y + h/2}
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Center returns the midpoint of the box.
func (r Rect) Center() Point {
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// Empty reports whether the box has no extent on either axis.
func (r Rect) Empty() bool {
	return r.MaxX <= r.MinX || r.MaxY <= r.MinY
}

// Overlaps reports whether the interiors of r and o intersect. Boxes that
// only share a border do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.MinX < o.MaxX-Epsilon && o.MinX < r.MaxX-Epsilon &&
		r.MinY < o.MaxY-Epsilon && o.MinY < r.MaxY-Epsilon
}

// Touches reports whether r and o intersect, counting shared borders.
func (r Rect) Touches(o Rect) bool {
	return r.MinX <= o.MaxX+Epsilon && o.MinX <= r.MaxX+Epsilon &&
		r.MinY <= o.MaxY+Epsilon && o.MinY <= r.MaxY+Epsilon
}

// Intersects dispatches to Touches or Overlaps depending on whether borders
// count as intersection.
func (r Rect) Intersects(o Rect, includeBorder bool) bool {
	if includeBorder {
		return r.Touches(o)
	}
	return r.Overlaps(o)
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return r.MinX <= o.MinX+Epsilon && r.MinY <= o.MinY+Epsilon &&
		r.MaxX >= o.MaxX-Epsilon && r.MaxY >= o.MaxY-Epsilon
}

// ContainsPoint reports whether p lies inside r or on its border.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.MinX-Epsilon && p.X <= r.MaxX+Epsilon &&
		p.Y >= r.MinY-Epsilon && p.Y <= r.MaxY+Epsilon
}

// Union returns the smallest box containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, o.MinX),
		MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX),
		MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

// Scale grows the box around its center by factor f on both axes.
func (r Rect) Scale(f float64) Rect {
	c := r.Center()
	return RectAround(c, r.Width()*f, r.Height()*f)
}

// ChebyshevDist returns the L-infinity distance from p to the box, 0 when p is
// inside it.
func (r Rect) ChebyshevDist(p Point) float64 {
	dx := math.Max(math.Max(r.MinX-p.X, 0), p.X-r.MaxX)
	dy := math.Max(math.Max(r.MinY-p.Y, 0), p.Y-r.MaxY)
	return math.Max(dx, dy)
}

// Corners returns the four corners counter-clockwise from the lower-left one.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.MinX, Y: r.MinY},
		{X: r.MaxX, Y: r.MinY},
		{X: r.MaxX, Y: r.MaxY},
		{X: r.MinX, Y: r.MaxY},
	}
}
