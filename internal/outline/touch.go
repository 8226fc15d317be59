package outline

import (
	"math"

	"github.com/piwi3910/SquareFit/internal/geom"
	"github.com/piwi3910/SquareFit/internal/sweep"
)

// EdgeView is the geometry of an edge detached from its arena.
type EdgeView struct {
	Origin geom.Point
	Target geom.Point
	Dir    Direction
}

// line returns the fixed coordinate of the line carrying the edge.
func (e EdgeView) line() float64 {
	if e.Dir.Horizontal() {
		return e.Origin.Y
	}
	return e.Origin.X
}

// span returns the interval covered along the edge axis.
func (e EdgeView) span() (float64, float64) {
	if e.Dir.Horizontal() {
		return math.Min(e.Origin.X, e.Target.X), math.Max(e.Origin.X, e.Target.X)
	}
	return math.Min(e.Origin.Y, e.Target.Y), math.Max(e.Origin.Y, e.Target.Y)
}

// Length returns the signed length along the edge direction.
func (e EdgeView) Length() float64 {
	return along(e.Dir, e.Target) - along(e.Dir, e.Origin)
}

// Segment converts the view for the sweep package.
func (e EdgeView) Segment(id int) sweep.Segment {
	return sweep.Segment{ID: id, A: e.Origin, B: e.Target}
}

// DoTouch reports whether two edges run in opposite directions on the same
// line with spans that overlap or share an endpoint.
func DoTouch(a, b EdgeView) bool {
	if b.Dir != a.Dir.Opposite() {
		return false
	}
	if !geom.Eq(a.line(), b.line()) {
		return false
	}
	alo, ahi := a.span()
	blo, bhi := b.span()
	return alo <= bhi+geom.Epsilon && blo <= ahi+geom.Epsilon
}

// Overlap returns the length of the span shared by two collinear edges, 0 when
// they are not collinear or meet in a single point.
func Overlap(a, b EdgeView) float64 {
	if a.Dir.Horizontal() != b.Dir.Horizontal() || !geom.Eq(a.line(), b.line()) {
		return 0
	}
	alo, ahi := a.span()
	blo, bhi := b.span()
	d := math.Min(ahi, bhi) - math.Max(alo, blo)
	if d <= geom.Epsilon {
		return 0
	}
	return d
}

// RelativePosition classifies p against the origin of e along e's direction.
func RelativePosition(e EdgeView, p geom.Point) Position {
	d := along(e.Dir, p) - along(e.Dir, e.Origin)
	switch {
	case d > geom.Epsilon:
		return After
	case d < -geom.Epsilon:
		return Before
	default:
		return On
	}
}

// attaches reports whether two edges share a positive-length stretch of
// boundary with opposite orientation.
func attaches(a, b EdgeView) bool {
	return DoTouch(a, b) && Overlap(a, b) > 0
}
