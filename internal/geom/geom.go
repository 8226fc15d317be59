// Package geom provides the small set of planar primitives shared by the
// outline engine, the sweep-line detector and the spatial index.
package geom

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used for coordinate equality throughout the
// outline engine.
const Epsilon = 1e-4

// Eq reports whether a and b are equal within Epsilon.
func Eq(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Dist2 returns the squared Euclidean distance between p and q.
func (p Point) Dist2(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Sqrt(p.Dist2(q))
}

// Manhattan returns the L1 distance between p and q.
func (p Point) Manhattan(q Point) float64 {
	return math.Abs(p.X-q.X) + math.Abs(p.Y-q.Y)
}

// Chebyshev returns the L-infinity distance between p and q.
func (p Point) Chebyshev(q Point) float64 {
	return math.Max(math.Abs(p.X-q.X), math.Abs(p.Y-q.Y))
}

// Near reports whether p and q coincide within Epsilon on both axes.
func (p Point) Near(q Point) bool {
	return Eq(p.X, q.X) && Eq(p.Y, q.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// IntPoint is an exact grid position.
type IntPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Float converts the grid position to a Point.
func (p IntPoint) Float() Point {
	return Point{X: float64(p.X), Y: float64(p.Y)}
}

func (p IntPoint) Add(q IntPoint) IntPoint {
	return IntPoint{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p IntPoint) Sub(q IntPoint) IntPoint {
	return IntPoint{X: p.X - q.X, Y: p.Y - q.Y}
}

// Round returns the grid point nearest to p. Halves round up, so shifting p
// by whole units shifts the result by the same amount.
func Round(p Point) IntPoint {
	return IntPoint{X: int(RoundHalfUp(p.X)), Y: int(RoundHalfUp(p.Y))}
}

// RoundHalfUp rounds v to the nearest integer, halves toward +Inf.
func RoundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
