package outline

import "github.com/piwi3910/SquareFit/internal/geom"

// Direction is the compass direction of an edge.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "UP"
	case Right:
		return "RIGHT"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	default:
		return "?"
	}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Horizontal reports whether d is Left or Right.
func (d Direction) Horizontal() bool {
	return d == Left || d == Right
}

// Vertical reports whether d is Up or Down.
func (d Direction) Vertical() bool {
	return d == Up || d == Down
}

// Unit returns the unit vector of d.
func (d Direction) Unit() geom.Point {
	switch d {
	case Up:
		return geom.Point{X: 0, Y: 1}
	case Right:
		return geom.Point{X: 1, Y: 0}
	case Down:
		return geom.Point{X: 0, Y: -1}
	default:
		return geom.Point{X: -1, Y: 0}
	}
}

// Outward returns the unit normal pointing away from the interior. Cycles run
// clockwise, so the interior is always on the right-hand side of an edge.
func (d Direction) Outward() geom.Point {
	switch d {
	case Up:
		return geom.Point{X: -1, Y: 0}
	case Right:
		return geom.Point{X: 0, Y: 1}
	case Down:
		return geom.Point{X: 1, Y: 0}
	default:
		return geom.Point{X: 0, Y: -1}
	}
}

// IsLeftTurn reports whether following d with next turns left
// (UP→LEFT, LEFT→DOWN, DOWN→RIGHT, RIGHT→UP). On a clockwise boundary these
// are the concave corners.
func (d Direction) IsLeftTurn(next Direction) bool {
	return next == (d+3)%4
}

// IsRightTurn reports whether following d with next turns right. On a
// clockwise boundary these are the convex corners.
func (d Direction) IsRightTurn(next Direction) bool {
	return next == (d+1)%4
}

// Position classifies a point relative to an edge origin along the edge
// direction.
type Position int

const (
	Before Position = iota
	On
	After
)

func (p Position) String() string {
	switch p {
	case Before:
		return "BEFORE"
	case On:
		return "ON"
	default:
		return "AFTER"
	}
}

// along returns the signed coordinate of p along d.
func along(d Direction, p geom.Point) float64 {
	u := d.Unit()
	return p.X*u.X + p.Y*u.Y
}
