// Package checker validates a solution against its instance: every square
// must sit on the integer grid and no two squares may overlap.
package checker

import (
	"fmt"
	"math"

	"github.com/piwi3910/SquareFit/internal/geom"
	"github.com/piwi3910/SquareFit/internal/model"
	"github.com/piwi3910/SquareFit/internal/quadtree"
)

const (
	// GridTolerance is how far a square corner may sit from the integer grid.
	GridTolerance = 0.01

	// OverlapTolerance is subtracted from the sum of half widths before two
	// squares count as overlapping, so squares sharing a side pass.
	OverlapTolerance = 0.1
)

// Kind classifies a violation.
type Kind string

const (
	KindInstanceMismatch Kind = "instance-mismatch"
	KindCountMismatch    Kind = "count-mismatch"
	KindOffGrid          Kind = "off-grid"
	KindOverlap          Kind = "overlap"
)

// Violation is one problem found in a solution. Point and Other are input
// indices, -1 when they do not apply.
type Violation struct {
	Kind     Kind
	Point    int
	Other    int
	Position geom.Point
	Detail   string
}

// square is a placed point in the overlap index. Its box is shrunk by half the
// overlap tolerance on every side.
type square struct {
	index  int
	weight int
	at     geom.Point
	box    geom.Rect
}

func (s *square) Box() geom.Rect { return s.box }

// Validate checks sol against inst and returns every violation found. An
// empty result means the solution is valid.
func Validate(inst model.Instance, sol model.Solution) []Violation {
	var violations []Violation

	if sol.InstanceID != inst.ID {
		violations = append(violations, Violation{
			Kind:   KindInstanceMismatch,
			Point:  -1,
			Other:  -1,
			Detail: fmt.Sprintf("solution is for instance %d, expected %d", sol.InstanceID, inst.ID),
		})
	}
	if len(sol.Positions) != len(inst.Points) {
		violations = append(violations, Violation{
			Kind:   KindCountMismatch,
			Point:  -1,
			Other:  -1,
			Detail: fmt.Sprintf("solution has %d positions, instance has %d points", len(sol.Positions), len(inst.Points)),
		})
		return violations
	}

	squares := make([]*square, len(inst.Points))
	extent := inst.Bounds.Rect()
	for i, p := range inst.Points {
		at := sol.Positions[i]
		h := p.HalfWeight()
		if !onGrid(at.X-h) || !onGrid(at.Y-h) {
			violations = append(violations, Violation{
				Kind:     KindOffGrid,
				Point:    i,
				Other:    -1,
				Position: at,
				Detail:   fmt.Sprintf("corner %s is not on the integer grid", geom.Pt(at.X-h, at.Y-h)),
			})
		}
		r := p.SquareAt(at)
		inset := OverlapTolerance / 2
		squares[i] = &square{
			index:  i,
			weight: p.Weight,
			at:     at,
			box:    geom.Rect{MinX: r.MinX + inset, MinY: r.MinY + inset, MaxX: r.MaxX - inset, MaxY: r.MaxY - inset},
		}
		extent = extent.Union(r)
	}

	tree := quadtree.New[*square](extent.Scale(1.1))
	for _, s := range squares {
		for _, other := range tree.Query(s.box, false) {
			if Overlaps(s.at, s.weight, other.at, other.weight) {
				violations = append(violations, Violation{
					Kind:     KindOverlap,
					Point:    other.index,
					Other:    s.index,
					Position: s.at,
					Detail:   fmt.Sprintf("square at %s overlaps square at %s", other.at, s.at),
				})
			}
		}
		if !tree.Insert(s) {
			violations = append(violations, overlapsByScan(squares[:s.index], s)...)
		}
	}
	return violations
}

// Overlaps reports whether squares of weights w1 and w2 centered on a and b
// overlap by more than the tolerance.
func Overlaps(a geom.Point, w1 int, b geom.Point, w2 int) bool {
	limit := float64(w1+w2)/2 - OverlapTolerance
	d := a.Sub(b)
	return math.Max(math.Abs(d.X), math.Abs(d.Y)) < limit
}

// overlapsByScan is the fallback for a square the index refused, such as a
// zero-weight point whose shrunk box is inverted.
func overlapsByScan(placed []*square, s *square) []Violation {
	var violations []Violation
	for _, other := range placed {
		if Overlaps(s.at, s.weight, other.at, other.weight) {
			violations = append(violations, Violation{
				Kind:     KindOverlap,
				Point:    other.index,
				Other:    s.index,
				Position: s.at,
				Detail:   fmt.Sprintf("square at %s overlaps square at %s", other.at, s.at),
			})
		}
	}
	return violations
}

func onGrid(v float64) bool {
	return math.Abs(v-math.Round(v)) <= GridTolerance
}

// FormatViolations produces human-readable messages from violations.
func FormatViolations(inst model.Instance, violations []Violation) []string {
	var msgs []string
	for _, v := range violations {
		switch v.Kind {
		case KindOverlap:
			msgs = append(msgs, fmt.Sprintf("%s: points %s and %s: %s",
				v.Kind, pointLabel(inst, v.Point), pointLabel(inst, v.Other), v.Detail))
		case KindOffGrid:
			msgs = append(msgs, fmt.Sprintf("%s: point %s: %s", v.Kind, pointLabel(inst, v.Point), v.Detail))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: %s", v.Kind, v.Detail))
		}
	}
	return msgs
}

func pointLabel(inst model.Instance, i int) string {
	if i < 0 || i >= len(inst.Points) {
		return "?"
	}
	return fmt.Sprintf("#%d", inst.Points[i].ID)
}
