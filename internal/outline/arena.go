package outline

import (
	"fmt"

	"github.com/piwi3910/SquareFit/internal/geom"
)

// EdgeID addresses an edge inside its Arena.
type EdgeID int

// NoEdge is the zero value for a missing edge reference.
const NoEdge EdgeID = -1

// Edge is one directed side of a rectilinear boundary. Its target is the
// origin of the next edge.
type Edge struct {
	ID     EdgeID
	Origin geom.Point
	Dir    Direction
	next   EdgeID
	prev   EdgeID
	dead   bool
}

// Arena owns the edges of one or more cycles. Edges are never freed, removed
// ones are only marked dead, so ids stay stable and the number of edges ever
// created bounds every cycle walk.
type Arena struct {
	edges []Edge
}

func NewArena() *Arena {
	return &Arena{}
}

// Created returns the number of edges ever created in the arena.
func (a *Arena) Created() int {
	return len(a.edges)
}

// NewEdge creates an unlinked edge.
func (a *Arena) NewEdge(origin geom.Point, dir Direction) EdgeID {
	id := EdgeID(len(a.edges))
	a.edges = append(a.edges, Edge{ID: id, Origin: origin, Dir: dir, next: NoEdge, prev: NoEdge})
	return id
}

// Edge returns a copy of the edge.
func (a *Arena) Edge(id EdgeID) Edge {
	return a.edges[id]
}

func (a *Arena) Next(id EdgeID) EdgeID       { return a.edges[id].next }
func (a *Arena) Prev(id EdgeID) EdgeID       { return a.edges[id].prev }
func (a *Arena) Dir(id EdgeID) Direction     { return a.edges[id].Dir }
func (a *Arena) Origin(id EdgeID) geom.Point { return a.edges[id].Origin }
func (a *Arena) Alive(id EdgeID) bool        { return id >= 0 && int(id) < len(a.edges) && !a.edges[id].dead }

// Target returns the end point of the edge, the origin of its successor.
func (a *Arena) Target(id EdgeID) geom.Point {
	return a.edges[a.edges[id].next].Origin
}

// Length returns the signed length of the edge along its direction. It is
// negative when the successor's origin lies behind the edge origin.
func (a *Arena) Length(id EdgeID) float64 {
	e := a.edges[id]
	return along(e.Dir, a.Target(id)) - along(e.Dir, e.Origin)
}

// View returns the geometric view of the edge.
func (a *Arena) View(id EdgeID) EdgeView {
	e := a.edges[id]
	return EdgeView{Origin: e.Origin, Target: a.Target(id), Dir: e.Dir}
}

func (a *Arena) link(from, to EdgeID) {
	a.edges[from].next = to
	a.edges[to].prev = from
}

// clone copies the arena. Edge ids stay valid in the copy.
func (a *Arena) clone() *Arena {
	return &Arena{edges: append([]Edge(nil), a.edges...)}
}

func (a *Arena) kill(id EdgeID) {
	a.edges[id].dead = true
}

func (a *Arena) setOrigin(id EdgeID, p geom.Point) {
	a.edges[id].Origin = p
}

// Live returns the ids of all edges not marked dead, ascending.
func (a *Arena) Live() []EdgeID {
	var out []EdgeID
	for i := range a.edges {
		if !a.edges[i].dead {
			out = append(out, EdgeID(i))
		}
	}
	return out
}

// CreateOutlineMap builds the clockwise 4-cycle of box, starting with the UP
// edge at the lower-left corner, and returns its edges by direction.
func (a *Arena) CreateOutlineMap(box geom.Rect) map[Direction]EdgeID {
	up := a.NewEdge(geom.Point{X: box.MinX, Y: box.MinY}, Up)
	right := a.NewEdge(geom.Point{X: box.MinX, Y: box.MaxY}, Right)
	down := a.NewEdge(geom.Point{X: box.MaxX, Y: box.MaxY}, Down)
	left := a.NewEdge(geom.Point{X: box.MaxX, Y: box.MinY}, Left)
	a.link(up, right)
	a.link(right, down)
	a.link(down, left)
	a.link(left, up)
	return map[Direction]EdgeID{Up: up, Right: right, Down: down, Left: left}
}

// Walk calls fn for every edge of the cycle containing start, following next
// pointers, until fn returns false or the cycle closes. A walk longer than the
// number of edges ever created, a dead edge or an inconsistent back link is
// reported as ErrBrokenCycle.
func (a *Arena) Walk(start EdgeID, fn func(EdgeID) bool) error {
	return a.walk(start, false, fn)
}

// WalkBackward is Walk following prev pointers.
func (a *Arena) WalkBackward(start EdgeID, fn func(EdgeID) bool) error {
	return a.walk(start, true, fn)
}

func (a *Arena) walk(start EdgeID, backward bool, fn func(EdgeID) bool) error {
	if !a.Alive(start) {
		return fmt.Errorf("%w: start edge %d is not alive", ErrBrokenCycle, start)
	}
	limit := len(a.edges)
	cur := start
	for steps := 0; ; steps++ {
		if steps >= limit {
			return fmt.Errorf("%w: no return to edge %d after %d steps", ErrBrokenCycle, start, steps)
		}
		if !fn(cur) {
			return nil
		}
		var nxt EdgeID
		if backward {
			nxt = a.edges[cur].prev
		} else {
			nxt = a.edges[cur].next
		}
		if !a.Alive(nxt) {
			return fmt.Errorf("%w: edge %d links to dead edge %d", ErrBrokenCycle, cur, nxt)
		}
		if backward && a.edges[nxt].next != cur || !backward && a.edges[nxt].prev != cur {
			return fmt.Errorf("%w: edge %d and %d disagree on their link", ErrBrokenCycle, cur, nxt)
		}
		if nxt == start {
			return nil
		}
		cur = nxt
	}
}

// ToList returns the edges of the cycle containing start in forward order.
func (a *Arena) ToList(start EdgeID) ([]EdgeID, error) {
	var out []EdgeID
	err := a.Walk(start, func(id EdgeID) bool {
		out = append(out, id)
		return true
	})
	return out, err
}

// ToListReverse returns the edges of the cycle containing start following prev
// pointers.
func (a *Arena) ToListReverse(start EdgeID) ([]EdgeID, error) {
	var out []EdgeID
	err := a.WalkBackward(start, func(id EdgeID) bool {
		out = append(out, id)
		return true
	})
	return out, err
}

// Cycles groups the live edges into cycles and returns one entry edge per
// cycle, in ascending order of the smallest id of each cycle.
func (a *Arena) Cycles() ([]EdgeID, error) {
	seen := make(map[EdgeID]bool)
	var entries []EdgeID
	for _, id := range a.Live() {
		if seen[id] {
			continue
		}
		err := a.Walk(id, func(e EdgeID) bool {
			seen[e] = true
			return true
		})
		if err != nil {
			return nil, err
		}
		entries = append(entries, id)
	}
	return entries, nil
}

// copyCycle appends a copy of the cycle containing start to dst and returns
// the copy of start plus the id mapping.
func (a *Arena) copyCycle(dst *Arena, start EdgeID) (EdgeID, map[EdgeID]EdgeID, error) {
	ids, err := a.ToList(start)
	if err != nil {
		return NoEdge, nil, err
	}
	mapping := make(map[EdgeID]EdgeID, len(ids))
	for _, id := range ids {
		e := a.edges[id]
		mapping[id] = dst.NewEdge(e.Origin, e.Dir)
	}
	for _, id := range ids {
		dst.link(mapping[id], mapping[a.edges[id].next])
	}
	return mapping[start], mapping, nil
}
