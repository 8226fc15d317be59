// Package outline maintains the boundary of a cluster of placed squares as
// clockwise cycles of axis-aligned edges. New squares are welded onto the
// boundary by splicing the edges they share with it, and buffered copies of
// the boundary give the candidate positions for the next square.
package outline

import (
	"fmt"
	"sort"

	"github.com/piwi3910/SquareFit/internal/geom"
)

// Policy selects how an outline treats attachments and holes.
type Policy int

const (
	// Simple outlines accept squares touching along one or two edges and
	// keep only their outer boundary.
	Simple Policy = iota
	// Complex outlines accept any square, may consist of several components
	// and keep their holes.
	Complex
)

func (p Policy) String() string {
	if p == Complex {
		return "complex"
	}
	return "simple"
}

// AttachmentKind is the outcome of testing a square against an outline.
type AttachmentKind int

const (
	Attached AttachmentKind = iota
	NotAttached
	Ambiguous
)

// Attachment reports how a square meets an outline and along how many edge
// pairs.
type Attachment struct {
	Kind    AttachmentKind
	Touches int
}

// Outline is the boundary of a set of rectangles. The first cycle is the
// outer boundary and holds the access edge.
type Outline struct {
	id     ID
	policy Policy
	arena  *Arena
	cycles []EdgeID
	rects  []*Rectangle
	bounds geom.Rect
	access EdgeID
}

// New creates an outline around a single rectangle and makes it the owner.
func New(id ID, r *Rectangle, policy Policy) *Outline {
	o := &Outline{id: id, policy: policy, arena: NewArena()}
	m := o.arena.CreateOutlineMap(r.Box())
	o.cycles = []EdgeID{m[Left]}
	o.access = m[Left]
	o.bounds = r.Box()
	r.Owner = id
	o.rects = []*Rectangle{r}
	return o
}

func (o *Outline) ID() ID             { return o.id }
func (o *Outline) Policy() Policy     { return o.policy }
func (o *Outline) Arena() *Arena      { return o.arena }
func (o *Outline) Bounds() geom.Rect  { return o.bounds }
func (o *Outline) Len() int           { return len(o.rects) }
func (o *Outline) AccessEdge() EdgeID { return o.access }

// Rectangles returns the rectangles owned by the outline in insertion order.
func (o *Outline) Rectangles() []*Rectangle {
	return append([]*Rectangle(nil), o.rects...)
}

// Entries returns one edge per cycle, the outer cycle first.
func (o *Outline) Entries() []EdgeID {
	return append([]EdgeID(nil), o.cycles...)
}

// Cycles returns the edges of every cycle in forward order.
func (o *Outline) Cycles() ([][]EdgeID, error) {
	out := make([][]EdgeID, 0, len(o.cycles))
	for _, entry := range o.cycles {
		ids, err := o.arena.ToList(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, ids)
	}
	return out, nil
}

// EdgeCount returns the number of live edges.
func (o *Outline) EdgeCount() int {
	return len(o.arena.Live())
}

// Vertices returns the corner points of every cycle, the outer one first.
func (o *Outline) Vertices() ([][]geom.Point, error) {
	cycles, err := o.Cycles()
	if err != nil {
		return nil, err
	}
	out := make([][]geom.Point, len(cycles))
	for i, ids := range cycles {
		for _, id := range ids {
			out[i] = append(out[i], o.arena.Origin(id))
		}
	}
	return out, nil
}

// Attach counts the edge pairs r would share with the outline and classifies
// the result under the outline's policy. The outline is not modified.
func (o *Outline) Attach(r *Rectangle) Attachment {
	n := o.touches(r.Box())
	att := Attachment{Kind: Attached, Touches: n}
	if o.policy == Simple {
		switch {
		case n == 0:
			att.Kind = NotAttached
		case n > 2:
			att.Kind = Ambiguous
		}
	}
	return att
}

func (o *Outline) touches(box geom.Rect) int {
	scratch := NewArena()
	m := scratch.CreateOutlineMap(box)
	sides := []EdgeView{scratch.View(m[Up]), scratch.View(m[Right]), scratch.View(m[Down]), scratch.View(m[Left])}
	n := 0
	for _, id := range o.arena.Live() {
		v := o.arena.View(id)
		for _, s := range sides {
			if attaches(v, s) {
				n++
			}
		}
	}
	return n
}

// Insert welds r onto the outline. A simple outline rejects a rectangle that
// does not touch it or touches it along more than two edge pairs. On any
// error the outline and r are left unchanged.
func (o *Outline) Insert(r *Rectangle) (Attachment, error) {
	att := o.Attach(r)
	switch att.Kind {
	case NotAttached:
		return att, fmt.Errorf("%w: outline %d, point %d", ErrNoAttachment, o.id, r.Point.ID)
	case Ambiguous:
		return att, fmt.Errorf("%w: outline %d, point %d, %d touching edges", ErrAmbiguousAttachment, o.id, r.Point.ID, att.Touches)
	}

	saved := o.arena.clone()
	m := o.arena.CreateOutlineMap(r.Box())
	fresh := map[EdgeID]bool{m[Up]: true, m[Right]: true, m[Down]: true, m[Left]: true}
	if err := o.weld(fresh); err != nil {
		o.arena = saved
		return att, err
	}
	if err := o.refresh(); err != nil {
		o.arena = saved
		return att, err
	}
	r.Owner = o.id
	o.rects = append(o.rects, r)
	o.bounds = o.bounds.Union(r.Box())
	return att, nil
}

// weld splices every attached edge pair involving a fresh edge until none is
// left, repairing the boundary after each splice.
func (o *Outline) weld(fresh map[EdgeID]bool) error {
	n := len(o.arena.Live())
	limit := n*n + 16
	for i := 0; ; i++ {
		if i > limit {
			return fmt.Errorf("%w: outline %d did not settle after %d splices", ErrBrokenCycle, o.id, i)
		}
		a0, b0, ok := o.findAttachedPair(fresh)
		if !ok {
			return nil
		}
		seeds := o.splice(a0, b0, fresh)
		o.repair(seeds, fresh)
	}
}

func (o *Outline) findAttachedPair(fresh map[EdgeID]bool) (EdgeID, EdgeID, bool) {
	a := o.arena
	ids := make([]EdgeID, 0, len(fresh))
	for id := range fresh {
		if a.Alive(id) {
			ids = append(ids, id)
		} else {
			delete(fresh, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	live := a.Live()
	for _, f := range ids {
		fv := a.View(f)
		for _, g := range live {
			if g == f {
				continue
			}
			if attaches(a.View(g), fv) {
				return g, f, true
			}
		}
	}
	return NoEdge, NoEdge, false
}

// splice cuts the shared stretch of the antiparallel edges a0 and b0 out of
// the boundary and reconnects the remainders. It returns the edges whose
// neighbourhood changed.
func (o *Outline) splice(a0, b0 EdgeID, fresh map[EdgeID]bool) []EdgeID {
	a := o.arena
	if a.Next(a0) == b0 {
		return []EdgeID{a0}
	}
	if a.Next(b0) == a0 {
		return []EdgeID{b0}
	}

	ap, an := a.Prev(a0), a.Next(a0)
	bp, bn := a.Prev(b0), a.Next(b0)
	av, bv := a.View(a0), a.View(b0)
	d := av.Dir

	var seeds []EdgeID
	switch RelativePosition(av, bv.Target) {
	case After:
		a.link(a0, bn)
		seeds = append(seeds, a0, bn)
	case On:
		a.link(ap, bn)
		a.kill(a0)
		seeds = append(seeds, ap, bn)
	default:
		x := a.NewEdge(av.Origin, d.Opposite())
		fresh[x] = true
		a.link(ap, x)
		a.link(x, bn)
		a.kill(a0)
		seeds = append(seeds, ap, x, bn)
	}

	switch RelativePosition(bv, av.Target) {
	case After:
		a.link(b0, an)
		seeds = append(seeds, b0, an)
	case On:
		a.link(bp, an)
		a.kill(b0)
		seeds = append(seeds, bp, an)
	default:
		y := a.NewEdge(bv.Origin, d)
		fresh[y] = true
		a.link(bp, y)
		a.link(y, an)
		a.kill(b0)
		seeds = append(seeds, bp, y, an)
	}
	return seeds
}

// repair normalizes the boundary around seeds: zero-length edges are dropped,
// consecutive edges with the same direction merged and spikes collapsed.
func (o *Outline) repair(seeds []EdgeID, fresh map[EdgeID]bool) {
	a := o.arena
	work := append([]EdgeID(nil), seeds...)
	for len(work) > 0 {
		e := work[len(work)-1]
		work = work[:len(work)-1]
		if !a.Alive(e) {
			continue
		}
		touched := o.resolveForwards(e)
		if touched == nil {
			touched = o.resolveBackwards(e)
		}
		for _, t := range touched {
			if a.Alive(t) {
				fresh[t] = true
				work = append(work, t)
			}
		}
	}
}

func (o *Outline) resolveBackwards(e EdgeID) []EdgeID {
	return o.resolveForwards(o.arena.Prev(e))
}

// resolveForwards fixes the junction between e and its successor. It returns
// nil when the junction is already a proper corner.
func (o *Outline) resolveForwards(e EdgeID) []EdgeID {
	a := o.arena
	if !a.Alive(e) {
		return nil
	}
	f := a.Next(e)
	if f == e {
		a.kill(e)
		return nil
	}
	if a.Next(f) == e {
		a.kill(e)
		a.kill(f)
		return nil
	}

	if lenAbs := a.Length(e); lenAbs <= geom.Epsilon && lenAbs >= -geom.Epsilon {
		p := a.Prev(e)
		a.link(p, f)
		a.kill(e)
		return []EdgeID{p, f}
	}

	switch a.Dir(f) {
	case a.Dir(e):
		n := a.Next(f)
		a.link(e, n)
		a.kill(f)
		return []EdgeID{e, a.Prev(e)}

	case a.Dir(e).Opposite():
		ev := a.View(e)
		r := a.Target(f)
		switch RelativePosition(ev, r) {
		case On:
			p, n := a.Prev(e), a.Next(f)
			a.link(p, n)
			a.kill(e)
			a.kill(f)
			return []EdgeID{p, n}
		case After:
			n := a.Next(f)
			a.link(e, n)
			a.kill(f)
			return []EdgeID{e, a.Prev(e), n}
		default:
			p := a.Prev(e)
			a.setOrigin(f, ev.Origin)
			a.link(p, f)
			a.kill(e)
			return []EdgeID{p, f, a.Next(f)}
		}
	}
	return nil
}

// refresh recomputes the cycles and the access edge from the live edges.
// Simple outlines drop every cycle except the outer one.
func (o *Outline) refresh() error {
	a := o.arena
	entries, err := a.Cycles()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: outline %d has no boundary left", ErrBrokenCycle, o.id)
	}

	access := o.findAccess()
	cycles := []EdgeID{access}
	for _, entry := range entries {
		ids, err := a.ToList(entry)
		if err != nil {
			return err
		}
		if contains(ids, access) {
			continue
		}
		if o.policy == Simple {
			for _, id := range ids {
				a.kill(id)
			}
			continue
		}
		cycles = append(cycles, entry)
	}
	o.cycles = cycles
	o.access = access
	return nil
}

// findAccess returns the lowest, then leftmost, LEFT edge. It always lies on
// the outer boundary.
func (o *Outline) findAccess() EdgeID {
	a := o.arena
	best := NoEdge
	var by, bx float64
	for _, id := range a.Live() {
		if a.Dir(id) != Left {
			continue
		}
		y := a.Origin(id).Y
		x := a.Target(id).X
		if best == NoEdge || y < by-geom.Epsilon || geom.Eq(y, by) && x < bx-geom.Epsilon {
			best, by, bx = id, y, x
		}
	}
	return best
}

func contains(ids []EdgeID, id EdgeID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants: every cycle closes in both
// directions, has at least four edges of positive length, alternates between
// horizontal and vertical edges, every live edge belongs to a tracked cycle
// and every rectangle is owned by the outline.
func (o *Outline) Validate() error {
	a := o.arena
	total := 0
	for _, entry := range o.cycles {
		fwd, err := a.ToList(entry)
		if err != nil {
			return err
		}
		back, err := a.ToListReverse(entry)
		if err != nil {
			return err
		}
		if len(fwd) != len(back) {
			return fmt.Errorf("%w: forward walk has %d edges, backward %d", ErrBrokenCycle, len(fwd), len(back))
		}
		if len(fwd) < 4 {
			return fmt.Errorf("%w: cycle of %d edges", ErrBrokenCycle, len(fwd))
		}
		for _, id := range fwd {
			if a.Length(id) <= geom.Epsilon {
				return fmt.Errorf("%w: edge %d has length %g", ErrBrokenCycle, id, a.Length(id))
			}
			if a.Dir(id).Horizontal() == a.Dir(a.Next(id)).Horizontal() {
				return fmt.Errorf("%w: edges %d and %d are parallel neighbours", ErrBrokenCycle, id, a.Next(id))
			}
		}
		total += len(fwd)
	}
	if live := len(a.Live()); live != total {
		return fmt.Errorf("%w: %d live edges but %d on cycles", ErrBrokenCycle, live, total)
	}
	for _, r := range o.rects {
		if r.Owner != o.id {
			return fmt.Errorf("rectangle of point %d owned by %d, expected %d", r.Point.ID, r.Owner, o.id)
		}
	}
	return nil
}

// Merge builds a complex outline with the given id from the union of the
// given outlines. Ownership of every rectangle moves to the new outline once
// the merge succeeds.
func Merge(id ID, outlines ...*Outline) (*Outline, error) {
	if len(outlines) == 0 {
		return nil, fmt.Errorf("%w: nothing to merge", ErrUnknownOutline)
	}
	m := &Outline{id: id, policy: Complex, arena: NewArena(), bounds: outlines[0].bounds}
	fresh := make(map[EdgeID]bool)
	for i, src := range outlines {
		for _, entry := range src.cycles {
			_, mapping, err := src.arena.copyCycle(m.arena, entry)
			if err != nil {
				return nil, fmt.Errorf("failed to copy outline %d: %w", src.id, err)
			}
			if i > 0 {
				for _, v := range mapping {
					fresh[v] = true
				}
			}
		}
		m.rects = append(m.rects, src.rects...)
		m.bounds = m.bounds.Union(src.bounds)
	}
	if err := m.weld(fresh); err != nil {
		return nil, err
	}
	if err := m.refresh(); err != nil {
		return nil, err
	}
	for _, r := range m.rects {
		r.Owner = id
	}
	return m, nil
}
