package outline

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/SquareFit/internal/geom"
	"github.com/piwi3910/SquareFit/internal/sweep"
)

const tie = 1e-9

// Inset is how far usable spans are pulled back from convex corners. A square
// centred closer to a convex corner would only touch the cluster in a point.
const Inset = 1.0

// Buffered is an outline grown outward by a fixed width. Its edges are the
// loci of centroids of squares with half side width placed flush against the
// outline.
type Buffered struct {
	source    *Outline
	width     float64
	arena     *Arena
	entries   []EdgeID
	redundant map[EdgeID]bool
}

// Span is the usable stretch of a buffered edge, running from A to B in the
// edge direction.
type Span struct {
	Edge EdgeID
	Dir  Direction
	A, B geom.Point
}

func (s Span) clamp(p geom.Point) geom.Point {
	if s.Dir.Horizontal() {
		lo, hi := math.Min(s.A.X, s.B.X), math.Max(s.A.X, s.B.X)
		return geom.Point{X: math.Max(lo, math.Min(hi, p.X)), Y: s.A.Y}
	}
	lo, hi := math.Min(s.A.Y, s.B.Y), math.Max(s.A.Y, s.B.Y)
	return geom.Point{X: s.A.X, Y: math.Max(lo, math.Min(hi, p.Y))}
}

// Candidate is a placement proposed by a buffered outline.
type Candidate struct {
	Edge       EdgeID
	Projection geom.Point
	Position   geom.Point
	Dist2      float64
}

// Buffer offsets every cycle of o outward by w. Each vertex moves by w along
// the sum of the outward normals of its two edges, so w = 0 reproduces o.
func Buffer(o *Outline, w float64) (*Buffered, error) {
	b := &Buffered{source: o, width: w, arena: NewArena(), redundant: make(map[EdgeID]bool)}
	cycles, err := o.Cycles()
	if err != nil {
		return nil, fmt.Errorf("failed to buffer outline %d: %w", o.id, err)
	}
	src := o.arena
	for _, ids := range cycles {
		n := len(ids)
		copies := make([]EdgeID, n)
		for i, id := range ids {
			prev := ids[(i+n-1)%n]
			off := src.Dir(prev).Outward().Add(src.Dir(id).Outward()).Scale(w)
			copies[i] = b.arena.NewEdge(src.Origin(id).Add(off), src.Dir(id))
		}
		for i := range copies {
			b.arena.link(copies[i], copies[(i+1)%n])
		}
		b.entries = append(b.entries, copies[0])
	}
	return b, nil
}

func (b *Buffered) Source() *Outline { return b.source }
func (b *Buffered) Width() float64   { return b.width }
func (b *Buffered) Arena() *Arena    { return b.arena }

// Entries returns one edge per remaining cycle.
func (b *Buffered) Entries() []EdgeID {
	return append([]EdgeID(nil), b.entries...)
}

// Redundant reports whether the edge is skipped by projection.
func (b *Buffered) Redundant(id EdgeID) bool {
	return b.redundant[id]
}

// Cycles returns the edges of every remaining cycle in forward order.
func (b *Buffered) Cycles() ([][]EdgeID, error) {
	out := make([][]EdgeID, 0, len(b.entries))
	for _, entry := range b.entries {
		ids, err := b.arena.ToList(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, ids)
	}
	return out, nil
}

// Segments returns the usable edges as sweep segments keyed by edge id.
func (b *Buffered) Segments() []sweep.Segment {
	var out []sweep.Segment
	for _, id := range b.arena.Live() {
		if b.usable(id) {
			out = append(out, b.arena.View(id).Segment(int(id)))
		}
	}
	return out
}

func (b *Buffered) usable(id EdgeID) bool {
	return !b.redundant[id] && b.arena.Length(id) > geom.Epsilon
}

// Sanitize untangles a self-intersecting buffer. Interior crossings are split
// and relinked so every loop is simple. Loops lying inside the buffer zone are
// dropped and edges inside it are marked redundant. An edge covered by a
// longer collinear edge running the same way is marked redundant too.
func (b *Buffered) Sanitize() error {
	b.uncross()

	entries, err := b.arena.Cycles()
	if err != nil {
		return fmt.Errorf("failed to sanitize buffer of outline %d: %w", b.source.id, err)
	}
	b.entries = b.entries[:0]
	for _, entry := range entries {
		ids, err := b.arena.ToList(entry)
		if err != nil {
			return err
		}
		inside, positive := 0, 0
		for _, id := range ids {
			if b.arena.Length(id) <= geom.Epsilon {
				b.redundant[id] = true
				continue
			}
			positive++
			if b.insideZone(id) {
				b.redundant[id] = true
				inside++
			}
		}
		if positive == 0 || inside == positive {
			for _, id := range ids {
				b.arena.kill(id)
			}
			continue
		}
		b.entries = append(b.entries, entry)
	}

	segs := b.Segments()
	byID := make(map[int]sweep.Segment, len(segs))
	for _, s := range segs {
		byID[s.ID] = s
	}
	for _, p := range sweep.Overlaps(segs, true).Pairs() {
		s, t := byID[p[0]], byID[p[1]]
		if sweep.OverlapLength(s, t) < math.Min(s.Length(), t.Length())-geom.Epsilon {
			continue
		}
		if s.Length() < t.Length() {
			b.redundant[EdgeID(s.ID)] = true
		} else {
			b.redundant[EdgeID(t.ID)] = true
		}
	}
	return nil
}

// uncross splits every pair of edges crossing at a point interior to both and
// swaps their successors at that point.
func (b *Buffered) uncross() {
	a := b.arena
	var segs []sweep.Segment
	for _, id := range a.Live() {
		if a.Length(id) > geom.Epsilon {
			segs = append(segs, a.View(id).Segment(int(id)))
		}
	}
	byID := make(map[int]sweep.Segment, len(segs))
	for _, s := range segs {
		byID[s.ID] = s
	}

	type cut struct {
		at  geom.Point
		key int
	}
	cuts := make(map[EdgeID][]cut)
	pairs := sweep.Crossings(segs).Pairs()
	for k, p := range pairs {
		e, f := EdgeID(p[0]), EdgeID(p[1])
		x := sweep.CrossingPoint(byID[p[0]], byID[p[1]])
		if !b.interior(e, x) || !b.interior(f, x) {
			continue
		}
		cuts[e] = append(cuts[e], cut{at: x, key: k})
		cuts[f] = append(cuts[f], cut{at: x, key: k})
	}
	if len(cuts) == 0 {
		return
	}

	type ends struct{ in, out EdgeID }
	pieces := make(map[[2]int]ends)
	edges := make([]EdgeID, 0, len(cuts))
	for e := range cuts {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i] < edges[j] })
	for _, e := range edges {
		cs := cuts[e]
		d := a.Dir(e)
		sort.Slice(cs, func(i, j int) bool { return along(d, cs[i].at) < along(d, cs[j].at) })
		last := a.Next(e)
		cur := e
		for _, c := range cs {
			piece := a.NewEdge(c.at, d)
			a.link(cur, piece)
			pieces[[2]int{c.key, int(e)}] = ends{in: cur, out: piece}
			cur = piece
		}
		a.link(cur, last)
	}
	for k, p := range pairs {
		pe, okE := pieces[[2]int{k, p[0]}]
		pf, okF := pieces[[2]int{k, p[1]}]
		if !okE || !okF {
			continue
		}
		a.link(pe.in, pf.out)
		a.link(pf.in, pe.out)
	}
}

// interior reports whether x lies strictly between the ends of edge id.
func (b *Buffered) interior(id EdgeID, x geom.Point) bool {
	v := b.arena.View(id)
	t := along(v.Dir, x)
	return t > along(v.Dir, v.Origin)+geom.Epsilon && t < along(v.Dir, v.Target)-geom.Epsilon
}

// insideZone reports whether the midpoint of the edge is closer than the
// buffer width to some rectangle of the source outline.
func (b *Buffered) insideZone(id EdgeID) bool {
	if b.width <= geom.Epsilon {
		return false
	}
	v := b.arena.View(id)
	mid := v.Origin.Add(v.Target).Scale(0.5)
	for _, r := range b.source.rects {
		if r.Box().ChebyshevDist(mid) < b.width-geom.Epsilon {
			return true
		}
	}
	return false
}

// Spans returns the usable stretch of every usable edge. Ends at convex
// corners are pulled back by Inset unless the edge is too short for it.
func (b *Buffered) Spans() []Span {
	a := b.arena
	var out []Span
	for _, entry := range b.entries {
		ids, err := a.ToList(entry)
		if err != nil {
			continue
		}
		for _, id := range ids {
			if !b.usable(id) {
				continue
			}
			v := a.View(id)
			u := v.Dir.Unit()
			start, end := v.Origin, v.Target
			length := v.Length()
			var lead, trail float64
			if a.Dir(a.Prev(id)).IsRightTurn(v.Dir) {
				lead = Inset
			}
			if v.Dir.IsRightTurn(a.Dir(a.Next(id))) {
				trail = Inset
			}
			if lead+trail <= length+geom.Epsilon {
				start = start.Add(u.Scale(lead))
				end = end.Sub(u.Scale(trail))
			}
			out = append(out, Span{Edge: id, Dir: v.Dir, A: start, B: end})
		}
	}
	return out
}

// ProjectAndSelect returns the orthogonal projection of p onto the nearest
// usable span.
func (b *Buffered) ProjectAndSelect(p geom.Point) (geom.Point, bool) {
	return b.ProjectAndSelectNear(p, p)
}

// ProjectAndSelectNear is ProjectAndSelect breaking ties between equidistant
// spans in favour of the projection closest to ref.
func (b *Buffered) ProjectAndSelectNear(p, ref geom.Point) (geom.Point, bool) {
	var best geom.Point
	found := false
	bestD, bestR := math.Inf(1), math.Inf(1)
	for _, s := range b.Spans() {
		q := s.clamp(p)
		d := p.Dist2(q)
		r := ref.Dist2(q)
		if d < bestD-tie || math.Abs(d-bestD) <= tie && r < bestR {
			best, bestD, bestR, found = q, d, r, true
		}
	}
	return best, found
}

// Candidates projects p onto every usable span and snaps each projection to
// the placement grid along the span. The result is deduplicated and ordered
// by distance to p, ties going to the position closest to ref.
func (b *Buffered) Candidates(p, ref geom.Point) []Candidate {
	var out []Candidate
	for _, s := range b.Spans() {
		q := s.clamp(p)
		c := Candidate{Edge: s.Edge, Projection: q, Position: b.snap(s, q)}
		c.Dist2 = p.Dist2(c.Position)
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if math.Abs(out[i].Dist2-out[j].Dist2) > geom.Epsilon {
			return out[i].Dist2 < out[j].Dist2
		}
		ri, rj := ref.Dist2(out[i].Position), ref.Dist2(out[j].Position)
		if math.Abs(ri-rj) > geom.Epsilon {
			return ri < rj
		}
		return out[i].Edge < out[j].Edge
	})

	uniq := out[:0]
	for _, c := range out {
		dup := false
		for _, u := range uniq {
			if u.Position.Near(c.Position) {
				dup = true
				break
			}
		}
		if !dup {
			uniq = append(uniq, c)
		}
	}
	return uniq
}

// snap moves q along the span to the nearest coordinate of the form k + width
// with k integral, staying within the span.
func (b *Buffered) snap(s Span, q geom.Point) geom.Point {
	grid := func(v, lo, hi float64) float64 {
		g := geom.RoundHalfUp(v-b.width) + b.width
		if g > hi+geom.Epsilon {
			g--
		}
		if g < lo-geom.Epsilon {
			g++
		}
		return g
	}
	if s.Dir.Horizontal() {
		lo, hi := math.Min(s.A.X, s.B.X), math.Max(s.A.X, s.B.X)
		return geom.Point{X: grid(q.X, lo, hi), Y: q.Y}
	}
	lo, hi := math.Min(s.A.Y, s.B.Y), math.Max(s.A.Y, s.B.Y)
	return geom.Point{X: q.X, Y: grid(q.Y, lo, hi)}
}
