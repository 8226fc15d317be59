// Package sweep finds crossing and collinear-overlapping pairs in a set of
// axis-aligned segments with a left-to-right plane sweep.
//
// Horizontal segments produce a left and a right endpoint event, vertical
// segments a single line event. While the sweep line advances, the active
// horizontal segments are kept in an ordered map keyed by y, so a vertical
// event only has to range-query the levels within its y-span.
package sweep

import (
	"container/heap"
	"math"
	"sort"

	"github.com/petar/GoLLRB/llrb"

	"github.com/piwi3910/SquareFit/internal/geom"
)

// Epsilon is the tolerance of the on-segment test used to confirm crossings.
const Epsilon = 1e-5

// Segment is an axis-aligned segment from A to B. The direction A→B matters
// only for same-direction overlap filtering.
type Segment struct {
	ID int
	A  geom.Point
	B  geom.Point
}

// Horizontal reports whether the segment lies on a horizontal line.
func (s Segment) Horizontal() bool {
	return geom.Eq(s.A.Y, s.B.Y) && !geom.Eq(s.A.X, s.B.X)
}

// Vertical reports whether the segment lies on a vertical line.
func (s Segment) Vertical() bool {
	return geom.Eq(s.A.X, s.B.X) && !geom.Eq(s.A.Y, s.B.Y)
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return s.A.Dist(s.B)
}

func (s Segment) transpose() Segment {
	return Segment{
		ID: s.ID,
		A:  geom.Point{X: s.A.Y, Y: s.A.X},
		B:  geom.Point{X: s.B.Y, Y: s.B.X},
	}
}

// sign is the direction of a horizontal segment along x.
func (s Segment) sign() float64 {
	return math.Copysign(1, s.B.X-s.A.X)
}

func (s Segment) minX() float64 { return math.Min(s.A.X, s.B.X) }
func (s Segment) maxX() float64 { return math.Max(s.A.X, s.B.X) }
func (s Segment) minY() float64 { return math.Min(s.A.Y, s.B.Y) }
func (s Segment) maxY() float64 { return math.Max(s.A.Y, s.B.Y) }

// onSegment checks p against [a, b] with the triangle inequality: the two
// partial lengths must add up to the full length.
func onSegment(p, a, b geom.Point) bool {
	return math.Abs(a.Dist(p)+p.Dist(b)-a.Dist(b)) < Epsilon
}

// Crosses reports whether a horizontal and a vertical segment meet. Touching
// at an endpoint counts.
func Crosses(h, v Segment) bool {
	if !h.Horizontal() {
		h, v = v, h
	}
	if !h.Horizontal() || !v.Vertical() {
		return false
	}
	x := geom.Point{X: v.A.X, Y: h.A.Y}
	return onSegment(x, h.A, h.B) && onSegment(x, v.A, v.B)
}

// meets reports whether h and v cross or one of them ends on the interior of
// the other. Two segments sharing only an endpoint, such as consecutive edges
// of a polygon, do not meet.
func meets(h, v Segment) bool {
	if !Crosses(h, v) {
		return false
	}
	x := CrossingPoint(h, v)
	return !h.hasEnd(x) || !v.hasEnd(x)
}

func (s Segment) hasEnd(p geom.Point) bool {
	return p.Dist(s.A) < Epsilon || p.Dist(s.B) < Epsilon
}

// CrossingPoint returns the point where a horizontal and a vertical segment
// would meet if extended.
func CrossingPoint(h, v Segment) geom.Point {
	if !h.Horizontal() {
		h, v = v, h
	}
	return geom.Point{X: v.A.X, Y: h.A.Y}
}

// OverlapLength returns the length of the shared span of two collinear
// horizontal segments, 0 if they are not collinear or only touch.
func OverlapLength(a, b Segment) float64 {
	if a.Vertical() && b.Vertical() {
		a, b = a.transpose(), b.transpose()
	}
	if !a.Horizontal() || !b.Horizontal() || !geom.Eq(a.A.Y, b.A.Y) {
		return 0
	}
	lo := math.Max(a.minX(), b.minX())
	hi := math.Min(a.maxX(), b.maxX())
	if hi-lo <= geom.Epsilon {
		return 0
	}
	return hi - lo
}

type eventKind int

// The kind order breaks ties at equal coordinates: segments ending at x leave
// the status before vertical segments at x are tested, and segments starting
// at x enter afterwards. Horizontals with an end on a vertical are found
// through the endpoint index instead of the status.
const (
	rightEndpoint eventKind = iota
	verticalLine
	leftEndpoint
)

type event struct {
	x, y float64
	kind eventKind
	seg  int
}

type eventQueue []event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.x != b.x {
		return a.x < b.x
	}
	if a.y != b.y {
		return a.y < b.y
	}
	if a.kind != b.kind {
		return a.kind < b.kind
	}
	return a.seg < b.seg
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(event)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}

// level is the set of active horizontal segments sharing one y.
type level struct {
	y      float64
	active []int
}

func (l *level) Less(than llrb.Item) bool {
	return l.y < than.(*level).y
}

func (l *level) remove(seg int) {
	for i, s := range l.active {
		if s == seg {
			l.active = append(l.active[:i], l.active[i+1:]...)
			return
		}
	}
}

type mode struct {
	crossings     bool
	overlaps      bool
	sameDirection bool
}

// endpoint is one end of a horizontal segment, sorted by x.
type endpoint struct {
	x   float64
	seg int
}

type sweeper struct {
	segs   []Segment
	mode   mode
	status *llrb.LLRB
	ends   []endpoint
	out    Adjacency
}

// Intersections reports every perpendicular crossing, T-junctions included,
// and every collinear overlap among segs, regardless of direction. Segments
// sharing only an endpoint are not reported.
func Intersections(segs []Segment) Adjacency {
	out := make(Adjacency)
	run(segs, mode{crossings: true, overlaps: true}, out)
	run(transposeAll(segs), mode{overlaps: true}, out)
	return out
}

// Crossings reports only the perpendicular crossings and T-junctions among
// segs.
func Crossings(segs []Segment) Adjacency {
	out := make(Adjacency)
	run(segs, mode{crossings: true}, out)
	return out
}

// Overlaps reports collinear overlaps of horizontal and vertical segments.
// With sameDirection set, only pairs running the same way are reported.
func Overlaps(segs []Segment, sameDirection bool) Adjacency {
	out := make(Adjacency)
	m := mode{overlaps: true, sameDirection: sameDirection}
	run(segs, m, out)
	run(transposeAll(segs), m, out)
	return out
}

func transposeAll(segs []Segment) []Segment {
	out := make([]Segment, len(segs))
	for i, s := range segs {
		out[i] = s.transpose()
	}
	return out
}

func run(segs []Segment, m mode, out Adjacency) {
	s := &sweeper{segs: segs, mode: m, status: llrb.New(), out: out}

	q := make(eventQueue, 0, 2*len(segs))
	for i, seg := range segs {
		switch {
		case seg.Horizontal():
			q = append(q,
				event{x: seg.minX(), y: seg.A.Y, kind: leftEndpoint, seg: i},
				event{x: seg.maxX(), y: seg.A.Y, kind: rightEndpoint, seg: i},
			)
			if m.crossings {
				s.ends = append(s.ends, endpoint{x: seg.minX(), seg: i}, endpoint{x: seg.maxX(), seg: i})
			}
		case seg.Vertical() && m.crossings:
			q = append(q, event{x: seg.A.X, y: seg.minY(), kind: verticalLine, seg: i})
		}
	}
	heap.Init(&q)
	sort.Slice(s.ends, func(i, j int) bool { return s.ends[i].x < s.ends[j].x })

	for q.Len() > 0 {
		e := heap.Pop(&q).(event)
		switch e.kind {
		case leftEndpoint:
			s.enter(e)
		case rightEndpoint:
			s.leave(e)
		case verticalLine:
			s.cross(e)
		}
	}
}

// find returns the level at y, snapping to an existing neighbor level within
// geom.Epsilon.
func (s *sweeper) find(y float64) *level {
	var found *level
	s.status.DescendLessOrEqual(&level{y: y}, func(i llrb.Item) bool {
		if l := i.(*level); y-l.y < geom.Epsilon {
			found = l
		}
		return false
	})
	if found != nil {
		return found
	}
	s.status.AscendGreaterOrEqual(&level{y: y}, func(i llrb.Item) bool {
		if l := i.(*level); l.y-y < geom.Epsilon {
			found = l
		}
		return false
	})
	return found
}

func (s *sweeper) enter(e event) {
	l := s.find(e.y)
	if l == nil {
		l = &level{y: e.y}
		s.status.ReplaceOrInsert(l)
	}
	l.active = append(l.active, e.seg)
}

func (s *sweeper) leave(e event) {
	l := s.find(e.y)
	if l == nil {
		return
	}
	l.remove(e.seg)
	if s.mode.overlaps {
		seg := s.segs[e.seg]
		for _, other := range l.active {
			o := s.segs[other]
			if s.mode.sameDirection && seg.sign() != o.sign() {
				continue
			}
			if OverlapLength(seg, o) > 0 {
				s.out.Add(seg.ID, o.ID)
			}
		}
	}
	if len(l.active) == 0 {
		s.status.Delete(l)
	}
}

func (s *sweeper) cross(e event) {
	v := s.segs[e.seg]
	lo := &level{y: v.minY() - geom.Epsilon}
	hi := &level{y: v.maxY() + geom.Epsilon}
	s.status.AscendRange(lo, hi, func(i llrb.Item) bool {
		for _, idx := range i.(*level).active {
			h := s.segs[idx]
			if meets(h, v) {
				s.out.Add(h.ID, v.ID)
			}
		}
		return true
	})

	// Horizontals ending on v may not be active when v is tested.
	x := v.A.X
	k := sort.Search(len(s.ends), func(k int) bool { return s.ends[k].x >= x-geom.Epsilon })
	for ; k < len(s.ends) && s.ends[k].x <= x+geom.Epsilon; k++ {
		h := s.segs[s.ends[k].seg]
		if meets(h, v) {
			s.out.Add(h.ID, v.ID)
		}
	}
}
