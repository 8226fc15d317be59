package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/piwi3910/SquareFit/internal/geom"
	"github.com/piwi3910/SquareFit/internal/model"
	"github.com/piwi3910/SquareFit/internal/outline"
	"github.com/piwi3910/SquareFit/internal/quadtree"
)

// ErrStalled is returned together with a partial result when some points could
// not be placed within the retry bound.
var ErrStalled = errors.New("solver stalled")

var engineLog zerolog.Logger = log.With().Str("module", "engine").Logger()

// Solver runs the greedy placement of weighted points.
type Solver struct {
	Settings model.Settings
	log      zerolog.Logger
}

func New(settings model.Settings) *Solver {
	return &Solver{Settings: settings.Normalize(), log: engineLog}
}

// WithLogger replaces the logger used for run events.
func (s *Solver) WithLogger(l zerolog.Logger) *Solver {
	s.log = l
	return s
}

// Stats counts what happened during a run.
type Stats struct {
	Outlines    int `json:"outlines"`
	Merges      int `json:"merges"`
	Projections int `json:"projections"`
	Rejected    int `json:"rejected"`
	Requeues    int `json:"requeues"`
	Unindexed   int `json:"unindexed"`
}

// Result is the outcome of a run. Points that were not placed keep their
// natural centroid in the solution and are listed in Stalled.
type Result struct {
	Solution          model.Solution
	Order             []int
	Placed            []bool
	Stalled           []int
	Stats             Stats
	TotalDisplacement float64
	MaxDisplacement   float64
	Outlines          []*outline.Outline
}

// PlacedCount returns the number of points with a committed placement.
func (r Result) PlacedCount() int {
	n := 0
	for _, ok := range r.Placed {
		if ok {
			n++
		}
	}
	return n
}

// Solve places every point of inst in the order given by the configured
// heuristic.
func (s *Solver) Solve(inst model.Instance) (Result, error) {
	return s.SolveOrder(inst, Order(inst, s.Settings.Heuristic))
}

// SolveOrder places the points of inst in the given order, which must be a
// permutation of the point indices.
func (s *Solver) SolveOrder(inst model.Instance, order []int) (Result, error) {
	if !validOrder(order, len(inst.Points)) {
		return Result{}, fmt.Errorf("insertion order is not a permutation of %d points", len(inst.Points))
	}
	r := newRun(s, inst)
	err := r.loop(order)
	res := r.result(order)
	s.log.Debug().
		Int("instance", inst.ID).
		Int("points", len(inst.Points)).
		Int("placed", res.PlacedCount()).
		Int("outlines", res.Stats.Outlines).
		Int("merges", res.Stats.Merges).
		Msg("run finished")
	return res, err
}

type outcome int

const (
	committed outcome = iota
	merged
	blocked
)

// run holds the state owned by one Solve call.
type run struct {
	settings  model.Settings
	log       zerolog.Logger
	inst      model.Instance
	tree      *quadtree.Tree[*outline.Rectangle]
	outlines  *outline.Registry
	positions []geom.Point
	placed    []bool
	attempts  []int
	stalled   []int
	stats     Stats
}

func newRun(s *Solver, inst model.Instance) *run {
	n := len(inst.Points)
	r := &run{
		settings:  s.Settings,
		log:       s.log,
		inst:      inst,
		tree:      quadtree.New[*outline.Rectangle](inst.Extent().Scale(s.Settings.RootScale)),
		outlines:  outline.NewRegistry(),
		positions: make([]geom.Point, n),
		placed:    make([]bool, n),
		attempts:  make([]int, n),
	}
	for i, p := range inst.Points {
		r.positions[i] = p.Centroid()
	}
	return r
}

// loop drains the queue. A point is requeued after a merge or a blocked
// attempt until it hits MaxAttempts, and the run stops once every queued
// point has been tried since the last commit or merge.
func (r *run) loop(order []int) error {
	queue := append([]int(nil), order...)
	idle := 0
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]

		res, err := r.place(i)
		if err != nil {
			return fmt.Errorf("failed to place point %d: %w", r.inst.Points[i].ID, err)
		}
		switch res {
		case committed:
			idle = 0
			continue
		case merged:
			idle = 0
		case blocked:
			idle++
		}

		r.attempts[i]++
		if r.attempts[i] >= r.settings.MaxAttempts {
			r.log.Debug().Int("point", r.inst.Points[i].ID).Int("attempts", r.attempts[i]).Msg("giving up on point")
			r.stalled = append(r.stalled, i)
			continue
		}
		if idle > len(queue) {
			r.stalled = append(r.stalled, i)
			r.stalled = append(r.stalled, queue...)
			r.log.Debug().Int("remaining", len(r.stalled)).Msg("no progress over a full queue pass")
			break
		}
		r.stats.Requeues++
		queue = append(queue, i)
	}
	if len(r.stalled) > 0 {
		sort.Ints(r.stalled)
		return fmt.Errorf("%w: %d of %d points unplaced", ErrStalled, len(r.stalled), len(r.inst.Points))
	}
	return nil
}

func (r *run) place(i int) (outcome, error) {
	p := r.inst.Points[i]
	natural := p.Centroid()
	rect := outline.NewRectangle(p, natural)

	hits := r.tree.Query(rect.Box(), false)
	if len(hits) == 0 {
		r.outlines.Create(rect, outline.Simple)
		r.stats.Outlines++
		r.commit(i, rect, natural)
		return committed, nil
	}

	owners := r.ownersOf(hits)
	conflicts := make(map[outline.ID]bool)
	for _, o := range owners {
		buf, err := outline.Buffer(o, p.HalfWeight())
		if err != nil {
			return blocked, err
		}
		if r.settings.SanitizeBuffers {
			if err := buf.Sanitize(); err != nil {
				return blocked, err
			}
		}
		r.stats.Projections++

		cands := buf.Candidates(p.Position(), natural)
		if n := r.settings.CandidatesPerOutline; n > 0 && len(cands) > n {
			cands = cands[:n]
		}
		for _, c := range cands {
			cand := outline.NewRectangle(p, c.Position)
			if clash := r.tree.Query(cand.Box(), false); len(clash) > 0 {
				for _, x := range clash {
					if x.Owner != owners[0].ID() {
						conflicts[x.Owner] = true
					}
				}
				r.stats.Rejected++
				continue
			}
			if _, err := o.Insert(cand); err != nil {
				if errors.Is(err, outline.ErrBrokenCycle) {
					return blocked, err
				}
				r.log.Debug().Err(err).Int("point", p.ID).Stringer("at", c.Position).Msg("candidate rejected")
				r.stats.Rejected++
				continue
			}
			r.commit(i, cand, c.Position)
			return committed, nil
		}
	}

	ids := []outline.ID{owners[0].ID()}
	for id := range conflicts {
		ids = append(ids, id)
	}
	if len(ids) == 1 {
		for _, o := range owners[1:] {
			ids = append(ids, o.ID())
		}
	}
	if len(ids) == 1 {
		return blocked, nil
	}
	sort.Slice(ids[1:], func(a, b int) bool { return ids[1+a] < ids[1+b] })

	m, err := r.outlines.Merge(ids...)
	if err != nil {
		return blocked, err
	}
	r.stats.Merges++
	r.log.Debug().Int("point", p.ID).Int("outline", int(m.ID())).Int("merged", len(ids)).Int("rects", m.Len()).Msg("merged outlines")
	return merged, nil
}

// ownersOf returns the distinct outlines owning hits, most rectangles first.
func (r *run) ownersOf(hits []*outline.Rectangle) []*outline.Outline {
	seen := make(map[outline.ID]bool)
	var out []*outline.Outline
	for _, h := range hits {
		if seen[h.Owner] {
			continue
		}
		seen[h.Owner] = true
		if o, ok := r.outlines.Get(h.Owner); ok {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Len() != out[b].Len() {
			return out[a].Len() > out[b].Len()
		}
		return out[a].ID() < out[b].ID()
	})
	return out
}

func (r *run) commit(i int, rect *outline.Rectangle, at geom.Point) {
	if !r.tree.Insert(rect) {
		r.stats.Unindexed++
		r.log.Warn().Int("point", r.inst.Points[i].ID).Stringer("at", at).Msg("square outside the index root, overlaps with it go undetected")
	}
	r.positions[i] = at
	r.placed[i] = true
}

func (r *run) result(order []int) Result {
	res := Result{
		Solution: model.Solution{
			Tag:        r.settings.SolutionTag,
			InstanceID: r.inst.ID,
			Positions:  append([]geom.Point(nil), r.positions...),
		},
		Order:    append([]int(nil), order...),
		Placed:   append([]bool(nil), r.placed...),
		Stalled:  append([]int(nil), r.stalled...),
		Stats:    r.stats,
		Outlines: r.outlines.All(),
	}
	res.TotalDisplacement, res.MaxDisplacement = res.Solution.Displacement(r.inst)
	return res
}
