package outline

import (
	"fmt"
	"sort"
)

// Registry owns the outlines of one solver run and hands out their ids.
type Registry struct {
	next     ID
	outlines map[ID]*Outline
}

func NewRegistry() *Registry {
	return &Registry{outlines: make(map[ID]*Outline)}
}

// Create starts a new outline around r.
func (g *Registry) Create(r *Rectangle, policy Policy) *Outline {
	o := New(g.next, r, policy)
	g.next++
	g.outlines[o.id] = o
	return o
}

// Get looks up an outline by id.
func (g *Registry) Get(id ID) (*Outline, bool) {
	o, ok := g.outlines[id]
	return o, ok
}

// Len returns the number of live outlines.
func (g *Registry) Len() int {
	return len(g.outlines)
}

// All returns the live outlines ordered by id.
func (g *Registry) All() []*Outline {
	out := make([]*Outline, 0, len(g.outlines))
	for _, o := range g.outlines {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Merge replaces the outlines with the given ids by their merged complex
// outline under a fresh id.
func (g *Registry) Merge(ids ...ID) (*Outline, error) {
	srcs := make([]*Outline, 0, len(ids))
	seen := make(map[ID]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		o, ok := g.outlines[id]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownOutline, id)
		}
		srcs = append(srcs, o)
	}
	m, err := Merge(g.next, srcs...)
	if err != nil {
		return nil, err
	}
	g.next++
	for id := range seen {
		delete(g.outlines, id)
	}
	g.outlines[m.id] = m
	return m, nil
}
