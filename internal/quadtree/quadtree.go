// Package quadtree is a spatial index over axis-aligned boxes. Items are kept
// in every leaf their box touches, so a query only has to visit the leaves
// overlapping the query box and filter the collected items.
package quadtree

import "github.com/piwi3910/SquareFit/internal/geom"

// MaxEntries is the number of items a leaf holds before it splits.
const MaxEntries = 5

// Item is anything with a fixed bounding box. Items are compared by identity,
// so pointer types are the usual choice.
type Item interface {
	comparable
	Box() geom.Rect
}

// Tree is a quad-tree rooted at a fixed box. Items falling outside the root box
// are rejected.
type Tree[T Item] struct {
	root  *node[T]
	items map[T]struct{}
}

type node[T Item] struct {
	box      geom.Rect
	children *[4]*node[T]
	entries  []T
}

// New creates an empty tree covering box.
func New[T Item](box geom.Rect) *Tree[T] {
	return &Tree[T]{
		root:  &node[T]{box: box},
		items: make(map[T]struct{}),
	}
}

// Bounds returns the root box.
func (t *Tree[T]) Bounds() geom.Rect {
	return t.root.box
}

// Len returns the number of distinct items stored.
func (t *Tree[T]) Len() int {
	return len(t.items)
}

// Insert adds item to every leaf its box touches. It returns false if the item
// is already present or its box lies outside the root.
func (t *Tree[T]) Insert(item T) bool {
	if _, ok := t.items[item]; ok {
		return false
	}
	box := item.Box()
	if !t.root.box.Contains(box) {
		return false
	}
	t.items[item] = struct{}{}
	t.root.insert(item, box)
	return true
}

// Delete removes item from every leaf it was stored in. Split nodes are never
// merged back into leaves.
func (t *Tree[T]) Delete(item T) bool {
	if _, ok := t.items[item]; !ok {
		return false
	}
	delete(t.items, item)
	t.root.remove(item, item.Box())
	return true
}

// Query returns the items whose box intersects box. includeBorder decides
// whether items that only share a border with box are reported. Results come
// back in traversal order with duplicates removed.
func (t *Tree[T]) Query(box geom.Rect, includeBorder bool) []T {
	seen := make(map[T]struct{})
	var candidates []T
	t.root.collect(box, func(item T) {
		if _, ok := seen[item]; ok {
			return
		}
		seen[item] = struct{}{}
		candidates = append(candidates, item)
	})

	result := candidates[:0]
	for _, item := range candidates {
		if item.Box().Intersects(box, includeBorder) {
			result = append(result, item)
		}
	}
	return result
}

// Depth returns the number of levels below the root, 0 for a single leaf.
func (t *Tree[T]) Depth() int {
	return t.root.depth()
}

func (n *node[T]) leaf() bool {
	return n.children == nil
}

// splittable stops the recursion once a quadrant would drop to unit size,
// which otherwise never terminates for many coincident boxes.
func (n *node[T]) splittable() bool {
	return n.box.Width() > 1 && n.box.Height() > 1
}

func (n *node[T]) insert(item T, box geom.Rect) {
	if !n.leaf() {
		for _, c := range n.children {
			if c.box.Touches(box) {
				c.insert(item, box)
			}
		}
		return
	}

	n.entries = append(n.entries, item)
	if len(n.entries) > MaxEntries && n.splittable() {
		n.split()
	}
}

// split turns a leaf into an internal node and redistributes its entries.
func (n *node[T]) split() {
	mid := n.box.Center()
	b := n.box
	n.children = &[4]*node[T]{
		{box: geom.Rect{MinX: b.MinX, MinY: b.MinY, MaxX: mid.X, MaxY: mid.Y}},
		{box: geom.Rect{MinX: mid.X, MinY: b.MinY, MaxX: b.MaxX, MaxY: mid.Y}},
		{box: geom.Rect{MinX: b.MinX, MinY: mid.Y, MaxX: mid.X, MaxY: b.MaxY}},
		{box: geom.Rect{MinX: mid.X, MinY: mid.Y, MaxX: b.MaxX, MaxY: b.MaxY}},
	}

	entries := n.entries
	n.entries = nil
	for _, e := range entries {
		n.insert(e, e.Box())
	}
}

func (n *node[T]) remove(item T, box geom.Rect) {
	if !n.leaf() {
		for _, c := range n.children {
			if c.box.Touches(box) {
				c.remove(item, box)
			}
		}
		return
	}
	for i, e := range n.entries {
		if e == item {
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
			return
		}
	}
}

func (n *node[T]) collect(box geom.Rect, fn func(T)) {
	if !n.box.Touches(box) {
		return
	}
	if n.leaf() {
		for _, e := range n.entries {
			fn(e)
		}
		return
	}
	for _, c := range n.children {
		c.collect(box, fn)
	}
}

func (n *node[T]) depth() int {
	if n.leaf() {
		return 0
	}
	d := 0
	for _, c := range n.children {
		if cd := c.depth(); cd > d {
			d = cd
		}
	}
	return d + 1
}
