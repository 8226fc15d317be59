package sweep

import "sort"

// Adjacency maps a segment id to the ids of the segments it intersects or
// overlaps. Every pair is recorded in both directions.
type Adjacency map[int]map[int]struct{}

// Add records the pair (i, j) in both directions. Self pairs are ignored.
func (a Adjacency) Add(i, j int) {
	if i == j {
		return
	}
	a.link(i, j)
	a.link(j, i)
}

func (a Adjacency) link(i, j int) {
	set, ok := a[i]
	if !ok {
		set = make(map[int]struct{})
		a[i] = set
	}
	set[j] = struct{}{}
}

// Has reports whether i and j were reported together.
func (a Adjacency) Has(i, j int) bool {
	_, ok := a[i][j]
	return ok
}

// Neighbors returns the ids paired with i in ascending order.
func (a Adjacency) Neighbors(i int) []int {
	out := make([]int, 0, len(a[i]))
	for j := range a[i] {
		out = append(out, j)
	}
	sort.Ints(out)
	return out
}

// Pairs returns every pair once, smaller id first, sorted.
func (a Adjacency) Pairs() [][2]int {
	var out [][2]int
	for i, set := range a {
		for j := range set {
			if i < j {
				out = append(out, [2]int{i, j})
			}
		}
	}
	sort.Slice(out, func(x, y int) bool {
		if out[x][0] != out[y][0] {
			return out[x][0] < out[y][0]
		}
		return out[x][1] < out[y][1]
	})
	return out
}

// Len returns the number of distinct pairs.
func (a Adjacency) Len() int {
	n := 0
	for _, set := range a {
		n += len(set)
	}
	return n / 2
}

// Merge adds every pair of b to a.
func (a Adjacency) Merge(b Adjacency) {
	for i, set := range b {
		for j := range set {
			a.Add(i, j)
		}
	}
}
