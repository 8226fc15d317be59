package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/SquareFit/internal/model"
)

// Order returns the indices of the instance points in the order the solver
// inserts them. The key of every point is computed once and ties keep input
// order.
func Order(inst model.Instance, h model.Heuristic) []int {
	n := len(inst.Points)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	key := keyFunc(inst, h)
	if key == nil {
		return idx
	}
	keys := make([]float64, n)
	for i, p := range inst.Points {
		keys[i] = key(p)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[a]] < keys[idx[b]]
	})
	return idx
}

func keyFunc(inst model.Instance, h model.Heuristic) func(model.WeightedPoint) float64 {
	c := inst.Centroid()
	bounds := inst.Bounds.Rect()
	corners := bounds.Corners()

	switch h {
	case model.HeuristicCentroid:
		return func(p model.WeightedPoint) float64 { return p.Position().Dist2(c) }
	case model.HeuristicManhattan:
		return func(p model.WeightedPoint) float64 { return p.Position().Manhattan(c) }
	case model.HeuristicNearestCorner:
		return func(p model.WeightedPoint) float64 {
			d := math.Inf(1)
			for _, k := range corners {
				d = math.Min(d, p.Position().Dist2(k))
			}
			return d
		}
	case model.HeuristicFarthestCorner:
		return func(p model.WeightedPoint) float64 {
			d := 0.0
			for _, k := range corners {
				d = math.Max(d, p.Position().Dist2(k))
			}
			return d
		}
	case model.HeuristicNearestBorder:
		return func(p model.WeightedPoint) float64 {
			return math.Min(
				math.Min(math.Abs(p.X-bounds.MinX), math.Abs(p.X-bounds.MaxX)),
				math.Min(math.Abs(p.Y-bounds.MinY), math.Abs(p.Y-bounds.MaxY)),
			)
		}
	case model.HeuristicSizeAscending:
		return func(p model.WeightedPoint) float64 { return float64(p.Weight) }
	case model.HeuristicSizeDescending:
		return func(p model.WeightedPoint) float64 { return -float64(p.Weight) }
	case model.HeuristicX:
		return func(p model.WeightedPoint) float64 { return p.X }
	case model.HeuristicY:
		return func(p model.WeightedPoint) float64 { return p.Y }
	case model.HeuristicAngular:
		return func(p model.WeightedPoint) float64 { return math.Atan2(p.Y-c.Y, p.X-c.X) }
	case model.HeuristicMaxCoordinate:
		return func(p model.WeightedPoint) float64 { return p.Position().Chebyshev(c) }
	case model.HeuristicMinCoordinate:
		return func(p model.WeightedPoint) float64 {
			d := p.Position().Sub(c)
			return math.Min(math.Abs(d.X), math.Abs(d.Y))
		}
	default:
		return nil
	}
}

// validOrder reports whether order is a permutation of 0..n-1.
func validOrder(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, i := range order {
		if i < 0 || i >= n || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}
