package engine

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/piwi3910/SquareFit/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.Settings
}

// ComparisonResult holds the solver result and computed statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario          ComparisonScenario
	Result            Result
	Err               error
	PlacedCount       int
	UnplacedCount     int
	TotalDisplacement float64
	MeanDisplacement  float64
	MaxDisplacement   float64
	Outlines          int
	Merges            int
}

// Complete reports whether every point was placed.
func (c ComparisonResult) Complete() bool {
	return c.Err == nil && c.UnplacedCount == 0
}

// CompareScenarios solves inst once per scenario and returns the results in
// scenario order. A stalled run is kept with its partial result; any other
// error is recorded and the scenario reports no placements.
func CompareScenarios(scenarios []ComparisonScenario, inst model.Instance) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		solver := New(scenario.Settings).WithLogger(zerolog.Nop())
		result, err := solver.Solve(inst)

		cr := ComparisonResult{
			Scenario: scenario,
			Result:   result,
			Err:      err,
		}
		if err == nil || errors.Is(err, ErrStalled) {
			cr.PlacedCount = result.PlacedCount()
			cr.UnplacedCount = len(inst.Points) - cr.PlacedCount
			cr.TotalDisplacement = result.TotalDisplacement
			cr.MaxDisplacement = result.MaxDisplacement
			if n := len(inst.Points); n > 0 {
				cr.MeanDisplacement = result.TotalDisplacement / float64(n)
			}
			cr.Outlines = len(result.Outlines)
			cr.Merges = result.Stats.Merges
		} else {
			cr.UnplacedCount = len(inst.Points)
		}
		results = append(results, cr)
	}

	return results
}

// BuildHeuristicScenarios generates one scenario per heuristic on top of the
// base settings. With no heuristics given every known heuristic is used.
func BuildHeuristicScenarios(base model.Settings, heuristics ...model.Heuristic) []ComparisonScenario {
	if len(heuristics) == 0 {
		heuristics = model.AllHeuristics
	}
	scenarios := make([]ComparisonScenario, 0, len(heuristics))
	for _, h := range heuristics {
		s := base
		s.Heuristic = h
		name := string(h)
		if h == base.Heuristic {
			name = fmt.Sprintf("%s (current)", h)
		}
		scenarios = append(scenarios, ComparisonScenario{Name: name, Settings: s})
	}
	return scenarios
}

// CompareHeuristics runs the solver once per heuristic.
func CompareHeuristics(base model.Settings, inst model.Instance, heuristics ...model.Heuristic) []ComparisonResult {
	return CompareScenarios(BuildHeuristicScenarios(base, heuristics...), inst)
}

// Best returns the index of the complete result with the lowest total
// displacement, or the one placing the most points if none is complete. It
// returns -1 for an empty slice.
func Best(results []ComparisonResult) int {
	best := -1
	for i, r := range results {
		if best < 0 {
			best = i
			continue
		}
		b := results[best]
		switch {
		case r.PlacedCount != b.PlacedCount:
			if r.PlacedCount > b.PlacedCount {
				best = i
			}
		case r.TotalDisplacement < b.TotalDisplacement:
			best = i
		}
	}
	return best
}
