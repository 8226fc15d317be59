package engine

import (
	"errors"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"

	"github.com/piwi3910/SquareFit/internal/model"
)

// GeneticConfig holds parameters for the insertion order search.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
	Seed           int64
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 24,
		Generations:    40,
		MutationRate:   0.2,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           42,
	}
}

// unplacedPenalty is the fitness cost of a point left unplaced, in units of
// displacement.
const unplacedPenalty = 1e6

// chromosome is an insertion order with its cached fitness.
type chromosome struct {
	order   []int
	fitness float64
	result  Result
	err     error
}

// orderSearch evolves insertion orders and decodes each one with the greedy
// solver.
type orderSearch struct {
	solver *Solver
	config GeneticConfig
	inst   model.Instance
	rng    *rand.Rand
}

// OptimizeOrder searches for an insertion order with less total displacement
// than the heuristic orders. The initial population is seeded with every
// heuristic order and elites survive unchanged, so with EliteCount > 0 the
// result is never worse than the best of them.
func OptimizeOrder(settings model.Settings, inst model.Instance, config GeneticConfig) (Result, error) {
	if config.PopulationSize < 2 {
		config.PopulationSize = 2
	}
	if config.TournamentSize < 1 {
		config.TournamentSize = 1
	}
	g := &orderSearch{
		solver: New(settings).WithLogger(zerolog.Nop()),
		config: config,
		inst:   inst,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
	best := g.optimize()
	engineLog.Debug().
		Int("instance", inst.ID).
		Int("generations", config.Generations).
		Float64("displacement", best.result.TotalDisplacement).
		Msg("order search finished")
	return best.result, best.err
}

func (g *orderSearch) optimize() chromosome {
	population := g.initPopulation()
	for i := range population {
		g.evaluate(&population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		sortByFitness(population)

		next := make([]chromosome, 0, g.config.PopulationSize)
		elite := g.config.EliteCount
		if elite > len(population) {
			elite = len(population)
		}
		for i := 0; i < elite; i++ {
			next = append(next, population[i])
		}

		for len(next) < g.config.PopulationSize {
			p1 := g.tournamentSelect(population)
			p2 := g.tournamentSelect(population)
			child := g.orderCrossover(p1, p2)
			g.mutate(&child)
			g.evaluate(&child)
			next = append(next, child)
		}
		population = next
	}

	sortByFitness(population)
	return population[0]
}

func sortByFitness(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
}

// initPopulation seeds one chromosome per heuristic and fills the rest with
// random permutations.
func (g *orderSearch) initPopulation() []chromosome {
	n := len(g.inst.Points)
	population := make([]chromosome, 0, g.config.PopulationSize)
	for _, h := range model.AllHeuristics {
		if len(population) == g.config.PopulationSize {
			break
		}
		population = append(population, chromosome{order: Order(g.inst, h)})
	}
	for len(population) < g.config.PopulationSize {
		population = append(population, chromosome{order: g.rng.Perm(n)})
	}
	return population
}

// evaluate decodes the order and scores it by negated total displacement,
// penalizing every unplaced point.
func (g *orderSearch) evaluate(c *chromosome) {
	res, err := g.solver.SolveOrder(g.inst, c.order)
	c.result, c.err = res, err
	if err != nil && !errors.Is(err, ErrStalled) {
		c.fitness = -unplacedPenalty * float64(len(g.inst.Points)+1)
		return
	}
	unplaced := len(g.inst.Points) - res.PlacedCount()
	c.fitness = -res.TotalDisplacement - unplacedPenalty*float64(unplaced)
}

// tournamentSelect picks the best individual from a random tournament.
func (g *orderSearch) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return chromosome{order: append([]int(nil), best.order...)}
}

// orderCrossover implements Order Crossover (OX1): a slice of the first parent
// is kept in place and the remaining positions are filled in the order of the
// second parent.
func (g *orderSearch) orderCrossover(p1, p2 chromosome) chromosome {
	n := len(p1.order)
	if n <= 2 {
		return chromosome{order: append([]int(nil), p1.order...)}
	}

	a := g.rng.Intn(n)
	b := g.rng.Intn(n)
	if a > b {
		a, b = b, a
	}

	child := make([]int, n)
	inSegment := make(map[int]bool)
	for i := a; i <= b; i++ {
		child[i] = p1.order[i]
		inSegment[p1.order[i]] = true
	}
	k := (b + 1) % n
	for _, v := range p2.order {
		if !inSegment[v] {
			child[k] = v
			k = (k + 1) % n
		}
	}
	return chromosome{order: child}
}

// mutate applies swap and inversion mutations.
func (g *orderSearch) mutate(c *chromosome) {
	n := len(c.order)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.order[i], c.order[j] = c.order[j], c.order[i]
	}

	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.order[i], c.order[j] = c.order[j], c.order[i]
			i++
			j--
		}
	}
}
