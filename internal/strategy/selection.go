package strategy

import (
	"fmt"
	"math/rand"

	"genos/internal/engine"
)

type Scored struct {
	Solution engine.Solution
	Fitness  float64
}

// Selector chooses one parent from a scored population.
type Selector interface {
	Name() string
	PickParent(rng *rand.Rand, scored []Scored) (engine.Solution, error)
}

// RouletteSelector picks fitness-proportionally: a candidate's chance
// is its share of the population's total fitness. Fitness must be
// non-negative; when every candidate scores zero the pick is uniform.
type RouletteSelector struct{}

func (RouletteSelector) Name() string {
	return "roulette"
}

func (RouletteSelector) PickParent(rng *rand.Rand, scored []Scored) (engine.Solution, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if len(scored) == 0 {
		return nil, fmt.Errorf("no candidates to select from")
	}

	total := 0.0
	for _, candidate := range scored {
		if candidate.Fitness < 0 {
			return nil, fmt.Errorf("roulette selection requires non-negative fitness, got %v", candidate.Fitness)
		}
		total += candidate.Fitness
	}
	if total <= 0 {
		return scored[rng.Intn(len(scored))].Solution, nil
	}

	pick := rng.Float64() * total
	acc := 0.0
	for _, candidate := range scored {
		acc += candidate.Fitness
		if pick < acc {
			return candidate.Solution, nil
		}
	}
	return scored[len(scored)-1].Solution, nil
}

// TournamentSelector samples candidates uniformly and picks the best
// fitness among them.
type TournamentSelector struct {
	Size int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) PickParent(rng *rand.Rand, scored []Scored) (engine.Solution, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if len(scored) == 0 {
		return nil, fmt.Errorf("no candidates to select from")
	}

	size := s.Size
	if size <= 0 {
		size = 2
	}
	if size > len(scored) {
		size = len(scored)
	}

	best := scored[rng.Intn(len(scored))]
	for i := 1; i < size; i++ {
		candidate := scored[rng.Intn(len(scored))]
		if candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best.Solution, nil
}
