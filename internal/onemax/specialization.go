package onemax

import (
	"fmt"
	"math/rand"

	"genos/internal/engine"
	"genos/internal/model"
	"genos/internal/strategy"
)

type Config struct {
	BitLength       int
	PopulationSize  int
	GenerationLimit int
	// Selector defaults to a size-3 tournament.
	Selector strategy.Selector
}

// Specialization maximizes the share of set bits. Fitness is the ones
// ratio in [0, 1]; an all-ones genome scores 1.
type Specialization struct {
	length   int
	size     int
	selector strategy.Selector
	limit    strategy.GenerationLimit
	full     strategy.TargetFitness
}

func New(cfg Config) (*Specialization, error) {
	if cfg.BitLength <= 0 {
		return nil, fmt.Errorf("bit length must be > 0, got %d", cfg.BitLength)
	}
	if cfg.PopulationSize < 2 {
		return nil, fmt.Errorf("population size must be at least 2, got %d", cfg.PopulationSize)
	}
	if cfg.GenerationLimit <= 0 {
		return nil, fmt.Errorf("generation limit must be > 0, got %d", cfg.GenerationLimit)
	}
	if cfg.Selector == nil {
		cfg.Selector = strategy.TournamentSelector{Size: 3}
	}

	return &Specialization{
		length:   cfg.BitLength,
		size:     cfg.PopulationSize,
		selector: cfg.Selector,
		limit:    strategy.GenerationLimit{Limit: cfg.GenerationLimit},
		full:     strategy.TargetFitness{Goal: 1.0},
	}, nil
}

func (s *Specialization) Name() string {
	return "onemax"
}

func (s *Specialization) ProduceInitialPopulation(rng *rand.Rand) ([]engine.Solution, error) {
	out := make([]engine.Solution, 0, s.size)
	for i := 0; i < s.size; i++ {
		genome, err := RandomGenome(s.length, rng)
		if err != nil {
			return nil, err
		}
		out = append(out, genome)
	}
	return out, nil
}

func (s *Specialization) ShouldStop(generation int, population []engine.Solution) bool {
	if s.limit.ShouldStop(generation, nil) {
		return true
	}
	scored, err := s.scored(population)
	if err != nil {
		return false
	}
	return s.full.ShouldStop(generation, scored)
}

func (s *Specialization) SelectParents(rng *rand.Rand, population []engine.Solution) (engine.Solution, engine.Solution, error) {
	scored, err := s.scored(population)
	if err != nil {
		return nil, nil, err
	}
	mother, err := s.selector.PickParent(rng, scored)
	if err != nil {
		return nil, nil, fmt.Errorf("pick first parent: %w", err)
	}
	father, err := s.selector.PickParent(rng, scored)
	if err != nil {
		return nil, nil, fmt.Errorf("pick second parent: %w", err)
	}
	return mother, father, nil
}

func (s *Specialization) Fitness(solution engine.Solution) (float64, error) {
	genome, ok := solution.(*Genome)
	if !ok {
		return 0, fmt.Errorf("cannot score %T: %w", solution, engine.ErrInvalidArgument)
	}
	return float64(genome.OnesCount()) / float64(len(genome.bits)), nil
}

func (s *Specialization) Project(population []engine.Solution) (model.Projection, error) {
	if len(population) == 0 {
		return model.Projection{}, fmt.Errorf("population is empty")
	}
	scored, err := s.scored(population)
	if err != nil {
		return model.Projection{}, err
	}

	best := 0
	total := 0.0
	encodings := make([]string, len(scored))
	for i, candidate := range scored {
		total += candidate.Fitness
		encodings[i] = candidate.Solution.(*Genome).String()
		if candidate.Fitness > scored[best].Fitness {
			best = i
		}
	}
	return model.Projection{
		BestEncoding: encodings[best],
		BestFitness:  scored[best].Fitness,
		MeanFitness:  total / float64(len(scored)),
		Encodings:    encodings,
	}, nil
}

func (s *Specialization) scored(population []engine.Solution) ([]strategy.Scored, error) {
	out := make([]strategy.Scored, len(population))
	for i, member := range population {
		fitness, err := s.Fitness(member)
		if err != nil {
			return nil, err
		}
		out[i] = strategy.Scored{Solution: member, Fitness: fitness}
	}
	return out, nil
}
