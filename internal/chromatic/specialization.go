package chromatic

import (
	"fmt"
	"math/rand"

	"genos/internal/engine"
	"genos/internal/model"
	"genos/internal/strategy"
)

const maxDistance = ChannelCount * channelMax

type Config struct {
	// Target is the hidden reference color the population evolves
	// toward, as channel values.
	Target          []int
	PopulationSize  int
	GenerationLimit int
	// Selector defaults to fitness-proportional roulette.
	Selector strategy.Selector
}

// Specialization evolves colors toward a hidden target. Fitness is
// the complement of the normalized channel distance, so it lives in
// [0, 1] and an exact match scores 1.
type Specialization struct {
	target   []int
	size     int
	selector strategy.Selector
	limit    strategy.GenerationLimit
	match    strategy.TargetFitness
}

func New(cfg Config) (*Specialization, error) {
	if len(cfg.Target) != ChannelCount {
		return nil, fmt.Errorf("target must have %d channels, got %d", ChannelCount, len(cfg.Target))
	}
	for i, value := range cfg.Target {
		if value < 0 || value > channelMax {
			return nil, fmt.Errorf("target channel %d out of range [0, %d]: %d", i, channelMax, value)
		}
	}
	if cfg.PopulationSize < 2 {
		return nil, fmt.Errorf("population size must be at least 2, got %d", cfg.PopulationSize)
	}
	if cfg.GenerationLimit <= 0 {
		return nil, fmt.Errorf("generation limit must be > 0, got %d", cfg.GenerationLimit)
	}
	if cfg.Selector == nil {
		cfg.Selector = strategy.RouletteSelector{}
	}

	return &Specialization{
		target:   append([]int(nil), cfg.Target...),
		size:     cfg.PopulationSize,
		selector: cfg.Selector,
		limit:    strategy.GenerationLimit{Limit: cfg.GenerationLimit},
		match:    strategy.TargetFitness{Goal: 1.0},
	}, nil
}

func (s *Specialization) Name() string {
	return "chromatic"
}

func (s *Specialization) ProduceInitialPopulation(rng *rand.Rand) ([]engine.Solution, error) {
	out := make([]engine.Solution, 0, s.size)
	for i := 0; i < s.size; i++ {
		genome, err := RandomGenome(rng)
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
		// A malformed member cannot stop the run; selection surfaces
		// the defect on the next advance.
		return false
	}
	return s.match.ShouldStop(generation, scored)
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

// Fitness maps a genome's distance to the hidden target into [0, 1].
func (s *Specialization) Fitness(solution engine.Solution) (float64, error) {
	genome, ok := solution.(*Genome)
	if !ok {
		return 0, fmt.Errorf("cannot score %T: %w", solution, engine.ErrInvalidArgument)
	}
	distance := 0
	for i, value := range genome.channels {
		delta := value - s.target[i]
		if delta < 0 {
			delta = -delta
		}
		distance += delta
	}
	return 1 - float64(distance)/float64(maxDistance), nil
}

// Project reduces a population to its primitive form: hex encodings
// and fitness summaries.
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
		encodings[i] = candidate.Solution.(*Genome).Hex()
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

func (s *Specialization) TargetHex() string {
	return fmt.Sprintf("#%02x%02x%02x", s.target[0], s.target[1], s.target[2])
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
