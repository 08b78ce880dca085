package engine

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

type Config struct {
	PopulationSize      int
	MutationProbability float64
	// Seed selects the shared random stream; zero seeds from the
	// clock.
	Seed           int64
	Specialization Specialization
}

// Observer is invoked synchronously after each completed generation
// with the engine itself, so callers can read the generation counter
// and take a population snapshot.
type Observer func(e *Engine)

// Engine owns the population lifecycle. It is not safe for concurrent
// use: the shared random source is single-owner and all hook calls
// happen sequentially on the caller's goroutine.
type Engine struct {
	cfg        Config
	seed       int64
	rng        *rand.Rand
	population []Solution
	generation int
}

func New(cfg Config) (*Engine, error) {
	if cfg.Specialization == nil {
		return nil, fmt.Errorf("specialization is required: %w", ErrInvalidArgument)
	}
	if cfg.PopulationSize < 2 {
		return nil, fmt.Errorf("population size must be at least 2, got %d: %w", cfg.PopulationSize, ErrInvalidArgument)
	}
	if math.IsNaN(cfg.MutationProbability) || cfg.MutationProbability < 0 || cfg.MutationProbability > 1 {
		return nil, fmt.Errorf("mutation probability must be in [0, 1], got %v: %w", cfg.MutationProbability, ErrInvalidArgument)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		cfg:  cfg,
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}

	initial, err := cfg.Specialization.ProduceInitialPopulation(e.rng)
	if err != nil {
		return nil, fmt.Errorf("produce initial population: %w", err)
	}
	if len(initial) != cfg.PopulationSize {
		return nil, fmt.Errorf("initial population mismatch: got=%d want=%d: %w", len(initial), cfg.PopulationSize, ErrInvalidState)
	}
	for i, member := range initial {
		if member == nil {
			return nil, fmt.Errorf("initial population contains a nil solution at index %d: %w", i, ErrInvalidState)
		}
	}
	e.population = append([]Solution(nil), initial...)
	return e, nil
}

// Run advances generations until the specialization's stopping rule
// fires, invoking the observer after each completed generation. It
// blocks the calling goroutine; cancel the context to abandon a run
// whose stopping rule never fires.
func (e *Engine) Run(ctx context.Context, observe Observer) error {
	for !e.cfg.Specialization.ShouldStop(e.generation, e.hookPopulation()) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.advanceGeneration(); err != nil {
			return err
		}
		if observe != nil {
			observe(e)
		}
	}
	return nil
}

// advanceGeneration produces the next population: select parents,
// recombine, roll the per-offspring mutation chance, and accumulate
// until the configured size is reached. Surplus offspring are
// truncated keeping the earliest-produced. The current population is
// replaced only after the full batch is built, so a failing hook
// leaves engine state untouched.
func (e *Engine) advanceGeneration() error {
	next := make([]Solution, 0, e.cfg.PopulationSize)
	for len(next) < e.cfg.PopulationSize {
		mother, father, err := e.cfg.Specialization.SelectParents(e.rng, e.hookPopulation())
		if err != nil {
			return fmt.Errorf("select parents: %w", err)
		}
		if !e.isMember(mother) {
			return fmt.Errorf("selected parent %T is not a member of the current population: %w", mother, ErrInvalidState)
		}
		if !e.isMember(father) {
			return fmt.Errorf("selected parent %T is not a member of the current population: %w", father, ErrInvalidState)
		}

		offspring, err := mother.CombineWith(father)
		if err != nil {
			return fmt.Errorf("combine parents: %w", err)
		}
		if len(offspring) == 0 {
			return fmt.Errorf("combination produced no offspring: %w", ErrInvalidState)
		}
		for i, child := range offspring {
			if child == nil {
				return fmt.Errorf("combination produced a nil offspring at index %d: %w", i, ErrInvalidState)
			}
			if e.rng.Float64() < e.cfg.MutationProbability {
				child.Mutate()
			}
			next = append(next, child)
		}
	}

	e.population = next[:e.cfg.PopulationSize]
	e.generation++
	return nil
}

func (e *Engine) CurrentGeneration() int {
	return e.generation
}

func (e *Engine) PopulationSize() int {
	return e.cfg.PopulationSize
}

func (e *Engine) MutationProbability() float64 {
	return e.cfg.MutationProbability
}

// Seed reports the effective seed, which differs from the configured
// one only when the configuration left it zero.
func (e *Engine) Seed() int64 {
	return e.seed
}

// Snapshot returns deep copies of the current population. Callers
// never receive live references to engine-owned solutions.
func (e *Engine) Snapshot() []Solution {
	out := make([]Solution, len(e.population))
	for i, member := range e.population {
		out[i] = member.Clone()
	}
	return out
}

// hookPopulation hands hooks the live members in a fresh slice:
// parent selection works on identities, but reordering must not leak
// back into engine storage.
func (e *Engine) hookPopulation() []Solution {
	return append([]Solution(nil), e.population...)
}

func (e *Engine) isMember(candidate Solution) bool {
	for _, member := range e.population {
		if member == candidate {
			return true
		}
	}
	return false
}
