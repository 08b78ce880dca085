package engine

import "math/rand"

// Specialization supplies the policy hooks a concrete evolutionary
// algorithm plugs into the engine: initial population construction,
// the stopping rule, and parent selection. The engine validates hook
// postconditions rather than trusting them.
type Specialization interface {
	// ProduceInitialPopulation returns exactly the configured number
	// of solutions. The passed source is the engine's shared random
	// stream; solution factories capture it for later mutation and
	// recombination draws.
	ProduceInitialPopulation(rng *rand.Rand) ([]Solution, error)

	// ShouldStop is evaluated once before each generation advance
	// and terminates the run when true. It must be idempotent: no
	// side effects, and the same answer for the same inputs.
	ShouldStop(generation int, population []Solution) bool

	// SelectParents returns two members of the passed population.
	// Both must be present by identity; the engine rejects foreign
	// solutions before any offspring are produced.
	SelectParents(rng *rand.Rand, population []Solution) (Solution, Solution, error)
}
