package engine

// Solution is the capability every candidate genome must provide. The
// engine never inspects a solution beyond these operations; concrete
// representations live entirely in specialization packages.
//
// Implementations are expected to be pointer types: the engine tracks
// population membership by interface identity.
type Solution interface {
	// Mutate applies one randomized in-place modification to the
	// receiver only. It must be self-contained and draw randomness
	// exclusively from the shared source its factory captured, so
	// that runs are reproducible for a fixed seed.
	Mutate()

	// CombineWith mixes the receiver with a partner and returns at
	// least one offspring. Neither parent may be modified, and
	// offspring must not alias parent state. The engine consumes up
	// to the number of offspring it needs and discards the rest.
	// Combining with an incompatible partner fails wrapping
	// ErrInvalidArgument.
	CombineWith(other Solution) ([]Solution, error)

	// Clone returns an independent deep copy of the receiver.
	Clone() Solution
}
