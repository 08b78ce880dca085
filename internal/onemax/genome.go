package onemax

import (
	"fmt"
	"math/rand"
	"strings"

	"genos/internal/engine"
)

// Genome is a fixed-length bit vector. It captures the shared random
// source at construction, like every solution type.
type Genome struct {
	bits []bool
	rng  *rand.Rand
}

func NewGenome(bits []bool, rng *rand.Rand) (*Genome, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if len(bits) == 0 {
		return nil, fmt.Errorf("bit length must be > 0")
	}
	return &Genome{bits: append([]bool(nil), bits...), rng: rng}, nil
}

func RandomGenome(length int, rng *rand.Rand) (*Genome, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if length <= 0 {
		return nil, fmt.Errorf("bit length must be > 0, got %d", length)
	}
	bits := make([]bool, length)
	for i := range bits {
		bits[i] = rng.Intn(2) == 1
	}
	return &Genome{bits: bits, rng: rng}, nil
}

// Mutate flips one randomly chosen bit.
func (g *Genome) Mutate() {
	index := g.rng.Intn(len(g.bits))
	g.bits[index] = !g.bits[index]
}

// CombineWith performs uniform crossover: each position is drawn from
// one parent for the first child and from the other for the second.
func (g *Genome) CombineWith(other engine.Solution) ([]engine.Solution, error) {
	partner, ok := other.(*Genome)
	if !ok {
		return nil, fmt.Errorf("cannot combine a bit genome with %T: %w", other, engine.ErrInvalidArgument)
	}
	if len(partner.bits) != len(g.bits) {
		return nil, fmt.Errorf("bit length mismatch: %d vs %d: %w", len(g.bits), len(partner.bits), engine.ErrInvalidArgument)
	}

	first := make([]bool, len(g.bits))
	second := make([]bool, len(g.bits))
	for i := range g.bits {
		if g.rng.Intn(2) == 0 {
			first[i], second[i] = g.bits[i], partner.bits[i]
		} else {
			first[i], second[i] = partner.bits[i], g.bits[i]
		}
	}
	return []engine.Solution{
		&Genome{bits: first, rng: g.rng},
		&Genome{bits: second, rng: g.rng},
	}, nil
}

func (g *Genome) Clone() engine.Solution {
	return &Genome{bits: append([]bool(nil), g.bits...), rng: g.rng}
}

func (g *Genome) Bits() []bool {
	return append([]bool(nil), g.bits...)
}

func (g *Genome) OnesCount() int {
	count := 0
	for _, bit := range g.bits {
		if bit {
			count++
		}
	}
	return count
}

func (g *Genome) String() string {
	var b strings.Builder
	b.Grow(len(g.bits))
	for _, bit := range g.bits {
		if bit {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
