package strategy

import (
	"math/rand"
	"testing"

	"genos/internal/engine"
)

type fakeSolution struct {
	id string
}

func (f *fakeSolution) Mutate() {}

func (f *fakeSolution) CombineWith(other engine.Solution) ([]engine.Solution, error) {
	return []engine.Solution{&fakeSolution{id: f.id}}, nil
}

func (f *fakeSolution) Clone() engine.Solution {
	clone := *f
	return &clone
}

func scoredFixture(fitness ...float64) []Scored {
	out := make([]Scored, len(fitness))
	for i, f := range fitness {
		out[i] = Scored{Solution: &fakeSolution{id: string(rune('a' + i))}, Fitness: f}
	}
	return out
}

func TestRouletteSelectorBiasesTowardHigherFitness(t *testing.T) {
	scored := scoredFixture(0.9, 0.05, 0.05)
	selector := RouletteSelector{}
	rng := rand.New(rand.NewSource(7))

	counts := map[engine.Solution]int{}
	for i := 0; i < 500; i++ {
		parent, err := selector.PickParent(rng, scored)
		if err != nil {
			t.Fatalf("pick parent: %v", err)
		}
		counts[parent]++
	}

	if counts[scored[0].Solution] <= counts[scored[1].Solution] {
		t.Fatalf("expected dominant candidate to be picked more often: high=%d low=%d", counts[scored[0].Solution], counts[scored[1].Solution])
	}
	if counts[scored[0].Solution] < 300 {
		t.Fatalf("expected dominant candidate to take most picks, got %d of 500", counts[scored[0].Solution])
	}
}

func TestRouletteSelectorReturnsPopulationMembers(t *testing.T) {
	scored := scoredFixture(0.3, 0.3, 0.4)
	selector := RouletteSelector{}
	rng := rand.New(rand.NewSource(3))

	members := map[engine.Solution]struct{}{}
	for _, candidate := range scored {
		members[candidate.Solution] = struct{}{}
	}
	for i := 0; i < 50; i++ {
		parent, err := selector.PickParent(rng, scored)
		if err != nil {
			t.Fatalf("pick parent: %v", err)
		}
		if _, ok := members[parent]; !ok {
			t.Fatal("expected picked parent to be one of the candidates")
		}
	}
}

func TestRouletteSelectorRejectsNegativeFitness(t *testing.T) {
	scored := scoredFixture(0.5, -0.1)
	selector := RouletteSelector{}
	rng := rand.New(rand.NewSource(1))

	if _, err := selector.PickParent(rng, scored); err == nil {
		t.Fatal("expected negative fitness to be rejected")
	}
}

func TestRouletteSelectorFallsBackToUniformOnZeroTotal(t *testing.T) {
	scored := scoredFixture(0, 0, 0)
	selector := RouletteSelector{}
	rng := rand.New(rand.NewSource(9))

	seen := map[engine.Solution]struct{}{}
	for i := 0; i < 100; i++ {
		parent, err := selector.PickParent(rng, scored)
		if err != nil {
			t.Fatalf("pick parent: %v", err)
		}
		seen[parent] = struct{}{}
	}
	if len(seen) < 2 {
		t.Fatalf("expected uniform fallback to spread picks, got %d distinct", len(seen))
	}
}

func TestRouletteSelectorGuards(t *testing.T) {
	selector := RouletteSelector{}
	if _, err := selector.PickParent(nil, scoredFixture(1)); err == nil {
		t.Fatal("expected missing random source to be rejected")
	}
	if _, err := selector.PickParent(rand.New(rand.NewSource(1)), nil); err == nil {
		t.Fatal("expected empty candidate set to be rejected")
	}
}

func TestTournamentSelectorPrefersStrongCandidates(t *testing.T) {
	scored := scoredFixture(0.1, 0.2, 0.95, 0.3)
	selector := TournamentSelector{Size: 4}
	rng := rand.New(rand.NewSource(5))

	wins := 0
	for i := 0; i < 200; i++ {
		parent, err := selector.PickParent(rng, scored)
		if err != nil {
			t.Fatalf("pick parent: %v", err)
		}
		if parent == scored[2].Solution {
			wins++
		}
	}
	if wins < 100 {
		t.Fatalf("expected the strongest candidate to win most tournaments, got %d of 200", wins)
	}
}

func TestTournamentSelectorDefaultsSize(t *testing.T) {
	scored := scoredFixture(0.5, 0.6)
	selector := TournamentSelector{}
	rng := rand.New(rand.NewSource(2))

	parent, err := selector.PickParent(rng, scored)
	if err != nil {
		t.Fatalf("pick parent: %v", err)
	}
	if parent != scored[0].Solution && parent != scored[1].Solution {
		t.Fatal("expected picked parent to be one of the candidates")
	}
}

func TestTournamentSelectorGuards(t *testing.T) {
	selector := TournamentSelector{Size: 2}
	if _, err := selector.PickParent(nil, scoredFixture(1)); err == nil {
		t.Fatal("expected missing random source to be rejected")
	}
	if _, err := selector.PickParent(rand.New(rand.NewSource(1)), nil); err == nil {
		t.Fatal("expected empty candidate set to be rejected")
	}
}

func TestSelectorNames(t *testing.T) {
	if got := (RouletteSelector{}).Name(); got != "roulette" {
		t.Fatalf("unexpected roulette name %q", got)
	}
	if got := (TournamentSelector{}).Name(); got != "tournament" {
		t.Fatalf("unexpected tournament name %q", got)
	}
}
