package strategy

import "testing"

func TestGenerationLimitBoundary(t *testing.T) {
	rule := GenerationLimit{Limit: 3}

	if rule.ShouldStop(2, nil) {
		t.Fatal("expected run to continue below the limit")
	}
	if !rule.ShouldStop(3, nil) {
		t.Fatal("expected run to stop at the limit")
	}
	if !rule.ShouldStop(4, nil) {
		t.Fatal("expected run to stop past the limit")
	}
}

func TestGenerationLimitIsIdempotent(t *testing.T) {
	rule := GenerationLimit{Limit: 5}
	for i := 0; i < 3; i++ {
		if rule.ShouldStop(4, nil) {
			t.Fatal("expected repeated evaluation below the limit to keep answering false")
		}
	}
	for i := 0; i < 3; i++ {
		if !rule.ShouldStop(5, nil) {
			t.Fatal("expected repeated evaluation at the limit to keep answering true")
		}
	}
}

func TestTargetFitnessStopsOnGoal(t *testing.T) {
	rule := TargetFitness{Goal: 0.9}

	if rule.ShouldStop(0, scoredFixture(0.1, 0.5, 0.89)) {
		t.Fatal("expected run to continue below the goal")
	}
	if !rule.ShouldStop(0, scoredFixture(0.1, 0.95, 0.2)) {
		t.Fatal("expected run to stop once a candidate reaches the goal")
	}
	if rule.ShouldStop(0, nil) {
		t.Fatal("expected an empty population to keep the run going")
	}
}

func TestStopRuleNames(t *testing.T) {
	if got := (GenerationLimit{}).Name(); got != "generation_limit" {
		t.Fatalf("unexpected generation limit name %q", got)
	}
	if got := (TargetFitness{}).Name(); got != "target_fitness" {
		t.Fatalf("unexpected target fitness name %q", got)
	}
}
