package strategy

// StopRule decides when a run terminates. Rules are pure functions of
// their inputs, so re-evaluating one without an intervening
// generation yields the same answer.
type StopRule interface {
	Name() string
	ShouldStop(generation int, scored []Scored) bool
}

// GenerationLimit stops once the counter reaches the limit.
type GenerationLimit struct {
	Limit int
}

func (GenerationLimit) Name() string {
	return "generation_limit"
}

func (g GenerationLimit) ShouldStop(generation int, scored []Scored) bool {
	return generation >= g.Limit
}

// TargetFitness stops once any candidate reaches the goal.
type TargetFitness struct {
	Goal float64
}

func (TargetFitness) Name() string {
	return "target_fitness"
}

func (t TargetFitness) ShouldStop(generation int, scored []Scored) bool {
	for _, candidate := range scored {
		if candidate.Fitness >= t.Goal {
			return true
		}
	}
	return false
}
