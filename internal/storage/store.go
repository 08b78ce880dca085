package storage

import (
	"context"

	"genos/internal/model"
)

// Store defines persistence operations for evolution runs and their
// per-generation history.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.Run) error
	GetRun(ctx context.Context, id string) (model.Run, bool, error)
	ListRuns(ctx context.Context) ([]model.Run, error)
	SaveHistory(ctx context.Context, runID string, history []model.GenerationStats) error
	GetHistory(ctx context.Context, runID string) ([]model.GenerationStats, bool, error)
}
