// Package storage persists per-run curriculum history: episode outcomes with
// the difficulty they were played at, and the controller state needed to
// resume a run.
package storage

import (
	"context"

	"oreios/internal/model"
)

// Store defines the persistence operations for curriculum history.
type Store interface {
	Init(ctx context.Context) error
	SaveEpisode(ctx context.Context, rec model.EpisodeRecord) error
	ListEpisodes(ctx context.Context, runID string) ([]model.EpisodeRecord, error)
	SaveCurriculum(ctx context.Context, snap model.CurriculumSnapshot) error
	GetCurriculum(ctx context.Context, runID string) (model.CurriculumSnapshot, bool, error)
	ListRuns(ctx context.Context) ([]model.RunInfo, error)
}
