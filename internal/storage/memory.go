package storage

import (
	"context"
	"sort"
	"sync"

	"oreios/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	episodes    map[string][]model.EpisodeRecord
	curricula   map[string]model.CurriculumSnapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.episodes = make(map[string][]model.EpisodeRecord)
	s.curricula = make(map[string]model.CurriculumSnapshot)
	return nil
}

func (s *MemoryStore) SaveEpisode(_ context.Context, rec model.EpisodeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.episodes[rec.RunID] = append(s.episodes[rec.RunID], rec)
	return nil
}

func (s *MemoryStore) ListEpisodes(_ context.Context, runID string) ([]model.EpisodeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.episodes[runID]
	out := make([]model.EpisodeRecord, len(recs))
	copy(out, recs)
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (s *MemoryStore) SaveCurriculum(_ context.Context, snap model.CurriculumSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.curricula[snap.RunID] = snap
	return nil
}

func (s *MemoryStore) GetCurriculum(_ context.Context, runID string) (model.CurriculumSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.curricula[runID]
	return snap, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]model.RunInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make(map[string]struct{})
	for id := range s.episodes {
		ids[id] = struct{}{}
	}
	for id := range s.curricula {
		ids[id] = struct{}{}
	}

	runs := make([]model.RunInfo, 0, len(ids))
	for id := range ids {
		info := model.RunInfo{RunID: id, Episodes: len(s.episodes[id])}
		if snap, ok := s.curricula[id]; ok {
			info.Level = snap.Level
			info.Difficulty = snap.Difficulty
		}
		runs = append(runs, info)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].RunID < runs[j].RunID })
	return runs, nil
}
