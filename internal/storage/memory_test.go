package storage

import (
	"context"
	"testing"
	"time"

	"oreios/internal/model"
)

func seedStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	recs := []model.EpisodeRecord{
		{RunID: "run-a", Index: 1, TimedOut: false, Distance: 0.8, Level: 1, Difficulty: 0.05, CreatedAt: time.Now()},
		{RunID: "run-a", Index: 0, TimedOut: true, Distance: 5.2, Level: 0, Difficulty: 0, Regenerated: true, CreatedAt: time.Now()},
		{RunID: "run-b", Index: 0, TimedOut: true, Distance: 3.0, CreatedAt: time.Now()},
	}
	for _, rec := range recs {
		if err := store.SaveEpisode(ctx, rec); err != nil {
			t.Fatalf("save episode: %v", err)
		}
	}
	if err := store.SaveCurriculum(ctx, model.CurriculumSnapshot{RunID: "run-a", Level: 1, Difficulty: 0.05, Episodes: 2}); err != nil {
		t.Fatalf("save curriculum: %v", err)
	}
}

func TestMemoryStoreEpisodesOrderedByIndex(t *testing.T) {
	store := NewMemoryStore()
	seedStore(t, store)

	recs, err := store.ListEpisodes(context.Background(), "run-a")
	if err != nil {
		t.Fatalf("list episodes: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d episodes, want 2", len(recs))
	}
	if recs[0].Index != 0 || recs[1].Index != 1 {
		t.Fatalf("episodes out of order: %+v", recs)
	}
	if !recs[0].Regenerated || recs[0].Distance != 5.2 {
		t.Fatalf("record fields lost: %+v", recs[0])
	}
}

func TestMemoryStoreCurriculumRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	seedStore(t, store)
	ctx := context.Background()

	snap, ok, err := store.GetCurriculum(ctx, "run-a")
	if err != nil || !ok {
		t.Fatalf("get curriculum: ok=%v err=%v", ok, err)
	}
	if snap.Level != 1 || snap.Difficulty != 0.05 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if _, ok, err := store.GetCurriculum(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing run: ok=%v err=%v", ok, err)
	}
}

func TestMemoryStoreListRuns(t *testing.T) {
	store := NewMemoryStore()
	seedStore(t, store)

	runs, err := store.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].RunID != "run-a" || runs[0].Episodes != 2 || runs[0].Level != 1 {
		t.Fatalf("run-a summary = %+v", runs[0])
	}
	if runs[1].RunID != "run-b" || runs[1].Episodes != 1 {
		t.Fatalf("run-b summary = %+v", runs[1])
	}
}
