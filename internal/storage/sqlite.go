//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"oreios/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func newSQLiteStore(path string) (Store, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	return &SQLiteStore{path: path}, nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveEpisode(ctx context.Context, rec model.EpisodeRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO episodes (run_id, idx, timed_out, distance, level, difficulty, regenerated, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, idx) DO UPDATE SET
			timed_out = excluded.timed_out,
			distance = excluded.distance,
			level = excluded.level,
			difficulty = excluded.difficulty,
			regenerated = excluded.regenerated,
			created_at = excluded.created_at
	`, rec.RunID, rec.Index, rec.TimedOut, rec.Distance, rec.Level, rec.Difficulty, rec.Regenerated,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteStore) ListEpisodes(ctx context.Context, runID string) ([]model.EpisodeRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT run_id, idx, timed_out, distance, level, difficulty, regenerated, created_at
		FROM episodes WHERE run_id = ? ORDER BY idx
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []model.EpisodeRecord
	for rows.Next() {
		var rec model.EpisodeRecord
		var created string
		if err := rows.Scan(&rec.RunID, &rec.Index, &rec.TimedOut, &rec.Distance,
			&rec.Level, &rec.Difficulty, &rec.Regenerated, &created); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			rec.CreatedAt = ts
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *SQLiteStore) SaveCurriculum(ctx context.Context, snap model.CurriculumSnapshot) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO curricula (run_id, level, difficulty, combo_streak, miss_streak, episodes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			level = excluded.level,
			difficulty = excluded.difficulty,
			combo_streak = excluded.combo_streak,
			miss_streak = excluded.miss_streak,
			episodes = excluded.episodes
	`, snap.RunID, snap.Level, snap.Difficulty, snap.ComboStreak, snap.MissStreak, snap.Episodes)
	return err
}

func (s *SQLiteStore) GetCurriculum(ctx context.Context, runID string) (model.CurriculumSnapshot, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.CurriculumSnapshot{}, false, err
	}

	var snap model.CurriculumSnapshot
	err = db.QueryRowContext(ctx, `
		SELECT run_id, level, difficulty, combo_streak, miss_streak, episodes
		FROM curricula WHERE run_id = ?
	`, runID).Scan(&snap.RunID, &snap.Level, &snap.Difficulty, &snap.ComboStreak, &snap.MissStreak, &snap.Episodes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.CurriculumSnapshot{}, false, nil
		}
		return model.CurriculumSnapshot{}, false, err
	}
	return snap, true, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]model.RunInfo, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT e.run_id, COUNT(*), COALESCE(c.level, 0), COALESCE(c.difficulty, 0)
		FROM episodes e
		LEFT JOIN curricula c ON c.run_id = e.run_id
		GROUP BY e.run_id
		ORDER BY e.run_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.RunInfo
	for rows.Next() {
		var info model.RunInfo
		if err := rows.Scan(&info.RunID, &info.Episodes, &info.Level, &info.Difficulty); err != nil {
			return nil, err
		}
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS episodes (
			run_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			timed_out INTEGER NOT NULL,
			distance REAL NOT NULL,
			level INTEGER NOT NULL,
			difficulty REAL NOT NULL,
			regenerated INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (run_id, idx)
		);
		CREATE TABLE IF NOT EXISTS curricula (
			run_id TEXT PRIMARY KEY,
			level INTEGER NOT NULL,
			difficulty REAL NOT NULL,
			combo_streak INTEGER NOT NULL,
			miss_streak INTEGER NOT NULL,
			episodes INTEGER NOT NULL
		);
	`)
	return err
}
