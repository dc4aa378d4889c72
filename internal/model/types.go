package model

import "time"

// EpisodeOutcome is the end-of-episode summary the environment reports to the
// curriculum controller.
type EpisodeOutcome struct {
	TimedOut bool    `json:"timed_out"`
	Distance float64 `json:"distance"`
}

// EpisodeRecord is one persisted curriculum decision.
type EpisodeRecord struct {
	RunID       string    `json:"run_id"`
	Index       int       `json:"index"`
	TimedOut    bool      `json:"timed_out"`
	Distance    float64   `json:"distance"`
	Level       int       `json:"level"`
	Difficulty  float64   `json:"difficulty"`
	Regenerated bool      `json:"regenerated"`
	CreatedAt   time.Time `json:"created_at"`
}

// CurriculumSnapshot is the controller state persisted per run.
type CurriculumSnapshot struct {
	RunID       string  `json:"run_id"`
	Level       int     `json:"level"`
	Difficulty  float64 `json:"difficulty"`
	ComboStreak int     `json:"combo_streak"`
	MissStreak  int     `json:"miss_streak"`
	Episodes    int     `json:"episodes"`
}

// RunInfo summarizes one stored training run.
type RunInfo struct {
	RunID      string  `json:"run_id"`
	Episodes   int     `json:"episodes"`
	Level      int     `json:"level"`
	Difficulty float64 `json:"difficulty"`
}
