package models

import "time"

// Run is one batch analysis, persisted with its failures.
type Run struct {
	ID         string        `json:"id"`
	Source     string        `json:"source"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Analyzed   int           `json:"analyzed"`
	Failures   []GameFailure `json:"failures"`
}

// GameFailure names a game a batch could not analyze and why.
type GameFailure struct {
	GameID string `json:"game_id"`
	Reason string `json:"reason"`
}

// BatchReport is what a batch run hands back to its caller.
type BatchReport struct {
	RunID    string        `json:"run_id"`
	Results  []GameResult  `json:"results"`
	Failures []GameFailure `json:"failures"`
	Summary  GlobalSummary `json:"summary"`
}
