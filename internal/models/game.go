package models

import "time"

// RawGame is a game as delivered by an archive: an id and its PGN text.
type RawGame struct {
	ID  string `json:"id"`
	PGN string `json:"pgn"`
}

// ParsedGame is the parser's view of a game: header metadata passed through
// unchanged and the ordered move text tokens.
type ParsedGame struct {
	ID       string            `json:"id"`
	Headers  map[string]string `json:"headers"`
	White    string            `json:"white"`
	Black    string            `json:"black"`
	Result   string            `json:"result"`
	Opening  string            `json:"opening"`
	ECO      string            `json:"eco"`
	StartFEN string            `json:"start_fen,omitempty"`
	Moves    []string          `json:"moves"`
}

// SeverityCounts tallies classified plies per mistake tier.
type SeverityCounts struct {
	Inaccuracies int `json:"inaccuracies"`
	Mistakes     int `json:"mistakes"`
	Blunders     int `json:"blunders"`
}

// Add returns the element-wise sum of two tallies.
func (c SeverityCounts) Add(o SeverityCounts) SeverityCounts {
	return SeverityCounts{
		Inaccuracies: c.Inaccuracies + o.Inaccuracies,
		Mistakes:     c.Mistakes + o.Mistakes,
		Blunders:     c.Blunders + o.Blunders,
	}
}

// Total is the number of plies classified as any mistake tier.
func (c SeverityCounts) Total() int {
	return c.Inaccuracies + c.Mistakes + c.Blunders
}

// GameResult is the analysis of one game. Build it with analysis.NewGameResult;
// the derived fields are not recomputed afterwards.
type GameResult struct {
	GameID             string        `json:"game_id"`
	White              string        `json:"white"`
	Black              string        `json:"black"`
	Result             string        `json:"result"`
	Opening            string        `json:"opening"`
	ECO                string        `json:"eco"`
	Plies              []PlyRecord   `json:"plies"`
	Skipped            []SkippedMove `json:"skipped,omitempty"`
	NeutralEvaluations int           `json:"neutral_evaluations"`

	AverageLoss float64        `json:"average_loss"`
	Accuracy    float64        `json:"accuracy"`
	Counts      SeverityCounts `json:"counts"`
	AnalyzedAt  time.Time      `json:"analyzed_at"`
}

// ResultFilter narrows stored game results.
type ResultFilter struct {
	Player   string // matches White or Black
	Result   string
	ECO      string
	RunID    string
	Limit    int
	Offset   int
	OrderBy  string // "analyzed_at", "accuracy" or "average_loss"
	OrderDir string
}
