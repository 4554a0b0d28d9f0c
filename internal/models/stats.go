package models

// RankedPly is one entry of a cross-game mistake ranking.
type RankedPly struct {
	Magnitude   int      `json:"magnitude"`
	GameID      string   `json:"game_id"`
	Ply         int      `json:"ply"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// GlobalSummary aggregates many game results.
type GlobalSummary struct {
	Games       int            `json:"games"`
	LossSamples int            `json:"loss_samples"`
	AverageLoss float64        `json:"average_loss"`
	Accuracy    float64        `json:"accuracy"`
	Counts      SeverityCounts `json:"counts"`
	TopBlunders []RankedPly    `json:"top_blunders"`
}

// Grid is an 8x8 board-shaped matrix. Row 0 is rank 8 (the top of a board drawn
// from White's side), column 0 is file a.
type Grid[T int | float64] [8][8]T

// SpatialGrid holds per-destination-square statistics for heatmaps.
type SpatialGrid struct {
	Frequency   Grid[int]     `json:"frequency"`
	Blunders    Grid[int]     `json:"blunders"`
	LossSum     Grid[int]     `json:"loss_sum"`
	AverageLoss Grid[float64] `json:"average_loss"`
}
