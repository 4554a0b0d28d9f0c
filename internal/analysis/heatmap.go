package analysis

import "github.com/vytor/movelens/internal/models"

// BuildHeatmap buckets every analyzed ply by its destination square.
// Averages are 0 on squares nothing moved to.
func BuildHeatmap(games ...models.GameResult) models.SpatialGrid {
	var g models.SpatialGrid
	for _, game := range games {
		for _, p := range game.Plies {
			row, col, ok := squareCoords(p.Move.To)
			if !ok {
				continue
			}
			g.Frequency[row][col]++
			g.LossSum[row][col] += abs(p.Loss)
			if p.Severity == models.SeverityBlunder {
				g.Blunders[row][col]++
			}
		}
	}
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if n := g.Frequency[r][c]; n > 0 {
				g.AverageLoss[r][c] = float64(g.LossSum[r][c]) / float64(n)
			}
		}
	}
	return g
}
