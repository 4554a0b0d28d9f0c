package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vytor/movelens/internal/analysis"
	"github.com/vytor/movelens/internal/models"
)

func TestBuildHeatmap_Orientation(t *testing.T) {
	g := game("g",
		ply(1, models.White, "Ra8", "a8", 400),
		ply(2, models.Black, "Kh1", "h1", 100),
		ply(3, models.White, "e4", "e4", 20),
		ply(4, models.Black, "e4", "e4", -60),
	)

	grid := analysis.BuildHeatmap(g)

	assert.Equal(t, 1, grid.Frequency[0][0], "a8 is the top-left cell")
	assert.Equal(t, 1, grid.Blunders[0][0])
	assert.Equal(t, 1, grid.Frequency[7][7], "h1 is the bottom-right cell")
	assert.Equal(t, 2, grid.Frequency[4][4], "e4 is row 4 column 4")
	assert.Equal(t, 80, grid.LossSum[4][4])
	assert.Equal(t, 40.0, grid.AverageLoss[4][4])
	assert.Equal(t, 0.0, grid.AverageLoss[3][3], "empty squares average to 0")
}

func TestBuildHeatmap_FrequencyMatchesAppliedMoves(t *testing.T) {
	games := []models.GameResult{
		game("a", ply(1, models.White, "e4", "e4", 0), ply(2, models.Black, "c5", "c5", 60)),
		game("b", ply(1, models.White, "d4", "d4", 0), ply(2, models.Black, "d5", "d5", 0), ply(3, models.White, "c4", "c4", 310)),
	}

	grid := analysis.BuildHeatmap(games...)

	total, blunders := 0, 0
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			total += grid.Frequency[r][c]
			blunders += grid.Blunders[r][c]
		}
	}
	assert.Equal(t, 5, total)
	assert.Equal(t, 1, blunders)
}

func TestBuildHeatmap_NoGames(t *testing.T) {
	assert.Equal(t, models.SpatialGrid{}, analysis.BuildHeatmap())
}
