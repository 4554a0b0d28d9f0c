package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/movelens/internal/models"
)

func sampleGame() models.GameResult {
	return models.GameResult{
		GameID:      "https://lichess.org/AbCd1234",
		White:       "alice",
		Black:       "bob",
		Result:      "1-0",
		ECO:         "C20",
		Opening:     "King's Pawn Game",
		AverageLoss: 140,
		Accuracy:    95.33,
		Counts:      models.SeverityCounts{Blunders: 1},
		AnalyzedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Plies: []models.PlyRecord{
			{Ply: 1, MoveNumber: 1, Mover: models.White, Move: models.Move{SAN: "e4", To: "e4"},
				EvalBefore: models.Centipawn(20), EvalAfter: models.Centipawn(40), Loss: -20},
			{Ply: 2, MoveNumber: 1, Mover: models.Black, Move: models.Move{SAN: "f6", To: "f6"},
				EvalBefore: models.Centipawn(40), EvalAfter: models.Mate(3), Loss: 9960, Severity: models.SeverityBlunder},
		},
		Skipped: []models.SkippedMove{{Ply: 3, Move: "Zz9", Reason: "illegal"}},
	}
}

func TestSafeGameID(t *testing.T) {
	assert.Equal(t, "AbCd1234", SafeGameID("AbCd1234"))
	assert.Equal(t, "https___lichess_", SafeGameID("https://lichess.org/AbCd1234"))
	assert.Equal(t, "a_b-c", SafeGameID("a b-c"))
	assert.Len(t, SafeGameID(strings.Repeat("x", 40)), 16)
}

func TestWriteGame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGame(&buf, sampleGame()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Game https://lichess.org/AbCd1234: alice vs bob (Result: 1-0)\n"))
	assert.Contains(t, out, "Accuracy: 95.3%")
	assert.Contains(t, out, "Blunders: 1")
	assert.Contains(t, out, "  * 1... f6 Blunder (loss 9960)\n")
	assert.NotContains(t, out, "1. e4")
	assert.Contains(t, out, `ply 3 "Zz9" skipped: illegal`)
}

func TestWriteSummaryAndTopBlunders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, models.GlobalSummary{Games: 2, LossSamples: 10, AverageLoss: 30, Accuracy: 99}))
	assert.Contains(t, buf.String(), "Games: 2\n")
	assert.Contains(t, buf.String(), "Accuracy: 99.0%\n")

	buf.Reset()
	require.NoError(t, WriteTopBlunders(&buf, []models.RankedPly{
		{Magnitude: 420, GameID: "g1", Description: "12... Nf6 Blunder (loss 420)"},
	}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "=== TOP BLUNDERS (GLOBAL) ===", lines[0])
	assert.Equal(t, "g1               | loss= 420 | 12... Nf6 Blunder (loss 420)", lines[len(lines)-1])
}

func TestWriteCounts(t *testing.T) {
	var g models.Grid[int]
	g[0][0] = 3 // a8
	g[7][7] = 5 // h1

	var buf bytes.Buffer
	require.NoError(t, WriteCounts(&buf, "Frequency", g))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	require.Len(t, lines, 11)
	assert.Equal(t, "Frequency", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "8 |     3"))
	assert.True(t, strings.HasPrefix(lines[9], "1 |"))
	assert.True(t, strings.HasSuffix(lines[9], "     5"))
	assert.Equal(t, "        a     b     c     d     e     f     g     h", lines[10])
}

func TestWriteHeatmapsIncludesAllBoards(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeatmaps(&buf, models.SpatialGrid{}))
	out := buf.String()
	assert.Contains(t, out, "Move frequency per square")
	assert.Contains(t, out, "Blunders per square")
	assert.Contains(t, out, "Average loss per square")
	assert.Contains(t, out, "   0.0")
}

func TestWriteLossSeries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLossSeries(&buf, sampleGame()))
	assert.Equal(t,
		"ply,move,mover,san,eval_before,eval_after,loss,severity\n"+
			"1,1,white,e4,20,40,-20,none\n"+
			"2,1,black,f6,40,10000,9960,blunder\n",
		buf.String())
}

func TestWriteAccuracyTrend(t *testing.T) {
	var buf bytes.Buffer
	games := []models.GameResult{{GameID: "a", Accuracy: 90.5, AverageLoss: 285}, {GameID: "b", Accuracy: 100}}
	require.NoError(t, WriteAccuracyTrend(&buf, games))
	assert.Equal(t, "index,game_id,accuracy,average_loss\n1,a,90.50,285.00\n2,b,100.00,0.00\n", buf.String())
}

func TestExplainPrompt(t *testing.T) {
	prompt := ExplainPrompt([]models.RankedPly{
		{Description: "13. Nd4 Blunder (loss 466)"},
		{Description: "30... Ke3 Mistake (loss 278)"},
	})
	assert.True(t, strings.HasPrefix(prompt, "You are a chess expert. Explain why the following moves were bad.\n"))
	assert.Contains(t, prompt, "avoid hallucination.\n")
	assert.Contains(t, prompt, "- Move 13. Nd4 Blunder (loss 466)\n- Move 30... Ke3 Mistake (loss 278)\n")
	assert.True(t, strings.HasSuffix(prompt, "standard chess principles."))
}

func TestWriterLaysOutFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	paths, err := w.WriteGames([]models.GameResult{sampleGame()})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "game_https___lichess_.txt"),
		filepath.Join(dir, "loss_https___lichess_.csv"),
		filepath.Join(dir, "ACCURACY_TREND.csv"),
	}, paths)

	paths, err = w.WriteAggregate(models.GlobalSummary{Games: 1}, models.SpatialGrid{})
	require.NoError(t, err)
	assert.Len(t, paths, 5)
	assert.FileExists(t, filepath.Join(dir, "heatmaps", "average_loss.txt"))

	p, err := w.WritePrompt("g1", "explain")
	require.NoError(t, err)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "explain\n", string(data))
}
