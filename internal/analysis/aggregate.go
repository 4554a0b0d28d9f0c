package analysis

import "github.com/vytor/movelens/internal/models"

// AverageLoss is the mean absolute loss over plies, 0 when there are none.
func AverageLoss(plies []models.PlyRecord) float64 {
	if len(plies) == 0 {
		return 0
	}
	return float64(lossSum(plies)) / float64(len(plies))
}

// Accuracy maps an average loss onto a 0 to 100 score.
func Accuracy(averageLoss float64) float64 {
	return clamp(100-averageLoss/30, 0, 100)
}

// CountSeverities tallies plies per mistake tier.
func CountSeverities(plies []models.PlyRecord) models.SeverityCounts {
	var c models.SeverityCounts
	for _, p := range plies {
		switch p.Severity {
		case models.SeverityInaccuracy:
			c.Inaccuracies++
		case models.SeverityMistake:
			c.Mistakes++
		case models.SeverityBlunder:
			c.Blunders++
		}
	}
	return c
}

// NewGameResult assembles a result and computes its derived statistics.
func NewGameResult(game models.ParsedGame, plies []models.PlyRecord, skipped []models.SkippedMove) models.GameResult {
	avg := AverageLoss(plies)
	return models.GameResult{
		GameID:      game.ID,
		White:       game.White,
		Black:       game.Black,
		Result:      game.Result,
		Opening:     game.Opening,
		ECO:         game.ECO,
		Plies:       plies,
		Skipped:     skipped,
		AverageLoss: avg,
		Accuracy:    Accuracy(avg),
		Counts:      CountSeverities(plies),
	}
}

// Summarize pools the plies of all games. Averages are taken over plies, not
// over per-game averages, so long games weigh more.
func Summarize(games []models.GameResult, topN int) models.GlobalSummary {
	s := models.GlobalSummary{Games: len(games)}
	var sum int
	for _, g := range games {
		s.LossSamples += len(g.Plies)
		sum += lossSum(g.Plies)
		s.Counts = s.Counts.Add(CountSeverities(g.Plies))
	}
	if s.LossSamples > 0 {
		s.AverageLoss = float64(sum) / float64(s.LossSamples)
	}
	s.Accuracy = Accuracy(s.AverageLoss)
	s.TopBlunders = Rank(games, topN, models.SeverityBlunder)
	return s
}

func lossSum(plies []models.PlyRecord) int {
	var sum int
	for _, p := range plies {
		sum += abs(p.Loss)
	}
	return sum
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
