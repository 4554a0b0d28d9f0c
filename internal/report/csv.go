package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/vytor/movelens/internal/models"
)

// WriteLossSeries writes one CSV row per ply of a game, ready for plotting.
func WriteLossSeries(w io.Writer, g models.GameResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ply", "move", "mover", "san", "eval_before", "eval_after", "loss", "severity"}); err != nil {
		return err
	}
	for _, p := range g.Plies {
		row := []string{
			strconv.Itoa(p.Ply),
			strconv.Itoa(p.MoveNumber),
			string(p.Mover),
			p.Move.SAN,
			strconv.Itoa(p.EvalBefore.Centipawns()),
			strconv.Itoa(p.EvalAfter.Centipawns()),
			strconv.Itoa(p.Loss),
			p.Severity.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAccuracyTrend writes one CSV row per game in the given order.
func WriteAccuracyTrend(w io.Writer, games []models.GameResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "game_id", "accuracy", "average_loss"}); err != nil {
		return err
	}
	for i, g := range games {
		row := []string{
			strconv.Itoa(i + 1),
			g.GameID,
			strconv.FormatFloat(g.Accuracy, 'f', 2, 64),
			strconv.FormatFloat(g.AverageLoss, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
