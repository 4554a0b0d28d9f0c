package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vytor/movelens/internal/logger"
	"github.com/vytor/movelens/internal/models"
)

// Writer lays report files out under a directory.
type Writer struct {
	dir string
	log *logger.Logger
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, log: logger.Default().WithPrefix("report")}
}

// Dir is the directory reports are written to.
func (w *Writer) Dir() string { return w.dir }

// WriteGames writes a text report and a loss series CSV per game, and the
// accuracy trend across them. It returns the paths written.
func (w *Writer) WriteGames(games []models.GameResult) ([]string, error) {
	var paths []string
	for _, g := range games {
		id := SafeGameID(g.GameID)
		p, err := w.write("game_"+id+".txt", func(f io.Writer) error { return WriteGame(f, g) })
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)

		p, err = w.write("loss_"+id+".csv", func(f io.Writer) error { return WriteLossSeries(f, g) })
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}

	if len(games) > 0 {
		p, err := w.write("ACCURACY_TREND.csv", func(f io.Writer) error { return WriteAccuracyTrend(f, games) })
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// WriteAggregate writes the summary, the blunder ranking and the heatmaps.
func (w *Writer) WriteAggregate(summary models.GlobalSummary, grid models.SpatialGrid) ([]string, error) {
	var paths []string
	steps := []struct {
		name   string
		render func(io.Writer) error
	}{
		{"SUMMARY.txt", func(f io.Writer) error { return WriteSummary(f, summary) }},
		{"TOP_BLUNDERS.txt", func(f io.Writer) error { return WriteTopBlunders(f, summary.TopBlunders) }},
		{filepath.Join("heatmaps", "frequency.txt"), func(f io.Writer) error {
			return WriteCounts(f, "Move frequency per square", grid.Frequency)
		}},
		{filepath.Join("heatmaps", "blunders.txt"), func(f io.Writer) error {
			return WriteCounts(f, "Blunders per square", grid.Blunders)
		}},
		{filepath.Join("heatmaps", "average_loss.txt"), func(f io.Writer) error {
			return WriteAverages(f, "Average loss per square", grid.AverageLoss)
		}},
	}
	for _, s := range steps {
		p, err := w.write(s.name, s.render)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// WritePrompt stores the explanation prompt for one game.
func (w *Writer) WritePrompt(gameID, prompt string) (string, error) {
	return w.write("explain_"+SafeGameID(gameID)+".txt", func(f io.Writer) error {
		_, err := io.WriteString(f, prompt+"\n")
		return err
	})
}

func (w *Writer) write(name string, render func(io.Writer) error) (string, error) {
	path := filepath.Join(w.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	w.log.Debug("wrote %s", path)
	return path, nil
}
