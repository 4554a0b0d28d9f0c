// Package report renders analysis results as plain text and CSV.
package report

import (
	"fmt"
	"io"
	"regexp"

	"github.com/vytor/movelens/internal/models"
)

var unsafeIDChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SafeGameID makes a game id usable as a file name: anything outside
// [A-Za-z0-9_-] becomes "_" and the result is cut to 16 characters.
func SafeGameID(id string) string {
	s := unsafeIDChars.ReplaceAllString(id, "_")
	if len(s) > 16 {
		s = s[:16]
	}
	return s
}

// WriteGame renders one game: header line, statistics and the list of
// classified mistakes in move order.
func WriteGame(w io.Writer, g models.GameResult) error {
	ew := &errWriter{w: w}
	ew.printf("Game %s: %s vs %s (Result: %s)\n", g.GameID, orUnknown(g.White), orUnknown(g.Black), orUnknown(g.Result))
	if g.Opening != "" || g.ECO != "" {
		ew.printf("    Opening: %s %s\n", g.ECO, g.Opening)
	}
	ew.printf("    Plies: %d\n", len(g.Plies))
	ew.printf("    Average loss: %.1f\n", g.AverageLoss)
	ew.printf("    Accuracy: %.1f%%\n", g.Accuracy)
	ew.printf("    Inaccuracies: %d\n", g.Counts.Inaccuracies)
	ew.printf("    Mistakes: %d\n", g.Counts.Mistakes)
	ew.printf("    Blunders: %d\n", g.Counts.Blunders)
	if g.NeutralEvaluations > 0 {
		ew.printf("    Neutral evaluations: %d\n", g.NeutralEvaluations)
	}

	for _, p := range g.Plies {
		if p.Severity == models.SeverityNone {
			continue
		}
		ew.printf("  * %s %s (loss %d)\n", p.Notation(), p.Severity.Label(), p.Loss)
	}
	for _, s := range g.Skipped {
		ew.printf("  ! ply %d %q skipped: %s\n", s.Ply, s.Move, s.Reason)
	}
	return ew.err
}

// WriteSummary renders the pooled statistics of many games.
func WriteSummary(w io.Writer, s models.GlobalSummary) error {
	ew := &errWriter{w: w}
	ew.printf("=== SUMMARY ===\n\n")
	ew.printf("Games: %d\n", s.Games)
	ew.printf("Analyzed moves: %d\n", s.LossSamples)
	ew.printf("Average loss: %.1f\n", s.AverageLoss)
	ew.printf("Accuracy: %.1f%%\n", s.Accuracy)
	ew.printf("Inaccuracies: %d\n", s.Counts.Inaccuracies)
	ew.printf("Mistakes: %d\n", s.Counts.Mistakes)
	ew.printf("Blunders: %d\n", s.Counts.Blunders)
	return ew.err
}

// WriteTopBlunders renders a ranking, one "id | loss= | description" line per
// entry.
func WriteTopBlunders(w io.Writer, ranked []models.RankedPly) error {
	ew := &errWriter{w: w}
	ew.printf("=== TOP BLUNDERS (GLOBAL) ===\n\n")
	for _, r := range ranked {
		ew.printf("%-16s | loss=%4d | %s\n", SafeGameID(r.GameID), r.Magnitude, r.Description)
	}
	return ew.err
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

// errWriter keeps the first write error so a sequence of prints can be
// checked once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
