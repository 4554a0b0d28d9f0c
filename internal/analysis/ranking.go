package analysis

import (
	"fmt"
	"sort"

	"github.com/vytor/movelens/internal/models"
)

// Rank returns the plies of severity minSeverity or worse across games,
// largest loss first. Plies that lost nothing are never ranked, so an
// improving move cannot outrank a real mistake. Equal losses keep
// game-then-ply order. topN <= 0 returns every candidate.
func Rank(games []models.GameResult, topN int, minSeverity models.Severity) []models.RankedPly {
	var ranked []models.RankedPly
	for _, g := range games {
		for _, p := range g.Plies {
			if p.Loss <= 0 || p.Severity < minSeverity {
				continue
			}
			ranked = append(ranked, models.RankedPly{
				Magnitude:   p.Loss,
				GameID:      g.GameID,
				Ply:         p.Ply,
				Severity:    p.Severity,
				Description: Describe(p),
			})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Magnitude > ranked[j].Magnitude
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// Describe renders a ply like "12... Nf6 Blunder (loss 420)".
func Describe(p models.PlyRecord) string {
	return fmt.Sprintf("%s %s (loss %d)", p.Notation(), p.Severity.Label(), p.Loss)
}
