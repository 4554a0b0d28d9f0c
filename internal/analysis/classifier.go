package analysis

import "github.com/vytor/movelens/internal/models"

// Severity thresholds in centipawns. Each tier includes its lower bound.
const (
	InaccuracyThreshold = 50
	MistakeThreshold    = 150
	BlunderThreshold    = 300
)

// Classify maps a loss to its severity tier. Losses below the inaccuracy
// threshold, including negative ones, are not mistakes.
func Classify(loss int) models.Severity {
	switch {
	case loss >= BlunderThreshold:
		return models.SeverityBlunder
	case loss >= MistakeThreshold:
		return models.SeverityMistake
	case loss >= InaccuracyThreshold:
		return models.SeverityInaccuracy
	default:
		return models.SeverityNone
	}
}
