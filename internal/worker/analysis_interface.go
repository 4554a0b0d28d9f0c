package worker

import (
	"context"

	"github.com/vytor/movelens/internal/models"
)

// Analyzer defines the analysis operations jobs need.
// This avoids import cycles by not importing the services package
type Analyzer interface {
	AnalyzeGame(ctx context.Context, raw models.RawGame) (models.GameResult, error)
	AnalyzeBatch(ctx context.Context, source string, raws []models.RawGame) (models.BatchReport, error)
}
