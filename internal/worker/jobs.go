package worker

import (
	"context"

	"github.com/vytor/movelens/internal/lichess"
	"github.com/vytor/movelens/internal/logger"
)

// AnalyzeGameJob fetches one archived game and analyzes it.
type AnalyzeGameJob struct {
	Client   lichess.ClientInterface
	Analyzer Analyzer
	GameID   string
}

func (j *AnalyzeGameJob) Name() string { return "analyze_game" }

func (j *AnalyzeGameJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("game_id", j.GameID)

	raw, err := j.Client.FetchGamePGN(ctx, j.GameID)
	if err != nil {
		log.Error("failed to fetch game: %v", err)
		return err
	}

	result, err := j.Analyzer.AnalyzeGame(ctx, raw)
	if err != nil {
		return err
	}
	log.Info("game analyzed: accuracy %.1f, %d blunders", result.Accuracy, result.Counts.Blunders)
	return nil
}

// ImportGamesJob pulls games from the archive and analyzes them as one run.
type ImportGamesJob struct {
	Client   lichess.ClientInterface
	Analyzer Analyzer
	Request  lichess.Request
}

func (j *ImportGamesJob) Name() string { return "import_games" }

func (j *ImportGamesJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("source", j.Request.Source())
	log.Info("starting background import")

	raws, err := lichess.Collect(ctx, j.Client, j.Request)
	if err != nil {
		log.Error("failed to fetch games: %v", err)
		return err
	}
	log.Info("fetched %d games", len(raws))

	report, err := j.Analyzer.AnalyzeBatch(ctx, j.Request.Source(), raws)
	if err != nil {
		log.Error("batch analysis failed: %v", err)
		return err
	}
	log.Info("import completed: run %s, %d analyzed, %d failed",
		report.RunID, len(report.Results), len(report.Failures))
	return nil
}
