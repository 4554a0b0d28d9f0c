package services

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/vytor/movelens/internal/analysis"
	"github.com/vytor/movelens/internal/errors"
	"github.com/vytor/movelens/internal/logger"
	"github.com/vytor/movelens/internal/models"
	"github.com/vytor/movelens/internal/repository"
)

// ResultService reads stored analyses and aggregates across them
type ResultService interface {
	GetResult(ctx context.Context, gameID string) (*models.GameResult, error)
	ListResults(ctx context.Context, filter models.ResultFilter) ([]models.GameResult, int, error)
	DeleteResult(ctx context.Context, gameID string) error
	Summary(ctx context.Context, filter models.ResultFilter, topN int) (models.GlobalSummary, error)
	TopBlunders(ctx context.Context, filter models.ResultFilter, topN int, minSeverity models.Severity) ([]models.RankedPly, error)
	WorstPlies(ctx context.Context, gameID string, n int) ([]models.RankedPly, error)
	Heatmap(ctx context.Context, filter models.ResultFilter) (models.SpatialGrid, error)
	GetRun(ctx context.Context, id string) (*models.Run, error)
	ListRuns(ctx context.Context, limit int) ([]models.Run, error)
}

type resultService struct {
	resultRepo repository.ResultRepository
	runRepo    repository.RunRepository
}

// NewResultService creates a new ResultService
func NewResultService(resultRepo repository.ResultRepository, runRepo repository.RunRepository) ResultService {
	return &resultService{resultRepo: resultRepo, runRepo: runRepo}
}

func (s *resultService) GetResult(ctx context.Context, gameID string) (*models.GameResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting result: game_id=%s", gameID)

	if gameID == "" {
		return nil, errors.NewValidationError("game_id", "cannot be empty")
	}

	res, err := s.resultRepo.Get(ctx, gameID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("game", gameID)
		}
		log.Error("failed to get result: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if res == nil {
		return nil, errors.NewNotFoundError("game", gameID)
	}
	return res, nil
}

func (s *resultService) ListResults(ctx context.Context, filter models.ResultFilter) ([]models.GameResult, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing results: player=%s, limit=%d, offset=%d", filter.Player, filter.Limit, filter.Offset)

	results, err := s.resultRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list results: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	total, err := s.resultRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count results: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return results, total, nil
}

func (s *resultService) DeleteResult(ctx context.Context, gameID string) error {
	log := logger.FromContext(ctx)
	log.Info("deleting result: game_id=%s", gameID)

	if err := s.resultRepo.Delete(ctx, gameID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("game", gameID)
		}
		log.Error("failed to delete result: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

// Summary pools every matching game. Pagination in filter is ignored.
func (s *resultService) Summary(ctx context.Context, filter models.ResultFilter, topN int) (models.GlobalSummary, error) {
	games, err := s.all(ctx, filter)
	if err != nil {
		return models.GlobalSummary{}, err
	}
	return analysis.Summarize(games, topN), nil
}

func (s *resultService) TopBlunders(ctx context.Context, filter models.ResultFilter, topN int, minSeverity models.Severity) ([]models.RankedPly, error) {
	games, err := s.all(ctx, filter)
	if err != nil {
		return nil, err
	}
	return analysis.Rank(games, topN, minSeverity), nil
}

// WorstPlies returns the n largest-loss mistakes of one game, the input for an
// explanation prompt.
func (s *resultService) WorstPlies(ctx context.Context, gameID string, n int) ([]models.RankedPly, error) {
	res, err := s.GetResult(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return analysis.Rank([]models.GameResult{*res}, n, models.SeverityInaccuracy), nil
}

func (s *resultService) Heatmap(ctx context.Context, filter models.ResultFilter) (models.SpatialGrid, error) {
	games, err := s.all(ctx, filter)
	if err != nil {
		return models.SpatialGrid{}, err
	}
	return analysis.BuildHeatmap(games...), nil
}

func (s *resultService) GetRun(ctx context.Context, id string) (*models.Run, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting run: id=%s", id)

	run, err := s.runRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("run", id)
		}
		log.Error("failed to get run: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if run == nil {
		return nil, errors.NewNotFoundError("run", id)
	}
	return run, nil
}

func (s *resultService) ListRuns(ctx context.Context, limit int) ([]models.Run, error) {
	runs, err := s.runRepo.List(ctx, limit)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list runs: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return runs, nil
}

func (s *resultService) all(ctx context.Context, filter models.ResultFilter) ([]models.GameResult, error) {
	filter.Limit, filter.Offset = 0, 0
	games, err := s.resultRepo.List(ctx, filter)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load results: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return games, nil
}
