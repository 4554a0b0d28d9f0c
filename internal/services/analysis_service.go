package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/corentings/chess/v2/opening"
	"github.com/google/uuid"

	"github.com/vytor/movelens/internal/analysis"
	"github.com/vytor/movelens/internal/engine"
	"github.com/vytor/movelens/internal/errors"
	"github.com/vytor/movelens/internal/logger"
	"github.com/vytor/movelens/internal/models"
	"github.com/vytor/movelens/internal/pgn"
	"github.com/vytor/movelens/internal/repository"
)

// SessionPool hands out engine sessions. engine.Pool satisfies it.
type SessionPool interface {
	Acquire(ctx context.Context) (engine.Session, error)
	Release(engine.Session)
	Size() int
}

// AnalysisService handles game analysis business logic
type AnalysisService interface {
	AnalyzeGame(ctx context.Context, raw models.RawGame) (models.GameResult, error)
	AnalyzeBatch(ctx context.Context, source string, raws []models.RawGame) (models.BatchReport, error)
}

type analysisService struct {
	pool       SessionPool
	resultRepo repository.ResultRepository
	runRepo    repository.RunRepository
	book       *opening.BookECO
	config     AnalysisConfig
	newID      func() string
	now        func() time.Time
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(
	pool SessionPool,
	resultRepo repository.ResultRepository,
	runRepo repository.RunRepository,
	config AnalysisConfig,
) AnalysisService {
	return &analysisService{
		pool:       pool,
		resultRepo: resultRepo,
		runRepo:    runRepo,
		book:       opening.NewBookECO(),
		config:     config,
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

// AnalyzeGame parses, evaluates and stores a single game outside any run.
func (s *analysisService) AnalyzeGame(ctx context.Context, raw models.RawGame) (models.GameResult, error) {
	log := logger.FromContext(ctx).WithField("game_id", raw.ID)
	log.Info("starting game analysis")

	result, err := s.analyze(logger.NewContext(ctx, log), raw, "")
	if err != nil {
		log.Error("game analysis failed: %v", err)
		return models.GameResult{}, err
	}
	return result, nil
}

// AnalyzeBatch evaluates games concurrently, one engine session per game.
// A game that fails is reported in the batch's failures and the others still
// complete. Results keep the order of raws.
func (s *analysisService) AnalyzeBatch(ctx context.Context, source string, raws []models.RawGame) (models.BatchReport, error) {
	run := models.Run{ID: s.newID(), Source: source, StartedAt: s.now().UTC()}
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"run_id": run.ID,
		"source": source,
	})
	log.Info("starting batch analysis of %d games", len(raws))

	if err := s.runRepo.Create(ctx, run); err != nil {
		log.Error("failed to create run: %v", err)
		return models.BatchReport{}, errors.NewInternalError(err)
	}

	type outcome struct {
		result models.GameResult
		err    error
	}
	outcomes := make([]outcome, len(raws))

	maxConc := s.pool.Size()
	if maxConc <= 0 {
		maxConc = 1
	}
	sem := make(chan struct{}, maxConc)
	runCtx := logger.NewContext(ctx, log)

	// Results are keyed by game id, so a repeated id would overwrite the
	// first game's stored result.
	ids := make([]string, len(raws))
	seen := make(map[string]int, len(raws))
	for i, raw := range raws {
		ids[i] = pgn.GameID(raw)
		if ids[i] == "" {
			continue
		}
		if first, dup := seen[ids[i]]; dup {
			outcomes[i] = outcome{err: fmt.Errorf("duplicate game id %s, already used by game %d", ids[i], first+1)}
			continue
		}
		seen[ids[i]] = i
	}

	var wg sync.WaitGroup
	for i, raw := range raws {
		if outcomes[i].err != nil {
			continue
		}
		wg.Add(1)
		go func(i int, raw models.RawGame) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				outcomes[i] = outcome{err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			res, err := s.analyze(runCtx, raw, run.ID)
			outcomes[i] = outcome{result: res, err: err}
		}(i, raw)
	}
	wg.Wait()

	report := models.BatchReport{RunID: run.ID, Results: make([]models.GameResult, 0, len(raws))}
	for i, o := range outcomes {
		if o.err != nil {
			id := ids[i]
			if id == "" {
				id = fmt.Sprintf("game-%d", i+1)
			}
			log.WithField("game_id", id).Warn("game failed: %v", o.err)
			report.Failures = append(report.Failures, models.GameFailure{GameID: id, Reason: o.err.Error()})
			continue
		}
		report.Results = append(report.Results, o.result)
	}
	report.Summary = analysis.Summarize(report.Results, s.config.TopN)

	run.FinishedAt = s.now().UTC()
	run.Analyzed = len(report.Results)
	run.Failures = report.Failures
	if err := s.runRepo.Finish(context.WithoutCancel(ctx), run); err != nil {
		log.Warn("failed to record run completion: %v", err)
	}

	log.Info("batch analysis completed: %d analyzed, %d failed, accuracy %.1f",
		len(report.Results), len(report.Failures), report.Summary.Accuracy)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (s *analysisService) analyze(ctx context.Context, raw models.RawGame, runID string) (models.GameResult, error) {
	log := logger.FromContext(ctx)

	game, err := pgn.Parse(raw)
	if err != nil {
		return models.GameResult{}, err
	}
	if game.ID == "" {
		game.ID = s.newID()
	}
	log = log.WithField("game_id", game.ID)

	if !s.config.Reanalyze {
		if stored, ok := s.stored(ctx, game.ID); ok {
			log.Debug("game already analyzed, reusing stored result")
			return stored, nil
		}
	}

	session, err := s.pool.Acquire(ctx)
	if err != nil {
		return models.GameResult{}, fmt.Errorf("acquire engine session: %w", err)
	}
	defer s.pool.Release(session)

	if err := session.NewGame(ctx); err != nil {
		return models.GameResult{}, err
	}

	evaluator := analysis.NewEvaluator(session,
		analysis.WithFailurePolicy(s.config.FailurePolicy),
		analysis.WithOpeningBook(s.book),
	)
	result, err := evaluator.EvaluateGame(logger.NewContext(ctx, log), game)
	if err != nil {
		return models.GameResult{}, err
	}

	if err := s.resultRepo.Save(ctx, result, runID); err != nil {
		log.Error("failed to store result: %v", err)
		return models.GameResult{}, fmt.Errorf("store result: %w", err)
	}
	return result, nil
}

// stored returns the saved result for gameID. Lookup failures only mean the
// game is analyzed again.
func (s *analysisService) stored(ctx context.Context, gameID string) (models.GameResult, bool) {
	log := logger.FromContext(ctx)

	exists, err := s.resultRepo.Exists(ctx, gameID)
	if err != nil {
		log.Warn("failed to look up stored result: %v", err)
		return models.GameResult{}, false
	}
	if !exists {
		return models.GameResult{}, false
	}

	res, err := s.resultRepo.Get(ctx, gameID)
	if err != nil || res == nil {
		if err != nil && !stderrors.Is(err, sql.ErrNoRows) {
			log.Warn("failed to load stored result: %v", err)
		}
		return models.GameResult{}, false
	}
	return *res, true
}
