package services_test

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vytor/movelens/internal/analysis"
	"github.com/vytor/movelens/internal/config"
	"github.com/vytor/movelens/internal/engine"
	apperrors "github.com/vytor/movelens/internal/errors"
	"github.com/vytor/movelens/internal/models"
	"github.com/vytor/movelens/internal/services"
	"github.com/vytor/movelens/internal/testutil/mocks"
)

const (
	afterE4 = "rnbqkbnr/pppppppp/8/8/4P3/"
	afterD4 = "rnbqkbnr/pppppppp/8/8/3P4/"
)

func fenPrefix(prefix string) any {
	return mock.MatchedBy(func(fen string) bool { return strings.HasPrefix(fen, prefix) })
}

// newPool starts an engine pool of mock sessions. setup registers
// position-specific replies ahead of the default 0 evaluation.
func newPool(t *testing.T, setup func(*mocks.MockSession)) (*engine.Pool, *[]*mocks.MockSession) {
	t.Helper()
	var opened []*mocks.MockSession
	open := func(context.Context) (engine.Session, error) {
		s := new(mocks.MockSession)
		if setup != nil {
			setup(s)
		}
		s.On("NewGame", mock.Anything).Return(nil)
		s.On("Evaluate", mock.Anything, mock.Anything).Return(models.Centipawn(0), nil)
		s.On("Err").Return(nil)
		s.On("Close").Return(nil)
		opened = append(opened, s)
		return s, nil
	}
	pool, err := engine.NewPool(context.Background(), 2, open)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool, &opened
}

func rawGame(id, moves string) models.RawGame {
	return models.RawGame{
		ID:  id,
		PGN: "[Event \"Casual\"]\n[White \"alice\"]\n[Black \"bob\"]\n[Result \"*\"]\n\n" + moves + " *\n",
	}
}

func TestAnalyzeGame_EvaluatesAndStores(t *testing.T) {
	pool, _ := newPool(t, func(s *mocks.MockSession) {
		s.On("Evaluate", mock.Anything, fenPrefix(afterE4)).Return(models.Centipawn(-400), nil)
	})
	resultRepo := new(mocks.MockResultRepository)
	runRepo := new(mocks.MockRunRepository)

	resultRepo.On("Exists", mock.Anything, "g1").Return(false, nil)
	resultRepo.On("Save", mock.Anything, mock.MatchedBy(func(r models.GameResult) bool {
		return r.GameID == "g1" && len(r.Plies) == 3
	}), "").Return(nil)

	svc := services.NewAnalysisService(pool, resultRepo, runRepo, services.AnalysisConfig{})
	res, err := svc.AnalyzeGame(context.Background(), rawGame("g1", "1. e4 e5 2. Nf3"))
	require.NoError(t, err)

	assert.Equal(t, "alice", res.White)
	require.Len(t, res.Plies, 3)
	assert.Equal(t, []int{400, 400, 0}, []int{res.Plies[0].Loss, res.Plies[1].Loss, res.Plies[2].Loss})
	assert.Equal(t, 2, res.Counts.Blunders)
	assert.InDelta(t, 800.0/3.0, res.AverageLoss, 1e-9)
	assert.InDelta(t, 100-800.0/90.0, res.Accuracy, 1e-9)
	resultRepo.AssertExpectations(t)
}

func TestAnalyzeGame_ReusesStoredResult(t *testing.T) {
	pool, opened := newPool(t, nil)
	resultRepo := new(mocks.MockResultRepository)
	stored := &models.GameResult{GameID: "g1", Accuracy: 88}
	resultRepo.On("Exists", mock.Anything, "g1").Return(true, nil)
	resultRepo.On("Get", mock.Anything, "g1").Return(stored, nil)

	svc := services.NewAnalysisService(pool, resultRepo, new(mocks.MockRunRepository), services.AnalysisConfig{})
	res, err := svc.AnalyzeGame(context.Background(), rawGame("g1", "1. e4"))
	require.NoError(t, err)

	assert.Equal(t, 88.0, res.Accuracy)
	for _, s := range *opened {
		s.AssertNotCalled(t, "NewGame", mock.Anything)
	}
	resultRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzeGame_StoredResultVanished(t *testing.T) {
	pool, _ := newPool(t, nil)
	resultRepo := new(mocks.MockResultRepository)
	resultRepo.On("Exists", mock.Anything, "g1").Return(true, nil)
	resultRepo.On("Get", mock.Anything, "g1").Return(nil, sql.ErrNoRows)
	resultRepo.On("Save", mock.Anything, mock.Anything, "").Return(nil)

	svc := services.NewAnalysisService(pool, resultRepo, new(mocks.MockRunRepository), services.AnalysisConfig{})
	res, err := svc.AnalyzeGame(context.Background(), rawGame("g1", "1. e4"))
	require.NoError(t, err)

	assert.Len(t, res.Plies, 1)
	resultRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestAnalyzeGame_SharedSiteNameGetsDistinctIDs(t *testing.T) {
	pool, _ := newPool(t, nil)
	resultRepo := new(mocks.MockResultRepository)
	var saved []string
	resultRepo.On("Exists", mock.Anything, mock.Anything).Return(false, nil)
	resultRepo.On("Save", mock.Anything, mock.Anything, "").
		Run(func(args mock.Arguments) { saved = append(saved, args.Get(1).(models.GameResult).GameID) }).
		Return(nil)

	svc := services.NewAnalysisService(pool, resultRepo, new(mocks.MockRunRepository), services.AnalysisConfig{})
	for _, moves := range []string{"1. e4 e5", "1. d4 d5"} {
		raw := models.RawGame{PGN: "[Site \"Chess.com\"]\n[White \"alice\"]\n[Black \"bob\"]\n\n" + moves + " *\n"}
		_, err := svc.AnalyzeGame(context.Background(), raw)
		require.NoError(t, err)
	}

	require.Len(t, saved, 2)
	assert.NotEqual(t, saved[0], saved[1])
	for _, id := range saved {
		assert.NotEqual(t, "Chess.com", id)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	}
}

func TestAnalyzeGame_ParseError(t *testing.T) {
	pool, _ := newPool(t, nil)
	resultRepo := new(mocks.MockResultRepository)

	svc := services.NewAnalysisService(pool, resultRepo, new(mocks.MockRunRepository), services.AnalysisConfig{})
	_, err := svc.AnalyzeGame(context.Background(), models.RawGame{ID: "bad", PGN: "  "})

	var pe *apperrors.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "bad", pe.GameID)
	resultRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzeBatch_ReportsFailuresAndKeepsOrder(t *testing.T) {
	pool, _ := newPool(t, nil)
	resultRepo := new(mocks.MockResultRepository)
	runRepo := new(mocks.MockRunRepository)

	runRepo.On("Create", mock.Anything, mock.MatchedBy(func(r models.Run) bool {
		return r.Source == "pgn:games.pgn" && r.ID != "" && !r.StartedAt.IsZero()
	})).Return(nil)
	runRepo.On("Finish", mock.Anything, mock.MatchedBy(func(r models.Run) bool {
		return r.Analyzed == 2 && len(r.Failures) == 1 && r.Failures[0].GameID == "g2" && !r.FinishedAt.IsZero()
	})).Return(nil)
	resultRepo.On("Save", mock.Anything, mock.Anything, mock.AnythingOfType("string")).Return(nil)

	svc := services.NewAnalysisService(pool, resultRepo, runRepo, services.AnalysisConfig{Reanalyze: true, TopN: 5})
	report, err := svc.AnalyzeBatch(context.Background(), "pgn:games.pgn", []models.RawGame{
		rawGame("g1", "1. e4 e5"),
		{ID: "g2", PGN: ""},
		rawGame("g3", "1. d4 d5 2. c4"),
	})
	require.NoError(t, err)

	_, parseErr := uuid.Parse(report.RunID)
	assert.NoError(t, parseErr)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "g1", report.Results[0].GameID)
	assert.Equal(t, "g3", report.Results[1].GameID)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "g2", report.Failures[0].GameID)
	assert.Contains(t, report.Failures[0].Reason, "empty PGN")

	assert.Equal(t, 2, report.Summary.Games)
	assert.Equal(t, 5, report.Summary.LossSamples)
	assert.Equal(t, 100.0, report.Summary.Accuracy)

	resultRepo.AssertNumberOfCalls(t, "Save", 2)
	resultRepo.AssertCalled(t, "Save", mock.Anything, mock.Anything, report.RunID)
	runRepo.AssertExpectations(t)
}

func TestAnalyzeBatch_RejectsRepeatedGameID(t *testing.T) {
	pool, _ := newPool(t, nil)
	resultRepo := new(mocks.MockResultRepository)
	runRepo := new(mocks.MockRunRepository)
	runRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	runRepo.On("Finish", mock.Anything, mock.Anything).Return(nil)
	resultRepo.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	tagged := func(id, moves string) models.RawGame {
		return models.RawGame{PGN: "[GameId \"" + id + "\"]\n[White \"alice\"]\n[Black \"bob\"]\n\n" + moves + " *\n"}
	}

	svc := services.NewAnalysisService(pool, resultRepo, runRepo, services.AnalysisConfig{Reanalyze: true})
	report, err := svc.AnalyzeBatch(context.Background(), "pgn:games.pgn", []models.RawGame{
		tagged("AbCd1234", "1. e4 e5"),
		tagged("AbCd1234", "1. d4 d5"),
		tagged("EfGh5678", "1. c4"),
	})
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.Equal(t, "AbCd1234", report.Results[0].GameID)
	assert.Equal(t, "e4", report.Results[0].Plies[0].Move.SAN)
	assert.Equal(t, "EfGh5678", report.Results[1].GameID)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "AbCd1234", report.Failures[0].GameID)
	assert.Contains(t, report.Failures[0].Reason, "duplicate game id AbCd1234, already used by game 1")
	resultRepo.AssertNumberOfCalls(t, "Save", 2)
}

func TestAnalyzeBatch_OracleFailureAbortsThatGameOnly(t *testing.T) {
	pool, _ := newPool(t, func(s *mocks.MockSession) {
		s.On("Evaluate", mock.Anything, fenPrefix(afterD4)).
			Return(models.Evaluation{}, &apperrors.OracleUnavailableError{Err: io.ErrClosedPipe})
	})
	resultRepo := new(mocks.MockResultRepository)
	runRepo := new(mocks.MockRunRepository)
	runRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	runRepo.On("Finish", mock.Anything, mock.Anything).Return(nil)
	resultRepo.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := services.NewAnalysisService(pool, resultRepo, runRepo, services.AnalysisConfig{Reanalyze: true})
	report, err := svc.AnalyzeBatch(context.Background(), "test", []models.RawGame{
		rawGame("g1", "1. e4 e5"),
		rawGame("g2", "1. d4 d5"),
	})
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, "g1", report.Results[0].GameID)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "g2", report.Failures[0].GameID)
	assert.Contains(t, report.Failures[0].Reason, "oracle unavailable")
}

func TestAnalyzeBatch_NeutralPolicySubstitutesZero(t *testing.T) {
	pool, _ := newPool(t, func(s *mocks.MockSession) {
		s.On("Evaluate", mock.Anything, fenPrefix(afterD4)).
			Return(models.Evaluation{}, &apperrors.OracleUnavailableError{Err: io.ErrClosedPipe})
	})
	resultRepo := new(mocks.MockResultRepository)
	runRepo := new(mocks.MockRunRepository)
	runRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	runRepo.On("Finish", mock.Anything, mock.Anything).Return(nil)
	resultRepo.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	cfg := services.AnalysisConfig{Reanalyze: true, FailurePolicy: analysis.FailNeutral}
	svc := services.NewAnalysisService(pool, resultRepo, runRepo, cfg)
	report, err := svc.AnalyzeBatch(context.Background(), "test", []models.RawGame{rawGame("g2", "1. d4 d5")})
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Empty(t, report.Failures)
	assert.Equal(t, 1, report.Results[0].NeutralEvaluations)
}

func TestAnalyzeBatch_RunCreateFails(t *testing.T) {
	pool, _ := newPool(t, nil)
	runRepo := new(mocks.MockRunRepository)
	runRepo.On("Create", mock.Anything, mock.Anything).Return(sql.ErrConnDone)

	svc := services.NewAnalysisService(pool, new(mocks.MockResultRepository), runRepo, services.AnalysisConfig{})
	_, err := svc.AnalyzeBatch(context.Background(), "test", []models.RawGame{rawGame("g1", "1. e4")})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeInternal, appErr.Code)
}

func TestNewAnalysisConfig(t *testing.T) {
	cfg := validAppConfig()
	cfg.OracleFailurePolicy = "neutral"
	ac, err := services.NewAnalysisConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, analysis.FailNeutral, ac.FailurePolicy)
	assert.Equal(t, cfg.TopN, ac.TopN)

	cfg.OracleFailurePolicy = "retry"
	_, err = services.NewAnalysisConfig(cfg)
	assert.Error(t, err)
}

func validAppConfig() config.Config {
	return config.Config{
		StockfishDepth:      15,
		TopN:                10,
		OracleFailurePolicy: "abort",
	}
}
