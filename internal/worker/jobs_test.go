package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vytor/movelens/internal/lichess"
	"github.com/vytor/movelens/internal/models"
	"github.com/vytor/movelens/internal/testutil/mocks"
	"github.com/vytor/movelens/internal/worker"
)

func TestAnalyzeGameJob(t *testing.T) {
	client := new(mocks.MockLichessClient)
	analyzer := new(mocks.MockAnalysisService)
	raw := models.RawGame{ID: "g1", PGN: "1. e4 *"}
	client.On("FetchGamePGN", mock.Anything, "g1").Return(raw, nil)
	analyzer.On("AnalyzeGame", mock.Anything, raw).Return(models.GameResult{GameID: "g1"}, nil)

	job := &worker.AnalyzeGameJob{Client: client, Analyzer: analyzer, GameID: "g1"}
	assert.Equal(t, "analyze_game", job.Name())
	require.NoError(t, job.Run(context.Background()))
	analyzer.AssertExpectations(t)
}

func TestAnalyzeGameJob_FetchError(t *testing.T) {
	client := new(mocks.MockLichessClient)
	analyzer := new(mocks.MockAnalysisService)
	client.On("FetchGamePGN", mock.Anything, "g1").Return(models.RawGame{}, errors.New("offline"))

	job := &worker.AnalyzeGameJob{Client: client, Analyzer: analyzer, GameID: "g1"}
	assert.Error(t, job.Run(context.Background()))
	analyzer.AssertNotCalled(t, "AnalyzeGame", mock.Anything, mock.Anything)
}

func TestImportGamesJob(t *testing.T) {
	client := new(mocks.MockLichessClient)
	analyzer := new(mocks.MockAnalysisService)
	raws := []models.RawGame{{ID: "a"}, {ID: "b"}}
	req := lichess.Request{Username: "alice", Max: 2, PerfType: "blitz"}

	client.On("FetchUserGames", mock.Anything, "alice", lichess.Options{Max: 2, PerfType: "blitz"}).Return(raws, nil)
	analyzer.On("AnalyzeBatch", mock.Anything, "lichess:user:alice", raws).
		Return(models.BatchReport{RunID: "r1", Results: []models.GameResult{{GameID: "a"}}}, nil)

	job := &worker.ImportGamesJob{Client: client, Analyzer: analyzer, Request: req}
	assert.Equal(t, "import_games", job.Name())
	require.NoError(t, job.Run(context.Background()))
	analyzer.AssertExpectations(t)
}

func TestImportGamesJob_NoGames(t *testing.T) {
	client := new(mocks.MockLichessClient)
	analyzer := new(mocks.MockAnalysisService)
	client.On("FetchUserGames", mock.Anything, "ghost", mock.Anything).Return([]models.RawGame{}, nil)

	job := &worker.ImportGamesJob{Client: client, Analyzer: analyzer, Request: lichess.Request{Username: "ghost"}}
	err := job.Run(context.Background())
	assert.ErrorIs(t, err, lichess.ErrNoGames)
	analyzer.AssertNotCalled(t, "AnalyzeBatch", mock.Anything, mock.Anything, mock.Anything)
}
