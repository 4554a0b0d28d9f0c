package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vytor/movelens/internal/models"
)

// MockResultService is a mock implementation of services.ResultService
type MockResultService struct {
	mock.Mock
}

func (m *MockResultService) GetResult(ctx context.Context, gameID string) (*models.GameResult, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameResult), args.Error(1)
}

func (m *MockResultService) ListResults(ctx context.Context, filter models.ResultFilter) ([]models.GameResult, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.GameResult), args.Int(1), args.Error(2)
}

func (m *MockResultService) DeleteResult(ctx context.Context, gameID string) error {
	args := m.Called(ctx, gameID)
	return args.Error(0)
}

func (m *MockResultService) Summary(ctx context.Context, filter models.ResultFilter, topN int) (models.GlobalSummary, error) {
	args := m.Called(ctx, filter, topN)
	return args.Get(0).(models.GlobalSummary), args.Error(1)
}

func (m *MockResultService) TopBlunders(ctx context.Context, filter models.ResultFilter, topN int, minSeverity models.Severity) ([]models.RankedPly, error) {
	args := m.Called(ctx, filter, topN, minSeverity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RankedPly), args.Error(1)
}

func (m *MockResultService) WorstPlies(ctx context.Context, gameID string, n int) ([]models.RankedPly, error) {
	args := m.Called(ctx, gameID, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RankedPly), args.Error(1)
}

func (m *MockResultService) Heatmap(ctx context.Context, filter models.ResultFilter) (models.SpatialGrid, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(models.SpatialGrid), args.Error(1)
}

func (m *MockResultService) GetRun(ctx context.Context, id string) (*models.Run, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Run), args.Error(1)
}

func (m *MockResultService) ListRuns(ctx context.Context, limit int) ([]models.Run, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Run), args.Error(1)
}
