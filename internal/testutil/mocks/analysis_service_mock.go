package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vytor/movelens/internal/models"
)

// MockAnalysisService is a mock implementation of services.AnalysisService
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) AnalyzeGame(ctx context.Context, raw models.RawGame) (models.GameResult, error) {
	args := m.Called(ctx, raw)
	return args.Get(0).(models.GameResult), args.Error(1)
}

func (m *MockAnalysisService) AnalyzeBatch(ctx context.Context, source string, raws []models.RawGame) (models.BatchReport, error) {
	args := m.Called(ctx, source, raws)
	return args.Get(0).(models.BatchReport), args.Error(1)
}
