package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vytor/movelens/internal/models"
)

// MockResultRepository is a mock implementation of repository.ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Save(ctx context.Context, result models.GameResult, runID string) error {
	args := m.Called(ctx, result, runID)
	return args.Error(0)
}

func (m *MockResultRepository) Get(ctx context.Context, gameID string) (*models.GameResult, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameResult), args.Error(1)
}

func (m *MockResultRepository) List(ctx context.Context, filter models.ResultFilter) ([]models.GameResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GameResult), args.Error(1)
}

func (m *MockResultRepository) Count(ctx context.Context, filter models.ResultFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockResultRepository) Exists(ctx context.Context, gameID string) (bool, error) {
	args := m.Called(ctx, gameID)
	return args.Bool(0), args.Error(1)
}

func (m *MockResultRepository) Delete(ctx context.Context, gameID string) error {
	args := m.Called(ctx, gameID)
	return args.Error(0)
}
