package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vytor/movelens/internal/lichess"
	"github.com/vytor/movelens/internal/models"
)

// MockImportService is a mock implementation of services.ImportService
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) Fetch(ctx context.Context, req lichess.Request) ([]models.RawGame, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RawGame), args.Error(1)
}

func (m *MockImportService) QueueImport(ctx context.Context, req lichess.Request) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
