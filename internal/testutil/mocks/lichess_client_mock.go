package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vytor/movelens/internal/lichess"
	"github.com/vytor/movelens/internal/models"
)

// MockLichessClient is a mock implementation of lichess.ClientInterface
type MockLichessClient struct {
	mock.Mock
}

func (m *MockLichessClient) FetchUserGames(ctx context.Context, username string, opts lichess.Options) ([]models.RawGame, error) {
	args := m.Called(ctx, username, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RawGame), args.Error(1)
}

func (m *MockLichessClient) FetchGamePGN(ctx context.Context, gameID string) (models.RawGame, error) {
	args := m.Called(ctx, gameID)
	return args.Get(0).(models.RawGame), args.Error(1)
}

func (m *MockLichessClient) LastGameID(ctx context.Context, username string) (string, error) {
	args := m.Called(ctx, username)
	return args.String(0), args.Error(1)
}
