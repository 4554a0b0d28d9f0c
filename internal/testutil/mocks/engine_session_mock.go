package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vytor/movelens/internal/models"
)

// MockSession is a mock implementation of engine.Session
type MockSession struct {
	mock.Mock
}

func (m *MockSession) NewGame(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSession) Evaluate(ctx context.Context, fen string) (models.Evaluation, error) {
	args := m.Called(ctx, fen)
	return args.Get(0).(models.Evaluation), args.Error(1)
}

func (m *MockSession) Err() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSession) Close() error {
	args := m.Called()
	return args.Error(0)
}
