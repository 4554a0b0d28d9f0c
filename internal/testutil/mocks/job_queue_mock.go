package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/vytor/movelens/internal/lichess"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueGame(gameID string) error {
	args := m.Called(gameID)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueImport(req lichess.Request) error {
	args := m.Called(req)
	return args.Error(0)
}
