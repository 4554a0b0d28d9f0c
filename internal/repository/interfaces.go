package repository

import (
	"context"

	"github.com/vytor/movelens/internal/models"
)

// ResultRepository stores analyzed games together with their plies.
type ResultRepository interface {
	Save(ctx context.Context, result models.GameResult, runID string) error
	Get(ctx context.Context, gameID string) (*models.GameResult, error)
	List(ctx context.Context, filter models.ResultFilter) ([]models.GameResult, error)
	Count(ctx context.Context, filter models.ResultFilter) (int, error)
	Exists(ctx context.Context, gameID string) (bool, error)
	Delete(ctx context.Context, gameID string) error
}

// RunRepository stores batch runs and the games they failed on.
type RunRepository interface {
	Create(ctx context.Context, run models.Run) error
	Finish(ctx context.Context, run models.Run) error
	Get(ctx context.Context, id string) (*models.Run, error)
	List(ctx context.Context, limit int) ([]models.Run, error)
}
