package lichess

import (
	"context"

	"github.com/vytor/movelens/internal/models"
)

// ClientInterface defines the interface for Lichess API operations.
type ClientInterface interface {
	FetchUserGames(ctx context.Context, username string, opts Options) ([]models.RawGame, error)
	FetchGamePGN(ctx context.Context, gameID string) (models.RawGame, error)
	LastGameID(ctx context.Context, username string) (string, error)
}

var _ ClientInterface = (*Client)(nil)
