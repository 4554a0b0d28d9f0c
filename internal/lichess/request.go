package lichess

import (
	"context"
	"fmt"
	"strings"

	"github.com/vytor/movelens/internal/models"
)

// Request names a set of games to pull from the archive. Exactly one of
// GameID or Username is set. LastOnly restricts a user request to the most
// recent game.
type Request struct {
	Username string `json:"username,omitempty"`
	GameID   string `json:"game_id,omitempty"`
	LastOnly bool   `json:"last_only,omitempty"`
	Max      int    `json:"max,omitempty"`
	PerfType string `json:"perf_type,omitempty"`
}

// Validate reports a request that names no games or two different things.
func (r Request) Validate() error {
	user := strings.TrimSpace(r.Username)
	game := strings.TrimSpace(r.GameID)
	switch {
	case user == "" && game == "":
		return fmt.Errorf("either a username or a game id is required")
	case user != "" && game != "":
		return fmt.Errorf("username and game id are mutually exclusive")
	case game != "" && r.LastOnly:
		return fmt.Errorf("last only applies to a username")
	case r.Max < 0:
		return fmt.Errorf("max must not be negative")
	}
	return nil
}

// Source describes the request for run bookkeeping.
func (r Request) Source() string {
	switch {
	case r.GameID != "":
		return "lichess:game:" + r.GameID
	case r.LastOnly:
		return "lichess:last:" + r.Username
	default:
		return "lichess:user:" + r.Username
	}
}

// Collect resolves a request against the archive.
func Collect(ctx context.Context, c ClientInterface, req Request) ([]models.RawGame, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	switch {
	case req.GameID != "":
		raw, err := c.FetchGamePGN(ctx, strings.TrimSpace(req.GameID))
		if err != nil {
			return nil, err
		}
		return []models.RawGame{raw}, nil
	case req.LastOnly:
		id, err := c.LastGameID(ctx, req.Username)
		if err != nil {
			return nil, err
		}
		raw, err := c.FetchGamePGN(ctx, id)
		if err != nil {
			return nil, err
		}
		return []models.RawGame{raw}, nil
	default:
		games, err := c.FetchUserGames(ctx, req.Username, Options{Max: req.Max, PerfType: req.PerfType})
		if err != nil {
			return nil, err
		}
		if len(games) == 0 {
			return nil, fmt.Errorf("user %s: %w", req.Username, ErrNoGames)
		}
		return games, nil
	}
}
