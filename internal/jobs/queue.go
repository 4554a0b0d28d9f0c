package jobs

import "github.com/vytor/movelens/internal/lichess"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueGame(gameID string) error
	EnqueueImport(req lichess.Request) error
}
