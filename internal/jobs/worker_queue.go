package jobs

import (
	"github.com/vytor/movelens/internal/lichess"
	"github.com/vytor/movelens/internal/worker"
)

// WorkerQueue implements JobQueue using worker pools
type WorkerQueue struct {
	analysisPool *worker.Pool
	importPool   *worker.Pool
	analyzer     worker.Analyzer
	client       lichess.ClientInterface
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	analysisPool *worker.Pool,
	importPool *worker.Pool,
	analyzer worker.Analyzer,
	client lichess.ClientInterface,
) JobQueue {
	return &WorkerQueue{
		analysisPool: analysisPool,
		importPool:   importPool,
		analyzer:     analyzer,
		client:       client,
	}
}

func (q *WorkerQueue) EnqueueGame(gameID string) error {
	return q.analysisPool.Submit(&worker.AnalyzeGameJob{
		Client:   q.client,
		Analyzer: q.analyzer,
		GameID:   gameID,
	})
}

func (q *WorkerQueue) EnqueueImport(req lichess.Request) error {
	return q.importPool.Submit(&worker.ImportGamesJob{
		Client:   q.client,
		Analyzer: q.analyzer,
		Request:  req,
	})
}
