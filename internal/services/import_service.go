package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/vytor/movelens/internal/errors"
	"github.com/vytor/movelens/internal/jobs"
	"github.com/vytor/movelens/internal/lichess"
	"github.com/vytor/movelens/internal/logger"
	"github.com/vytor/movelens/internal/models"
	"github.com/vytor/movelens/internal/worker"
)

// ImportService handles fetching games from the archive
type ImportService interface {
	Fetch(ctx context.Context, req lichess.Request) ([]models.RawGame, error)
	QueueImport(ctx context.Context, req lichess.Request) error
}

type importService struct {
	client   lichess.ClientInterface
	queue    jobs.JobQueue
	maxGames int
	perfType string
}

// NewImportService creates a new ImportService. maxGames and perfType fill in
// user requests that leave them empty.
func NewImportService(client lichess.ClientInterface, queue jobs.JobQueue, maxGames int, perfType string) ImportService {
	return &importService{client: client, queue: queue, maxGames: maxGames, perfType: perfType}
}

func (s *importService) withDefaults(req lichess.Request) lichess.Request {
	req.Username = strings.TrimSpace(req.Username)
	req.GameID = strings.TrimSpace(req.GameID)
	if req.Max == 0 {
		req.Max = s.maxGames
	}
	if req.PerfType == "" {
		req.PerfType = s.perfType
	}
	return req
}

// Fetch resolves the request synchronously.
func (s *importService) Fetch(ctx context.Context, req lichess.Request) ([]models.RawGame, error) {
	req = s.withDefaults(req)
	if err := req.Validate(); err != nil {
		return nil, errors.NewValidationError("request", err.Error())
	}

	log := logger.FromContext(ctx).WithField("source", req.Source())
	log.Info("fetching games")

	raws, err := lichess.Collect(ctx, s.client, req)
	if err != nil {
		if stderrors.Is(err, lichess.ErrNoGames) {
			return nil, errors.NewNotFoundError("games", req.Source())
		}
		log.Error("failed to fetch games: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Debug("fetched %d games", len(raws))
	return raws, nil
}

// QueueImport hands the request to the background workers. A single game id
// goes to the analysis queue, a username to the import queue.
func (s *importService) QueueImport(ctx context.Context, req lichess.Request) error {
	req = s.withDefaults(req)
	if err := req.Validate(); err != nil {
		return errors.NewValidationError("request", err.Error())
	}

	log := logger.FromContext(ctx).WithField("source", req.Source())
	log.Info("queueing import job")

	var err error
	if req.GameID != "" {
		err = s.queue.EnqueueGame(req.GameID)
	} else {
		err = s.queue.EnqueueImport(req)
	}
	if err != nil {
		log.Warn("failed to queue import: %v", err)
		if stderrors.Is(err, worker.ErrQueueFull) || stderrors.Is(err, worker.ErrPoolStopped) {
			return errors.NewUnavailableError("import queue unavailable, try again later", err)
		}
		return errors.NewInternalError(err)
	}
	return nil
}
