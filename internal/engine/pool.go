package engine

import (
	"context"
	"errors"
	"sync"

	apperrors "github.com/vytor/movelens/internal/errors"
	"github.com/vytor/movelens/internal/logger"
	"github.com/vytor/movelens/internal/models"
)

// OpenFunc starts a new session.
type OpenFunc func(ctx context.Context) (Session, error)

var ErrPoolClosed = errors.New("engine pool closed")

// Pool hands out engine sessions, one game at a time per session.
type Pool struct {
	open     OpenFunc
	size     int
	sessions chan Session
	mu       sync.Mutex
	closed   bool
	log      *logger.Logger
}

// NewPool creates a pool with size sessions, all started up front.
func NewPool(ctx context.Context, size int, open OpenFunc) (*Pool, error) {
	if size <= 0 {
		size = 2
	}
	log := logger.Default().WithPrefix("engine-pool")

	pool := &Pool{
		open:     open,
		size:     size,
		sessions: make(chan Session, size),
		log:      log,
	}

	log.Info("initializing engine pool with %d sessions", size)
	for i := 0; i < size; i++ {
		s, err := open(ctx)
		if err != nil {
			pool.Close()
			return nil, err
		}
		pool.sessions <- s
	}
	log.Info("engine pool ready")
	return pool, nil
}

// Acquire takes a session out of the pool, blocking until one is free.
func (p *Pool) Acquire(ctx context.Context) (Session, error) {
	select {
	case s, ok := <-p.sessions:
		if !ok {
			return nil, ErrPoolClosed
		}
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a session. A broken session is closed and replaced; if the
// replacement cannot start, a placeholder that retries on its next release
// keeps the pool at full size.
func (p *Pool) Release(s Session) {
	if s == nil {
		return
	}
	if err := s.Err(); err != nil {
		p.log.Warn("replacing broken engine session: %v", err)
		_ = s.Close()
		fresh, openErr := p.open(context.Background())
		if openErr != nil {
			p.log.Error("failed to restart engine session: %v", openErr)
			fresh = deadSession{err: apperrors.Unavailable(openErr)}
		}
		s = fresh
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		_ = s.Close()
		return
	}
	select {
	case p.sessions <- s:
	default:
		_ = s.Close()
	}
}

// Close shuts down all idle sessions. Sessions still checked out are closed
// when released.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true

	p.log.Info("closing engine pool")
	close(p.sessions)
	for s := range p.sessions {
		_ = s.Close()
	}
}

// Available returns how many sessions are currently idle.
func (p *Pool) Available() int {
	return len(p.sessions)
}

// Size is the number of sessions the pool maintains.
func (p *Pool) Size() int {
	return p.size
}

type deadSession struct{ err error }

func (d deadSession) NewGame(context.Context) error { return d.err }
func (d deadSession) Evaluate(context.Context, string) (models.Evaluation, error) {
	return models.Evaluation{}, d.err
}
func (d deadSession) Err() error   { return d.err }
func (d deadSession) Close() error { return nil }
