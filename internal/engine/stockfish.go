// Package engine talks to UCI chess engines and turns their replies into
// White-centric evaluations.
package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "github.com/vytor/movelens/internal/errors"
	"github.com/vytor/movelens/internal/logger"
	"github.com/vytor/movelens/internal/models"
)

const (
	defaultDepth   = 15
	defaultTimeout = 30 * time.Second
)

var (
	errTimeout     = errors.New("timed out waiting for engine")
	errNoScore     = errors.New("engine finished search without a score")
	errNoPosition  = errors.New("no position set")
	errEngineClose = errors.New("engine closed")
)

// Session is one engine process owned by a single game at a time.
type Session interface {
	NewGame(ctx context.Context) error
	Evaluate(ctx context.Context, fen string) (models.Evaluation, error)
	Err() error
	Close() error
}

// Options configures an engine process.
type Options struct {
	Path    string
	Depth   int
	Threads int
	HashMB  int
	Timeout time.Duration // per reply
}

func (o Options) withDefaults() Options {
	if o.Path == "" {
		o.Path = "stockfish"
	}
	if o.Depth <= 0 {
		o.Depth = defaultDepth
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return o
}

// Engine is a UCI engine session over stdin/stdout pipes.
type Engine struct {
	opts Options
	log  *logger.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	lines   chan string
	readErr error
	turn    models.Color
	hasPos  bool
	broken  error
	closed  bool
}

// Start launches the engine binary and completes the UCI handshake.
func Start(ctx context.Context, opts Options) (*Engine, error) {
	opts = opts.withDefaults()
	log := logger.Default().WithPrefix("stockfish")

	log.Info("starting engine: %s", opts.Path)
	cmd := exec.Command(opts.Path)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		log.Error("failed to create stdin pipe: %v", err)
		return nil, apperrors.Unavailable(err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		log.Error("failed to create stdout pipe: %v", err)
		return nil, apperrors.Unavailable(err)
	}
	if err := cmd.Start(); err != nil {
		log.Error("failed to start engine: %v", err)
		return nil, apperrors.Unavailable(err)
	}

	e := newEngine(stdin, stdout, opts)
	e.cmd = cmd

	log.Debug("initializing UCI protocol")
	if err := e.handshake(ctx); err != nil {
		log.Error("failed to initialize UCI: %v", err)
		_ = e.Close()
		return nil, err
	}

	log.Info("engine ready (depth=%d threads=%d hash=%dMB)", opts.Depth, opts.Threads, opts.HashMB)
	return e, nil
}

// Opener returns an Opener that starts engine processes with opts.
func Opener(opts Options) OpenFunc {
	return func(ctx context.Context) (Session, error) {
		e, err := Start(ctx, opts)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

func newEngine(w io.WriteCloser, r io.Reader, opts Options) *Engine {
	e := &Engine{
		opts:  opts.withDefaults(),
		log:   logger.Default().WithPrefix("stockfish"),
		stdin: w,
		lines: make(chan string, 64),
	}
	go e.readLoop(r)
	return e
}

func (e *Engine) readLoop(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		e.lines <- sc.Text()
	}
	err := sc.Err()
	if err == nil {
		err = io.EOF
	}
	e.readErr = err
	close(e.lines)
}

func (e *Engine) handshake(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.sendLocked("uci"); err != nil {
		return e.fail(err)
	}
	if err := e.waitForLocked(ctx, "uciok"); err != nil {
		return e.fail(err)
	}
	if e.opts.Threads > 0 {
		if err := e.sendLocked(fmt.Sprintf("setoption name Threads value %d", e.opts.Threads)); err != nil {
			return e.fail(err)
		}
	}
	if e.opts.HashMB > 0 {
		if err := e.sendLocked(fmt.Sprintf("setoption name Hash value %d", e.opts.HashMB)); err != nil {
			return e.fail(err)
		}
	}
	return e.readyLocked(ctx)
}

func (e *Engine) readyLocked(ctx context.Context) error {
	if err := e.sendLocked("isready"); err != nil {
		return e.fail(err)
	}
	if err := e.waitForLocked(ctx, "readyok"); err != nil {
		return e.fail(err)
	}
	return nil
}

// NewGame clears the engine's search state before a new game.
func (e *Engine) NewGame(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.broken != nil {
		return e.broken
	}
	if err := e.sendLocked("ucinewgame"); err != nil {
		return e.fail(err)
	}
	e.hasPos = false
	return e.readyLocked(ctx)
}

// SetPosition loads a FEN position and remembers its side to move.
func (e *Engine) SetPosition(ctx context.Context, fen string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setPositionLocked(ctx, fen)
}

func (e *Engine) setPositionLocked(ctx context.Context, fen string) error {
	if e.broken != nil {
		return e.broken
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	turn, err := sideToMove(fen)
	if err != nil {
		return err
	}
	if err := e.sendLocked("position fen " + fen); err != nil {
		return e.fail(err)
	}
	e.turn = turn
	e.hasPos = true
	return nil
}

// Evaluation searches the current position to the configured depth and
// returns the final score from White's point of view.
func (e *Engine) Evaluation(ctx context.Context) (models.Evaluation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.evaluationLocked(ctx)
}

// Evaluate sets fen and evaluates it. The position is always resent.
func (e *Engine) Evaluate(ctx context.Context, fen string) (models.Evaluation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.setPositionLocked(ctx, fen); err != nil {
		return models.Evaluation{}, err
	}
	return e.evaluationLocked(ctx)
}

func (e *Engine) evaluationLocked(ctx context.Context) (models.Evaluation, error) {
	if e.broken != nil {
		return models.Evaluation{}, e.broken
	}
	if !e.hasPos {
		return models.Evaluation{}, errNoPosition
	}

	start := time.Now()
	if err := e.sendLocked(fmt.Sprintf("go depth %d", e.opts.Depth)); err != nil {
		return models.Evaluation{}, e.fail(err)
	}

	var (
		last   models.Evaluation
		scored bool
	)
	timer := time.NewTimer(e.opts.Timeout)
	defer timer.Stop()
	for {
		line, err := e.nextLocked(ctx, timer.C)
		if err != nil {
			e.log.Error("evaluation failed after %v: %v", time.Since(start), err)
			return models.Evaluation{}, e.fail(err)
		}
		if strings.HasPrefix(line, "info") {
			if kind, v, ok := parseScore(line); ok {
				last = whiteCentric(kind, v, e.turn)
				scored = true
			}
			continue
		}
		if strings.HasPrefix(line, "bestmove") {
			if !scored {
				return models.Evaluation{}, e.fail(errNoScore)
			}
			e.log.Debug("evaluation completed in %v: %s", time.Since(start), last)
			return last, nil
		}
	}
}

// Err reports why the session stopped being usable, if it did.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.broken
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	if e.broken == nil {
		e.broken = apperrors.Unavailable(errEngineClose)
	}

	go func(lines <-chan string) {
		for range lines {
		}
	}(e.lines)

	e.log.Debug("closing engine")
	_ = e.sendLocked("quit")
	_ = e.stdin.Close()

	if e.cmd == nil {
		return nil
	}
	done := make(chan error, 1)
	go func() { done <- e.cmd.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			e.log.Debug("engine process exited: %v", err)
		}
		return err
	case <-time.After(2 * time.Second):
		e.log.Warn("engine did not exit after quit, killing it")
		_ = e.cmd.Process.Kill()
		return <-done
	}
}

// fail marks the session unusable. Once a reply is missed the stream is out
// of step with our commands.
func (e *Engine) fail(err error) error {
	if e.broken == nil {
		e.broken = apperrors.Unavailable(err)
	}
	return e.broken
}

func (e *Engine) sendLocked(cmd string) error {
	_, err := io.WriteString(e.stdin, cmd+"\n")
	return err
}

func (e *Engine) nextLocked(ctx context.Context, deadline <-chan time.Time) (string, error) {
	select {
	case line, ok := <-e.lines:
		if !ok {
			return "", e.readErr
		}
		return strings.TrimSpace(line), nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-deadline:
		return "", errTimeout
	}
}

func (e *Engine) waitForLocked(ctx context.Context, marker string) error {
	timer := time.NewTimer(e.opts.Timeout)
	defer timer.Stop()
	for {
		line, err := e.nextLocked(ctx, timer.C)
		if err != nil {
			if errors.Is(err, errTimeout) {
				e.log.Error("timeout waiting for %s", marker)
			}
			return err
		}
		if strings.Contains(line, marker) {
			return nil
		}
	}
}

// parseScore reads the side-to-move relative score of an info line. Bound
// scores are ignored.
func parseScore(line string) (models.EvalKind, int, bool) {
	parts := strings.Fields(line)
	for i := 0; i < len(parts); i++ {
		if parts[i] != "score" || i+2 >= len(parts) {
			continue
		}
		if i+3 < len(parts) && (parts[i+3] == "lowerbound" || parts[i+3] == "upperbound") {
			return "", 0, false
		}
		v, err := strconv.Atoi(parts[i+2])
		if err != nil {
			return "", 0, false
		}
		switch parts[i+1] {
		case "cp":
			return models.EvalCentipawn, v, true
		case "mate":
			return models.EvalMate, v, true
		}
		return "", 0, false
	}
	return "", 0, false
}

// whiteCentric flips a side-to-move score to White's perspective. A mate
// distance of 0 means the side to move is already mated.
func whiteCentric(kind models.EvalKind, v int, turn models.Color) models.Evaluation {
	if kind == models.EvalMate && v == 0 {
		if turn == models.White {
			return models.Mate(-1)
		}
		return models.Mate(1)
	}
	if turn == models.Black {
		v = -v
	}
	if kind == models.EvalMate {
		return models.Mate(v)
	}
	return models.Centipawn(v)
}

func sideToMove(fen string) (models.Color, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return "", fmt.Errorf("malformed FEN %q", fen)
	}
	switch parts[1] {
	case "w":
		return models.White, nil
	case "b":
		return models.Black, nil
	}
	return "", fmt.Errorf("malformed FEN %q: side to move %q", fen, parts[1])
}
