package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/corentings/chess/v2/opening"

	"github.com/vytor/movelens/internal/logger"
	"github.com/vytor/movelens/internal/models"
)

// Oracle evaluates positions given as FEN. engine.Session satisfies it.
type Oracle interface {
	Evaluate(ctx context.Context, fen string) (models.Evaluation, error)
}

// FailurePolicy decides what the evaluator does when the oracle fails.
type FailurePolicy int

const (
	// FailAbort stops the game and returns the oracle error.
	FailAbort FailurePolicy = iota
	// FailNeutral substitutes a 0 centipawn evaluation and carries on.
	FailNeutral
)

// ParseFailurePolicy accepts "abort" and "neutral".
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "", "abort":
		return FailAbort, nil
	case "neutral":
		return FailNeutral, nil
	}
	return FailAbort, fmt.Errorf("unknown oracle failure policy %q", s)
}

// Evaluator replays a game against an oracle and scores every move.
type Evaluator struct {
	oracle Oracle
	policy FailurePolicy
	book   *opening.BookECO
	now    func() time.Time
}

type EvaluatorOption func(*Evaluator)

// WithFailurePolicy sets how oracle failures are handled.
func WithFailurePolicy(p FailurePolicy) EvaluatorOption {
	return func(e *Evaluator) { e.policy = p }
}

// WithOpeningBook enables ECO detection for games whose headers lack one.
func WithOpeningBook(book *opening.BookECO) EvaluatorOption {
	return func(e *Evaluator) { e.book = book }
}

// WithClock overrides the AnalyzedAt timestamp source.
func WithClock(now func() time.Time) EvaluatorOption {
	return func(e *Evaluator) { e.now = now }
}

// NewEvaluator builds an evaluator that owns oracle for the duration of
// each EvaluateGame call.
func NewEvaluator(oracle Oracle, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{oracle: oracle, policy: FailAbort, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateGame walks the game's moves in order, evaluating the position
// before and after each one. Moves that cannot be applied are recorded as
// skipped and the walk continues from the unchanged position.
func (e *Evaluator) EvaluateGame(ctx context.Context, game models.ParsedGame) (models.GameResult, error) {
	log := logger.FromContext(ctx).WithPrefix("evaluator").WithField("game_id", game.ID)

	tracker, err := NewTracker(game.StartFEN)
	if err != nil {
		return models.GameResult{}, err
	}

	var (
		plies    = make([]models.PlyRecord, 0, len(game.Moves))
		skipped  []models.SkippedMove
		neutral  int
		lastFEN  string
		lastEval models.Evaluation
		haveLast bool
	)

	eval := func(fen string, ply int) (models.Evaluation, error) {
		if haveLast && fen == lastFEN {
			return lastEval, nil
		}
		v, err := e.oracle.Evaluate(ctx, fen)
		if err != nil {
			if ctx.Err() != nil || e.policy == FailAbort {
				return models.Evaluation{}, fmt.Errorf("evaluate ply %d of game %s: %w", ply, game.ID, err)
			}
			log.Warn("oracle failed at ply %d, using neutral evaluation: %v", ply, err)
			neutral++
			v = models.Centipawn(0)
		}
		lastFEN, lastEval, haveLast = fen, v, true
		return v, nil
	}

	log.Debug("analyzing %d moves", len(game.Moves))
	for i, token := range game.Moves {
		ply := i + 1
		if err := ctx.Err(); err != nil {
			log.Warn("analysis cancelled: %v", err)
			return models.GameResult{}, err
		}

		before, err := eval(tracker.FEN(), ply)
		if err != nil {
			return models.GameResult{}, err
		}

		applied, err := tracker.Apply(token)
		if err != nil {
			log.WithField("ply", ply).Warn("skipping move %q: %v", token, err)
			skipped = append(skipped, models.SkippedMove{Ply: ply, Move: token, Reason: err.Error()})
			continue
		}

		after, err := eval(applied.FENAfter, ply)
		if err != nil {
			return models.GameResult{}, err
		}

		loss := Loss(before, after, applied.Mover)
		plies = append(plies, models.PlyRecord{
			Ply:        ply,
			MoveNumber: applied.MoveNumber,
			Mover:      applied.Mover,
			Move:       applied.Move,
			EvalBefore: before,
			EvalAfter:  after,
			Loss:       loss,
			Severity:   Classify(loss),
		})
	}

	if game.ECO == "" && game.StartFEN == "" && e.book != nil && len(tracker.Moves()) > 0 {
		if o := e.book.Find(tracker.Moves()); o != nil {
			game.ECO = o.Code()
			if game.Opening == "" {
				game.Opening = o.Title()
			}
			log.Debug("detected opening %s (%s)", game.Opening, game.ECO)
		}
	}

	result := NewGameResult(game, plies, skipped)
	result.NeutralEvaluations = neutral
	result.AnalyzedAt = e.now().UTC()

	log.Info("analyzed %d plies (%d skipped): avg loss %.1f, accuracy %.1f",
		len(plies), len(skipped), result.AverageLoss, result.Accuracy)
	return result, nil
}
