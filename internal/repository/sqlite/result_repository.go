package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/movelens/internal/logger"
	"github.com/vytor/movelens/internal/models"
	"github.com/vytor/movelens/internal/repository"
)

var resultColumns = []string{
	"game_id", "white", "black", "result", "opening", "eco", "neutral_evaluations",
	"average_loss", "accuracy", "inaccuracies", "mistakes", "blunders", "analyzed_at",
}

var resultOrderColumns = map[string]bool{"analyzed_at": true, "accuracy": true, "average_loss": true}

type resultRepository struct {
	db *sql.DB
}

// NewResultRepository creates a new ResultRepository implementation
func NewResultRepository(db *sql.DB) repository.ResultRepository {
	return &resultRepository{db: db}
}

// Save replaces any stored analysis of the same game.
func (r *resultRepository) Save(ctx context.Context, res models.GameResult, runID string) error {
	log := logger.FromContext(ctx).WithPrefix("result_repo").WithField("game_id", res.GameID)
	log.Debug("saving result: %d plies, %d skipped", len(res.Plies), len(res.Skipped))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM results WHERE game_id = ?`, res.GameID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO results (
    game_id, run_id, white, black, result, opening, eco, neutral_evaluations,
    average_loss, accuracy, inaccuracies, mistakes, blunders, analyzed_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, res.GameID, runID, res.White, res.Black, res.Result, res.Opening, res.ECO, res.NeutralEvaluations,
			res.AverageLoss, res.Accuracy, res.Counts.Inaccuracies, res.Counts.Mistakes, res.Counts.Blunders, res.AnalyzedAt.UTC())
		if err != nil {
			log.Error("failed to insert result: %v", err)
			return err
		}

		plyStmt, err := tx.PrepareContext(ctx, `
INSERT INTO plies (
    game_id, ply, move_number, mover, san, uci, from_square, to_square,
    before_kind, before_value, after_kind, after_value, loss, severity
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
		if err != nil {
			return err
		}
		defer plyStmt.Close()
		for _, p := range res.Plies {
			if _, err := plyStmt.ExecContext(ctx, res.GameID, p.Ply, p.MoveNumber, string(p.Mover),
				p.Move.SAN, p.Move.UCI, p.Move.From, p.Move.To,
				string(p.EvalBefore.Kind), p.EvalBefore.Value, string(p.EvalAfter.Kind), p.EvalAfter.Value,
				p.Loss, p.Severity.String()); err != nil {
				log.Error("failed to insert ply %d: %v", p.Ply, err)
				return err
			}
		}

		for _, s := range res.Skipped {
			if _, err := tx.ExecContext(ctx, `INSERT INTO skipped_moves (game_id, ply, move, reason) VALUES (?, ?, ?, ?)`,
				res.GameID, s.Ply, s.Move, s.Reason); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *resultRepository) Get(ctx context.Context, gameID string) (*models.GameResult, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("getting result: game_id=%s", gameID)

	query, args, err := sqlBuilder.Select(resultColumns...).From("results").
		Where(squirrel.Eq{"game_id": gameID}).ToSql()
	if err != nil {
		return nil, err
	}

	res, err := scanResult(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("result not found: game_id=%s", gameID)
		} else {
			log.Error("failed to get result: %v", err)
		}
		return nil, err
	}

	out := []models.GameResult{res}
	if err := r.loadDetails(ctx, out); err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (r *resultRepository) List(ctx context.Context, filter models.ResultFilter) ([]models.GameResult, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("listing results with filter: player=%s, result=%s, eco=%s, run_id=%s",
		filter.Player, filter.Result, filter.ECO, filter.RunID)

	query := applyResultFilter(sqlBuilder.Select(resultColumns...).From("results"), filter).
		OrderBy(orderClause(filter.OrderBy, filter.OrderDir, resultOrderColumns, "analyzed_at"), "game_id")

	switch {
	case filter.Limit > 0:
		query = query.Limit(uint64(filter.Limit))
	case filter.Offset > 0:
		// SQLite only accepts OFFSET after a LIMIT
		query = query.Limit(math.MaxInt32)
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list results: %v", err)
		return nil, err
	}
	var results []models.GameResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			rows.Close()
			log.Error("failed to scan result row: %v", err)
			return nil, err
		}
		results = append(results, res)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadDetails(ctx, results); err != nil {
		return nil, err
	}
	log.Debug("found %d results", len(results))
	return results, nil
}

func (r *resultRepository) Count(ctx context.Context, filter models.ResultFilter) (int, error) {
	query := applyResultFilter(sqlBuilder.Select("COUNT(*)").From("results"), filter)
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}
	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		logger.FromContext(ctx).WithPrefix("result_repo").Error("failed to count results: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *resultRepository) Exists(ctx context.Context, gameID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM results WHERE game_id = ?`, gameID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (r *resultRepository) Delete(ctx context.Context, gameID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM results WHERE game_id = ?`, gameID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func applyResultFilter(q squirrel.SelectBuilder, f models.ResultFilter) squirrel.SelectBuilder {
	if f.Player != "" {
		q = q.Where(squirrel.Or{squirrel.Eq{"white": f.Player}, squirrel.Eq{"black": f.Player}})
	}
	if f.Result != "" {
		q = q.Where(squirrel.Eq{"result": f.Result})
	}
	if f.ECO != "" {
		q = q.Where(squirrel.Eq{"eco": f.ECO})
	}
	if f.RunID != "" {
		q = q.Where(squirrel.Eq{"run_id": f.RunID})
	}
	return q
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (models.GameResult, error) {
	var (
		res        models.GameResult
		analyzedAt time.Time
	)
	err := row.Scan(&res.GameID, &res.White, &res.Black, &res.Result, &res.Opening, &res.ECO,
		&res.NeutralEvaluations, &res.AverageLoss, &res.Accuracy,
		&res.Counts.Inaccuracies, &res.Counts.Mistakes, &res.Counts.Blunders, &analyzedAt)
	res.AnalyzedAt = analyzedAt.UTC()
	return res, err
}

// loadDetails fills plies and skipped moves for results in place.
func (r *resultRepository) loadDetails(ctx context.Context, results []models.GameResult) error {
	if len(results) == 0 {
		return nil
	}
	index := make(map[string]int, len(results))
	ids := make([]string, len(results))
	for i, res := range results {
		index[res.GameID] = i
		ids[i] = res.GameID
	}

	plyQuery, args, err := sqlBuilder.Select(
		"game_id", "ply", "move_number", "mover", "san", "uci", "from_square", "to_square",
		"before_kind", "before_value", "after_kind", "after_value", "loss", "severity",
	).From("plies").Where(squirrel.Eq{"game_id": ids}).OrderBy("game_id", "ply").ToSql()
	if err != nil {
		return err
	}
	rows, err := r.db.QueryContext(ctx, plyQuery, args...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var (
			gameID, mover, beforeKind, afterKind, severity string
			p                                              models.PlyRecord
		)
		if err := rows.Scan(&gameID, &p.Ply, &p.MoveNumber, &mover, &p.Move.SAN, &p.Move.UCI, &p.Move.From, &p.Move.To,
			&beforeKind, &p.EvalBefore.Value, &afterKind, &p.EvalAfter.Value, &p.Loss, &severity); err != nil {
			rows.Close()
			return err
		}
		p.Mover = models.Color(mover)
		p.EvalBefore.Kind = models.EvalKind(beforeKind)
		p.EvalAfter.Kind = models.EvalKind(afterKind)
		if p.Severity, err = models.ParseSeverity(severity); err != nil {
			rows.Close()
			return err
		}
		i := index[gameID]
		results[i].Plies = append(results[i].Plies, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	skipQuery, args, err := sqlBuilder.Select("game_id", "ply", "move", "reason").From("skipped_moves").
		Where(squirrel.Eq{"game_id": ids}).OrderBy("game_id", "ply").ToSql()
	if err != nil {
		return err
	}
	skipRows, err := r.db.QueryContext(ctx, skipQuery, args...)
	if err != nil {
		return err
	}
	defer skipRows.Close()
	for skipRows.Next() {
		var (
			gameID string
			s      models.SkippedMove
		)
		if err := skipRows.Scan(&gameID, &s.Ply, &s.Move, &s.Reason); err != nil {
			return err
		}
		i := index[gameID]
		results[i].Skipped = append(results[i].Skipped, s)
	}
	return skipRows.Err()
}
