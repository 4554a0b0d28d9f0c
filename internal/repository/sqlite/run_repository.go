package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vytor/movelens/internal/logger"
	"github.com/vytor/movelens/internal/models"
	"github.com/vytor/movelens/internal/repository"
)

type runRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository implementation
func NewRunRepository(db *sql.DB) repository.RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) Create(ctx context.Context, run models.Run) error {
	log := logger.FromContext(ctx).WithPrefix("run_repo")
	log.Debug("creating run: id=%s source=%s", run.ID, run.Source)

	_, err := r.db.ExecContext(ctx, `INSERT INTO runs (id, source, started_at) VALUES (?, ?, ?)`,
		run.ID, run.Source, run.StartedAt.UTC())
	if err != nil {
		log.Error("failed to create run: %v", err)
	}
	return err
}

// Finish records the end of a run and its failures.
func (r *runRepository) Finish(ctx context.Context, run models.Run) error {
	log := logger.FromContext(ctx).WithPrefix("run_repo")
	log.Debug("finishing run: id=%s analyzed=%d failures=%d", run.ID, run.Analyzed, len(run.Failures))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE runs SET finished_at = ?, analyzed = ? WHERE id = ?`,
			run.FinishedAt.UTC(), run.Analyzed, run.ID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return sql.ErrNoRows
		}
		for _, f := range run.Failures {
			if _, err := tx.ExecContext(ctx, `INSERT INTO run_failures (run_id, game_id, reason) VALUES (?, ?, ?)`,
				run.ID, f.GameID, f.Reason); err != nil {
				log.Error("failed to record failure for game %s: %v", f.GameID, err)
				return err
			}
		}
		return nil
	})
}

func (r *runRepository) Get(ctx context.Context, id string) (*models.Run, error) {
	run, err := scanRun(r.db.QueryRowContext(ctx,
		`SELECT id, source, started_at, finished_at, analyzed FROM runs WHERE id = ?`, id))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.FromContext(ctx).WithPrefix("run_repo").Error("failed to get run: %v", err)
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT game_id, reason FROM run_failures WHERE run_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var f models.GameFailure
		if err := rows.Scan(&f.GameID, &f.Reason); err != nil {
			return nil, err
		}
		run.Failures = append(run.Failures, f)
	}
	return &run, rows.Err()
}

// List returns runs newest first, without their failures.
func (r *runRepository) List(ctx context.Context, limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	query, args, err := sqlBuilder.Select("id", "source", "started_at", "finished_at", "analyzed").
		From("runs").OrderBy("started_at DESC").Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRun(row rowScanner) (models.Run, error) {
	var (
		run      models.Run
		started  time.Time
		finished sql.NullTime
	)
	if err := row.Scan(&run.ID, &run.Source, &started, &finished, &run.Analyzed); err != nil {
		return models.Run{}, err
	}
	run.StartedAt = started.UTC()
	if finished.Valid {
		run.FinishedAt = finished.Time.UTC()
	}
	return run, nil
}
