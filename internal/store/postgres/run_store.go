package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/lobtest/internal/domain"
)

// RunStore implements domain.RunStore using PostgreSQL.
type RunStore struct {
	pool *pgxpool.Pool
}

// NewRunStore creates a RunStore backed by the given connection pool.
func NewRunStore(pool *pgxpool.Pool) *RunStore {
	return &RunStore{pool: pool}
}

const runSelectCols = `id, strategy, lob_path, started_at, finished_at,
	ticks, initial_cash, final_value, success, halt_reason`

func scanRunRows(rows pgx.Rows) ([]domain.BacktestRun, error) {
	var runs []domain.BacktestRun
	for rows.Next() {
		var r domain.BacktestRun
		if err := rows.Scan(
			&r.ID, &r.Strategy, &r.LOBPath, &r.StartedAt, &r.FinishedAt,
			&r.Ticks, &r.InitialCash, &r.FinalValue, &r.Success, &r.HaltReason,
		); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// InsertRun records a run when it starts. Completion fields are filled in
// later by FinishRun.
func (s *RunStore) InsertRun(ctx context.Context, run domain.BacktestRun) error {
	const query = `
		INSERT INTO backtest_runs (
			id, strategy, lob_path, started_at, initial_cash
		) VALUES ($1, $2, $3, $4, $5)`

	_, err := s.pool.Exec(ctx, query,
		run.ID, run.Strategy, run.LOBPath, run.StartedAt, run.InitialCash,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert run %s: %w", run.ID, err)
	}
	return nil
}

// FinishRun writes the completion fields of a run.
func (s *RunStore) FinishRun(ctx context.Context, run domain.BacktestRun) error {
	const query = `
		UPDATE backtest_runs SET
			finished_at = $2,
			ticks = $3,
			final_value = $4,
			success = $5,
			halt_reason = $6
		WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query,
		run.ID, run.FinishedAt, run.Ticks, run.FinalValue, run.Success, run.HaltReason,
	)
	if err != nil {
		return fmt.Errorf("postgres: finish run %s: %w", run.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres: finish run %s: %w", run.ID, domain.ErrNotFound)
	}
	return nil
}

// InsertTrades inserts the executed trade log of a run using pgx Batch.
func (s *RunStore) InsertTrades(ctx context.Context, trades []domain.BacktestTrade) error {
	if len(trades) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	const query = `
		INSERT INTO backtest_trades (
			run_id, seq, action, price, amount, realized_pnl
		) VALUES ($1, $2, $3, $4, $5, $6)`

	for _, t := range trades {
		batch.Queue(query, t.RunID, t.Seq, t.Action, t.Price, t.Amount, t.RealizedPnL)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := range trades {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("postgres: insert trade batch item %d: %w", i, err)
		}
	}
	return nil
}

// GetRun returns a run by ID, or domain.ErrNotFound.
func (s *RunStore) GetRun(ctx context.Context, id string) (domain.BacktestRun, error) {
	query := `SELECT ` + runSelectCols + ` FROM backtest_runs WHERE id = $1`

	var r domain.BacktestRun
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&r.ID, &r.Strategy, &r.LOBPath, &r.StartedAt, &r.FinishedAt,
		&r.Ticks, &r.InitialCash, &r.FinalValue, &r.Success, &r.HaltReason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.BacktestRun{}, fmt.Errorf("postgres: get run %s: %w", id, domain.ErrNotFound)
		}
		return domain.BacktestRun{}, fmt.Errorf("postgres: get run %s: %w", id, err)
	}
	return r, nil
}

// ListRuns returns the most recent runs, newest first, optionally filtered by
// strategy name.
func (s *RunStore) ListRuns(ctx context.Context, strategy string, limit int) ([]domain.BacktestRun, error) {
	query := `SELECT ` + runSelectCols + ` FROM backtest_runs`
	args := []any{}
	argIdx := 1

	if strategy != "" {
		query += fmt.Sprintf(" WHERE strategy = $%d", argIdx)
		args = append(args, strategy)
		argIdx++
	}

	query += " ORDER BY started_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list runs: %w", err)
	}
	defer rows.Close()

	runs, err := scanRunRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan runs: %w", err)
	}
	return runs, nil
}
