package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/appscope/pkg/domain"
)

// RunRepository handles the analysis run journal
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// runRow is the database representation of domain.Run
type runRow struct {
	ID         string    `db:"id"`
	URL        string    `db:"url"`
	Store      string    `db:"store"`
	Token      int64     `db:"token"`
	Status     string    `db:"status"`
	ErrorKind  string    `db:"error_kind"`
	DurationMs int64     `db:"duration_ms"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
}

func (r runRow) toDomain() domain.Run {
	return domain.Run{
		ID:         r.ID,
		URL:        r.URL,
		Store:      r.Store,
		Token:      uint64(r.Token), //nolint:gosec // tokens are small sequence numbers
		Status:     domain.RunStatus(r.Status),
		ErrorKind:  r.ErrorKind,
		Duration:   time.Duration(r.DurationMs) * time.Millisecond,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

// RecordRun inserts a journal entry, retrying on lock errors
func (r *RunRepository) RecordRun(ctx context.Context, run domain.Run) error {
	row := runRow{
		ID:         run.ID,
		URL:        run.URL,
		Store:      run.Store,
		Token:      int64(run.Token), //nolint:gosec // tokens are small sequence numbers
		Status:     string(run.Status),
		ErrorKind:  run.ErrorKind,
		DurationMs: run.Duration.Milliseconds(),
		StartedAt:  run.StartedAt.UTC(),
		FinishedAt: run.FinishedAt.UTC(),
	}

	query := `
		INSERT INTO runs (id, url, store, token, status, error_kind, duration_ms, started_at, finished_at)
		VALUES (:id, :url, :store, :token, :status, :error_kind, :duration_ms, :started_at, :finished_at)
	`

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	return retrier.Do(ctx, func() error {
		if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("record run: %w", err)}
		}
		return nil
	})
}

// RecentRuns returns up to limit most recently finished runs, newest first
func (r *RunRepository) RecentRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []runRow
	query := `
		SELECT id, url, store, token, status, error_kind, duration_ms, started_at, finished_at
		FROM runs
		ORDER BY finished_at DESC, token DESC
		LIMIT ?
	`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("get recent runs: %w", err)
	}

	res := make([]domain.Run, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.toDomain())
	}
	return res, nil
}

// PruneRuns deletes runs finished before olderThan and returns the number removed
func (r *RunRepository) PruneRuns(ctx context.Context, olderThan time.Time) (int64, error) {
	var deleted int64
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		res, err := r.db.ExecContext(ctx, "DELETE FROM runs WHERE finished_at < ?", olderThan.UTC())
		if err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("prune runs: %w", err)}
		}
		deleted, err = res.RowsAffected()
		if err != nil {
			return &criticalError{err: fmt.Errorf("get affected rows: %w", err)}
		}
		return nil
	})
	return deleted, err
}
