package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
	"github.com/Gunvolt24/mq_consumer_bench/internal/ports"
)

// Проверка, что RunReportRepository удовлетворяет интерфейсу ports.RunReportRepository.
var _ ports.RunReportRepository = (*RunReportRepository)(nil)

// RunReportRepository — отчёты о прогонах в Postgres (pgxpool).
type RunReportRepository struct {
	pool *pgxpool.Pool
}

func NewRunReportRepository(pool *pgxpool.Pool) *RunReportRepository {
	return &RunReportRepository{pool: pool}
}

// Save — транзакционно сохраняет прогон и результаты воркеров (повторный Save перезаписывает).
func (r *RunReportRepository) Save(ctx context.Context, report *domain.RunReport) error {
	if report == nil || report.RunID == "" {
		return errors.New("report is empty or run_id is required")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	if _, err = tx.Exec(ctx, `
		INSERT INTO consumer_runs (
			run_id, destination, destination_kind, workers, message_count, transaction_batch_size,
			started_at, finished_at, total_received, total_commits, failed_workers
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (run_id) DO UPDATE SET
			finished_at = EXCLUDED.finished_at,
			total_received = EXCLUDED.total_received,
			total_commits = EXCLUDED.total_commits,
			failed_workers = EXCLUDED.failed_workers
	`,
		report.RunID, report.Destination, string(report.DestinationKind), report.Workers, report.MessageCount,
		report.TransactionBatchSize, report.StartedAt, report.FinishedAt, report.TotalReceived,
		report.TotalCommits, report.FailedWorkers,
	); err != nil {
		return fmt.Errorf("upsert run: %w", err)
	}

	// Результаты воркеров — replace.
	if _, err = tx.Exec(ctx, `DELETE FROM consumer_run_workers WHERE run_id = $1`, report.RunID); err != nil {
		return fmt.Errorf("delete workers: %w", err)
	}
	if len(report.Results) > 0 {
		if err = copyWorkers(ctx, tx, report.RunID, report.Results); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetByRunID — отчёт по id. Если не нашли, возвращает (nil, nil).
func (r *RunReportRepository) GetByRunID(ctx context.Context, runID string) (*domain.RunReport, error) {
	report, err := scanRun(r.pool.QueryRow(ctx, `
		SELECT `+runColumns+`
		FROM consumer_runs WHERE run_id = $1
	`, runID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select run: %w", err)
	}

	byRun, err := r.workers(ctx, []string{runID})
	if err != nil {
		return nil, err
	}
	report.Results = byRun[runID]
	return report, nil
}

// List — страница отчётов, новые первыми. Два запроса: базовые строки + воркеры всех прогонов страницы.
func (r *RunReportRepository) List(ctx context.Context, limit, offset int) ([]*domain.RunReport, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+runColumns+`
		FROM consumer_runs
		ORDER BY started_at DESC, run_id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer rows.Close()

	reports := make([]*domain.RunReport, 0, limit)
	ids := make([]string, 0, limit)
	for rows.Next() {
		report, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		reports = append(reports, report)
		ids = append(ids, report.RunID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("runs rows: %w", err)
	}
	if len(reports) == 0 {
		return reports, nil
	}

	byRun, err := r.workers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, report := range reports {
		report.Results = byRun[report.RunID]
	}
	return reports, nil
}

const runColumns = `run_id, destination, destination_kind, workers, message_count, transaction_batch_size,
			started_at, finished_at, total_received, total_commits, failed_workers`

func scanRun(row pgx.Row) (*domain.RunReport, error) {
	var report domain.RunReport
	var kind string
	if err := row.Scan(
		&report.RunID, &report.Destination, &kind, &report.Workers, &report.MessageCount,
		&report.TransactionBatchSize, &report.StartedAt, &report.FinishedAt, &report.TotalReceived,
		&report.TotalCommits, &report.FailedWorkers,
	); err != nil {
		return nil, err
	}
	report.DestinationKind = domain.DestinationKind(kind)
	return &report, nil
}

// workers — результаты воркеров для набора прогонов, в порядке worker_id.
func (r *RunReportRepository) workers(ctx context.Context, runIDs []string) (map[string][]domain.WorkerReport, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT run_id, worker_id, received, commits, reason, error, started_at, finished_at
		FROM consumer_run_workers
		WHERE run_id = ANY($1::text[])
		ORDER BY run_id, length(worker_id), worker_id
	`, runIDs)
	if err != nil {
		return nil, fmt.Errorf("select workers: %w", err)
	}
	defer rows.Close()

	byRun := make(map[string][]domain.WorkerReport, len(runIDs))
	for rows.Next() {
		var runID, reason string
		var w domain.WorkerReport
		if err := rows.Scan(
			&runID, &w.WorkerID, &w.Received, &w.Commits, &reason, &w.Error, &w.StartedAt, &w.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan worker: %w", err)
		}
		w.Reason = domain.StopReason(reason)
		byRun[runID] = append(byRun[runID], w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workers rows: %w", err)
	}
	return byRun, nil
}

// copyWorkers — вставка результатов воркеров через COPY (CopyFromRows).
func copyWorkers(ctx context.Context, tx pgx.Tx, runID string, workers []domain.WorkerReport) error {
	rows := make([][]any, 0, len(workers))
	for _, w := range workers {
		rows = append(rows, []any{
			runID, w.WorkerID, w.Received, w.Commits, string(w.Reason), w.Error, w.StartedAt, w.FinishedAt,
		})
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"consumer_run_workers"},
		[]string{"run_id", "worker_id", "received", "commits", "reason", "error", "started_at", "finished_at"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("copy workers: %w", err)
	}
	return nil
}
