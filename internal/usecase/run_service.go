package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Gunvolt24/mq_consumer_bench/internal/consumer"
	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
	"github.com/Gunvolt24/mq_consumer_bench/internal/ports"
	"github.com/Gunvolt24/mq_consumer_bench/pkg/ctxmeta"
	"github.com/Gunvolt24/mq_consumer_bench/pkg/metrics"
	"github.com/Gunvolt24/mq_consumer_bench/pkg/telemetry"
)

// ErrReportsDisabled — хранилище отчётов не настроено.
var ErrReportsDisabled = errors.New("run reports persistence is disabled")

// saveTimeout — сколько ждём сохранение отчёта после прогона.
const saveTimeout = 10 * time.Second

var _ ports.RunStatusProvider = (*RunService)(nil)

// RunParams — параметры одного прогона.
type RunParams struct {
	Worker  domain.WorkerConfig
	Workers int
	// Timeout — ограничение длительности прогона, 0 — без ограничения.
	Timeout time.Duration
}

// RunService — прикладная логика прогона: пул воркеров, отчёт, сохранение.
type RunService struct {
	pool  *consumer.Pool
	repo  ports.RunReportRepository // nil — без сохранения
	cache ports.RunReportCache      // nil — без кэша
	log   ports.Logger

	newRunID func() string

	mu      sync.RWMutex
	current *consumer.Completion
}

// NewRunService — DI-конструктор. repo и cache могут быть nil.
func NewRunService(
	pool *consumer.Pool,
	repo ports.RunReportRepository,
	cache ports.RunReportCache,
	log ports.Logger,
) *RunService {
	return &RunService{
		pool:     pool,
		repo:     repo,
		cache:    cache,
		log:      log,
		newRunID: uuid.NewString,
	}
}

// Run — запускает пул, ждёт всех воркеров и строит отчёт.
// Ошибка конфигурации или общего сеанса возвращается без отчёта;
// при сбое части воркеров возвращаются и отчёт, и *consumer.PartialCompletionError.
func (s *RunService) Run(ctx context.Context, p RunParams) (*domain.RunReport, error) {
	runID := s.newRunID()
	ctx = ctxmeta.WithRunID(ctx, runID)
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	ctx, span := telemetry.Tracer().Start(ctx, "consumer.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("consumer.run_id", runID),
		attribute.String("consumer.destination", p.Worker.Destination.String()),
		attribute.Int("consumer.workers", p.Workers),
	)

	s.log.Infof(ctx, "run started destination=%s workers=%d message_count=%d sleep=%s transaction_batch_size=%d",
		p.Worker.Destination, p.Workers, p.Worker.MessageCount, p.Worker.Sleep, p.Worker.TransactionBatchSize)

	started := time.Now()
	completion, err := s.pool.Start(ctx, p.Worker, p.Workers)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Errorf(ctx, "run not started: %v", err)
		return nil, err
	}
	s.setCurrent(completion)

	completion.Wait()
	report := buildReport(runID, p, started, time.Now(), completion.Results())
	runErr := completion.Err()

	span.SetAttributes(
		attribute.Int("consumer.total_received", report.TotalReceived),
		attribute.Int("consumer.failed_workers", report.FailedWorkers),
	)
	if runErr != nil {
		metrics.RunsTotal.WithLabelValues("partial").Inc()
		span.SetStatus(codes.Error, runErr.Error())
		s.log.Errorf(ctx, "run finished with failures: %v", runErr)
	} else {
		metrics.RunsTotal.WithLabelValues("ok").Inc()
	}
	s.log.Infof(ctx, "run finished received=%d commits=%d failed_workers=%d took=%s throughput=%.1f msg/s",
		report.TotalReceived, report.TotalCommits, report.FailedWorkers, report.Duration(), report.Throughput())

	s.persist(ctx, report)
	return report, runErr
}

// persist — сохранение не влияет на исход прогона: ошибки только логируются.
// Контекст отвязан от прогона, чтобы отчёт сохранялся и после таймаута.
func (s *RunService) persist(ctx context.Context, report *domain.RunReport) {
	if s.cache != nil {
		if err := s.cache.Set(ctx, report); err != nil {
			s.log.Warnf(ctx, "cache.Set failed run_id=%s err=%v", report.RunID, err)
		}
	}
	if s.repo == nil {
		return
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()
	if err := s.repo.Save(saveCtx, report); err != nil {
		s.log.Errorf(ctx, "repo.Save failed run_id=%s err=%v", report.RunID, err)
		return
	}
	s.log.Infof(ctx, "run report saved run_id=%s", report.RunID)
}

// Report — отчёт по RunID: сначала кэш, при промахе — хранилище с записью в кэш.
// (nil, nil) — отчёта нет.
func (s *RunService) Report(ctx context.Context, runID string) (*domain.RunReport, error) {
	if s.cache != nil {
		if r, ok := s.cache.Get(ctx, runID); ok {
			return r, nil
		}
	}
	if s.repo == nil {
		return nil, ErrReportsDisabled
	}

	r, err := s.repo.GetByRunID(ctx, runID)
	if err != nil {
		s.log.Errorf(ctx, "repo.GetByRunID failed run_id=%s err=%v", runID, err)
		return nil, err
	}
	if r != nil && s.cache != nil {
		if err := s.cache.Set(ctx, r); err != nil {
			s.log.Warnf(ctx, "cache.Set failed run_id=%s err=%v", runID, err)
		}
	}
	return r, nil
}

// Reports — последние отчёты (новые первыми); пагинация уже валидирована транспортом.
func (s *RunService) Reports(ctx context.Context, limit, offset int) ([]*domain.RunReport, error) {
	if s.repo == nil {
		return nil, ErrReportsDisabled
	}
	return s.repo.List(ctx, limit, offset)
}

// Status — живой прогресс текущего (или последнего) прогона.
func (s *RunService) Status() ([]domain.WorkerStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	return s.current.Status(), true
}

func (s *RunService) setCurrent(c *consumer.Completion) {
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()
}

func buildReport(runID string, p RunParams, started, finished time.Time, results []domain.WorkerResult) *domain.RunReport {
	r := &domain.RunReport{
		RunID:                runID,
		Destination:          p.Worker.Destination.Name,
		DestinationKind:      p.Worker.Destination.Kind,
		Workers:              p.Workers,
		MessageCount:         p.Worker.MessageCount,
		TransactionBatchSize: p.Worker.TransactionBatchSize,
		StartedAt:            started,
		FinishedAt:           finished,
		Results:              make([]domain.WorkerReport, 0, len(results)),
	}
	for _, res := range results {
		wr := domain.WorkerReport{
			WorkerID:   res.WorkerID,
			Received:   res.Received,
			Commits:    res.Commits,
			Reason:     res.Reason,
			StartedAt:  res.StartedAt,
			FinishedAt: res.FinishedAt,
		}
		if res.Err != nil {
			wr.Error = res.Err.Error()
		}
		if res.Failed() {
			r.FailedWorkers++
		}
		r.TotalReceived += res.Received
		r.TotalCommits += res.Commits
		r.Results = append(r.Results, wr)
	}
	return r
}
