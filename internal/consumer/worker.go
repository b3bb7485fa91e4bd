package consumer

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
	"github.com/Gunvolt24/mq_consumer_bench/internal/ports"
	"github.com/Gunvolt24/mq_consumer_bench/pkg/ctxmeta"
	"github.com/Gunvolt24/mq_consumer_bench/pkg/metrics"
	"github.com/Gunvolt24/mq_consumer_bench/pkg/retry"
	"github.com/Gunvolt24/mq_consumer_bench/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// finalCommitTimeout — сколько ждём коммит хвостового батча, если контекст прогона уже отменён.
const finalCommitTimeout = 5 * time.Second

// Worker — один консьюмер: цикл receive → (батч/коммит) → пауза до условия остановки.
// Счётчики принадлежат горутине воркера, блокировки не нужны.
type Worker struct {
	cfg      domain.WorkerConfig
	session  ports.Session
	log      ports.Logger
	progress *progress
	sleep    func(ctx context.Context, d time.Duration) bool

	received    int
	sinceCommit int
	commits     int
}

// NewWorker — конструктор. Сеанс должен быть транзакционным, если TransactionBatchSize > 0.
func NewWorker(cfg domain.WorkerConfig, session ports.Session, log ports.Logger) *Worker {
	return newWorker(cfg, session, log, newProgress(cfg.WorkerID))
}

func newWorker(cfg domain.WorkerConfig, session ports.Session, log ports.Logger, p *progress) *Worker {
	return &Worker{
		cfg:      cfg,
		session:  session,
		log:      log,
		progress: p,
		sleep:    retry.Sleep,
	}
}

// Run — создаёт консьюмер, крутит цикл и освобождает ресурсы.
// Никогда не паникует наружу: любой сбой брокера возвращается как WorkerError в результате.
func (w *Worker) Run(ctx context.Context) (res domain.WorkerResult) {
	ctx = ctxmeta.WithWorkerID(ctx, w.cfg.WorkerID)
	ctx, span := telemetry.Tracer().Start(ctx, "consumer.worker", trace.WithAttributes(
		attribute.String("consumer.worker_id", w.cfg.WorkerID),
		attribute.String("consumer.destination", w.cfg.Destination.String()),
		attribute.Int("consumer.message_count", w.cfg.MessageCount),
		attribute.Int("consumer.transaction_batch_size", w.cfg.TransactionBatchSize),
	))

	res = domain.WorkerResult{WorkerID: w.cfg.WorkerID, StartedAt: time.Now()}
	w.progress.setState(domain.WorkerRunning)
	metrics.WorkersActive.Inc()

	defer func() {
		if r := recover(); r != nil {
			// Неполный батч при панике не коммитим: брокер доставит сообщения повторно.
			res.Reason = domain.StopFailed
			res.Err = w.failure(PhasePanic, fmt.Errorf("%v", r))
		}
		w.finish(ctx, &res, span)
	}()

	consumer, err := w.session.CreateConsumer(ctx, w.cfg.Destination, w.cfg.WorkerID)
	if err != nil {
		if ctx.Err() != nil {
			res.Reason = domain.StopCancelled
			return res
		}
		res.Reason, res.Err = domain.StopFailed, w.failure(PhaseCreate, err)
		return res
	}
	defer w.closeConsumer(ctx, consumer)

	reason, loopErr := w.consume(ctx, consumer)
	res.Reason, res.Err = reason, loopErr

	// Хвостовой батч — до закрытия консьюмера.
	if settleErr := w.settle(ctx, loopErr != nil); settleErr != nil && loopErr == nil {
		res.Reason, res.Err = domain.StopFailed, settleErr
	}
	return res
}

// consume — основной цикл:
// 1) receive с таймаутом (или без, если ReceiveTimeout <= 0);
// 2) пусто и BreakOnNull → EMPTY_QUEUE, иначе повтор;
// 3) сообщение → счётчики и коммит по заполнению батча;
// 4) received == MessageCount → COUNT_REACHED;
// 5) пауза Sleep перед следующей итерацией.
func (w *Worker) consume(ctx context.Context, consumer ports.MessageConsumer) (domain.StopReason, error) {
	dest := w.cfg.Destination.String()

	for {
		if ctx.Err() != nil {
			return domain.StopCancelled, nil
		}

		start := time.Now()
		msg, err := consumer.Receive(ctx, w.cfg.ReceiveTimeout)
		metrics.ReceiveDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			// Отмена прогона — штатная остановка, а не сбой воркера.
			if ctx.Err() != nil {
				return domain.StopCancelled, nil
			}
			return domain.StopFailed, w.failure(PhaseReceive, err)
		}

		if msg == nil {
			metrics.ReceiveEmpty.WithLabelValues(dest).Inc()
			if w.cfg.BreakOnNull {
				return domain.StopEmptyQueue, nil
			}
		} else {
			w.received++
			w.progress.received.Store(int64(w.received))
			metrics.MessagesReceived.WithLabelValues(dest).Inc()

			if err := w.onMessage(ctx); err != nil {
				return domain.StopFailed, err
			}
			if w.cfg.MessageCount > 0 && w.received == w.cfg.MessageCount {
				return domain.StopCountReached, nil
			}
		}

		if w.cfg.Sleep > 0 && !w.sleep(ctx, w.cfg.Sleep) {
			return domain.StopCancelled, nil
		}
	}
}

// onMessage — учёт сообщения в транзакционном батче; без транзакций подтверждает сам сеанс.
func (w *Worker) onMessage(ctx context.Context) error {
	if w.cfg.TransactionBatchSize == 0 {
		return nil
	}
	w.sinceCommit++
	if w.sinceCommit == w.cfg.TransactionBatchSize {
		return w.commit(ctx)
	}
	return nil
}

func (w *Worker) commit(ctx context.Context) error {
	if err := w.session.Commit(ctx); err != nil {
		return w.failure(PhaseCommit, err)
	}
	w.commits++
	w.sinceCommit = 0
	w.progress.commits.Store(int64(w.commits))
	metrics.Commits.WithLabelValues(w.cfg.Destination.String()).Inc()
	return nil
}

// settle — судьба неполного батча при выходе из цикла.
// Штатная остановка (включая отмену) → коммит; сбой → отбрасываем, если не включён CommitPartialOnFailure.
func (w *Worker) settle(ctx context.Context, failed bool) error {
	if w.sinceCommit == 0 {
		return nil
	}
	if failed && !w.cfg.CommitPartialOnFailure {
		w.log.Warnf(ctx, "discarding uncommitted batch of %d messages after failure", w.sinceCommit)
		return nil
	}

	// Контекст прогона может быть уже отменён — коммитим на отвязанном контексте.
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalCommitTimeout)
	defer cancel()

	pending := w.sinceCommit
	if err := w.commit(commitCtx); err != nil {
		w.log.Errorf(ctx, "final commit of %d messages failed: %v", pending, err)
		return err
	}
	return nil
}

func (w *Worker) closeConsumer(ctx context.Context, consumer ports.MessageConsumer) {
	if err := consumer.Close(); err != nil {
		w.log.Warnf(ctx, "consumer close error: %v", err)
	}
}

func (w *Worker) failure(phase Phase, err error) error {
	metrics.WorkerFailures.WithLabelValues(w.cfg.Destination.String(), string(phase)).Inc()
	return &WorkerError{WorkerID: w.cfg.WorkerID, Phase: phase, Err: err}
}

// finish — итоговые счётчики, статус, спан и лог; выполняется на любом пути выхода.
func (w *Worker) finish(ctx context.Context, res *domain.WorkerResult, span trace.Span) {
	res.Received = w.received
	res.Commits = w.commits
	res.FinishedAt = time.Now()
	metrics.WorkersActive.Dec()

	span.SetAttributes(
		attribute.Int("consumer.received", res.Received),
		attribute.Int("consumer.commits", res.Commits),
		attribute.String("consumer.stop_reason", string(res.Reason)),
	)

	if res.Failed() {
		w.progress.setState(domain.WorkerFailed)
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
		w.log.Errorf(ctx, "consumer stopped with failure received=%d commits=%d: %v",
			res.Received, res.Commits, res.Err)
	} else {
		w.progress.setState(domain.WorkerFinished)
		w.log.Infof(ctx, "consumer finished reason=%s received=%d commits=%d took=%s",
			res.Reason, res.Received, res.Commits, res.FinishedAt.Sub(res.StartedAt))
	}
	span.End()
}
