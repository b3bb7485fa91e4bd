package consumer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
	"github.com/Gunvolt24/mq_consumer_bench/internal/ports"
	"github.com/Gunvolt24/mq_consumer_bench/pkg/metrics"
	"github.com/Gunvolt24/mq_consumer_bench/pkg/validate"
)

// Pool — запускает k воркеров над одним брокером и ждёт завершения всех.
type Pool struct {
	factory ports.SessionFactory
	log     ports.Logger
}

// NewPool — DI-конструктор.
func NewPool(factory ports.SessionFactory, log ports.Logger) *Pool {
	return &Pool{factory: factory, log: log}
}

// Start — валидирует конфигурацию, открывает сеансы и запускает воркеров consumer-1..consumer-k.
// Ошибка возвращается только до старта воркеров (ErrInvalidConfig или сбой общего сеанса);
// сбои отдельных воркеров видны через Completion.Err().
//
// Без транзакций все воркеры делят один сеанс. С транзакциями каждый воркер открывает
// собственный транзакционный сеанс, чтобы коммиты разных воркеров не перемешивались.
func (p *Pool) Start(ctx context.Context, tmpl domain.WorkerConfig, workers int) (*Completion, error) {
	err := validate.Validate(validate.RunConfig{
		Worker:              tmpl,
		Workers:             workers,
		SupportsTransaction: supportsTransactions(p.factory),
	})
	if err != nil {
		return nil, err
	}

	var shared ports.Session
	if !tmpl.Transacted() {
		shared, err = p.factory.OpenSession(ctx, false)
		if err != nil {
			return nil, fmt.Errorf("open session: %w", err)
		}
	}

	c := newCompletion(workers)
	for i := 0; i < workers; i++ {
		cfg := tmpl
		cfg.WorkerID = fmt.Sprintf("consumer-%d", i+1)
		c.progress[i] = newProgress(cfg.WorkerID)

		go func(idx int, cfg domain.WorkerConfig) {
			// Барьер отмечается ровно один раз на любом пути выхода.
			defer c.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					c.results[idx] = failedResult(cfg.WorkerID, PhasePanic, fmt.Errorf("%v", r))
					c.progress[idx].setState(domain.WorkerFailed)
				}
			}()
			c.results[idx] = p.runWorker(ctx, cfg, shared, c.progress[idx])
		}(i, cfg)
	}

	go func() {
		c.wg.Wait()
		if shared != nil {
			if cErr := shared.Close(); cErr != nil {
				p.log.Warnf(ctx, "shared session close error: %v", cErr)
			}
		}
		close(c.done)
	}()

	return c, nil
}

// runWorker — при необходимости открывает собственный транзакционный сеанс и запускает воркер.
func (p *Pool) runWorker(ctx context.Context, cfg domain.WorkerConfig, shared ports.Session, pr *progress) domain.WorkerResult {
	session := shared
	if session == nil {
		s, err := p.factory.OpenSession(ctx, true)
		if err != nil && ctx.Err() != nil {
			// Прогон отменён до открытия сеанса — штатная остановка.
			pr.setState(domain.WorkerFinished)
			now := time.Now()
			return domain.WorkerResult{WorkerID: cfg.WorkerID, Reason: domain.StopCancelled, StartedAt: now, FinishedAt: now}
		}
		if err != nil {
			metrics.WorkerFailures.WithLabelValues(cfg.Destination.String(), string(PhaseSession)).Inc()
			pr.setState(domain.WorkerFailed)
			res := failedResult(cfg.WorkerID, PhaseSession, err)
			p.log.Errorf(ctx, "%v", res.Err)
			return res
		}
		session = s
		defer func() {
			if cErr := s.Close(); cErr != nil {
				p.log.Warnf(ctx, "worker %s session close error: %v", cfg.WorkerID, cErr)
			}
		}()
	}

	return newWorker(cfg, session, p.log, pr).Run(ctx)
}

func failedResult(workerID string, phase Phase, err error) domain.WorkerResult {
	now := time.Now()
	return domain.WorkerResult{
		WorkerID:   workerID,
		Reason:     domain.StopFailed,
		Err:        &WorkerError{WorkerID: workerID, Phase: phase, Err: err},
		StartedAt:  now,
		FinishedAt: now,
	}
}

func supportsTransactions(f ports.SessionFactory) bool {
	if tc, ok := f.(ports.TransactionCapable); ok {
		return tc.SupportsTransactions()
	}
	return true
}

// Completion — барьер завершения пула: каждый воркер отмечается один раз,
// результат каждого воркера доступен отдельно.
type Completion struct {
	wg       sync.WaitGroup
	done     chan struct{}
	results  []domain.WorkerResult
	progress []*progress
}

func newCompletion(workers int) *Completion {
	c := &Completion{
		done:     make(chan struct{}),
		results:  make([]domain.WorkerResult, workers),
		progress: make([]*progress, workers),
	}
	c.wg.Add(workers)
	return c
}

// Done — закрывается, когда все воркеры вышли и общий сеанс закрыт.
func (c *Completion) Done() <-chan struct{} { return c.done }

// Wait — блокирует до выхода всех воркеров. Повторный вызов возвращается сразу.
func (c *Completion) Wait() { <-c.done }

// WaitContext — как Wait, но с отменой ожидания (сами воркеры при этом не останавливаются).
func (c *Completion) WaitContext(ctx context.Context) error {
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Completion) finished() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Results — копия результатов воркеров в порядке запуска; nil, пока пул не завершился.
func (c *Completion) Results() []domain.WorkerResult {
	if !c.finished() {
		return nil
	}
	out := make([]domain.WorkerResult, len(c.results))
	copy(out, c.results)
	return out
}

// Err — *PartialCompletionError, если хоть один воркер вышел по сбою.
// Не блокирует: до завершения пула возвращает nil.
func (c *Completion) Err() error {
	if !c.finished() {
		return nil
	}
	var failed []domain.WorkerResult
	for _, r := range c.results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return &PartialCompletionError{Total: len(c.results), Failed: failed}
}

// Status — живой снимок прогресса воркеров.
func (c *Completion) Status() []domain.WorkerStatus {
	out := make([]domain.WorkerStatus, 0, len(c.progress))
	for _, p := range c.progress {
		out = append(out, p.snapshot())
	}
	return out
}
