package consumer_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/Gunvolt24/mq_consumer_bench/internal/consumer"
	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
	"github.com/Gunvolt24/mq_consumer_bench/internal/ports"
	"github.com/Gunvolt24/mq_consumer_bench/internal/ports/mocks"
	"github.com/Gunvolt24/mq_consumer_bench/pkg/validate"
)

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// ---- фейковый брокер ----

// script — поведение консьюмера конкретного воркера.
type script struct {
	messages  int   // сколько сообщений отдать; < 0 — бесконечно
	failAfter int   // после скольких сообщений вернуть err; < 0 — никогда
	err       error // ошибка receive
	block     bool  // когда сообщения кончились — ждать отмены вместо (nil, nil)
}

var endless = script{messages: -1, failAfter: -1}

type fakeFactory struct {
	mu        sync.Mutex
	scripts   map[string]script
	sessions  []*fakeSession
	consumers []*fakeConsumer
	openErr   func(n int, transacted bool) error
	opens     int
}

func newFakeFactory(scripts map[string]script) *fakeFactory {
	return &fakeFactory{scripts: scripts}
}

func (f *fakeFactory) OpenSession(_ context.Context, transacted bool) (ports.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens++
	if f.openErr != nil {
		if err := f.openErr(f.opens, transacted); err != nil {
			return nil, err
		}
	}
	s := &fakeSession{f: f, transacted: transacted}
	f.sessions = append(f.sessions, s)
	return s, nil
}

func (f *fakeFactory) Close() error { return nil }

func (f *fakeFactory) totalCommits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sessions {
		n += int(s.commits.Load())
	}
	return n
}

type fakeSession struct {
	f          *fakeFactory
	transacted bool
	commits    atomic.Int32
	closed     atomic.Bool
}

func (s *fakeSession) CreateConsumer(_ context.Context, _ domain.Destination, name string) (ports.MessageConsumer, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	sc, ok := s.f.scripts[name]
	if !ok {
		sc = endless
	}
	c := &fakeConsumer{script: sc}
	s.f.consumers = append(s.f.consumers, c)
	return c, nil
}

func (s *fakeSession) Commit(context.Context) error {
	if !s.transacted {
		return errors.New("not transacted")
	}
	s.commits.Add(1)
	return nil
}

func (s *fakeSession) Transacted() bool { return s.transacted }
func (s *fakeSession) Close() error     { s.closed.Store(true); return nil }

type fakeConsumer struct {
	script    script
	delivered int
	closed    atomic.Bool
}

func (c *fakeConsumer) Receive(ctx context.Context, _ time.Duration) (*domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.script.failAfter >= 0 && c.delivered == c.script.failAfter {
		return nil, c.script.err
	}
	if c.script.messages < 0 || c.delivered < c.script.messages {
		c.delivered++
		return &domain.Message{ID: fmt.Sprint(c.delivered)}, nil
	}
	if c.script.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return nil, nil
}

func (c *fakeConsumer) Close() error { c.closed.Store(true); return nil }

// ---- helpers ----

func baseConfig() domain.WorkerConfig {
	return domain.WorkerConfig{
		Destination:    domain.Destination{Name: "TEST", Kind: domain.DestinationQueue},
		ReceiveTimeout: 5 * time.Millisecond,
	}
}

func waitOrFail(t *testing.T, c *consumer.Completion) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.WaitContext(ctx); err != nil {
		t.Fatalf("pool did not complete: %v", err)
	}
}

func totalReceived(results []domain.WorkerResult) int {
	n := 0
	for _, r := range results {
		n += r.Received
	}
	return n
}

// ---- сценарии ----

// 3 воркера по 10 сообщений без транзакций → 30 сообщений, ни одного коммита, один общий сеанс
func TestPool_ThreeWorkers_NoTransactions(t *testing.T) {
	f := newFakeFactory(nil)
	cfg := baseConfig()
	cfg.MessageCount = 10

	c, err := consumer.NewPool(f, nopLogger{}).Start(context.Background(), cfg, 3)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.Wait()

	results := c.Results()
	if len(results) != 3 || totalReceived(results) != 30 {
		t.Fatalf("want 3 results with 30 messages, got %d/%d", len(results), totalReceived(results))
	}
	for i, r := range results {
		if r.WorkerID != fmt.Sprintf("consumer-%d", i+1) || r.Reason != domain.StopCountReached {
			t.Fatalf("result %d wrong: %+v", i, r)
		}
	}
	if f.totalCommits() != 0 {
		t.Fatalf("want no commits, got %d", f.totalCommits())
	}
	if len(f.sessions) != 1 || f.sessions[0].transacted {
		t.Fatalf("want one shared non-transacted session, got %d", len(f.sessions))
	}
	if !f.sessions[0].closed.Load() {
		t.Fatalf("shared session must be closed after completion")
	}
	for _, fc := range f.consumers {
		if !fc.closed.Load() {
			t.Fatalf("every consumer must be closed")
		}
	}
	if err := c.Err(); err != nil {
		t.Fatalf("want nil Err, got %v", err)
	}
}

// 1 воркер, 100 сообщений, батч 25 → 4 коммита в собственном транзакционном сеансе
func TestPool_SingleWorker_BatchedCommits(t *testing.T) {
	f := newFakeFactory(nil)
	cfg := baseConfig()
	cfg.MessageCount = 100
	cfg.TransactionBatchSize = 25

	c, err := consumer.NewPool(f, nopLogger{}).Start(context.Background(), cfg, 1)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitOrFail(t, c)

	if got := f.totalCommits(); got != 4 {
		t.Fatalf("want 4 commits, got %d", got)
	}
	if len(f.sessions) != 1 || !f.sessions[0].transacted || !f.sessions[0].closed.Load() {
		t.Fatalf("want one closed transacted session")
	}
	if r := c.Results()[0]; r.Commits != 4 || r.Received != 100 {
		t.Fatalf("result wrong: %+v", r)
	}
}

// Транзакционные воркеры не делят сеанс
func TestPool_TransactedWorkers_SessionPerWorker(t *testing.T) {
	f := newFakeFactory(nil)
	cfg := baseConfig()
	cfg.MessageCount = 6
	cfg.TransactionBatchSize = 4

	c, err := consumer.NewPool(f, nopLogger{}).Start(context.Background(), cfg, 3)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitOrFail(t, c)

	if len(f.sessions) != 3 {
		t.Fatalf("want 3 sessions, got %d", len(f.sessions))
	}
	for _, s := range f.sessions {
		// 4 + хвост 2
		if s.commits.Load() != 2 {
			t.Fatalf("want 2 commits per session, got %d", s.commits.Load())
		}
	}
}

// Оба воркера останавливаются на пустой очереди после 7 и 4 сообщений
func TestPool_BreakOnNull_IndependentEmptyQueues(t *testing.T) {
	f := newFakeFactory(map[string]script{
		"consumer-1": {messages: 7, failAfter: -1},
		"consumer-2": {messages: 4, failAfter: -1},
	})
	cfg := baseConfig()
	cfg.BreakOnNull = true

	c, err := consumer.NewPool(f, nopLogger{}).Start(context.Background(), cfg, 2)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitOrFail(t, c)

	results := c.Results()
	if totalReceived(results) != 11 {
		t.Fatalf("want 11 total, got %d", totalReceived(results))
	}
	if results[0].Received != 7 || results[1].Received != 4 {
		t.Fatalf("per-worker counts wrong: %d/%d", results[0].Received, results[1].Received)
	}
	for _, r := range results {
		if r.Reason != domain.StopEmptyQueue {
			t.Fatalf("want EMPTY_QUEUE, got %s", r.Reason)
		}
	}
}

// Сбой одного воркера не задевает остальных; Err() перечисляет упавшего
func TestPool_FailureIsolation_PartialCompletion(t *testing.T) {
	boom := errors.New("receive failed")
	f := newFakeFactory(map[string]script{
		"consumer-2": {messages: -1, failAfter: 5, err: boom},
	})
	cfg := baseConfig()
	cfg.MessageCount = 10

	c, err := consumer.NewPool(f, nopLogger{}).Start(context.Background(), cfg, 3)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitOrFail(t, c)

	results := c.Results()
	if results[0].Received != 10 || results[2].Received != 10 {
		t.Fatalf("healthy workers must finish: %+v", results)
	}
	if results[1].Received != 5 || !results[1].Failed() {
		t.Fatalf("worker 2 must fail after 5: %+v", results[1])
	}

	err = c.Err()
	if !errors.Is(err, consumer.ErrPartialCompletion) {
		t.Fatalf("want ErrPartialCompletion, got %v", err)
	}
	var pce *consumer.PartialCompletionError
	if !errors.As(err, &pce) {
		t.Fatalf("want *PartialCompletionError, got %T", err)
	}
	if ids := pce.WorkerIDs(); len(ids) != 1 || ids[0] != "consumer-2" || pce.Total != 3 {
		t.Fatalf("failed workers wrong: %v total=%d", ids, pce.Total)
	}
	if !errors.Is(pce.Failed[0].Err, boom) {
		t.Fatalf("failure cause must be preserved: %v", pce.Failed[0].Err)
	}
}

// Повторный Wait после завершения возвращается сразу
func TestCompletion_WaitIsIdempotent(t *testing.T) {
	f := newFakeFactory(nil)
	cfg := baseConfig()
	cfg.MessageCount = 1

	c, err := consumer.NewPool(f, nopLogger{}).Start(context.Background(), cfg, 2)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.Wait()

	done := make(chan struct{})
	go func() {
		c.Wait()
		c.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second Wait blocked")
	}
	select {
	case <-c.Done():
	default:
		t.Fatal("Done channel must be closed")
	}
}

// Отмена контекста останавливает бесконечных воркеров; это не сбой
func TestPool_Cancel_StopsAllWorkers(t *testing.T) {
	f := newFakeFactory(map[string]script{
		"consumer-1": {messages: 3, failAfter: -1, block: true},
		"consumer-2": {messages: 0, failAfter: -1, block: true},
	})
	cfg := baseConfig()
	cfg.ReceiveTimeout = 0

	ctx, cancel := context.WithCancel(context.Background())
	c, err := consumer.NewPool(f, nopLogger{}).Start(ctx, cfg, 2)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	cancel()
	waitOrFail(t, c)

	for _, r := range c.Results() {
		if r.Reason != domain.StopCancelled || r.Err != nil {
			t.Fatalf("want CANCELLED without error, got %+v", r)
		}
	}
	if c.Err() != nil {
		t.Fatalf("cancellation must not be a partial completion: %v", c.Err())
	}
}

// Results/Err до завершения не блокируют и пусты
func TestCompletion_NonBlockingBeforeDone(t *testing.T) {
	f := newFakeFactory(map[string]script{
		"consumer-1": {messages: 0, failAfter: -1, block: true},
	})
	cfg := baseConfig()

	ctx, cancel := context.WithCancel(context.Background())
	c, err := consumer.NewPool(f, nopLogger{}).Start(ctx, cfg, 1)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if c.Results() != nil || c.Err() != nil {
		t.Fatalf("Results/Err must be empty before completion")
	}
	st := c.Status()
	if len(st) != 1 || st[0].WorkerID != "consumer-1" {
		t.Fatalf("status wrong: %+v", st)
	}

	cancel()
	waitOrFail(t, c)

	if st := c.Status(); st[0].State != domain.WorkerFinished {
		t.Fatalf("want finished state after completion, got %s", st[0].State)
	}
}

// Не удалось открыть транзакционный сеанс одного воркера — сбой только у него
func TestPool_TransactedSessionOpenFailure_IsWorkerLocal(t *testing.T) {
	f := newFakeFactory(nil)
	f.openErr = func(n int, _ bool) error {
		if n == 2 {
			return errors.New("channel limit")
		}
		return nil
	}
	cfg := baseConfig()
	cfg.MessageCount = 3
	cfg.TransactionBatchSize = 3

	c, err := consumer.NewPool(f, nopLogger{}).Start(context.Background(), cfg, 3)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitOrFail(t, c)

	var pce *consumer.PartialCompletionError
	if !errors.As(c.Err(), &pce) || len(pce.Failed) != 1 {
		t.Fatalf("want one failed worker, got %v", c.Err())
	}
	var we *consumer.WorkerError
	if !errors.As(pce.Failed[0].Err, &we) || we.Phase != consumer.PhaseSession {
		t.Fatalf("want session WorkerError, got %v", pce.Failed[0].Err)
	}
	if totalReceived(c.Results()) != 6 {
		t.Fatalf("two healthy workers must consume 6, got %d", totalReceived(c.Results()))
	}
}

// Отмена во время открытия транзакционного сеанса — CANCELLED, без частичного завершения
func TestPool_TransactedSessionOpenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := newFakeFactory(nil)
	f.openErr = func(int, bool) error {
		cancel()
		return context.Canceled
	}
	cfg := baseConfig()
	cfg.TransactionBatchSize = 5

	c, err := consumer.NewPool(f, nopLogger{}).Start(ctx, cfg, 2)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitOrFail(t, c)

	if err := c.Err(); err != nil {
		t.Fatalf("cancellation is not a failure: %v", err)
	}
	for _, r := range c.Results() {
		if r.Reason != domain.StopCancelled || r.Err != nil {
			t.Fatalf("want CANCELLED without error, got %+v", r)
		}
	}
	for _, st := range c.Status() {
		if st.State != domain.WorkerFinished {
			t.Fatalf("want finished state, got %s", st.State)
		}
	}
}

// Общий сеанс не открылся — ошибка до старта воркеров
func TestPool_SharedSessionOpenFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	factory := mocks.NewMockSessionFactory(ctrl)
	factory.EXPECT().OpenSession(gomock.Any(), false).Return(nil, errors.New("auth failed"))

	c, err := consumer.NewPool(factory, nopLogger{}).Start(context.Background(), baseConfig(), 2)
	if err == nil || c != nil {
		t.Fatalf("want error and nil completion, got %v %v", c, err)
	}
}

// k == 0 — ошибка конфигурации, к брокеру не обращаемся
func TestPool_ZeroWorkers_ConfigurationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	factory := mocks.NewMockSessionFactory(ctrl) // без ожиданий: любой вызов уронит тест

	_, err := consumer.NewPool(factory, nopLogger{}).Start(context.Background(), baseConfig(), 0)
	if !errors.Is(err, validate.ErrInvalidConfig) {
		t.Fatalf("want ErrInvalidConfig, got %v", err)
	}
}

// Фабрика без транзакций не принимает размер батча
func TestPool_BatchWithoutTransactionSupport_ConfigurationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	factory := struct {
		*mocks.MockSessionFactory
		*mocks.MockTransactionCapable
	}{mocks.NewMockSessionFactory(ctrl), mocks.NewMockTransactionCapable(ctrl)}
	factory.MockTransactionCapable.EXPECT().SupportsTransactions().Return(false)

	cfg := baseConfig()
	cfg.TransactionBatchSize = 10

	_, err := consumer.NewPool(factory, nopLogger{}).Start(context.Background(), cfg, 1)
	if !errors.Is(err, validate.ErrInvalidConfig) {
		t.Fatalf("want ErrInvalidConfig, got %v", err)
	}
}
