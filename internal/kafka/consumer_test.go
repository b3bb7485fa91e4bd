package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
	"github.com/Gunvolt24/mq_consumer_bench/internal/kafka/mocks"
)

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

var queue = domain.Destination{Name: "TEST", Kind: domain.DestinationQueue}

// newTestFactory — фабрика, отдающая мок-reader'ы по очереди и запоминающая их конфиги.
func newTestFactory(readers ...reader) (*SessionFactory, *[]kafka.ReaderConfig) {
	seen := make([]kafka.ReaderConfig, 0, len(readers))
	f := NewSessionFactory(Config{Brokers: []string{"b:9092"}, GroupID: "bench"}, nopLogger{})
	f.newReader = func(rc kafka.ReaderConfig) reader {
		seen = append(seen, rc)
		r := readers[0]
		readers = readers[1:]
		return r
	}
	return f, &seen
}

func expectConfig(r *mocks.Mockreader) {
	r.EXPECT().Config().Return(kafka.ReaderConfig{Topic: "TEST", Brokers: []string{"b:9092"}}).AnyTimes()
}

func openConsumer(t *testing.T, f *SessionFactory, transacted bool, dest domain.Destination, name string) (*Session, *Consumer) {
	t.Helper()
	s, err := f.OpenSession(context.Background(), transacted)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	c, err := s.CreateConsumer(context.Background(), dest, name)
	if err != nil {
		t.Fatalf("create consumer: %v", err)
	}
	return s.(*Session), c.(*Consumer)
}

// Без транзакции оффсет коммитится сразу после fetch
func TestReceive_NonTransacted_CommitsEachMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	expectConfig(r)

	msg := kafka.Message{Topic: "TEST", Partition: 2, Offset: 41, Value: []byte("m1")}
	gomock.InOrder(
		r.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil),
		r.EXPECT().CommitMessages(gomock.Any(), msg).Return(nil),
	)

	f, _ := newTestFactory(r)
	_, c := openConsumer(t, f, false, queue, "consumer-1")

	got, err := c.Receive(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != "TEST/2/41" || string(got.Body) != "m1" || got.Destination != "TEST" {
		t.Fatalf("unexpected message: %+v", got)
	}
}

// Сбой автоподтверждения — это ошибка получения
func TestReceive_NonTransacted_CommitError(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	expectConfig(r)

	r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{Offset: 1}, nil)
	r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(errors.New("coordinator gone"))

	f, _ := newTestFactory(r)
	_, c := openConsumer(t, f, false, queue, "consumer-1")

	if _, err := c.Receive(context.Background(), time.Second); err == nil {
		t.Fatal("expected error")
	}
}

// Транзакционный сеанс: коммит один на все сообщения с прошлого Commit
func TestSessionCommit_CommitsPendingTogether(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	expectConfig(r)

	m1 := kafka.Message{Topic: "TEST", Offset: 1}
	m2 := kafka.Message{Topic: "TEST", Offset: 2}
	m3 := kafka.Message{Topic: "TEST", Offset: 3}
	gomock.InOrder(
		r.EXPECT().FetchMessage(gomock.Any()).Return(m1, nil),
		r.EXPECT().FetchMessage(gomock.Any()).Return(m2, nil),
		r.EXPECT().CommitMessages(gomock.Any(), m1, m2).Return(nil),
		r.EXPECT().FetchMessage(gomock.Any()).Return(m3, nil),
		r.EXPECT().CommitMessages(gomock.Any(), m3).Return(nil),
	)

	f, _ := newTestFactory(r)
	s, c := openConsumer(t, f, true, queue, "consumer-1")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := c.Receive(ctx, time.Second); err != nil {
			t.Fatalf("receive: %v", err)
		}
	}
	if err := s.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, err := c.Receive(ctx, time.Second); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if err := s.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	// Пустой коммит к брокеру не ходит.
	if err := s.Commit(ctx); err != nil {
		t.Fatalf("empty commit: %v", err)
	}
}

// Неудачный коммит оставляет оффсеты для следующей попытки
func TestSessionCommit_ErrorKeepsPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	expectConfig(r)

	m1 := kafka.Message{Offset: 10}
	gomock.InOrder(
		r.EXPECT().FetchMessage(gomock.Any()).Return(m1, nil),
		r.EXPECT().CommitMessages(gomock.Any(), m1).Return(errors.New("rebalance")),
		r.EXPECT().CommitMessages(gomock.Any(), m1).Return(nil),
	)

	f, _ := newTestFactory(r)
	s, c := openConsumer(t, f, true, queue, "consumer-1")
	ctx := context.Background()

	if _, err := c.Receive(ctx, time.Second); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if err := s.Commit(ctx); err == nil {
		t.Fatal("expected commit error")
	}
	if err := s.Commit(ctx); err != nil {
		t.Fatalf("retry commit: %v", err)
	}
}

func TestSessionCommit_NotTransacted(t *testing.T) {
	f, _ := newTestFactory()
	s, err := f.OpenSession(context.Background(), false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Commit(context.Background()); !errors.Is(err, ErrNotTransacted) {
		t.Fatalf("want ErrNotTransacted, got %v", err)
	}
}

// Истёк таймаут receive — пустой результат без ошибки
func TestReceive_TimeoutReturnsNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	expectConfig(r)

	r.EXPECT().FetchMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, error) {
			<-ctx.Done()
			return kafka.Message{}, ctx.Err()
		})

	f, _ := newTestFactory(r)
	_, c := openConsumer(t, f, false, queue, "consumer-1")

	got, err := c.Receive(context.Background(), 20*time.Millisecond)
	if err != nil || got != nil {
		t.Fatalf("want (nil, nil), got (%v, %v)", got, err)
	}
}

// Отмена контекста прогона — это ошибка контекста, а не пустой receive
func TestReceive_ParentCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	expectConfig(r)

	r.EXPECT().FetchMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, error) {
			<-ctx.Done()
			return kafka.Message{}, ctx.Err()
		})

	f, _ := newTestFactory(r)
	_, c := openConsumer(t, f, false, queue, "consumer-1")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if _, err := c.Receive(ctx, time.Second); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestReceive_FetchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	expectConfig(r)

	r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{}, errors.New("broker error"))

	f, _ := newTestFactory(r)
	_, c := openConsumer(t, f, false, queue, "consumer-1")

	if _, err := c.Receive(context.Background(), 0); err == nil {
		t.Fatal("expected error")
	}
}

// Очередь — общая группа; топик — своя группа на консьюмера
func TestCreateConsumer_GroupPerDestinationKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	readers := make([]reader, 4)
	for i := range readers {
		r := mocks.NewMockreader(ctrl)
		expectConfig(r)
		readers[i] = r
	}

	f, seen := newTestFactory(readers...)
	s, err := f.OpenSession(context.Background(), false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	topic := domain.Destination{Name: "NEWS", Kind: domain.DestinationTopic}
	for _, tc := range []struct {
		dest domain.Destination
		name string
	}{
		{queue, "consumer-1"},
		{queue, "consumer-2"},
		{topic, "consumer-1"},
		{topic, "consumer-2"},
	} {
		if _, err := s.CreateConsumer(context.Background(), tc.dest, tc.name); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	want := []struct{ topic, group string }{
		{"TEST", "bench"},
		{"TEST", "bench"},
		{"NEWS", "bench-consumer-1"},
		{"NEWS", "bench-consumer-2"},
	}
	for i, w := range want {
		rc := (*seen)[i]
		if rc.Topic != w.topic || rc.GroupID != w.group {
			t.Fatalf("reader %d: want %s/%s, got %s/%s", i, w.topic, w.group, rc.Topic, rc.GroupID)
		}
		if rc.CommitInterval != 0 {
			t.Fatalf("reader %d: commit must be manual", i)
		}
	}
}

func TestOpenSession_NoBrokers(t *testing.T) {
	f := NewSessionFactory(Config{}, nopLogger{})
	if _, err := f.OpenSession(context.Background(), false); err == nil {
		t.Fatal("expected error without brokers")
	}
}

// Close сеанса закрывает reader'ы один раз, даже если консьюмер уже закрыт воркером
func TestSessionClose_ClosesReadersOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	expectConfig(r)
	r.EXPECT().Close().Return(nil).Times(1)

	f, _ := newTestFactory(r)
	s, c := openConsumer(t, f, true, queue, "consumer-1")

	if err := c.Close(); err != nil {
		t.Fatalf("consumer close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("session close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second session close: %v", err)
	}
	if _, err := s.CreateConsumer(context.Background(), queue, "consumer-2"); err == nil {
		t.Fatal("expected error on closed session")
	}
}
