package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
	"github.com/Gunvolt24/mq_consumer_bench/internal/ports"
	"github.com/segmentio/kafka-go"
)

// Проверка, что адаптер удовлетворяет контрактам сеанса брокера.
var (
	_ ports.SessionFactory     = (*SessionFactory)(nil)
	_ ports.TransactionCapable = (*SessionFactory)(nil)
	_ ports.Session            = (*Session)(nil)
	_ ports.MessageConsumer    = (*Consumer)(nil)
)

// ErrNotTransacted — Commit на нетранзакционном сеансе.
var ErrNotTransacted = errors.New("kafka session is not transacted")

// SessionFactory — "подключение" к Kafka: хранит настройки и создаёт reader'ы на каждый консьюмер.
type SessionFactory struct {
	cfg       Config
	log       ports.Logger
	newReader func(kafka.ReaderConfig) reader
}

// NewSessionFactory — конструктор. GroupID по умолчанию — "consumer-bench".
func NewSessionFactory(cfg Config, log ports.Logger) *SessionFactory {
	if cfg.GroupID == "" {
		cfg.GroupID = "consumer-bench"
	}
	return &SessionFactory{cfg: cfg, log: log, newReader: newKafkaReader}
}

// OpenSession — сеанс без сетевых вызовов: reader'ы создаются в CreateConsumer.
func (f *SessionFactory) OpenSession(ctx context.Context, transacted bool) (ports.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(f.cfg.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	return &Session{factory: f, transacted: transacted}, nil
}

// SupportsTransactions — транзакция моделируется отложенным коммитом оффсетов.
func (f *SessionFactory) SupportsTransactions() bool { return true }

func (f *SessionFactory) Close() error { return nil }

// Session — набор консьюмеров с общей политикой подтверждения.
// Нетранзакционный: оффсет коммитится сразу после FetchMessage.
// Транзакционный: оффсеты копятся и коммитятся в Commit.
type Session struct {
	factory    *SessionFactory
	transacted bool

	mu        sync.Mutex
	consumers []*Consumer
	closed    bool
}

// CreateConsumer — очередь: все консьюмеры в одной группе (конкурирующие получатели);
// топик: у каждого своя группа, поэтому каждый видит все сообщения.
func (s *Session) CreateConsumer(ctx context.Context, dest domain.Destination, name string) (ports.MessageConsumer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	groupID := s.factory.cfg.GroupID
	if dest.Kind == domain.DestinationTopic {
		groupID = groupID + "-" + name
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.New("kafka: session closed")
	}

	r := s.factory.newReader(s.factory.cfg.ReaderConfig(dest.Name, groupID))
	c := &Consumer{reader: r, transacted: s.transacted}
	s.consumers = append(s.consumers, c)

	rc := r.Config()
	s.factory.log.Infof(ctx, "kafka consumer created topic=%s group_id=%s brokers=%v transacted=%v",
		rc.Topic, rc.GroupID, rc.Brokers, s.transacted)
	return c, nil
}

// Commit — коммит всех накопленных с прошлого коммита оффсетов консьюмеров сеанса.
func (s *Session) Commit(ctx context.Context) error {
	if !s.transacted {
		return ErrNotTransacted
	}
	s.mu.Lock()
	consumers := append([]*Consumer(nil), s.consumers...)
	s.mu.Unlock()

	for _, c := range consumers {
		if err := c.commitPending(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) Transacted() bool { return s.transacted }

// Close — закрывает все reader'ы сеанса (уже закрытые консьюмеры не трогает).
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	consumers := s.consumers
	s.consumers = nil
	s.mu.Unlock()

	var errs []error
	for _, c := range consumers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Consumer — обёртка над kafka.Reader одного воркера.
type Consumer struct {
	reader     reader
	transacted bool

	mu        sync.Mutex
	pending   []kafka.Message
	closeOnce sync.Once
	closeErr  error
}

// Receive — FetchMessage с таймаутом; истечение таймаута (не контекста прогона) — это (nil, nil).
func (c *Consumer) Receive(ctx context.Context, timeout time.Duration) (*domain.Message, error) {
	fetchCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	msg, err := c.reader.FetchMessage(fetchCtx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if timeout > 0 && errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, fmt.Errorf("kafka fetch: %w", err)
	}

	if c.transacted {
		c.mu.Lock()
		c.pending = append(c.pending, msg)
		c.mu.Unlock()
	} else if err := c.reader.CommitMessages(ctx, msg); err != nil {
		// Авто-подтверждение не прошло — для харнесса это сбой получения.
		return nil, fmt.Errorf("kafka commit offset=%d: %w", msg.Offset, err)
	}

	return toMessage(&msg), nil
}

// commitPending — коммитит накопленные оффсеты; при ошибке они остаются для повтора.
func (c *Consumer) commitPending(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) == 0 {
		return nil
	}
	if err := c.reader.CommitMessages(ctx, c.pending...); err != nil {
		return fmt.Errorf("kafka commit %d messages: %w", len(c.pending), err)
	}
	c.pending = c.pending[:0]
	return nil
}

// Close — закрывает reader; повторный вызов возвращает результат первого.
func (c *Consumer) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.reader.Close()
	})
	return c.closeErr
}

func toMessage(m *kafka.Message) *domain.Message {
	return &domain.Message{
		ID:          fmt.Sprintf("%s/%d/%d", m.Topic, m.Partition, m.Offset),
		Body:        m.Value,
		Destination: m.Topic,
	}
}
