package amqp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
	"github.com/Gunvolt24/mq_consumer_bench/internal/ports"
	"github.com/Gunvolt24/mq_consumer_bench/pkg/retry"
)

var (
	_ ports.SessionFactory     = (*SessionFactory)(nil)
	_ ports.TransactionCapable = (*SessionFactory)(nil)
	_ ports.Session            = (*Session)(nil)
	_ ports.MessageConsumer    = (*Consumer)(nil)
)

var (
	// ErrNotTransacted — Commit на нетранзакционном сеансе.
	ErrNotTransacted = errors.New("amqp session is not transacted")
	// ErrDeliveriesClosed — брокер закрыл поток доставок (канал или соединение упали).
	ErrDeliveriesClosed = errors.New("amqp deliveries channel closed")
)

// SessionFactory — одно AMQP-соединение; каждый сеанс — отдельный канал.
type SessionFactory struct {
	cfg  Config
	log  ports.Logger
	conn connection
}

// Dial — подключение с повторами по экспоненциальному backoff.
func Dial(ctx context.Context, cfg Config, log ports.Logger) (*SessionFactory, error) {
	url, err := cfg.DialURL()
	if err != nil {
		return nil, err
	}
	attempts := cfg.DialAttempts
	if attempts <= 0 {
		attempts = 5
	}

	var conn *amqp.Connection
	b := retry.NewBackoff(cfg.RetryInitial, cfg.RetryMax, time.Now().UnixNano())
	err = retry.Do(ctx, b, attempts, func(context.Context) error {
		c, dErr := amqp.DialConfig(url, cfg.amqpConfig())
		if dErr != nil {
			log.Warnf(ctx, "amqp dial %s failed: %v", cfg.Redacted(), dErr)
			return dErr
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	log.Infof(ctx, "amqp connected url=%s prefetch=%d", cfg.Redacted(), cfg.Prefetch)
	return newSessionFactory(amqpConnection{conn: conn}, cfg, log), nil
}

func newSessionFactory(conn connection, cfg Config, log ports.Logger) *SessionFactory {
	return &SessionFactory{cfg: cfg, log: log, conn: conn}
}

// OpenSession — открывает канал; transacted переводит его в режим Tx.
func (f *SessionFactory) OpenSession(ctx context.Context, transacted bool) (ports.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ch, err := f.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("amqp open channel: %w", err)
	}
	if f.cfg.Prefetch > 0 {
		if err := ch.Qos(f.cfg.Prefetch, 0, false); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("amqp qos: %w", err)
		}
	}
	if transacted {
		if err := ch.Tx(); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("amqp tx select: %w", err)
		}
	}
	return &Session{ch: ch, transacted: transacted, log: f.log}, nil
}

func (f *SessionFactory) SupportsTransactions() bool { return true }

func (f *SessionFactory) Close() error { return f.conn.Close() }

// Session — AMQP-канал.
type Session struct {
	ch         channel
	transacted bool
	log        ports.Logger

	closeOnce sync.Once
	closeErr  error
}

// CreateConsumer — объявляет топологию и подписывается.
// Очередь: durable-очередь с именем назначения, консьюмеры конкурируют.
// Топик: fanout-exchange с именем назначения и эксклюзивная очередь на консьюмера.
func (s *Session) CreateConsumer(ctx context.Context, dest domain.Destination, name string) (ports.MessageConsumer, error) {
	queue, err := s.declare(dest)
	if err != nil {
		return nil, err
	}

	// Подтверждаем вручную в Receive: доставки, не дошедшие до воркера, вернутся в очередь.
	deliveries, err := s.ch.ConsumeWithContext(ctx, queue, name, false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("amqp consume %s: %w", queue, err)
	}

	s.log.Infof(ctx, "amqp consumer created destination=%s queue=%s tag=%s transacted=%v",
		dest, queue, name, s.transacted)
	return &Consumer{
		ch:          s.ch,
		tag:         name,
		destination: dest.Name,
		deliveries:  deliveries,
	}, nil
}

func (s *Session) declare(dest domain.Destination) (string, error) {
	switch dest.Kind {
	case domain.DestinationTopic:
		if err := s.ch.ExchangeDeclare(dest.Name, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
			return "", fmt.Errorf("amqp declare exchange %s: %w", dest.Name, err)
		}
		q, err := s.ch.QueueDeclare("", false, true, true, false, nil)
		if err != nil {
			return "", fmt.Errorf("amqp declare subscriber queue: %w", err)
		}
		if err := s.ch.QueueBind(q.Name, "", dest.Name, false, nil); err != nil {
			return "", fmt.Errorf("amqp bind %s to %s: %w", q.Name, dest.Name, err)
		}
		return q.Name, nil
	default:
		q, err := s.ch.QueueDeclare(dest.Name, true, false, false, false, nil)
		if err != nil {
			return "", fmt.Errorf("amqp declare queue %s: %w", dest.Name, err)
		}
		return q.Name, nil
	}
}

// Commit — TxCommit: подтверждения, сделанные с прошлого коммита, вступают в силу.
func (s *Session) Commit(ctx context.Context) error {
	if !s.transacted {
		return ErrNotTransacted
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ch.TxCommit(); err != nil {
		return fmt.Errorf("amqp tx commit: %w", err)
	}
	return nil
}

func (s *Session) Transacted() bool { return s.transacted }

// Close — закрывает канал; незакоммиченные подтверждения откатываются брокером.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.ch.Close()
	})
	return s.closeErr
}

// Consumer — подписка на очередь внутри канала сеанса.
type Consumer struct {
	ch          channel
	tag         string
	destination string
	deliveries  <-chan amqp.Delivery

	closeOnce sync.Once
	closeErr  error
}

// Receive — ждёт доставку не дольше timeout (timeout <= 0 — без ограничения).
func (c *Consumer) Receive(ctx context.Context, timeout time.Duration) (*domain.Message, error) {
	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-expired:
		return nil, nil
	case d, ok := <-c.deliveries:
		if !ok {
			return nil, ErrDeliveriesClosed
		}
		// В транзакционном канале подтверждение вступит в силу на TxCommit.
		if err := d.Ack(false); err != nil {
			return nil, fmt.Errorf("amqp ack tag=%d: %w", d.DeliveryTag, err)
		}
		return c.toMessage(&d), nil
	}
}

// Close — отменяет подписку; повторный вызов возвращает результат первого.
func (c *Consumer) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.ch.Cancel(c.tag, false)
	})
	return c.closeErr
}

func (c *Consumer) toMessage(d *amqp.Delivery) *domain.Message {
	id := d.MessageId
	if id == "" {
		id = strconv.FormatUint(d.DeliveryTag, 10)
	}
	return &domain.Message{ID: id, Body: d.Body, Destination: c.destination}
}
