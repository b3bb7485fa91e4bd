package ports

import (
	"context"
	"time"

	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
)

// SessionFactory — внешний клиент брокера: открывает сеансы поверх одного подключения.
type SessionFactory interface {
	// OpenSession — открыть сеанс; transacted=true — подтверждения только через Commit.
	OpenSession(ctx context.Context, transacted bool) (Session, error)
	Close() error
}

// Session — открытый сеанс брокера. Нетранзакционный сеанс может разделяться
// несколькими воркерами; транзакционный принадлежит одному воркеру.
type Session interface {
	CreateConsumer(ctx context.Context, dest domain.Destination, name string) (MessageConsumer, error)
	// Commit — подтвердить всё полученное с прошлого коммита (только для transacted).
	Commit(ctx context.Context) error
	Transacted() bool
	Close() error
}

// MessageConsumer — консьюмер, привязанный к назначению.
type MessageConsumer interface {
	// Receive — следующее сообщение; timeout <= 0 — ждать до сообщения или отмены ctx.
	// (nil, nil) — за timeout сообщений не было.
	Receive(ctx context.Context, timeout time.Duration) (*domain.Message, error)
	Close() error
}

// TransactionCapable — необязательная возможность фабрики сообщить, умеет ли брокер транзакции.
// Фабрики без этого метода считаются транзакционными.
type TransactionCapable interface {
	SupportsTransactions() bool
}
