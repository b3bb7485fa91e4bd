package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// reader — минимальный контракт над источником (kafka.Reader),
// чтобы легко подменять его моками в тестах.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

func newKafkaReader(rc kafka.ReaderConfig) reader { return kafka.NewReader(rc) }
