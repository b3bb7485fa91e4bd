package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// Config — параметры подключения к Kafka для сеансов харнесса.
type Config struct {
	Brokers     []string
	GroupID     string
	StartOffset string
	MaxWait     time.Duration
}

// ReaderConfig — конфигурация reader'а для топика и группы; коммит оффсетов ручной.
func (c *Config) ReaderConfig(topic, groupID string) kafka.ReaderConfig {
	rc := kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        groupID,
		Topic:          topic,
		CommitInterval: 0,
		MaxWait:        c.MaxWait,
	}

	switch strings.ToLower(strings.TrimSpace(c.StartOffset)) {
	case "first":
		rc.StartOffset = kafka.FirstOffset
	default:
		rc.StartOffset = kafka.LastOffset
	}

	return rc
}
