//go:build integration

package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// ProduceMessages — пишет n сообщений "msg-<i>" в топик одним батчем.
func ProduceMessages(ctx context.Context, brokers []string, topic string, n int) error {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.LeastBytes{},
	}
	defer w.Close()

	msgs := make([]kafka.Message, n)
	for i := range msgs {
		msgs[i] = kafka.Message{
			Key:   []byte(strconv.Itoa(i)),
			Value: []byte(fmt.Sprintf("msg-%d-%s", i, UniqSuffix())),
		}
	}
	return w.WriteMessages(ctx, msgs...)
}

// PublishAMQP — публикует n сообщений в durable-очередь queue (объявляет её при необходимости).
func PublishAMQP(ctx context.Context, url, queue string, n int) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", queue, err)
	}
	if err := ch.Confirm(false); err != nil {
		return fmt.Errorf("confirm mode: %w", err)
	}

	for i := 0; i < n; i++ {
		conf, err := ch.PublishWithDeferredConfirmWithContext(ctx, "", queue, false, false, amqp.Publishing{
			MessageId:    fmt.Sprintf("msg-%d", i),
			DeliveryMode: amqp.Persistent,
			Body:         []byte(UniqSuffix()),
		})
		if err != nil {
			return fmt.Errorf("publish %d: %w", i, err)
		}
		if ok, err := conf.WaitContext(ctx); err != nil || !ok {
			return fmt.Errorf("publish %d not confirmed: %v", i, err)
		}
	}
	return nil
}
