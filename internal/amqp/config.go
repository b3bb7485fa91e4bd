package amqp

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Config — параметры подключения к AMQP-брокеру.
type Config struct {
	URL      string
	User     string
	Password string

	// Prefetch — Qos на канал; 0 — без ограничения.
	// Для транзакционных сеансов должен быть не меньше размера батча:
	// подтверждения внутри транзакции не освобождают окно до TxCommit.
	Prefetch int

	Heartbeat    time.Duration
	DialTimeout  time.Duration
	DialAttempts int
	RetryInitial time.Duration
	RetryMax     time.Duration
}

// DialURL — URL с учётными данными; User/Password перекрывают указанные в URL.
func (c *Config) DialURL() (string, error) {
	uri, err := amqp.ParseURI(c.URL)
	if err != nil {
		return "", fmt.Errorf("parse amqp url: %w", err)
	}
	if c.User != "" {
		uri.Username = c.User
		uri.Password = c.Password
	}
	return uri.String(), nil
}

// Redacted — адрес брокера без пароля, для логов.
func (c *Config) Redacted() string {
	uri, err := amqp.ParseURI(c.URL)
	if err != nil {
		return c.URL
	}
	if c.User != "" {
		uri.Username = c.User
	}
	uri.Password = "***"
	return uri.String()
}

func (c *Config) amqpConfig() amqp.Config {
	timeout := c.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return amqp.Config{
		Dial:      amqp.DefaultDial(timeout),
		Heartbeat: c.Heartbeat,
		Locale:    "en_US",
	}
}
