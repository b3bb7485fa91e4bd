package validate

import (
	"errors"
	"fmt"

	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
)

// ErrInvalidConfig — базовая (sentinel error) ошибка конфигурации прогона.
// Обнаруживается до старта любого воркера и фатальна для всего прогона.
var ErrInvalidConfig = errors.New("invalid consumer configuration")

// RunConfig — проверяемые параметры: шаблон воркера, число воркеров и возможности бэкенда.
type RunConfig struct {
	Worker              domain.WorkerConfig
	Workers             int
	SupportsTransaction bool
}

// Validate — проверяет корректность конфигурации; возвращает ErrInvalidConfig с причиной.
func Validate(rc RunConfig) error {
	if rc.Workers < 1 {
		return fmt.Errorf("%w: worker count must be >= 1, got %d", ErrInvalidConfig, rc.Workers)
	}
	if err := validateDestination(rc.Worker.Destination); err != nil {
		return err
	}
	return validateWorker(rc.Worker, rc.SupportsTransaction)
}

func validateDestination(d domain.Destination) error {
	if d.Name == "" {
		return fmt.Errorf("%w: destination name is required", ErrInvalidConfig)
	}
	switch d.Kind {
	case domain.DestinationQueue, domain.DestinationTopic:
		return nil
	default:
		return fmt.Errorf("%w: unknown destination kind %q", ErrInvalidConfig, d.Kind)
	}
}

func validateWorker(w domain.WorkerConfig, supportsTx bool) error {
	if w.MessageCount < 0 {
		return fmt.Errorf("%w: message count must be non-negative, got %d", ErrInvalidConfig, w.MessageCount)
	}
	if w.TransactionBatchSize < 0 {
		return fmt.Errorf("%w: transaction batch size must be non-negative, got %d", ErrInvalidConfig, w.TransactionBatchSize)
	}
	if w.Sleep < 0 {
		return fmt.Errorf("%w: sleep must be non-negative, got %s", ErrInvalidConfig, w.Sleep)
	}
	if w.TransactionBatchSize > 0 && !supportsTx {
		return fmt.Errorf("%w: transaction batch size %d set but the broker session does not support transactions",
			ErrInvalidConfig, w.TransactionBatchSize)
	}
	if w.CommitPartialOnFailure && w.TransactionBatchSize == 0 {
		return fmt.Errorf("%w: commit-on-failure requires a transaction batch size", ErrInvalidConfig)
	}
	return nil
}
