package consumer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
)

// Phase — этап, на котором воркер получил ошибку брокера.
type Phase string

const (
	PhaseSession Phase = "session"
	PhaseCreate  Phase = "create"
	PhaseReceive Phase = "receive"
	PhaseCommit  Phase = "commit"
	PhasePanic   Phase = "panic"
)

// ErrPartialCompletion — часть воркеров завершилась сбоем (проверять через errors.Is).
var ErrPartialCompletion = errors.New("partial completion")

// WorkerError — сбой отдельного воркера (ConsumerFailure). Не распространяется на соседей.
type WorkerError struct {
	WorkerID string
	Phase    Phase
	Err      error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %s: %s failed: %v", e.WorkerID, e.Phase, e.Err)
}

func (e *WorkerError) Unwrap() error { return e.Err }

// PartialCompletionError — итог пула, если хотя бы один воркер вышел по сбою.
type PartialCompletionError struct {
	Total  int
	Failed []domain.WorkerResult
}

func (e *PartialCompletionError) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for _, r := range e.Failed {
		parts = append(parts, fmt.Sprintf("%s (%v)", r.WorkerID, r.Err))
	}
	return fmt.Sprintf("partial completion: %d of %d workers failed: %s",
		len(e.Failed), e.Total, strings.Join(parts, "; "))
}

func (e *PartialCompletionError) Is(target error) bool { return target == ErrPartialCompletion }

// WorkerIDs — идентификаторы упавших воркеров в порядке запуска.
func (e *PartialCompletionError) WorkerIDs() []string {
	ids := make([]string, 0, len(e.Failed))
	for _, r := range e.Failed {
		ids = append(ids, r.WorkerID)
	}
	return ids
}
