package domain

import "time"

// WorkerConfig — неизменяемые настройки одного воркера.
type WorkerConfig struct {
	Destination            Destination
	MessageCount           int           // 0 — без ограничения
	Sleep                  time.Duration // пауза между итерациями, 0 — без паузы
	TransactionBatchSize   int           // 0 — без транзакций
	BreakOnNull            bool          // пустой receive завершает цикл
	ReceiveTimeout         time.Duration // <= 0 — ждать бесконечно
	CommitPartialOnFailure bool          // коммитить неполный батч при сбое воркера
	WorkerID               string
}

// Transacted — нужен ли воркеру транзакционный сеанс.
func (c WorkerConfig) Transacted() bool { return c.TransactionBatchSize > 0 }

// StopReason — причина завершения цикла воркера.
type StopReason string

const (
	StopCountReached StopReason = "COUNT_REACHED"
	StopEmptyQueue   StopReason = "EMPTY_QUEUE"
	StopCancelled    StopReason = "CANCELLED"
	StopFailed       StopReason = "FAILED"
)

// WorkerResult — итог работы одного воркера.
type WorkerResult struct {
	WorkerID   string
	Received   int
	Commits    int
	Reason     StopReason
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Failed — воркер завершился сбоем, а не штатным условием остановки.
func (r WorkerResult) Failed() bool { return r.Reason == StopFailed }

// WorkerState — состояние воркера для /status.
type WorkerState string

const (
	WorkerPending  WorkerState = "pending"
	WorkerRunning  WorkerState = "running"
	WorkerFinished WorkerState = "finished"
	WorkerFailed   WorkerState = "failed"
)

// WorkerStatus — снимок прогресса воркера во время прогона.
type WorkerStatus struct {
	WorkerID string      `json:"worker_id"`
	State    WorkerState `json:"state"`
	Received int64       `json:"received"`
	Commits  int64       `json:"commits"`
}
