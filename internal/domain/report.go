package domain

import "time"

// RunReport — сводка одного прогона харнесса (сохраняется в Postgres при наличии DSN).
type RunReport struct {
	RunID                string          `json:"run_id"`
	Destination          string          `json:"destination"`
	DestinationKind      DestinationKind `json:"destination_kind"`
	Workers              int             `json:"workers"`
	MessageCount         int             `json:"message_count"`
	TransactionBatchSize int             `json:"transaction_batch_size"`
	StartedAt            time.Time       `json:"started_at"`
	FinishedAt           time.Time       `json:"finished_at"`
	TotalReceived        int             `json:"total_received"`
	TotalCommits         int             `json:"total_commits"`
	FailedWorkers        int             `json:"failed_workers"`
	Results              []WorkerReport  `json:"results"`
}

// WorkerReport — сериализуемый итог воркера внутри отчёта.
type WorkerReport struct {
	WorkerID   string     `json:"worker_id"`
	Received   int        `json:"received"`
	Commits    int        `json:"commits"`
	Reason     StopReason `json:"reason"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

// Duration — длительность прогона.
func (r *RunReport) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

// Throughput — сообщений в секунду по всем воркерам.
func (r *RunReport) Throughput() float64 {
	d := r.Duration().Seconds()
	if d <= 0 {
		return 0
	}
	return float64(r.TotalReceived) / d
}
