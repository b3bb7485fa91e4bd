package consumer

import (
	"sync/atomic"

	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
)

// progress — публикуемые наружу счётчики воркера для /status.
// Сами счётчики цикла принадлежат воркеру; сюда он только пишет их копию.
type progress struct {
	workerID string
	state    atomic.Value // domain.WorkerState
	received atomic.Int64
	commits  atomic.Int64
}

func newProgress(workerID string) *progress {
	p := &progress{workerID: workerID}
	p.state.Store(domain.WorkerPending)
	return p
}

func (p *progress) setState(s domain.WorkerState) { p.state.Store(s) }

func (p *progress) snapshot() domain.WorkerStatus {
	return domain.WorkerStatus{
		WorkerID: p.workerID,
		State:    p.state.Load().(domain.WorkerState),
		Received: p.received.Load(),
		Commits:  p.commits.Load(),
	}
}
