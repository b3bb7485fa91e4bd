package ports

import "github.com/Gunvolt24/mq_consumer_bench/internal/domain"

// RunStatusProvider — источник живого статуса текущего прогона для HTTP-слоя.
type RunStatusProvider interface {
	// Status — (снимок, true) во время/после прогона; (nil, false), если прогона ещё не было.
	Status() ([]domain.WorkerStatus, bool)
}
