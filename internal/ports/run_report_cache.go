package ports

import (
	"context"

	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
)

// RunReportCache — кэш отчётов о прогонах по RunID.
type RunReportCache interface {
	Get(ctx context.Context, runID string) (*domain.RunReport, bool)
	Set(ctx context.Context, report *domain.RunReport) error
}
