package ports

import (
	"context"

	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
)

// RunReportReader — чтение отчётов для HTTP-слоя.
type RunReportReader interface {
	// Report — (nil, nil), если отчёта нет.
	Report(ctx context.Context, runID string) (*domain.RunReport, error)
	Reports(ctx context.Context, limit, offset int) ([]*domain.RunReport, error)
}
