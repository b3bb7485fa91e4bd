package ports

import (
	"context"

	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
)

type RunReportRepository interface {
	Save(ctx context.Context, report *domain.RunReport) error
	GetByRunID(ctx context.Context, runID string) (*domain.RunReport, error)
	List(ctx context.Context, limit, offset int) ([]*domain.RunReport, error)
}
