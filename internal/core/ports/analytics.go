package ports

import (
	"context"

	"github.com/relaycrm/crm-api/internal/core/domain"
)

// AnalyticsRepository runs the aggregation queries behind the admin dashboard.
type AnalyticsRepository interface {
	CountLeads(ctx context.Context) (int64, error)
	LeadsGroupedBy(ctx context.Context, field string) ([]domain.CountBucket, error)
	TaskTotals(ctx context.Context) (domain.TaskTotals, error)
}

// AnalyticsCache stores a computed summary for a short time. A miss is
// reported as (nil, nil).
type AnalyticsCache interface {
	Get(ctx context.Context) (*domain.Analytics, error)
	Set(ctx context.Context, a *domain.Analytics) error
}

type AnalyticsService interface {
	Summary(ctx context.Context) (*domain.Analytics, error)
}
