package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/relaycrm/crm-api/internal/core/domain"
	"github.com/relaycrm/crm-api/internal/core/ports"
)

// AnalyticsService computes the admin dashboard summary. When a cache is
// configured the summary may be up to one cache TTL old.
type AnalyticsService struct {
	repo   ports.AnalyticsRepository
	cache  ports.AnalyticsCache
	logger zerolog.Logger
}

// NewAnalyticsService builds the service. cache may be nil.
func NewAnalyticsService(repo ports.AnalyticsRepository, cache ports.AnalyticsCache, logger zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, cache: cache, logger: logger}
}

func (s *AnalyticsService) Summary(ctx context.Context) (*domain.Analytics, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("analytics cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	total, err := s.repo.CountLeads(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.LeadsGroupedBy(ctx, "status")
	if err != nil {
		return nil, err
	}
	bySource, err := s.repo.LeadsGroupedBy(ctx, "source")
	if err != nil {
		return nil, err
	}
	tasks, err := s.repo.TaskTotals(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.Analytics{
		TotalLeads:    total,
		LeadsByStatus: byStatus,
		LeadsBySource: bySource,
		Tasks:         tasks,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, summary); err != nil {
			s.logger.Warn().Err(err).Msg("analytics cache write failed")
		}
	}
	return summary, nil
}
