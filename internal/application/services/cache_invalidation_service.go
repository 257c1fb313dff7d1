package services

import (
	"context"

	"github.com/medoraclinic/medora-site/backend/internal/domain/providers"
	"github.com/medoraclinic/medora-site/backend/internal/infrastructure/observability"
)

// Cached public routes purged after admin writes.
const (
	routeCases      = "/api/cases"
	routeProcedures = "/api/procedures"
	routeSurgeons   = "/api/surgeon"
)

// CacheInvalidationService purges cached public responses after writes
type CacheInvalidationService struct {
	cache providers.CacheProvider
}

// NewCacheInvalidationService creates a new cache invalidation service. A nil
// cache disables invalidation.
func NewCacheInvalidationService(cache providers.CacheProvider) *CacheInvalidationService {
	return &CacheInvalidationService{cache: cache}
}

// Invalidate drops cached responses under each path prefix. Failures are
// logged; entries still expire by TTL.
func (s *CacheInvalidationService) Invalidate(ctx context.Context, pathPrefixes ...string) {
	if s == nil || s.cache == nil {
		return
	}

	logger := observability.LoggerFromContext(ctx)
	for _, prefix := range pathPrefixes {
		pattern := providers.ResponseCachePattern(prefix)
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			logger.Warn().Err(err).Str("pattern", pattern).Msg("failed to invalidate cached responses")
			continue
		}
		logger.Debug().Str("pattern", pattern).Msg("invalidated cached responses")
	}
}
