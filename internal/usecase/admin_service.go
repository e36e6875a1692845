package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/logging"
)

// CacheClearer is implemented by adapters that hold a local fetch cache.
type CacheClearer interface {
	ClearCache(ctx context.Context)
}

// AdminService handles operational requests from the internal surface.
type AdminService struct {
	controller *FeedController
	newsSvc    *NewsService
	adapters   map[string]CacheClearer
	logger     *logging.Logger
}

func NewAdminService(controller *FeedController, newsSvc *NewsService, adapters map[string]CacheClearer, logger *logging.Logger) *AdminService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &AdminService{
		controller: controller,
		newsSvc:    newsSvc,
		adapters:   adapters,
		logger:     logger,
	}
}

// ClearCache drops cached data for the named scope. An empty scope or
// "all" clears the snapshot, the news pool, and every adapter cache.
// A scope naming a single adapter clears only that adapter.
func (s *AdminService) ClearCache(ctx context.Context, scope string) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "AdminService.ClearCache")
	defer span.End()

	scope = strings.ToLower(strings.TrimSpace(scope))
	if scope == "" || scope == "all" {
		cleared := []string{"snapshot", "news"}
		s.controller.Clear()
		if s.newsSvc != nil {
			s.newsSvc.ClearCache(ctx)
		}
		for name, adapter := range s.adapters {
			adapter.ClearCache(ctx)
			cleared = append(cleared, name)
		}
		sort.Strings(cleared)
		s.logger.InfoContext(ctx, "caches cleared", "scope", "all", "targets", cleared)
		return cleared, nil
	}

	if scope == "snapshot" {
		s.controller.Clear()
		return []string{"snapshot"}, nil
	}
	if scope == "news" && s.newsSvc != nil {
		s.newsSvc.ClearCache(ctx)
		return []string{"news"}, nil
	}
	if adapter, ok := s.adapters[scope]; ok {
		adapter.ClearCache(ctx)
		s.logger.InfoContext(ctx, "caches cleared", "scope", scope)
		return []string{scope}, nil
	}
	return nil, fmt.Errorf("%w: unknown cache scope %q", ErrInvalidInput, scope)
}
