package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/transfer"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/logging"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/sources"
)

const defaultFeedWorkers = 4

// FeedService fans out to every configured transfer source, settles all
// results, and merges them into one deduplicated, date-ordered list.
// Source order is priority order: on duplicate records the earliest
// source in the slice wins.
type FeedService struct {
	sources    []sources.TransferSource
	seed       sources.TransferSource
	dedupKey   transfer.DedupKeyFunc
	maxWorkers int
	logger     *logging.Logger
	metrics    *Metrics
}

type FeedServiceConfig struct {
	Sources    []sources.TransferSource
	Seed       sources.TransferSource
	DedupKey   transfer.DedupKeyFunc
	MaxWorkers int
	Logger     *logging.Logger
	Metrics    *Metrics
}

func NewFeedService(cfg FeedServiceConfig) *FeedService {
	if cfg.DedupKey == nil {
		cfg.DedupKey = transfer.KeyByPlayerClub
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = defaultFeedWorkers
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	return &FeedService{
		sources:    cfg.Sources,
		seed:       cfg.Seed,
		dedupKey:   cfg.DedupKey,
		maxWorkers: cfg.MaxWorkers,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
	}
}

// Aggregate runs one full cycle. A source returning an error contributes
// nothing; when every source contributes nothing the seed dataset is
// returned instead, so the result is non-empty whenever the seed is.
func (s *FeedService) Aggregate(ctx context.Context) ([]transfer.Transfer, error) {
	ctx, span := startUsecaseSpan(ctx, "FeedService.Aggregate")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.observeCycle(time.Since(start)) }()

	results := make([][]transfer.Transfer, len(s.sources))

	workers := s.maxWorkers
	if len(s.sources) > 0 && len(s.sources) < workers {
		workers = len(s.sources)
	}
	if workers > 0 {
		pool, err := ants.NewPool(workers)
		if err != nil {
			return nil, fmt.Errorf("create worker pool: %w", err)
		}
		defer pool.Release()

		var wg sync.WaitGroup
		for i, src := range s.sources {
			i, src := i, src
			wg.Add(1)
			if err := pool.Submit(func() {
				defer wg.Done()
				results[i] = s.fetchOne(ctx, src)
			}); err != nil {
				wg.Done()
				s.logger.WarnContext(ctx, "feed task rejected", "source", src.Name(), "error", err)
				s.metrics.recordOutcome(src.Name(), outcomeFailed)
			}
		}
		wg.Wait()
	}

	var merged []transfer.Transfer
	for _, batch := range results {
		merged = append(merged, batch...)
	}

	if len(merged) == 0 {
		merged = s.seedFallback(ctx)
	}

	merged = transfer.Dedup(merged, s.dedupKey)
	sortTransfersByDateDesc(merged)

	s.logger.InfoContext(ctx, "aggregation cycle complete",
		"sources", len(s.sources),
		"records", len(merged),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return merged, nil
}

func (s *FeedService) fetchOne(ctx context.Context, src sources.TransferSource) []transfer.Transfer {
	items, err := src.FetchTransfers(ctx)
	switch {
	case err != nil:
		s.logger.WarnContext(ctx, "feed source failed", "source", src.Name(), "error", err)
		s.metrics.recordOutcome(src.Name(), outcomeFailed)
		return nil
	case len(items) == 0:
		s.metrics.recordOutcome(src.Name(), outcomeEmpty)
		return nil
	default:
		s.metrics.recordOutcome(src.Name(), outcomeSuccess)
		return items
	}
}

func (s *FeedService) seedFallback(ctx context.Context) []transfer.Transfer {
	if s.seed == nil {
		return nil
	}
	seeded, err := s.seed.FetchTransfers(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "seed dataset unavailable", "error", err)
		return nil
	}
	s.metrics.recordSeedFallback()
	s.logger.WarnContext(ctx, "all feeds empty, serving seed dataset", "records", len(seeded))
	return seeded
}

// sortTransfersByDateDesc orders newest first. Dates are ISO-8601 strings,
// so lexicographic comparison matches chronological order.
func sortTransfersByDateDesc(items []transfer.Transfer) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date > items[j].Date
	})
}
