package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/transfer"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/logging"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/resilience"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/sources"
)

const defaultSnapshotTTL = 3 * time.Minute

// Aggregator produces one merged transfer list per cycle.
type Aggregator interface {
	Aggregate(ctx context.Context) ([]transfer.Transfer, error)
}

// FeedController fronts the aggregator with a single snapshot slot.
// Reads within the TTL return the held snapshot without touching any
// feed. An expired snapshot triggers exactly one refresh; concurrent
// callers share it. A failed refresh degrades to the previous snapshot,
// and with no snapshot held it degrades to the seed dataset.
type FeedController struct {
	aggregator Aggregator
	seed       sources.TransferSource
	ttl        time.Duration
	logger     *logging.Logger
	metrics    *Metrics

	flight resilience.SingleFlight

	mu          sync.RWMutex
	snapshot    []transfer.Transfer
	fetchedAt   time.Time
	hasSnapshot bool

	now func() time.Time
}

type FeedControllerConfig struct {
	Aggregator Aggregator
	Seed       sources.TransferSource
	TTL        time.Duration
	Logger     *logging.Logger
	Metrics    *Metrics
}

func NewFeedController(cfg FeedControllerConfig) *FeedController {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultSnapshotTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	return &FeedController{
		aggregator: cfg.Aggregator,
		seed:       cfg.Seed,
		ttl:        cfg.TTL,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		now:        time.Now,
	}
}

// MergedTransfers returns the current snapshot, refreshing it first when
// it is missing, expired, or forceRefresh is set. The returned slice is
// shared and must not be mutated by callers.
func (c *FeedController) MergedTransfers(ctx context.Context, forceRefresh bool) ([]transfer.Transfer, error) {
	ctx, span := startUsecaseSpan(ctx, "FeedController.MergedTransfers")
	defer span.End()

	if !forceRefresh {
		if items, ok := c.freshSnapshot(); ok {
			return items, nil
		}
	}

	result, err, _ := c.flight.Do("refresh", func() (any, error) {
		// Another waiter may have refreshed while this call queued.
		if !forceRefresh {
			if items, ok := c.freshSnapshot(); ok {
				return items, nil
			}
		}
		return c.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]transfer.Transfer), nil
}

// Clear drops the held snapshot so the next read aggregates again.
func (c *FeedController) Clear() {
	c.mu.Lock()
	c.snapshot = nil
	c.fetchedAt = time.Time{}
	c.hasSnapshot = false
	c.mu.Unlock()
}

func (c *FeedController) freshSnapshot() ([]transfer.Transfer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.hasSnapshot {
		return nil, false
	}
	if c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return c.snapshot, true
}

func (c *FeedController) refresh(ctx context.Context) (items []transfer.Transfer, err error) {
	items, err = c.runCycle(ctx)
	if err == nil {
		c.mu.Lock()
		c.snapshot = items
		c.fetchedAt = c.now()
		c.hasSnapshot = true
		c.mu.Unlock()
		return items, nil
	}

	c.mu.RLock()
	stale, hasStale := c.snapshot, c.hasSnapshot
	c.mu.RUnlock()
	if hasStale {
		c.metrics.recordStaleServe()
		c.logger.WarnContext(ctx, "refresh failed, serving stale snapshot",
			"records", len(stale), "error", err)
		return stale, nil
	}

	// Cold cache and a dead aggregator: the seed dataset is the last rung
	// before an error. It is not stored, so the next read aggregates again.
	if seeded, ok := c.seedFallback(ctx); ok {
		c.logger.WarnContext(ctx, "refresh failed with no snapshot, serving seed dataset",
			"records", len(seeded), "error", err)
		return seeded, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
}

func (c *FeedController) seedFallback(ctx context.Context) ([]transfer.Transfer, bool) {
	if c.seed == nil {
		return nil, false
	}
	seeded, err := c.seed.FetchTransfers(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "seed dataset unavailable", "error", err)
		return nil, false
	}
	c.metrics.recordSeedFallback()
	return seeded, true
}

// runCycle shields callers from aggregator panics so a single bad cycle
// cannot take a request down with it.
func (c *FeedController) runCycle(ctx context.Context) (items []transfer.Transfer, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("aggregation panic: %v", r)
		}
	}()
	return c.aggregator.Aggregate(ctx)
}
