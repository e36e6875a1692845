package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/transfer"
)

type scriptedAggregator struct {
	mu     sync.Mutex
	cycles atomic.Int64
	items  []transfer.Transfer
	err    error
	panics bool
}

func (a *scriptedAggregator) Aggregate(context.Context) ([]transfer.Transfer, error) {
	a.cycles.Add(1)
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.panics {
		panic("boom")
	}
	return a.items, a.err
}

func (a *scriptedAggregator) set(items []transfer.Transfer, err error) {
	a.mu.Lock()
	a.items, a.err = items, err
	a.mu.Unlock()
}

func newTestController(agg Aggregator, ttl time.Duration) (*FeedController, *time.Time) {
	c := NewFeedController(FeedControllerConfig{Aggregator: agg, TTL: ttl})
	clock := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }
	return c, &clock
}

func TestFeedController_FreshSnapshotSkipsAggregation(t *testing.T) {
	agg := &scriptedAggregator{items: []transfer.Transfer{kepaRecord("Feed", transfer.StatusConfirmed)}}
	c, _ := newTestController(agg, 3*time.Minute)
	ctx := context.Background()

	first, err := c.MergedTransfers(ctx, false)
	require.NoError(t, err)
	second, err := c.MergedTransfers(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, agg.cycles.Load())
}

func TestFeedController_StalenessBoundary(t *testing.T) {
	agg := &scriptedAggregator{items: []transfer.Transfer{kepaRecord("Feed", transfer.StatusConfirmed)}}
	c, clock := newTestController(agg, 3*time.Minute)
	ctx := context.Background()

	_, err := c.MergedTransfers(ctx, false)
	require.NoError(t, err)

	// One second inside the TTL: still the held snapshot.
	*clock = clock.Add(3*time.Minute - time.Second)
	_, err = c.MergedTransfers(ctx, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, agg.cycles.Load())

	// Exactly at the TTL: one new cycle.
	*clock = clock.Add(time.Second)
	_, err = c.MergedTransfers(ctx, false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, agg.cycles.Load())
}

func TestFeedController_ForceRefreshBypassesSnapshot(t *testing.T) {
	agg := &scriptedAggregator{items: []transfer.Transfer{kepaRecord("Feed", transfer.StatusConfirmed)}}
	c, _ := newTestController(agg, time.Hour)
	ctx := context.Background()

	_, err := c.MergedTransfers(ctx, false)
	require.NoError(t, err)
	_, err = c.MergedTransfers(ctx, true)
	require.NoError(t, err)

	assert.EqualValues(t, 2, agg.cycles.Load())
}

func TestFeedController_RefreshFailureServesStale(t *testing.T) {
	stale := []transfer.Transfer{kepaRecord("Feed", transfer.StatusConfirmed)}
	agg := &scriptedAggregator{items: stale}
	c, clock := newTestController(agg, time.Minute)
	ctx := context.Background()

	_, err := c.MergedTransfers(ctx, false)
	require.NoError(t, err)

	agg.set(nil, errors.New("every feed down"))
	*clock = clock.Add(2 * time.Minute)

	got, err := c.MergedTransfers(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, stale, got)
}

func TestFeedController_ColdFailureServesSeed(t *testing.T) {
	seeded := []transfer.Transfer{kepaRecord("Seed", transfer.StatusConfirmed)}
	seed := &stubTransferSource{name: "Seed", items: seeded}
	agg := &scriptedAggregator{err: errors.New("every feed down")}

	c := NewFeedController(FeedControllerConfig{Aggregator: agg, Seed: seed, TTL: time.Minute})
	ctx := context.Background()

	got, err := c.MergedTransfers(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, seeded, got)

	// The seed serve is not held as a snapshot, so a recovered aggregator
	// is consulted on the very next read.
	live := []transfer.Transfer{kepaRecord("Feed", transfer.StatusConfirmed)}
	agg.set(live, nil)

	got, err = c.MergedTransfers(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, live, got)
	assert.EqualValues(t, 2, agg.cycles.Load())
}

func TestFeedController_NoSeedNoSnapshotReturnsError(t *testing.T) {
	agg := &scriptedAggregator{err: errors.New("every feed down")}
	c, _ := newTestController(agg, time.Minute)

	_, err := c.MergedTransfers(context.Background(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFeedUnavailable)
}

func TestFeedController_AggregatorPanicDegradesToStale(t *testing.T) {
	stale := []transfer.Transfer{kepaRecord("Feed", transfer.StatusConfirmed)}
	agg := &scriptedAggregator{items: stale}
	c, clock := newTestController(agg, time.Minute)
	ctx := context.Background()

	_, err := c.MergedTransfers(ctx, false)
	require.NoError(t, err)

	agg.mu.Lock()
	agg.panics = true
	agg.mu.Unlock()
	*clock = clock.Add(2 * time.Minute)

	got, err := c.MergedTransfers(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, stale, got)
}

func TestFeedController_ClearForcesNextReadToAggregate(t *testing.T) {
	agg := &scriptedAggregator{items: []transfer.Transfer{kepaRecord("Feed", transfer.StatusConfirmed)}}
	c, _ := newTestController(agg, time.Hour)
	ctx := context.Background()

	_, err := c.MergedTransfers(ctx, false)
	require.NoError(t, err)
	c.Clear()
	_, err = c.MergedTransfers(ctx, false)
	require.NoError(t, err)

	assert.EqualValues(t, 2, agg.cycles.Load())
}
