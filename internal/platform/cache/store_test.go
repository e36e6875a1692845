package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_TTLBoundary(t *testing.T) {
	t.Parallel()

	store := NewStore(5 * time.Minute)
	current := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	store.Set(context.Background(), "feed", "snapshot")

	current = current.Add(5*time.Minute - time.Second)
	if _, ok := store.Get(context.Background(), "feed"); !ok {
		t.Fatal("entry expired before TTL")
	}

	current = current.Add(time.Second)
	if _, ok := store.Get(context.Background(), "feed"); ok {
		t.Fatal("entry survived past TTL")
	}
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	current := time.Now()
	store.now = func() time.Time { return current }

	store.Set(context.Background(), "k", 1)
	current = current.Add(24 * time.Hour)

	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatal("zero-TTL entry expired")
	}
}

func TestStore_GetOrLoad_SingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)
		return "value", nil
	}

	const workers = 24
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same", loader)
			if err != nil {
				t.Errorf("GetOrLoad: %v", err)
				return
			}
			if v.(string) != "value" {
				t.Errorf("unexpected value %v", v)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ErrorNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	boom := errors.New("upstream down")

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return nil, boom
	}

	for i := 0; i < 2; i++ {
		if _, err := store.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, boom) {
			t.Fatalf("expected loader error, got %v", err)
		}
	}

	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2 (errors must not be cached)", got)
	}
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "all", 1)
	store.Set(ctx, "player:martin-odegaard", 2)

	store.Clear(ctx)

	if _, ok := store.Get(ctx, "all"); ok {
		t.Fatal("entry survived Clear")
	}
	if _, ok := store.Get(ctx, "player:martin-odegaard"); ok {
		t.Fatal("prefixed entry survived Clear")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "adapter:newsapi", 1)
	store.Set(ctx, "adapter:dealwire", 2)
	store.Set(ctx, "feed:merged", 3)

	store.DeletePrefix(ctx, "adapter:")

	if _, ok := store.Get(ctx, "adapter:newsapi"); ok {
		t.Fatal("prefixed entry survived DeletePrefix")
	}
	if _, ok := store.Get(ctx, "feed:merged"); !ok {
		t.Fatal("unrelated entry was deleted")
	}
}
