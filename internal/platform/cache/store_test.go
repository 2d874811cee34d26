package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStoreGetOrLoadCollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	const workers = 24
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "players:all", func(context.Context) (any, error) {
				calls.Add(1)
				time.Sleep(20 * time.Millisecond)
				return 54, nil
			})
			if err != nil || v != 54 {
				t.Errorf("unexpected load result: v=%v err=%v", v, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStoreExpiresEntries(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	now := time.Date(2026, 8, 14, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "k", "v")
	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(time.Minute)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("expected entry to expire at ttl")
	}
	if store.Len() != 0 {
		t.Fatalf("expired entry should be evicted on read")
	}
}

func TestStoreDeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	ctx := context.Background()
	store.Set(ctx, "player:1", 1)
	store.Set(ctx, "player:2", 2)
	store.Set(ctx, "players:all", 3)

	store.DeletePrefix(ctx, "player:")
	if store.Len() != 1 {
		t.Fatalf("unexpected entries left: %d", store.Len())
	}
	store.Delete(ctx, "players:all")
	if store.Len() != 0 {
		t.Fatalf("expected empty store")
	}
}

func TestLoadDoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	errBoom := errors.New("boom")
	calls := 0

	loader := func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errBoom
		}
		return "ok", nil
	}

	if _, err := Load(context.Background(), store, "k", loader); !errors.Is(err, errBoom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	got, err := Load(context.Background(), store, "k", loader)
	if err != nil || got != "ok" {
		t.Fatalf("unexpected second load: got=%q err=%v", got, err)
	}
}
