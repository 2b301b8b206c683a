package redisclient

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// These tests talk to a real server and are skipped unless REDIS_ADDR is set.
func testClient(t *testing.T) *Sequencer {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb, err := NewRedisClient(context.Background(), addr, os.Getenv("REDIS_USERNAME"), os.Getenv("REDIS_PASSWORD"))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	seq := NewSequencer(rdb, "test-"+uuid.NewString())
	t.Cleanup(func() { rdb.Del(context.Background(), seq.key) })
	return seq
}

func TestSequencerFloorAndIncrement(t *testing.T) {
	seq := testClient(t)
	ctx := context.Background()

	if _, err := seq.EnsureFloor(ctx, 3); err != nil {
		t.Fatal(err)
	}
	n, err := seq.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("Expected 4, got %d", n)
	}

	cur, _ := seq.EnsureFloor(ctx, 1)
	if cur != 4 {
		t.Errorf("floor must never lower the counter, got %d", cur)
	}
}

func TestSequencerConcurrentUnique(t *testing.T) {
	seq := testClient(t)
	ctx := context.Background()

	const n = 50
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := seq.Next(ctx)
			if err != nil {
				t.Error(err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		if seen[id] {
			t.Errorf("duplicate id %d", id)
		}
		seen[id] = true
	}
}

func TestLockerExclusive(t *testing.T) {
	seq := testClient(t)
	locker := NewLocker(seq.client, time.Second)
	ctx := context.Background()
	name := "test-" + uuid.NewString()

	err := locker.WithLock(ctx, name, func(ctx context.Context) error {
		inner := locker.WithLock(ctx, name, func(context.Context) error { return nil })
		if !errors.Is(inner, ErrLockNotAcquired) {
			t.Errorf("Expected ErrLockNotAcquired, got %v", inner)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := locker.WithLock(ctx, name, func(context.Context) error { return nil }); err != nil {
		t.Errorf("lock should be free after release, got %v", err)
	}
}
