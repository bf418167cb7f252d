package hasher_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"authgate/internal/hasher"
)

// blockingHasher parks every call until release is closed, and tracks
// the high-water mark of concurrent calls.
type blockingHasher struct {
	release     chan struct{}
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (b *blockingHasher) enter() {
	n := b.inFlight.Add(1)
	for {
		max := b.maxInFlight.Load()
		if n <= max || b.maxInFlight.CompareAndSwap(max, n) {
			break
		}
	}
	<-b.release
	b.inFlight.Add(-1)
}

func (b *blockingHasher) Hash(string) (string, error) {
	b.enter()
	return "hashed", nil
}

func (b *blockingHasher) Verify(string, string) bool {
	b.enter()
	return true
}

func (b *blockingHasher) VerifyDummy(string) {
	b.enter()
}

func TestPool_BoundsConcurrency(t *testing.T) {
	const (
		slots = 3
		calls = 20
	)

	inner := &blockingHasher{release: make(chan struct{})}
	pool := hasher.NewPool(inner, slots)

	var wg sync.WaitGroup
	for n := 0; n < calls; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := pool.Hash(context.Background(), "secret1"); err != nil {
				t.Errorf("hash: %v", err)
			}
		}()
	}

	// Let the goroutines pile up against the semaphore, then drain.
	time.Sleep(50 * time.Millisecond)
	close(inner.release)
	wg.Wait()

	if got := inner.maxInFlight.Load(); got > slots {
		t.Errorf("max in-flight = %d, want <= %d", got, slots)
	}
}

func TestPool_AcquireHonorsContext(t *testing.T) {
	inner := &blockingHasher{release: make(chan struct{})}
	pool := hasher.NewPool(inner, 1)

	// Occupy the only slot.
	go func() { _, _ = pool.Hash(context.Background(), "secret1") }()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := pool.Hash(ctx, "secret2"); err != context.DeadlineExceeded {
		t.Errorf("want DeadlineExceeded, got %v", err)
	}

	ctx2, cancel2 := context.WithCancel(context.Background())
	cancel2()
	if _, err := pool.Verify(ctx2, "secret2", "hash"); err != context.Canceled {
		t.Errorf("want Canceled, got %v", err)
	}

	close(inner.release)
}

func TestPool_VerifyPassesThroughResult(t *testing.T) {
	inner := &blockingHasher{release: make(chan struct{})}
	close(inner.release)
	pool := hasher.NewPool(inner, 1)

	ok, err := pool.Verify(context.Background(), "secret1", "hash")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Error("verify result not passed through")
	}
}
