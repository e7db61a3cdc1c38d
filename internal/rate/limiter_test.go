package rate

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	lim := New(Config{
		RequestsPerSecond: 10,
		Burst:             5,
		Cooldown:          100 * time.Millisecond,
	})

	// Should allow up to burst count immediately
	allowed := 0
	for i := 0; i < 10; i++ {
		if lim.Allow() {
			allowed++
		}
	}

	if allowed != 5 {
		t.Errorf("expected 5 allowed from burst, got %d", allowed)
	}
}

func TestLimiter_Refill(t *testing.T) {
	lim := New(Config{
		RequestsPerSecond: 100, // refills fast
		Burst:             2,
		Cooldown:          0,
	})

	// Drain the bucket
	for lim.Allow() {
	}

	// Wait for tokens to refill
	time.Sleep(50 * time.Millisecond)

	if !lim.Allow() {
		t.Error("expected token to be available after refill period")
	}
}

func TestLimiter_WaitCancellation(t *testing.T) {
	lim := New(Config{
		RequestsPerSecond: 1,
		Burst:             1,
	})
	for lim.Allow() {
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := lim.Wait(ctx); err == nil {
		t.Error("expected context deadline error from Wait on a drained limiter")
	}
}

func TestManager_PerWalletIsolation(t *testing.T) {
	mgr := NewManager(Config{RequestsPerSecond: 1, Burst: 1})

	if !mgr.GetLimiter("wallet-a").Allow() {
		t.Error("wallet-a first request should pass")
	}
	// wallet-a is drained, wallet-b still has its own bucket
	if mgr.GetLimiter("wallet-a").Allow() {
		t.Error("wallet-a second request should be limited")
	}
	if !mgr.GetLimiter("wallet-b").Allow() {
		t.Error("wallet-b must not be blocked by wallet-a")
	}
}

func TestManager_ConcurrentGetLimiter(t *testing.T) {
	mgr := NewManager(Config{RequestsPerSecond: 100, Burst: 100})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				mgr.GetLimiter("shared").Allow()
			}
		}()
	}
	wg.Wait()

	if mgr.GetLimiter("shared") == nil {
		t.Fatal("expected a limiter instance")
	}
}
