package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiterAllowsBurst(t *testing.T) {
	limiter := NewLimiter(1, 2)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 2; i++ {
		if err := limiter.Wait(ctx, "https://example.com/page"); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("burst of 2 should not block, took %v", elapsed)
	}
}

func TestLimiterSeparatesDomains(t *testing.T) {
	limiter := NewLimiter(0.1, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://a.example.com/"); err != nil {
		t.Fatalf("first domain: %v", err)
	}

	// Fresh domain gets its own bucket with a full burst.
	start := time.Now()
	if err := limiter.Wait(ctx, "https://b.example.com/"); err != nil {
		t.Fatalf("second domain: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("separate domain should not share bucket, took %v", elapsed)
	}
}

func TestLimiterRespectsContext(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://example.com/"); err != nil {
		t.Fatalf("burst request: %v", err)
	}

	cancelled, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(cancelled, "https://example.com/"); err == nil {
		t.Error("expected context error when bucket is drained")
	}
}

func TestLimiterInvalidURL(t *testing.T) {
	limiter := NewLimiter(1, 1)
	if err := limiter.Wait(context.Background(), "://not-a-url"); err == nil {
		t.Error("expected parse error")
	}
}

func TestWaitWithDelay(t *testing.T) {
	limiter := NewLimiter(10, 5)
	ctx := context.Background()

	start := time.Now()
	if err := limiter.WaitWithDelay(ctx, "https://example.com/", 100*time.Millisecond); err != nil {
		t.Fatalf("wait with delay: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("delay not applied, took %v", elapsed)
	}
}

func TestSetDomainRate(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	limiter.SetDomainRate("fast.example.com", 100, 10)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := limiter.Wait(ctx, "https://fast.example.com/"); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("override rate not applied, took %v", elapsed)
	}
}
