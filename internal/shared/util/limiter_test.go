package util

import (
	"context"
	"testing"
	"time"
)

func TestLimiter(t *testing.T) {
	// 10 tokens per second, burst of 2
	l := NewLimiter(10, 2)

	if !l.Allow(1) {
		t.Error("expected first token to be allowed")
	}
	if !l.Allow(1) {
		t.Error("expected second token to be allowed (burst)")
	}
	if l.Allow(1) {
		t.Error("expected third token to be rejected (burst exhausted)")
	}

	time.Sleep(150 * time.Millisecond)
	if !l.Allow(1) {
		t.Error("expected token to be refilled after wait")
	}
}

func TestLimiterRegistry(t *testing.T) {
	// 100 tokens/sec, burst 10, ttl 100ms
	reg := NewLimiterRegistry(100, 10, 100*time.Millisecond)
	defer reg.Close()

	l1 := reg.Get("templates/a.mjson5")
	l2 := reg.Get("templates/b.mjson5")

	if l1 == l2 {
		t.Error("expected different limiters for different paths")
	}
	if reg.Get("templates/a.mjson5") != l1 {
		t.Error("expected same limiter for same path")
	}

	time.Sleep(250 * time.Millisecond)
	if reg.Len() != 0 {
		t.Errorf("expected idle limiters to be cleaned up, %d left", reg.Len())
	}
	if reg.Get("templates/a.mjson5") == l1 {
		t.Error("expected old limiter to be cleaned up and replaced")
	}
}

func TestLimiterRegistryClose(t *testing.T) {
	reg := NewLimiterRegistry(1, 1, time.Second)
	reg.Close()
	reg.Close()
}

func TestLimiter_Wait(t *testing.T) {
	l := NewLimiter(100, 1)
	l.Allow(1) // consume burst

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := l.Wait(ctx, 1)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Error("Wait returned too early")
	}
}
