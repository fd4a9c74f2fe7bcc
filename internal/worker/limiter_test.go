package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_Defaults(t *testing.T) {
	l := NewLimiter(0, -1)
	if l.burst != 1 {
		t.Errorf("expected burst 1, got %d", l.burst)
	}
	if l.rps != 1 {
		t.Errorf("expected 1 rps, got %v", l.rps)
	}
}

func TestLimiter_PerHostBuckets(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("https://www.pantai.id/kuta") {
		t.Fatal("first request should pass")
	}
	if l.Allow("https://pantai.id/legian") {
		t.Error("www and bare host share one bucket")
	}
	if !l.Allow("https://kuliner.id/") {
		t.Error("other host should pass")
	}
	if l.Allow("not a url") {
		t.Error("URL without host should be refused")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	l := NewLimiter(100, 10)
	l.SetHostRate("WWW.Slow.ID", 0.1, 1)

	if !l.Allow("http://slow.id/a") {
		t.Fatal("first request should pass")
	}
	if l.Allow("http://slow.id/b") {
		t.Error("second request to slow host should be refused")
	}
	if !l.Allow("http://fast.id/a") {
		t.Error("other host keeps the default rate")
	}
}

func TestLimiter_WaitWithDelay_GapBetweenFetches(t *testing.T) {
	l := NewLimiter(1000, 10)
	ctx := context.Background()
	gap := 40 * time.Millisecond

	start := time.Now()
	if err := l.WaitWithDelay(ctx, "http://a.id", gap); err != nil {
		t.Fatalf("first wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed >= gap {
		t.Errorf("first fetch should not be delayed, took %v", elapsed)
	}

	if err := l.WaitWithDelay(ctx, "http://b.id", gap); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < gap {
		t.Errorf("expected at least %v between fetches, got %v", gap, elapsed)
	}
}

func TestLimiter_WaitWithDelay_Cancelled(t *testing.T) {
	l := NewLimiter(1000, 10)
	if err := l.WaitWithDelay(context.Background(), "http://a.id", 0); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.WaitWithDelay(ctx, "http://a.id", time.Minute); err == nil {
		t.Error("expected cancellation error")
	}
}

func TestHostKey(t *testing.T) {
	host, err := hostKey("https://WWW.Example.com:8080/foo")
	if err != nil {
		t.Fatalf("hostKey: %v", err)
	}
	if host != "example.com" {
		t.Errorf("expected example.com, got %s", host)
	}

	if _, err := hostKey("::invalid"); err == nil {
		t.Error("expected error for invalid URL")
	}
	if _, err := hostKey("/relative/path"); err == nil {
		t.Error("expected error for URL without host")
	}
}
