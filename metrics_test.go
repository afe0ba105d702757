package mfaGuard

import (
	"context"
	"testing"
	"time"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricVerifySuccess)
	m.Inc(MetricVerifySuccess)
	m.Add(MetricAttemptsSwept, 7)

	if got := m.Value(MetricVerifySuccess); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := m.Value(MetricAttemptsSwept); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := m.Value(MetricVerifyFailure); got != 0 {
		t.Fatalf("expected untouched counter to be 0, got %d", got)
	}

	snapshot := m.Snapshot()
	if len(snapshot.Counters) != int(metricIDCount) {
		t.Fatalf("expected %d counters, got %d", metricIDCount, len(snapshot.Counters))
	}
	if snapshot.Counters[MetricVerifySuccess] != 2 {
		t.Fatalf("unexpected snapshot: %+v", snapshot.Counters)
	}
}

func TestMetricsDisabledIsNoOp(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})

	m.Inc(MetricVerifySuccess)
	m.Add(MetricAttemptsSwept, 3)

	if got := m.Value(MetricVerifySuccess); got != 0 {
		t.Fatalf("expected 0 with metrics disabled, got %d", got)
	}
	if snapshot := m.Snapshot(); len(snapshot.Counters) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snapshot.Counters)
	}

	var nilMetrics *Metrics
	nilMetrics.Inc(MetricVerifySuccess)
	if nilMetrics.Value(MetricVerifySuccess) != 0 {
		t.Fatal("expected nil metrics to read zero")
	}
}

func TestMetricsIgnoresUnknownID(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(metricIDCount)
	m.Inc(metricIDCount + 10)
	if got := m.Value(metricIDCount + 10); got != 0 {
		t.Fatalf("expected 0 for out-of-range id, got %d", got)
	}
}

func TestGuardCountsVerifyOutcomes(t *testing.T) {
	cfg := guardTestConfig()
	cfg.Metrics.Enabled = true
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	store := newMemStore()
	store.put(enabledUser("u1", "u1@example.com"))

	guard := newTestGuard(t, cfg, store, clock, nil)
	ctx := context.Background()

	for i := 0; i < cfg.RateLimit.MaxAttempts; i++ {
		if _, err := guard.Verify(ctx, "u1", wrongCodeAt(t, testSecret, cfg.TOTP, clock.Now())); err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
	}
	// Limiter is tripped now; this one counts as rate limited.
	if _, err := guard.Verify(ctx, "u1", wrongCodeAt(t, testSecret, cfg.TOTP, clock.Now())); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	guard.Unblock(ctx, "u1")
	if _, err := guard.Verify(ctx, "u1", codeAt(t, testSecret, cfg.TOTP, clock.Now())); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	snapshot := guard.MetricsSnapshot()
	if got := snapshot.Counters[MetricVerifyFailure]; got != 5 {
		t.Fatalf("expected 5 failures, got %d", got)
	}
	if got := snapshot.Counters[MetricVerifyRateLimited]; got != 1 {
		t.Fatalf("expected 1 rate limited, got %d", got)
	}
	if got := snapshot.Counters[MetricVerifySuccess]; got != 1 {
		t.Fatalf("expected 1 success, got %d", got)
	}
	if got := snapshot.Counters[MetricUnblocked]; got != 1 {
		t.Fatalf("expected 1 unblock, got %d", got)
	}
}
