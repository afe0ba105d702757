package mfaGuard

import (
	"fmt"
	"testing"
	"time"
)

func trackerTestConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxAttempts:     5,
		Window:          15 * time.Minute,
		LockoutDuration: 30 * time.Minute,
		HistoryLimit:    20,
	}
}

func TestTrackerGateTripsOnCallAfterThreshold(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	tracker := newAttemptTracker(trackerTestConfig(), clock.Now)

	for i := 0; i < 4; i++ {
		tracker.Record("u1", false, "")
	}
	if blocked, _ := tracker.Gate("u1"); blocked {
		t.Fatal("expected gate open below threshold")
	}

	// The fifth failure reaches the threshold but only the NEXT call trips.
	tracker.Record("u1", false, "")
	blocked, wait := tracker.Gate("u1")
	if !blocked {
		t.Fatal("expected gate closed at threshold")
	}
	if wait != 30*time.Minute {
		t.Fatalf("expected full lockout remaining, got %v", wait)
	}
}

func TestTrackerGateIgnoresOutOfWindowAndSuccessfulAttempts(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	tracker := newAttemptTracker(trackerTestConfig(), clock.Now)

	// Two failures that will age out of the window.
	tracker.Record("u1", false, "")
	tracker.Record("u1", false, "")
	clock.Advance(16 * time.Minute)

	// Four in-window failures and one success; the success does not count
	// toward the threshold (it clears history entirely).
	for i := 0; i < 4; i++ {
		tracker.Record("u1", false, "")
	}
	if blocked, _ := tracker.Gate("u1"); blocked {
		t.Fatal("expected gate open: only 4 failures inside window")
	}

	tracker.Record("u1", true, "")
	if got := tracker.historyLen("u1"); got != 0 {
		t.Fatalf("expected success to clear history, got %d entries", got)
	}
}

func TestTrackerWaitAnchoredToOldestInWindowFailure(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	tracker := newAttemptTracker(trackerTestConfig(), clock.Now)

	// Failures spread across the window: t0, +3m, +6m, +9m, +12m.
	for i := 0; i < 5; i++ {
		tracker.Record("u1", false, "")
		if i < 4 {
			clock.Advance(3 * time.Minute)
		}
	}

	// Now is t0+12m; the oldest failure is t0, so 18m of the 30m lockout
	// remains even though the last failure was just recorded.
	blocked, wait := tracker.Gate("u1")
	if !blocked {
		t.Fatal("expected gate closed")
	}
	if want := 18 * time.Minute; wait != want {
		t.Fatalf("expected wait %v anchored to oldest failure, got %v", want, wait)
	}

	// Once the oldest failure leaves the window the burst no longer counts
	// five in-window failures and the gate opens.
	clock.Advance(3*time.Minute + time.Second)
	if blocked, _ := tracker.Gate("u1"); blocked {
		t.Fatal("expected gate open after oldest failure aged out of window")
	}
}

func TestTrackerWaitShrinksAsLockoutElapses(t *testing.T) {
	cfg := trackerTestConfig()
	cfg.LockoutDuration = cfg.Window
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	tracker := newAttemptTracker(cfg, clock.Now)

	for i := 0; i < 5; i++ {
		tracker.Record("u1", false, "")
	}
	clock.Advance(cfg.Window - time.Second)

	blocked, wait := tracker.Gate("u1")
	if !blocked {
		t.Fatal("expected gate closed while failures remain in window")
	}
	if wait != time.Second {
		t.Fatalf("expected 1s wait, got %v", wait)
	}
}

func TestTrackerHistoryCappedAtLimit(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	tracker := newAttemptTracker(trackerTestConfig(), clock.Now)

	for i := 0; i < 50; i++ {
		tracker.Record("u1", false, fmt.Sprintf("src-%d", i))
		clock.Advance(time.Second)
	}

	if got := tracker.historyLen("u1"); got != 20 {
		t.Fatalf("expected history capped at 20, got %d", got)
	}

	// The retained entries are the most recent ones.
	tracker.mu.Lock()
	oldest := tracker.history["u1"][0]
	newest := tracker.history["u1"][19]
	tracker.mu.Unlock()
	if oldest.source != "src-30" || newest.source != "src-49" {
		t.Fatalf("expected entries 30..49 retained, got %s..%s", oldest.source, newest.source)
	}
}

func TestTrackerSweepDropsStaleAttemptsAndEmptyUsers(t *testing.T) {
	cfg := trackerTestConfig()
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	tracker := newAttemptTracker(cfg, clock.Now)

	for i := 0; i < 3; i++ {
		tracker.Record("old", false, "")
	}
	clock.Advance(5 * time.Minute)
	tracker.Record("mixed", false, "")
	clock.Advance(cfg.LockoutDuration + time.Minute)
	tracker.Record("mixed", false, "")

	// All of "old" and the first "mixed" attempt are now past the lockout
	// horizon; "old" empties and is removed from the map entirely.
	purged := tracker.Sweep()
	if purged != 4 {
		t.Fatalf("expected 4 purged entries, got %d", purged)
	}
	if users := tracker.TrackedUsers(); users != 1 {
		t.Fatalf("expected only one tracked user to remain, got %d", users)
	}
	if got := tracker.historyLen("old"); got != 0 {
		t.Fatalf("expected old user removed, got %d entries", got)
	}
	if got := tracker.historyLen("mixed"); got != 1 {
		t.Fatalf("expected mixed user to retain its recent attempt, got %d", got)
	}
}

func TestTrackerSweepRetainsRecentAttempts(t *testing.T) {
	cfg := trackerTestConfig()
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	tracker := newAttemptTracker(cfg, clock.Now)

	tracker.Record("u1", false, "")
	clock.Advance(cfg.LockoutDuration + time.Second)
	tracker.Record("u1", false, "")
	tracker.Record("u2", false, "")

	purged := tracker.Sweep()
	if purged != 1 {
		t.Fatalf("expected 1 purged entry, got %d", purged)
	}
	if got := tracker.historyLen("u1"); got != 1 {
		t.Fatalf("expected u1 to retain 1 attempt, got %d", got)
	}
	if got := tracker.historyLen("u2"); got != 1 {
		t.Fatalf("expected u2 untouched, got %d", got)
	}
}

func TestTrackerUnblockReportsWhetherHistoryExisted(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	tracker := newAttemptTracker(trackerTestConfig(), clock.Now)

	if tracker.Unblock("u1") {
		t.Fatal("expected false for user with no history")
	}

	tracker.Record("u1", false, "")
	if !tracker.Unblock("u1") {
		t.Fatal("expected true for user with history")
	}
	if got := tracker.historyLen("u1"); got != 0 {
		t.Fatalf("expected history removed, got %d", got)
	}
}

func BenchmarkTrackerGateAndRecord(b *testing.B) {
	tracker := newAttemptTracker(trackerTestConfig(), time.Now)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		tracker.Gate("bench-user")
		tracker.Record("bench-user", false, "203.0.113.1")
	}
}
