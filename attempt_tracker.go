package mfaGuard

import (
	"sync"
	"time"
)

type attempt struct {
	at      time.Time
	success bool
	source  string
}

// attemptTracker is the in-memory failed-attempt ledger behind the verify
// rate limit. It is owned by the Guard instance and guarded by a mutex; it
// holds no external state, so a process restart resets all counters. That is
// intentional: the tracker is a local brute-force throttle, not a durable
// security control.
type attemptTracker struct {
	cfg RateLimitConfig
	now func() time.Time

	mu      sync.Mutex
	history map[string][]attempt
}

func newAttemptTracker(cfg RateLimitConfig, now func() time.Time) *attemptTracker {
	if now == nil {
		now = time.Now
	}
	return &attemptTracker{
		cfg:     cfg,
		now:     now,
		history: make(map[string][]attempt),
	}
}

// Gate reports whether userID is currently locked out and, if so, how long
// until a new attempt is permitted. The wait is anchored to the oldest
// in-window failure, not the most recent: a burst that started early in the
// window serves out its lockout from when the burst began.
func (t *attemptTracker) Gate(userID string) (bool, time.Duration) {
	if t == nil {
		return false, 0
	}

	now := t.now()
	cutoff := now.Add(-t.cfg.Window)

	t.mu.Lock()
	defer t.mu.Unlock()

	var (
		failures int
		oldest   time.Time
	)
	for _, a := range t.history[userID] {
		if a.success || a.at.Before(cutoff) {
			continue
		}
		if failures == 0 {
			oldest = a.at
		}
		failures++
	}

	if failures < t.cfg.MaxAttempts {
		return false, 0
	}

	wait := t.cfg.LockoutDuration - now.Sub(oldest)
	if wait < 0 {
		wait = 0
	}
	return true, wait
}

// Record appends one attempt for userID. A successful attempt clears the
// user's entire history so stale failures cannot penalize a user who
// eventually produced a valid code.
func (t *attemptTracker) Record(userID string, success bool, source string) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if success {
		delete(t.history, userID)
		return
	}

	entries := append(t.history[userID], attempt{
		at:      t.now(),
		success: success,
		source:  source,
	})
	if over := len(entries) - t.cfg.HistoryLimit; over > 0 {
		entries = entries[over:]
	}
	t.history[userID] = entries
}

// Unblock drops all recorded attempts for userID regardless of window state.
// It reports whether the user had any history, i.e. whether the call had any
// effect.
func (t *attemptTracker) Unblock(userID string) bool {
	if t == nil {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	_, existed := t.history[userID]
	delete(t.history, userID)
	return existed
}

// Sweep removes every attempt older than the lockout duration and drops user
// entries whose history empties, bounding tracker memory independent of
// request volume. It returns the number of attempt records purged.
func (t *attemptTracker) Sweep() int {
	if t == nil {
		return 0
	}

	cutoff := t.now().Add(-t.cfg.LockoutDuration)

	t.mu.Lock()
	defer t.mu.Unlock()

	purged := 0
	for userID, entries := range t.history {
		kept := entries[:0]
		for _, a := range entries {
			if a.at.Before(cutoff) {
				purged++
				continue
			}
			kept = append(kept, a)
		}
		if len(kept) == 0 {
			delete(t.history, userID)
			continue
		}
		t.history[userID] = kept
	}
	return purged
}

// TrackedUsers reports how many users currently have attempt history.
func (t *attemptTracker) TrackedUsers() int {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.history)
}

func (t *attemptTracker) historyLen(userID string) int {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.history[userID])
}
