package mfaGuard

import "context"

// Unblock clears userID's entire attempt history immediately, regardless of
// window state, and reports whether any history existed. The next attempt
// from the user is evaluated normally.
func (g *Guard) Unblock(ctx context.Context, userID string) bool {
	if g == nil || g.tracker == nil {
		return false
	}

	existed := g.tracker.Unblock(userID)
	if existed {
		g.metricInc(MetricUnblocked)
	}
	return existed
}

// SweepAttempts runs the attempt sweep synchronously and returns the number
// of attempt records purged. The background sweeper invokes the same logic on
// its interval; exposing it lets an admin endpoint trigger it on demand.
func (g *Guard) SweepAttempts() int {
	if g == nil || g.tracker == nil {
		return 0
	}

	purged := g.tracker.Sweep()
	g.metricAdd(MetricAttemptsSwept, uint64(purged))
	return purged
}

// SweepExpiredSecrets walks users with a pending setup secret and clears the
// ones past expiry, returning how many were cleared. Each clear goes through
// the same path as a lazy on-read expiry, so it emits the usual audit event
// and metric. Requires the record store to implement [SetupLister]; stores
// without enumeration support report 0 and rely on lazy expiry alone.
func (g *Guard) SweepExpiredSecrets(ctx context.Context) int {
	if g == nil || g.records == nil {
		return 0
	}
	lister, ok := g.records.(SetupLister)
	if !ok {
		return 0
	}

	userIDs, err := lister.ListPendingSetups(ctx)
	if err != nil {
		return 0
	}

	cleared := 0
	for _, userID := range userIDs {
		if _, expired, err := g.readEphemeral(ctx, userID); err == nil && expired {
			cleared++
		}
	}
	return cleared
}

// TrackedUsers reports how many users currently hold attempt history. Useful
// for observing tracker memory under load.
func (g *Guard) TrackedUsers() int {
	if g == nil || g.tracker == nil {
		return 0
	}
	return g.tracker.TrackedUsers()
}
