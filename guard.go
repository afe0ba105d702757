package mfaGuard

import (
	"context"
	"time"
)

// Guard defines a public type used by mfaGuard APIs.
//
// Guard instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Guard struct {
	config  Config
	tracker *attemptTracker
	totp    *totpManager
	records RecordStore
	audit   *auditDispatcher
	metrics *Metrics
	sweeper *sweeper
	now     func() time.Time
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (g *Guard) Close() {
	if g == nil {
		return
	}
	if g.sweeper != nil {
		g.sweeper.Stop()
	}
	if g.audit != nil {
		g.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (g *Guard) AuditDropped() uint64 {
	if g == nil || g.audit == nil {
		return 0
	}
	return g.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (g *Guard) MetricsSnapshot() MetricsSnapshot {
	if g == nil || g.metrics == nil {
		return MetricsSnapshot{
			Counters: map[MetricID]uint64{},
		}
	}
	return g.metrics.Snapshot()
}

func (g *Guard) metricInc(id MetricID) {
	if g == nil || g.metrics == nil {
		return
	}
	g.metrics.Inc(id)
}

func (g *Guard) metricAdd(id MetricID, delta uint64) {
	if g == nil || g.metrics == nil || delta == 0 {
		return
	}
	g.metrics.Add(id, delta)
}

func (g *Guard) emitAudit(ctx context.Context, eventType string, success bool, userID string, metadata func() map[string]string) {
	if g == nil || g.audit == nil {
		return
	}

	event := AuditEvent{
		EventType: eventType,
		UserID:    userID,
		Source:    sourceAddressFromContext(ctx),
		Success:   success,
	}
	if metadata != nil {
		event.Metadata = metadata()
	}

	g.audit.Emit(ctx, event)
}

// loadRecord performs the single suspension point shared by all secret
// lifecycle operations. A missing user comes back as (nil, nil); store faults
// are tagged with ErrStoreUnavailable and otherwise propagated unchanged.
func (g *Guard) loadRecord(ctx context.Context, userID string) (*MFARecord, error) {
	record, err := g.records.GetMFARecord(ctx, userID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return record, nil
}
