package mfaGuard

import (
	"context"
	"errors"
	"time"
)

// Builder defines a public type used by mfaGuard APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	records   RecordStore
	auditSink AuditSink
	clock     func() time.Time

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRecordStore describes the withrecordstore operation and its observable behavior.
//
// WithRecordStore may return an error when input validation, dependency calls, or security checks fail.
// WithRecordStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRecordStore(rs RecordStore) *Builder {
	b.records = rs
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithClock overrides the time source used by the limiter, the secret
// lifecycle, and TOTP verification. Intended for tests; production callers
// should leave it unset.
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	b.clock = clock
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithSweepEnabled describes the withsweepenabled operation and its observable behavior.
//
// WithSweepEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithSweepEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithSweepEnabled(enabled bool) *Builder {
	b.config.Sweep.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Guard, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.records == nil {
		return nil, errors.New("record store is required")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}
	b.built = true

	clock := b.clock
	if clock == nil {
		clock = time.Now
	}

	g := &Guard{
		config:  b.config,
		tracker: newAttemptTracker(b.config.RateLimit, clock),
		totp:    newTOTPManager(b.config.TOTP),
		records: b.records,
		audit:   newAuditDispatcher(b.config.Audit, b.auditSink, clock),
		metrics: NewMetrics(b.config.Metrics),
		now:     clock,
	}

	if b.config.Sweep.Enabled {
		g.sweeper = startSweeper(b.config.Sweep.Interval, func() {
			g.SweepAttempts()
			g.SweepExpiredSecrets(context.Background())
		})
	}

	return g, nil
}
