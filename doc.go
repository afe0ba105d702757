// Package mfaGuard provides a small MFA verification guard: RFC 6238 TOTP code
// checking, an in-memory per-user failed-attempt lockout tracker, and a secret
// lifecycle layer (ephemeral setup secrets promoted to permanent secrets on
// confirmation) backed by a pluggable user record store.
//
// The package is designed for concurrent server workloads: Guard methods are safe
// to call from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// mfaGuard is the public surface. It exposes [Guard], [Builder], [Config], the
// [RecordStore] provider interface, audit sinks, and value types (VerifyResult,
// SetupResult, MetricsSnapshot). The attempt tracker and TOTP code generation are
// internal and never exported.
//
// # What this package must NOT do
//
//   - Persist attempt history. The lockout tracker is process-local by design; a
//     restart resets all counters.
//   - Issue tokens, manage sessions, or authenticate first factors. Callers own
//     everything around the second-factor check.
//   - Retry record store operations. Storage failures propagate unchanged; retry
//     policy belongs to the store implementation.
//
// # Outcome contract
//
// Verify never reports an expected outcome as an error. Success, failure, and
// rate limiting are returned as a typed [VerifyResult]; errors are reserved for
// caller bugs (empty user ID), missing setup, and storage faults.
package mfaGuard
