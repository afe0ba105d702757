package mfaGuard

import (
	"context"
	"time"
)

// Outcome defines a public type used by mfaGuard APIs.
//
// Outcome instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Outcome uint8

const (
	// OutcomeFailure is an exported constant or variable used by the verification guard.
	OutcomeFailure Outcome = iota
	// OutcomeSuccess is an exported constant or variable used by the verification guard.
	OutcomeSuccess
	// OutcomeRateLimited is an exported constant or variable used by the verification guard.
	OutcomeRateLimited
)

// String describes the string operation and its observable behavior.
//
// String may return an error when input validation, dependency calls, or security checks fail.
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRateLimited:
		return "rate_limited"
	default:
		return "failure"
	}
}

// VerifyResult is returned by [Guard.Verify]. Success, failure, and rate
// limiting are expected outcomes and never reported as errors; callers must
// branch on Outcome. RetryAfter is set only when Outcome is
// [OutcomeRateLimited].
type VerifyResult struct {
	Outcome    Outcome
	RetryAfter time.Duration
}

// SetupResult holds the base32-encoded setup secret, the otpauth:// URI for
// authenticator-app enrollment, and the instant after which the unconfirmed
// secret is discarded. Returned by [Guard.BeginSetup].
type SetupResult struct {
	Secret    string
	URI       string
	ExpiresAt time.Time
}

// MFARecord is the per-user record returned by [RecordStore.GetMFARecord].
// Secret and TempSecret are base32-encoded; empty string means absent.
// A zero TempSecretExpiresAt means no expiry is recorded.
type MFARecord struct {
	UserID              string
	Email               string
	Secret              string
	Enabled             bool
	TempSecret          string
	TempSecretExpiresAt time.Time
}

// RecordStore is the interface that callers must implement to integrate
// mfaGuard with their user database. It covers point reads and writes of the
// five MFA fields on a single user record; no cross-user transactions are
// required. Implementations must make each write atomic with respect to the
// record (a single record update), and must return a nil record — not an
// error — when the user does not exist.
type RecordStore interface {
	GetMFARecord(ctx context.Context, userID string) (*MFARecord, error)
	SetEphemeralSecret(ctx context.Context, userID, secret string, expiresAt time.Time) error
	ClearEphemeralSecret(ctx context.Context, userID string) error
	PromoteSecret(ctx context.Context, userID, secret string) error
	RevokeSecret(ctx context.Context, userID string) error
}

// SetupLister is an optional extension of [RecordStore]. Stores that can
// enumerate users holding a pending (unconfirmed) setup secret implement it to
// enable the background expired-secret sweep. Point-read-only stores omit it;
// for those, expiry stays lazy and is handled on the next setup read.
type SetupLister interface {
	ListPendingSetups(ctx context.Context) ([]string, error)
}
