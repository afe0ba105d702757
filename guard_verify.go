package mfaGuard

import (
	"context"
	"strconv"
)

// Verify checks a submitted 6-digit code for userID and records the attempt.
//
// The rate limit is a hard gate: once the in-window failure count reaches the
// configured maximum, the code is not evaluated at all and the result carries
// the remaining lockout wait. Success, failure, and rate limiting are typed
// outcomes on [VerifyResult]; errors are reserved for an empty userID, a user
// without enabled MFA, and record store faults.
func (g *Guard) Verify(ctx context.Context, userID, code string) (*VerifyResult, error) {
	if g == nil || g.tracker == nil || g.totp == nil || g.records == nil {
		return nil, ErrGuardNotReady
	}
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	if blocked, wait := g.tracker.Gate(userID); blocked {
		g.metricInc(MetricVerifyRateLimited)
		g.emitAudit(ctx, auditEventRateLimited, false, userID, func() map[string]string {
			return map[string]string{
				"retry_after_seconds": strconv.FormatInt(int64(wait.Seconds()), 10),
				"code_digest":         codeDigest(code),
			}
		})
		return &VerifyResult{
			Outcome:    OutcomeRateLimited,
			RetryAfter: wait,
		}, nil
	}

	record, err := g.loadRecord(ctx, userID)
	if err != nil {
		return nil, err
	}
	if record == nil || !record.Enabled || record.Secret == "" {
		return nil, ErrMFANotConfigured
	}

	ok, err := g.totp.VerifyCode(record.Secret, code, g.now())
	if err != nil {
		return nil, err
	}

	source := sourceAddressFromContext(ctx)
	g.tracker.Record(userID, ok, source)

	if !ok {
		g.metricInc(MetricVerifyFailure)
		g.emitAudit(ctx, auditEventVerifyFailure, false, userID, func() map[string]string {
			return map[string]string{
				"code_digest": codeDigest(code),
			}
		})
		return &VerifyResult{Outcome: OutcomeFailure}, nil
	}

	g.metricInc(MetricVerifySuccess)
	g.emitAudit(ctx, auditEventVerifySuccess, true, userID, func() map[string]string {
		return map[string]string{
			"code_digest": codeDigest(code),
		}
	})
	return &VerifyResult{Outcome: OutcomeSuccess}, nil
}

// IsEnabled describes the isenabled operation and its observable behavior.
//
// IsEnabled may return an error when input validation, dependency calls, or security checks fail.
// IsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (g *Guard) IsEnabled(ctx context.Context, userID string) (bool, error) {
	if g == nil || g.records == nil {
		return false, ErrGuardNotReady
	}
	if userID == "" {
		return false, ErrInvalidUserID
	}

	record, err := g.loadRecord(ctx, userID)
	if err != nil {
		return false, err
	}
	if record == nil {
		return false, nil
	}
	return record.Enabled && record.Secret != "", nil
}
