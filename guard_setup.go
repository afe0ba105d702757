package mfaGuard

import (
	"context"
	"time"
)

// BeginSetup generates a fresh ephemeral secret for userID and stores it with
// an expiry, overwriting any unconfirmed secret from an earlier setup. The
// returned URI embeds the configured issuer and the user's email for
// authenticator-app enrollment; the secret itself is never attached to the
// audit trail.
func (g *Guard) BeginSetup(ctx context.Context, userID string) (*SetupResult, error) {
	if g == nil || g.totp == nil || g.records == nil {
		return nil, ErrGuardNotReady
	}
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	record, err := g.loadRecord(ctx, userID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrUserNotFound
	}

	secret, err := g.totp.GenerateSecret()
	if err != nil {
		return nil, err
	}
	expiresAt := g.now().Add(g.config.Setup.SecretTTL)

	if err := g.records.SetEphemeralSecret(ctx, userID, secret, expiresAt); err != nil {
		return nil, wrapStoreErr(err)
	}

	account := record.Email
	if account == "" {
		account = userID
	}

	g.metricInc(MetricSetupStarted)
	g.emitAudit(ctx, auditEventSecretCreated, true, userID, func() map[string]string {
		return map[string]string{
			"expires_at": expiresAt.UTC().Format(time.RFC3339),
		}
	})

	return &SetupResult{
		Secret:    secret,
		URI:       g.totp.ProvisionURI(secret, account),
		ExpiresAt: expiresAt,
	}, nil
}

// ConfirmSetup validates a code against the pending ephemeral secret and, on
// success, promotes it to the permanent secret and enables MFA in a single
// record write. An expired pending secret is cleared on read and reported as
// [ErrSetupExpired].
func (g *Guard) ConfirmSetup(ctx context.Context, userID, code string) error {
	if g == nil || g.totp == nil || g.records == nil {
		return ErrGuardNotReady
	}
	if userID == "" {
		return ErrInvalidUserID
	}

	secret, expired, err := g.readEphemeral(ctx, userID)
	if err != nil {
		return err
	}
	if expired {
		return ErrSetupExpired
	}
	if secret == "" {
		return ErrSetupNotStarted
	}

	ok, err := g.totp.VerifyCode(secret, code, g.now())
	if err != nil {
		return err
	}
	if !ok {
		g.metricInc(MetricVerifyFailure)
		g.emitAudit(ctx, auditEventVerifyFailure, false, userID, func() map[string]string {
			return map[string]string{
				"phase":       "setup",
				"code_digest": codeDigest(code),
			}
		})
		return ErrSetupCodeInvalid
	}

	if err := g.records.PromoteSecret(ctx, userID, secret); err != nil {
		return wrapStoreErr(err)
	}

	g.metricInc(MetricSetupConfirmed)
	g.emitAudit(ctx, auditEventEnabled, true, userID, nil)
	return nil
}

// Disable revokes the permanent secret, flips the enabled flag off, and
// clears any pending ephemeral secret as defensive cleanup.
func (g *Guard) Disable(ctx context.Context, userID string) error {
	if g == nil || g.records == nil {
		return ErrGuardNotReady
	}
	if userID == "" {
		return ErrInvalidUserID
	}

	if err := g.records.RevokeSecret(ctx, userID); err != nil {
		return wrapStoreErr(err)
	}

	g.metricInc(MetricDisabled)
	g.emitAudit(ctx, auditEventDisabled, true, userID, nil)
	return nil
}

// readEphemeral resolves the pending setup secret for userID. Expiry is lazy:
// the first read past expiresAt clears both stored fields, emits the expiry
// audit event, and reports (secret="", expired=true). A user with no pending
// secret reports (secret="", expired=false).
func (g *Guard) readEphemeral(ctx context.Context, userID string) (string, bool, error) {
	record, err := g.loadRecord(ctx, userID)
	if err != nil {
		return "", false, err
	}
	if record == nil || record.TempSecret == "" || record.TempSecretExpiresAt.IsZero() {
		return "", false, nil
	}

	if g.now().After(record.TempSecretExpiresAt) {
		if err := g.records.ClearEphemeralSecret(ctx, userID); err != nil {
			return "", false, wrapStoreErr(err)
		}
		g.metricInc(MetricSetupExpired)
		g.emitAudit(ctx, auditEventSecretExpired, false, userID, func() map[string]string {
			return map[string]string{
				"expired_at": record.TempSecretExpiresAt.UTC().Format(time.RFC3339),
			}
		})
		return "", true, nil
	}

	return record.TempSecret, false, nil
}

func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	return &storeError{cause: err}
}

// storeError tags a record store fault with ErrStoreUnavailable while keeping
// the original error reachable through errors.Is/As.
type storeError struct {
	cause error
}

func (e *storeError) Error() string {
	return ErrStoreUnavailable.Error() + ": " + e.cause.Error()
}

func (e *storeError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.cause}
}
