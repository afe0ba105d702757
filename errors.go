package mfaGuard

import "errors"

var (
	// ErrGuardNotReady is an exported constant or variable used by the verification guard.
	ErrGuardNotReady = errors.New("guard not ready")
	// ErrInvalidUserID is an exported constant or variable used by the verification guard.
	ErrInvalidUserID = errors.New("invalid user id")
	// ErrUserNotFound is an exported constant or variable used by the verification guard.
	ErrUserNotFound = errors.New("user not found")
	// ErrSecretInvalid is an exported constant or variable used by the verification guard.
	ErrSecretInvalid = errors.New("invalid totp secret")
	// ErrMFANotConfigured is an exported constant or variable used by the verification guard.
	ErrMFANotConfigured = errors.New("mfa not configured")
	// ErrSetupNotStarted is an exported constant or variable used by the verification guard.
	ErrSetupNotStarted = errors.New("mfa setup not started")
	// ErrSetupExpired is an exported constant or variable used by the verification guard.
	ErrSetupExpired = errors.New("mfa setup secret expired")
	// ErrSetupCodeInvalid is an exported constant or variable used by the verification guard.
	ErrSetupCodeInvalid = errors.New("invalid mfa setup code")
	// ErrStoreUnavailable is an exported constant or variable used by the verification guard.
	ErrStoreUnavailable = errors.New("record store unavailable")
)
