package mfaGuard

import (
	"errors"
	"time"
)

// Config defines a public type used by mfaGuard APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	TOTP      TOTPConfig
	RateLimit RateLimitConfig
	Setup     SetupConfig
	Sweep     SweepConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
TOTP CONFIG
====================================
*/

// TOTPConfig defines a public type used by mfaGuard APIs.
//
// TOTPConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TOTPConfig struct {
	Issuer    string
	Digits    int
	Period    int
	Algorithm string // "SHA1" (default), "SHA256", "SHA512"
	Skew      int    // accepted time steps on each side of now
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitConfig defines a public type used by mfaGuard APIs.
//
// RateLimitConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RateLimitConfig struct {
	MaxAttempts     int
	Window          time.Duration // look-back horizon for counting failures
	LockoutDuration time.Duration // minimum wait once the limiter trips
	HistoryLimit    int           // per-user attempt records retained, FIFO
}

// SetupConfig defines a public type used by mfaGuard APIs.
//
// SetupConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SetupConfig struct {
	SecretTTL time.Duration // lifetime of an unconfirmed setup secret
}

// SweepConfig defines a public type used by mfaGuard APIs.
//
// SweepConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SweepConfig struct {
	Enabled  bool
	Interval time.Duration
}

// AuditConfig defines a public type used by mfaGuard APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by mfaGuard APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig may return an error when input validation, dependency calls, or security checks fail.
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		TOTP: TOTPConfig{
			Issuer:    "mfaGuard",
			Digits:    6,
			Period:    30,
			Algorithm: "SHA1",
			Skew:      2,
		},
		RateLimit: RateLimitConfig{
			MaxAttempts:     5,
			Window:          15 * time.Minute,
			LockoutDuration: 30 * time.Minute,
			HistoryLimit:    20,
		},
		Setup: SetupConfig{
			SecretTTL: 30 * time.Minute,
		},
		Sweep: SweepConfig{
			Enabled:  true,
			Interval: 5 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a deep copy.
	return cfg
}

var (
	errConfigTOTPDigits      = errors.New("totp digits must be between 6 and 8")
	errConfigTOTPPeriod      = errors.New("totp period must be positive")
	errConfigTOTPSkew        = errors.New("totp skew must not be negative")
	errConfigTOTPAlgorithm   = errors.New("unsupported totp algorithm")
	errConfigRateMaxAttempts = errors.New("rate limit max attempts must be positive")
	errConfigRateWindow      = errors.New("rate limit window must be positive")
	errConfigRateLockout     = errors.New("lockout duration must be at least the rate limit window")
	errConfigRateHistory     = errors.New("history limit must be at least max attempts")
	errConfigSetupTTL        = errors.New("setup secret ttl must be positive")
	errConfigSweepInterval   = errors.New("sweep interval must be positive")
)

func validateConfig(cfg Config) error {
	if cfg.TOTP.Digits < 6 || cfg.TOTP.Digits > 8 {
		return errConfigTOTPDigits
	}
	if cfg.TOTP.Period <= 0 {
		return errConfigTOTPPeriod
	}
	if cfg.TOTP.Skew < 0 {
		return errConfigTOTPSkew
	}
	switch cfg.TOTP.Algorithm {
	case "", "SHA1", "SHA256", "SHA512":
	default:
		return errConfigTOTPAlgorithm
	}
	if cfg.RateLimit.MaxAttempts <= 0 {
		return errConfigRateMaxAttempts
	}
	if cfg.RateLimit.Window <= 0 {
		return errConfigRateWindow
	}
	if cfg.RateLimit.LockoutDuration < cfg.RateLimit.Window {
		return errConfigRateLockout
	}
	if cfg.RateLimit.HistoryLimit < cfg.RateLimit.MaxAttempts {
		return errConfigRateHistory
	}
	if cfg.Setup.SecretTTL <= 0 {
		return errConfigSetupTTL
	}
	if cfg.Sweep.Enabled && cfg.Sweep.Interval <= 0 {
		return errConfigSweepInterval
	}
	return nil
}
