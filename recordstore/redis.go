package recordstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	mfaGuard "github.com/MrEthical07/mfaGuard"
)

// ErrRedisUnavailable is an exported constant or variable used by the record store.
var ErrRedisUnavailable = errors.New("record store redis unavailable")

const defaultPrefix = "mfa"

const (
	fieldEmail         = "email"
	fieldSecret        = "mfaSecret"
	fieldEnabled       = "mfaEnabled"
	fieldTempSecret    = "mfaTempSecret"
	fieldTempExpiresAt = "mfaTempSecretExpiresAt"
)

const promoteScript = `
redis.call("HSET", KEYS[1], "mfaSecret", ARGV[1], "mfaEnabled", "1")
redis.call("HDEL", KEYS[1], "mfaTempSecret", "mfaTempSecretExpiresAt")
return 1
`

const revokeScript = `
redis.call("HSET", KEYS[1], "mfaEnabled", "0")
redis.call("HDEL", KEYS[1], "mfaSecret", "mfaTempSecret", "mfaTempSecretExpiresAt")
return 1
`

var (
	promoteLua = redis.NewScript(promoteScript)
	revokeLua  = redis.NewScript(revokeScript)
)

var (
	_ mfaGuard.RecordStore = (*Store)(nil)
	_ mfaGuard.SetupLister = (*Store)(nil)
)

// Store defines a public type used by recordstore APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	redis  *redis.Client
	prefix string
}

// NewStore describes the newstore operation and its observable behavior.
//
// NewStore may return an error when input validation, dependency calls, or security checks fail.
// NewStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewStore(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{
		redis:  client,
		prefix: prefix,
	}
}

func (s *Store) key(userID string) string {
	return s.prefix + ":" + userID
}

// CreateUser seeds a user record with its email. The guard itself never
// creates users; this exists for integrations and tests that own the record
// keyspace.
func (s *Store) CreateUser(ctx context.Context, userID, email string) error {
	if err := s.redis.HSet(ctx, s.key(userID), fieldEmail, email).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// GetMFARecord describes the getmfarecord operation and its observable behavior.
//
// GetMFARecord may return an error when input validation, dependency calls, or security checks fail.
// GetMFARecord does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) GetMFARecord(ctx context.Context, userID string) (*mfaGuard.MFARecord, error) {
	fields, err := s.redis.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	record := &mfaGuard.MFARecord{
		UserID:     userID,
		Email:      fields[fieldEmail],
		Secret:     fields[fieldSecret],
		Enabled:    fields[fieldEnabled] == "1",
		TempSecret: fields[fieldTempSecret],
	}
	if raw := fields[fieldTempExpiresAt]; raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt %s field for user %s: %v", fieldTempExpiresAt, userID, err)
		}
		record.TempSecretExpiresAt = time.UnixMilli(ms)
	}
	return record, nil
}

// SetEphemeralSecret describes the setephemeralsecret operation and its observable behavior.
//
// SetEphemeralSecret may return an error when input validation, dependency calls, or security checks fail.
// SetEphemeralSecret does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) SetEphemeralSecret(ctx context.Context, userID, secret string, expiresAt time.Time) error {
	err := s.redis.HSet(ctx, s.key(userID),
		fieldTempSecret, secret,
		fieldTempExpiresAt, strconv.FormatInt(expiresAt.UnixMilli(), 10),
	).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// ClearEphemeralSecret describes the clearephemeralsecret operation and its observable behavior.
//
// ClearEphemeralSecret may return an error when input validation, dependency calls, or security checks fail.
// ClearEphemeralSecret does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) ClearEphemeralSecret(ctx context.Context, userID string) error {
	if err := s.redis.HDel(ctx, s.key(userID), fieldTempSecret, fieldTempExpiresAt).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// PromoteSecret describes the promotesecret operation and its observable behavior.
//
// PromoteSecret may return an error when input validation, dependency calls, or security checks fail.
// PromoteSecret does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) PromoteSecret(ctx context.Context, userID, secret string) error {
	if err := promoteLua.Run(ctx, s.redis, []string{s.key(userID)}, secret).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// ListPendingSetups scans the record keyspace and returns the user IDs that
// currently hold an unconfirmed setup secret. SCAN is cursor-based, so the
// walk never blocks redis; the result is a snapshot, not a consistent view.
func (s *Store) ListPendingSetups(ctx context.Context) ([]string, error) {
	var userIDs []string

	iter := s.redis.Scan(ctx, 0, s.prefix+":*", 200).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		pending, err := s.redis.HExists(ctx, key, fieldTempSecret).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		if pending {
			userIDs = append(userIDs, strings.TrimPrefix(key, s.prefix+":"))
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return userIDs, nil
}

// RevokeSecret describes the revokesecret operation and its observable behavior.
//
// RevokeSecret may return an error when input validation, dependency calls, or security checks fail.
// RevokeSecret does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) RevokeSecret(ctx context.Context, userID string) error {
	if err := revokeLua.Run(ctx, s.redis, []string{s.key(userID)}).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
