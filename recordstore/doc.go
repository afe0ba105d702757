// Package recordstore provides a Redis-backed implementation of the
// mfaGuard.RecordStore interface. Each user's MFA fields live in a single
// Redis hash, and every multi-field transition (promote, revoke, clear) runs
// as one Lua script so the record is updated atomically, matching the
// single-record-write contract the guard expects.
package recordstore
