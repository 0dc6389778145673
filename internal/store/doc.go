// Package store provides SQLite-backed durable storage for certificate
// check runs.
//
// The store is an append-only log with two tables:
//   - runs: one row per checker invocation (source file, versions)
//   - checks: one row per certificate step, keyed by content-addressed ID
//
// # Ordering
//
// All ordering uses seq INTEGER (logical clock), never timestamps. Every
// query over checks includes ORDER BY seq ASC, id COLLATE BINARY ASC so
// that repeated runs over the same input read back identically.
//
// # Idempotency
//
// Writes use ON CONFLICT DO NOTHING. Rewriting a run or a check with the
// same ID is a no-op; a second check for the same (run, step) pair is
// ignored by the UNIQUE constraint.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Check IDs are computed by ir.CheckID using RFC 8785 canonical JSON and
// SHA-256 with domain separation.
package store
