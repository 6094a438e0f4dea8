// Package store provides the SQLite-backed interface cache.
//
// The cache records, per build, the TAC dump of every unit together with
// the hash of the declaration set it was built against. A later build can
// skip a unit whose name and declaration hash are unchanged.
//
//   - Builds: one row per compiler run, ordered by a logical sequence
//   - Declaration sets: canonical JSON keyed by content hash
//   - Units: a unit's dump and dump hash, per build
//
// # Critical Patterns
//
// Content addressing: declaration sets are keyed by the domain-separated
// SHA-256 of their canonical JSON (see internal/canon), so writes are
// idempotent via ON CONFLICT DO NOTHING.
//
// Logical time: builds are ordered by seq, never by wall-clock time.
// Queries that return several rows order by a unique key with
// COLLATE BINARY so results are identical across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
