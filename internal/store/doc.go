// Package store provides the SQLite-backed run ledger for padconv.
//
// The ledger records one row per conversion run and an append-only list of
// state transitions per run:
//   - Runs: profile, resolved paths, final state, artifact sizes and the
//     config body hash
//   - Transitions: from/to state pairs stamped with a per-run logical seq
//
// # Ordering
//
//   - Transitions are ordered by seq, never by wall time
//   - Run listings use ORDER BY started_at DESC, id ASC so ties are stable
//
// # Database Configuration
//
//   - WAL mode: history can be read while a run is writing
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: transitions must reference a run
package store
