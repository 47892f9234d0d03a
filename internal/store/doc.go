// Package store provides SQLite storage for the harness.
//
// Two kinds of database are opened through this package:
//
//   - Sandbox: a private ":memory:" database handed to a single scenario
//     run and closed when the run ends. Nothing written there survives the
//     run, so scenarios that demonstrate schema changes start from nothing.
//   - History: an append-only log of harness runs (runs, results,
//     mismatches, observations) used by `quirks run --history` and
//     `quirks history`.
//
// # Ordering
//
// Runs are ordered by a logical seq column assigned at insert time, never
// by timestamps. Results keep their run position; observations keep the
// Seq assigned by the runner. Every read orders by these columns so output
// is identical across reads.
//
// # Database Configuration (history)
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
