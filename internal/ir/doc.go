// Package ir provides the data model shared by the harness, the store and the
// CLI: observations, mismatches, results, summaries and the canonical JSON
// used to snapshot and digest them.
//
// This package imports nothing internal. All other internal packages import
// ir; ir stays the foundational layer with no circular dependencies.
//
// Key constraints:
//   - Ordering uses logical sequence numbers (Seq), never wall-clock time
//   - NO float types in canonical JSON; numbers are int64
//   - All JSON tags use snake_case
package ir
