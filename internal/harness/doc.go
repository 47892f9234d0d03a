// Package harness runs demonstration scenarios and checks what they observe.
//
// A Scenario is a named body plus the lines it is expected to produce. The
// Runner executes a body against a fresh Env and records every effect as an
// ir.Observation: output lines, identity facts, and at most one trailing
// error. Check compares observations with expectations position by
// position, and the Reporter runs a whole scenario set in registration
// order, printing:
//
//	PASS greet
//	FAIL greet-wrong
//	  at 0: expected hello, got hi
//	1 passed, 1 failed, 2 total
//
// # Isolation
//
// Every run gets its own Env: a deterministic clock starting at 1, empty
// keyed state and counters, and a private in-memory SQLite database opened
// on demand. Nothing a body does is visible to the next scenario.
//
// # Failures
//
// A body that returns an error or panics yields one error observation
// "<Kind>: <message>" and stops. This is expected for scenarios that
// demonstrate failure behavior, and never aborts the run. Registering an
// empty or duplicate name or a nil body returns a *ConfigurationError
// before anything runs.
//
// # Identity facts
//
// Env.Identify records a run-dependent handle. Expectations check
// relationships between handles with Fresh and SameAs, never literal
// values, and reports and snapshots show handles as #1, #2, ...
//
// # Expectation files
//
// LoadExpectations reads YAML or CUE documents that override the expected
// lines of registered scenarios; see ExpectationDoc for the format.
package harness
