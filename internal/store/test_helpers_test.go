package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/quirks/internal/ir"
)

// createTestStore opens a history store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSummary builds a summary with one passing and one failing result.
func createTestSummary(runID string) *ir.Summary {
	s := ir.NewSummary(runID)
	s.Add(ir.Result{
		Scenario: "greet",
		Status:   ir.StatusPassed,
		Passed:   true,
		Observations: []ir.Observation{
			{Seq: 1, Kind: ir.KindOutput, Value: "hello"},
		},
	})
	s.Add(ir.Result{
		Scenario: "greet-wrong",
		Status:   ir.StatusFailed,
		Passed:   false,
		Mismatches: []ir.Mismatch{
			{Index: 0, Expected: "hello", Actual: "hi"},
		},
		Observations: []ir.Observation{
			{Seq: 1, Kind: ir.KindOutput, Value: "hi"},
			{Seq: 2, Kind: ir.KindIdentity, Label: "str", Value: "0xc000012345"},
		},
	})
	return s
}
