package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/quirks/internal/ir"
)

// GoldenSuffix is the file extension of golden snapshots.
const GoldenSuffix = ".golden"

// ErrGoldenMissing is returned by CompareGolden when no snapshot exists.
var ErrGoldenMissing = errors.New("golden file missing")

// Snapshot renders a result as canonical JSON for golden comparison.
// Identity values are replaced by relationship tokens so snapshots are
// byte-stable across runs.
func Snapshot(r ir.Result) ([]byte, error) {
	mismatches := make(ir.Array, len(r.Mismatches))
	for i, m := range r.Mismatches {
		mismatches[i] = ir.Object{
			"index":    ir.Int(m.Index),
			"expected": ir.String(m.Expected),
			"actual":   ir.String(m.Actual),
		}
	}
	snap := ir.Object{
		"version":      ir.String(ir.SnapshotVersion),
		"scenario":     ir.String(r.Scenario),
		"passed":       ir.Bool(r.Passed),
		"mismatches":   mismatches,
		"observations": ir.StreamObject(ir.Normalize(r.Observations)),
	}
	data, err := ir.MarshalCanonical(snap)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", r.Scenario, err)
	}
	return append(data, '\n'), nil
}

// GoldenName maps a scenario name to a flat golden file name:
// "paging/default" becomes "paging_default".
func GoldenName(scenario string) string {
	return strings.ReplaceAll(scenario, "/", "_")
}

// AssertGolden compares the result's snapshot with
// testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGolden(t *testing.T, r ir.Result) {
	t.Helper()

	data, err := Snapshot(r)
	if err != nil {
		t.Fatal(err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(GoldenSuffix),
	)
	g.Assert(t, GoldenName(r.Scenario), data)
}

// UpdateGolden writes the result's snapshot into dir.
func UpdateGolden(dir string, r ir.Result) error {
	data, err := Snapshot(r)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create golden dir: %w", err)
	}
	path := filepath.Join(dir, GoldenName(r.Scenario)+GoldenSuffix)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether the result's snapshot equals the golden
// file in dir. It wraps ErrGoldenMissing when there is no file.
func CompareGolden(dir string, r ir.Result) (bool, error) {
	path := filepath.Join(dir, GoldenName(r.Scenario)+GoldenSuffix)
	want, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("%s: %w", path, ErrGoldenMissing)
	}
	if err != nil {
		return false, fmt.Errorf("read golden file: %w", err)
	}

	got, err := Snapshot(r)
	if err != nil {
		return false, err
	}
	return bytes.Equal(want, got), nil
}
