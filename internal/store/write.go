package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/quirks/internal/ir"
)

// ErrDuplicateRun is returned when a run ID has already been recorded.
var ErrDuplicateRun = errors.New("run already recorded")

// WriteSummary records a finished harness run with all of its results,
// mismatches and observations in one transaction.
//
// The run's seq is assigned as MAX(seq)+1, so history order follows insert
// order regardless of recordedAt. recordedAt is informational only.
func (s *Store) WriteSummary(ctx context.Context, summary *ir.Summary, recordedAt time.Time) error {
	if summary == nil {
		return fmt.Errorf("write summary: nil summary")
	}
	if summary.RunID == "" {
		return fmt.Errorf("write summary: run id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write summary: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, summary.RunID).Scan(&exists)
	switch {
	case err == nil:
		return fmt.Errorf("write summary %s: %w", summary.RunID, ErrDuplicateRun)
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("write summary: check run: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, harness_version, total, passed, failed, recorded_at)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?, ?, ?)
	`,
		summary.RunID,
		ir.HarnessVersion,
		summary.Total,
		summary.Passed,
		summary.Failed,
		recordedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("write summary: insert run: %w", err)
	}

	for pos, r := range summary.Results {
		if err := writeResult(ctx, tx, summary.RunID, pos, r); err != nil {
			return fmt.Errorf("write summary: result %d (%s): %w", pos, r.Scenario, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write summary: commit: %w", err)
	}
	return nil
}

func writeResult(ctx context.Context, tx *sql.Tx, runID string, pos int, r ir.Result) error {
	digest, err := ir.ResultDigest(r)
	if err != nil {
		return err
	}

	status := r.Status
	if !status.Terminal() {
		status = ir.StatusFailed
		if r.Passed {
			status = ir.StatusPassed
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO results (run_id, position, scenario, status, passed, digest)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runID, pos, r.Scenario, string(status), r.Passed, digest)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}

	for ord, m := range r.Mismatches {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO mismatches (run_id, position, ordinal, idx, expected, actual)
			VALUES (?, ?, ?, ?, ?, ?)
		`, runID, pos, ord, m.Index, m.Expected, m.Actual)
		if err != nil {
			return fmt.Errorf("insert mismatch %d: %w", ord, err)
		}
	}

	for _, o := range r.Observations {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO observations (run_id, position, seq, kind, value, label)
			VALUES (?, ?, ?, ?, ?, ?)
		`, runID, pos, o.Seq, string(o.Kind), o.Value, o.Label)
		if err != nil {
			return fmt.Errorf("insert observation %d: %w", o.Seq, err)
		}
	}

	return nil
}
