package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/quirks/internal/ir"
)

// ErrRunNotFound is returned when a run ID is not in history.
var ErrRunNotFound = errors.New("run not found")

// RunInfo is the header row of a recorded run.
type RunInfo struct {
	ID             string `json:"id"`
	Seq            int64  `json:"seq"`
	HarnessVersion string `json:"harness_version"`
	Total          int    `json:"total"`
	Passed         int    `json:"passed"`
	Failed         int    `json:"failed"`
	RecordedAt     string `json:"recorded_at"`
}

// ScenarioRecord is one scenario's verdict within a recorded run.
type ScenarioRecord struct {
	RunID  string `json:"run_id"`
	RunSeq int64  `json:"run_seq"`
	Passed bool   `json:"passed"`
	Digest string `json:"digest"`
}

// ListRuns returns up to limit runs, most recent first (seq DESC).
// A limit <= 0 returns every run.
// Returns an empty slice (not nil) when history is empty.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	query := `
		SELECT id, seq, harness_version, total, passed, failed, recorded_at
		FROM runs
		ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunInfo{}
	for rows.Next() {
		var r RunInfo
		if err := rows.Scan(&r.ID, &r.Seq, &r.HarnessVersion, &r.Total, &r.Passed, &r.Failed, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun loads a recorded run and rebuilds its summary.
// Results come back in their original run order.
func (s *Store) ReadRun(ctx context.Context, id string) (*RunInfo, *ir.Summary, error) {
	var info RunInfo
	err := s.db.QueryRowContext(ctx, `
		SELECT id, seq, harness_version, total, passed, failed, recorded_at
		FROM runs WHERE id = ?
	`, id).Scan(&info.ID, &info.Seq, &info.HarnessVersion, &info.Total, &info.Passed, &info.Failed, &info.RecordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read run %s: %w", id, err)
	}

	results, err := s.readResults(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	summary := ir.NewSummary(id)
	for _, r := range results {
		summary.Add(r)
	}
	return &info, summary, nil
}

func (s *Store) readResults(ctx context.Context, runID string) ([]ir.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, scenario, status, passed
		FROM results
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}

	var results []ir.Result
	var positions []int
	for rows.Next() {
		var (
			pos    int
			r      ir.Result
			status string
		)
		if err := rows.Scan(&pos, &r.Scenario, &status, &r.Passed); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Status = ir.Status(status)
		results = append(results, r)
		positions = append(positions, pos)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	// Single connection: release it before the nested queries below.
	rows.Close()

	for i, pos := range positions {
		mismatches, err := s.readMismatches(ctx, runID, pos)
		if err != nil {
			return nil, err
		}
		observations, err := s.readObservations(ctx, runID, pos)
		if err != nil {
			return nil, err
		}
		results[i].Mismatches = mismatches
		results[i].Observations = observations
	}
	return results, nil
}

func (s *Store) readMismatches(ctx context.Context, runID string, pos int) ([]ir.Mismatch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, expected, actual
		FROM mismatches
		WHERE run_id = ? AND position = ?
		ORDER BY ordinal ASC
	`, runID, pos)
	if err != nil {
		return nil, fmt.Errorf("query mismatches: %w", err)
	}
	defer rows.Close()

	mismatches := []ir.Mismatch{}
	for rows.Next() {
		var m ir.Mismatch
		if err := rows.Scan(&m.Index, &m.Expected, &m.Actual); err != nil {
			return nil, fmt.Errorf("scan mismatch: %w", err)
		}
		mismatches = append(mismatches, m)
	}
	return mismatches, rows.Err()
}

func (s *Store) readObservations(ctx context.Context, runID string, pos int) ([]ir.Observation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, kind, value, label
		FROM observations
		WHERE run_id = ? AND position = ?
		ORDER BY seq ASC
	`, runID, pos)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	observations := []ir.Observation{}
	for rows.Next() {
		var (
			o    ir.Observation
			kind string
		)
		if err := rows.Scan(&o.Seq, &kind, &o.Value, &o.Label); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		o.Kind = ir.Kind(kind)
		observations = append(observations, o)
	}
	return observations, rows.Err()
}

// ScenarioHistory returns every recorded verdict for one scenario,
// oldest run first.
func (s *Store) ScenarioHistory(ctx context.Context, scenario string) ([]ScenarioRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.run_id, runs.seq, r.passed, r.digest
		FROM results r
		JOIN runs ON runs.id = r.run_id
		WHERE r.scenario = ?
		ORDER BY runs.seq ASC, r.position ASC
	`, scenario)
	if err != nil {
		return nil, fmt.Errorf("query scenario history: %w", err)
	}
	defer rows.Close()

	records := []ScenarioRecord{}
	for rows.Next() {
		var rec ScenarioRecord
		if err := rows.Scan(&rec.RunID, &rec.RunSeq, &rec.Passed, &rec.Digest); err != nil {
			return nil, fmt.Errorf("scan scenario history: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenario history: %w", err)
	}
	return records, nil
}
