package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quirks/internal/ir"
)

var recordedAt = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func TestWriteSummaryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	summary := createTestSummary("run-1")

	require.NoError(t, s.WriteSummary(ctx, summary, recordedAt))

	info, got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, "run-1", info.ID)
	assert.Equal(t, int64(1), info.Seq)
	assert.Equal(t, ir.HarnessVersion, info.HarnessVersion)
	assert.Equal(t, "2026-10-15T12:00:00Z", info.RecordedAt)
	assert.Equal(t, 2, info.Total)
	assert.Equal(t, 1, info.Passed)
	assert.Equal(t, 1, info.Failed)

	require.Len(t, got.Results, 2)
	assert.Equal(t, got.Total, got.Passed+got.Failed)
	assert.Equal(t, "greet", got.Results[0].Scenario)
	assert.Equal(t, ir.StatusPassed, got.Results[0].Status)
	assert.Empty(t, got.Results[0].Mismatches)
	assert.Equal(t, summary.Results[0].Observations, got.Results[0].Observations)

	assert.Equal(t, "greet-wrong", got.Results[1].Scenario)
	assert.False(t, got.Results[1].Passed)
	assert.Equal(t, summary.Results[1].Mismatches, got.Results[1].Mismatches)
	assert.Equal(t, summary.Results[1].Observations, got.Results[1].Observations)
}

func TestWriteSummaryDuplicateRun(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.WriteSummary(ctx, createTestSummary("run-1"), recordedAt))
	err := s.WriteSummary(ctx, createTestSummary("run-1"), recordedAt)
	assert.ErrorIs(t, err, ErrDuplicateRun)
}

func TestWriteSummaryRequiresRunID(t *testing.T) {
	s := createTestStore(t)

	err := s.WriteSummary(context.Background(), createTestSummary(""), recordedAt)
	assert.ErrorContains(t, err, "run id is required")

	err = s.WriteSummary(context.Background(), nil, recordedAt)
	assert.Error(t, err)
}

func TestListRunsOrderedBySeq(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	// Later wall-clock time written first: order still follows insert seq.
	require.NoError(t, s.WriteSummary(ctx, createTestSummary("run-a"), recordedAt.Add(time.Hour)))
	require.NoError(t, s.WriteSummary(ctx, createTestSummary("run-b"), recordedAt))
	require.NoError(t, s.WriteSummary(ctx, createTestSummary("run-c"), recordedAt))

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-c", runs[0].ID)
	assert.Equal(t, "run-b", runs[1].ID)
	assert.Equal(t, "run-a", runs[2].ID)

	limited, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "run-c", limited[0].ID)
}

func TestListRunsEmpty(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestReadRunNotFound(t *testing.T) {
	s := createTestStore(t)

	_, _, err := s.ReadRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestScenarioHistory(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.WriteSummary(ctx, createTestSummary("run-1"), recordedAt))
	require.NoError(t, s.WriteSummary(ctx, createTestSummary("run-2"), recordedAt))

	records, err := s.ScenarioHistory(ctx, "greet-wrong")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "run-1", records[0].RunID)
	assert.Equal(t, "run-2", records[1].RunID)
	assert.False(t, records[0].Passed)
	assert.Equal(t, records[0].Digest, records[1].Digest, "identical results digest identically")

	none, err := s.ScenarioHistory(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}
