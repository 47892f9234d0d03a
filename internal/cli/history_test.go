package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordTwoRuns(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	opts := testOptions("run-1", "run-2")

	_, _, code := execute(t, opts, "run", "--history", dbPath)
	require.Equal(t, ExitFailure, code)
	_, _, code = execute(t, opts, "run", "--filter", "greet", "--history", dbPath)
	require.Equal(t, ExitSuccess, code)
	return dbPath
}

func TestHistory_ListMostRecentFirst(t *testing.T) {
	dbPath := recordTwoRuns(t)

	stdout, _, code := execute(t, testOptions(), "--format", "json", "history", "--db", dbPath)
	require.Equal(t, ExitSuccess, code)

	var resp struct {
		Data []struct {
			ID    string `json:"id"`
			Total int    `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "run-2", resp.Data[0].ID)
	assert.Equal(t, 1, resp.Data[0].Total)
	assert.Equal(t, "run-1", resp.Data[1].ID)
}

func TestHistory_Limit(t *testing.T) {
	dbPath := recordTwoRuns(t)

	stdout, _, code := execute(t, testOptions(), "history", "--db", dbPath, "--limit", "1")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "run-2")
	assert.NotContains(t, stdout, "run-1")
}

func TestHistory_ShowReprintsReport(t *testing.T) {
	dbPath := recordTwoRuns(t)

	stdout, _, code := execute(t, testOptions(), "history", "--db", dbPath, "run-1")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, greetReport, stdout)
}

func TestHistory_UnknownRun(t *testing.T) {
	dbPath := recordTwoRuns(t)

	_, _, code := execute(t, testOptions(), "history", "--db", dbPath, "run-9")
	assert.Equal(t, ExitCommandError, code)
}

func TestHistory_MissingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "none.db")

	_, _, code := execute(t, testOptions(), "history", "--db", dbPath)
	assert.Equal(t, ExitCommandError, code)
	assert.NoFileExists(t, dbPath)
}

func TestHistory_RequiresDB(t *testing.T) {
	_, _, code := execute(t, testOptions(), "history")
	assert.Equal(t, ExitCommandError, code)
}

func TestHistory_Scenario(t *testing.T) {
	dbPath := recordTwoRuns(t)

	stdout, _, code := execute(t, testOptions(), "--format", "json", "history", "--db", dbPath, "--scenario", "greet")
	require.Equal(t, ExitSuccess, code)

	var resp struct {
		Data []struct {
			RunID  string `json:"run_id"`
			Passed bool   `json:"passed"`
			Digest string `json:"digest"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "run-1", resp.Data[0].RunID)
	assert.Equal(t, "run-2", resp.Data[1].RunID)
	assert.True(t, resp.Data[0].Passed)
	assert.Equal(t, resp.Data[0].Digest, resp.Data[1].Digest)
}

func TestHistory_ScenarioText(t *testing.T) {
	dbPath := recordTwoRuns(t)

	stdout, _, code := execute(t, testOptions(), "history", "--db", dbPath, "--scenario", "greet-wrong")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "run-1")
	assert.Contains(t, stdout, "FAIL")
	assert.NotContains(t, stdout, "run-2")
}

func TestHistory_ScenarioWithRunID(t *testing.T) {
	dbPath := recordTwoRuns(t)

	_, _, code := execute(t, testOptions(), "history", "--db", dbPath, "--scenario", "greet", "run-1")
	assert.Equal(t, ExitCommandError, code)
}
