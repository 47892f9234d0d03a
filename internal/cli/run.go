package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/quirks/internal/harness"
	"github.com/roach88/quirks/internal/ir"
	"github.com/roach88/quirks/internal/store"
)

// Golden comparison states reported per scenario.
const (
	GoldenMatch   = "match"
	GoldenDiffers = "differs"
	GoldenMissing = "missing"
	GoldenUpdated = "updated"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Filter       string
	Expectations string
	GoldenDir    string
	Update       bool
	HistoryDB    string
}

// GoldenResult is the golden snapshot state of one scenario.
type GoldenResult struct {
	Scenario string `json:"scenario"`
	State    string `json:"state"`
}

// RunResult is the JSON payload of the run command.
type RunResult struct {
	RunID   string         `json:"run_id"`
	Summary *ir.Summary    `json:"summary"`
	Golden  []GoldenResult `json:"golden,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run scenarios and check their output",
		Long: `Run every registered scenario (or those matching --filter), compare each
observation stream with its expected lines and print a PASS/FAIL report.

Exits 0 when every scenario passes, 1 when any fails, 2 on command errors.`,
		Args: cobra.NoArgs,
		Example: `  # Run everything
  quirks run

  # Run one group and record the run
  quirks run --filter 'paging/*' --history quirks.db

  # Refresh golden snapshots
  quirks run --golden testdata/golden --update`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "glob selecting scenarios by name or group")
	cmd.Flags().StringVar(&opts.Expectations, "expectations", "", "YAML or CUE file overriding expected lines")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden", "", "directory of golden snapshots to compare against")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "rewrite golden snapshots instead of comparing (requires --golden)")
	cmd.Flags().StringVar(&opts.HistoryDB, "history", "", "SQLite database to record the run in")

	return cmd
}

func runRun(cmd *cobra.Command, opts *RunOptions) error {
	if opts.Update && opts.GoldenDir == "" {
		return NewExitError(ExitCommandError, "--update requires --golden")
	}

	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	scenarios, err := selectScenarios(opts)
	if err != nil {
		return err
	}
	logger.Debug("scenarios selected", "count", len(scenarios), "filter", opts.Filter)

	stdout := cmd.OutOrStdout()
	var reportOut io.Writer = stdout
	if opts.Format == "json" {
		reportOut = io.Discard
	}

	reporter := harness.NewReporter(reportOut,
		harness.WithLogger(logger),
		harness.WithStyle(styleFor(stdout)),
		harness.WithRunIDGenerator(opts.RunIDs),
	)
	summary := reporter.RunAll(cmd.Context(), scenarios)

	golden, err := applyGolden(opts, summary, logger)
	if err != nil {
		return err
	}
	goldenFailures := 0
	for _, g := range golden {
		if g.State == GoldenDiffers || g.State == GoldenMissing {
			goldenFailures++
		}
		if opts.Format != "json" && g.State != GoldenMatch {
			fmt.Fprintf(stdout, "GOLDEN %s %s\n", g.State, g.Scenario)
		}
	}

	if opts.HistoryDB != "" {
		if err := recordRun(cmd, opts.HistoryDB, summary); err != nil {
			return err
		}
		logger.Debug("run recorded", "run_id", summary.RunID, "db", opts.HistoryDB)
	}

	var failure *ExitError
	switch {
	case summary.Failed > 0:
		failure = NewExitError(ExitFailure,
			fmt.Sprintf("%d of %d scenarios failed", summary.Failed, summary.Total))
	case goldenFailures > 0:
		failure = NewExitError(ExitFailure,
			fmt.Sprintf("%d golden snapshots did not match", goldenFailures))
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: stdout}
		var cliErr *CLIError
		if failure != nil {
			code := ErrCodeScenarioFailed
			if summary.Failed == 0 {
				code = ErrCodeGolden
			}
			cliErr = &CLIError{Code: code, Message: failure.Message}
		}
		result := RunResult{RunID: summary.RunID, Summary: summary, Golden: golden}
		if err := formatter.Result(result, cliErr); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	}

	if failure != nil {
		return failure
	}
	return nil
}

// selectScenarios builds the registry, applies the expectation file and
// the filter. Every error here is a command error.
func selectScenarios(opts *RunOptions) ([]harness.Scenario, error) {
	reg, err := loadRegistry(opts.RootOptions)
	if err != nil {
		return nil, err
	}

	scenarios := reg.Scenarios()
	if opts.Expectations != "" {
		doc, err := harness.LoadExpectations(opts.Expectations)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load expectations", err)
		}
		scenarios, err = doc.Apply(scenarios)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to apply expectations", err)
		}
	}

	scenarios, err = harness.Filter(scenarios, opts.Filter)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid filter", err)
	}
	if len(scenarios) == 0 {
		return nil, NewExitError(ExitCommandError,
			fmt.Sprintf("no scenarios match filter %q", opts.Filter))
	}
	return scenarios, nil
}

// applyGolden compares or rewrites the golden snapshot of every result.
// Returns nil when --golden is not set.
func applyGolden(opts *RunOptions, summary *ir.Summary, logger *slog.Logger) ([]GoldenResult, error) {
	if opts.GoldenDir == "" {
		return nil, nil
	}

	out := make([]GoldenResult, 0, len(summary.Results))
	for _, r := range summary.Results {
		if opts.Update {
			if err := harness.UpdateGolden(opts.GoldenDir, r); err != nil {
				return nil, WrapExitError(ExitCommandError, "failed to update golden", err)
			}
			out = append(out, GoldenResult{Scenario: r.Scenario, State: GoldenUpdated})
			continue
		}

		same, err := harness.CompareGolden(opts.GoldenDir, r)
		state := GoldenMatch
		switch {
		case errors.Is(err, harness.ErrGoldenMissing):
			state = GoldenMissing
		case err != nil:
			return nil, WrapExitError(ExitCommandError, "failed to compare golden", err)
		case !same:
			state = GoldenDiffers
		}
		logger.Debug("golden compared", "scenario", r.Scenario, "state", state)
		out = append(out, GoldenResult{Scenario: r.Scenario, State: state})
	}
	return out, nil
}

func recordRun(cmd *cobra.Command, path string, summary *ir.Summary) error {
	st, err := store.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open history", err)
	}
	defer st.Close()

	if err := st.WriteSummary(cmd.Context(), summary, time.Now().UTC()); err != nil {
		return WrapExitError(ExitCommandError, "failed to record run", err)
	}
	return nil
}
