package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/quirks/internal/harness"
	"github.com/roach88/quirks/internal/ir"
	"github.com/roach88/quirks/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DBPath   string
	Limit    int
	Scenario string
}

// RunDetail is the JSON payload for a single recorded run.
type RunDetail struct {
	Run     *store.RunInfo `json:"run"`
	Summary *ir.Summary    `json:"summary"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded runs",
		Long: `List runs recorded with 'quirks run --history', most recent first.
With a run ID, print that run's report again. With --scenario, list every
recorded verdict of one scenario, oldest first.`,
		Args: cobra.MaximumNArgs(1),
		Example: `  quirks history --db quirks.db --limit 5
  quirks history --db quirks.db 0192f0c4-6f3e-7a3c-9d1e-3b2a1c0d9e8f
  quirks history --db quirks.db --scenario paging/default`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Scenario != "" {
				if len(args) == 1 {
					return NewExitError(ExitCommandError, "--scenario cannot be combined with a run ID")
				}
				return runHistoryScenario(cmd, opts)
			}
			if len(args) == 1 {
				return runHistoryShow(cmd, opts, args[0])
			}
			return runHistoryList(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to the history database (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "list recorded verdicts of one scenario")
	cmd.MarkFlagRequired("db")

	return cmd
}

// openHistory opens an existing history database. A missing file is a
// command error rather than an empty history.
func openHistory(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "history database not found", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open history", err)
	}
	return st, nil
}

func runHistoryList(cmd *cobra.Command, opts *HistoryOptions) error {
	st, err := openHistory(opts.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: out}
		return formatter.Success(runs)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tRUN\tPASSED\tFAILED\tTOTAL\tRECORDED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n", r.Seq, r.ID, r.Passed, r.Failed, r.Total, r.RecordedAt)
	}
	return tw.Flush()
}

func runHistoryShow(cmd *cobra.Command, opts *HistoryOptions, runID string) error {
	st, err := openHistory(opts.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	info, summary, err := st.ReadRun(cmd.Context(), runID)
	if errors.Is(err, store.ErrRunNotFound) {
		return WrapExitError(ExitCommandError, fmt.Sprintf("no recorded run %q", runID), err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: out}
		return formatter.Success(RunDetail{Run: info, Summary: summary})
	}

	style := styleFor(out)
	for _, r := range summary.Results {
		harness.WriteResult(out, r, style)
	}
	harness.WriteSummaryLine(out, summary)
	return nil
}

func runHistoryScenario(cmd *cobra.Command, opts *HistoryOptions) error {
	st, err := openHistory(opts.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.ScenarioHistory(cmd.Context(), opts.Scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read scenario history", err)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: out}
		return formatter.Success(records)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tRUN\tVERDICT\tDIGEST")
	for _, r := range records {
		verdict := "FAIL"
		if r.Passed {
			verdict = "PASS"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.RunSeq, r.RunID, verdict, r.Digest)
	}
	return tw.Flush()
}
