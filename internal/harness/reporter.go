package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/quirks/internal/ir"
)

// Styler decorates report text. The plain style returns text unchanged so
// redirected output stays byte-exact.
type Styler interface {
	Pass(s string) string
	Fail(s string) string
	Detail(s string) string
}

// PlainStyle is the undecorated Styler.
type PlainStyle struct{}

func (PlainStyle) Pass(s string) string   { return s }
func (PlainStyle) Fail(s string) string   { return s }
func (PlainStyle) Detail(s string) string { return s }

// Reporter runs scenarios in order and prints one status line per scenario
// followed by a summary line.
//
// Scenarios run sequentially: bodies may rely on process-wide behavior and
// the output must not depend on scheduling. Only the Reporter writes to the
// Summary it returns.
type Reporter struct {
	out    io.Writer
	runner *Runner
	logger *slog.Logger
	style  Styler
	runIDs RunIDGenerator
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithLogger sets the logger for the reporter and its runner.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reporter) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithStyle sets the Styler used for status lines.
func WithStyle(style Styler) Option {
	return func(r *Reporter) {
		if style != nil {
			r.style = style
		}
	}
}

// WithRunIDGenerator sets the source of summary run IDs.
func WithRunIDGenerator(gen RunIDGenerator) Option {
	return func(r *Reporter) {
		if gen != nil {
			r.runIDs = gen
		}
	}
}

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		out:    out,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		style:  PlainStyle{},
		runIDs: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.runner = NewRunner(r.logger)
	return r
}

// RunAll runs every scenario in order, checks it, prints its status and
// returns the finished summary. A failing or panicking scenario never stops
// the scenarios after it.
func (r *Reporter) RunAll(ctx context.Context, scenarios []Scenario) *ir.Summary {
	summary := ir.NewSummary(r.runIDs.Generate())
	r.logger.Debug("run started", "run_id", summary.RunID, "scenarios", len(scenarios))

	for _, s := range scenarios {
		result := r.runOne(ctx, s)
		summary.Add(result)
		WriteResult(r.out, result, r.style)
	}

	WriteSummaryLine(r.out, summary)
	r.logger.Debug("run finished",
		"run_id", summary.RunID,
		"passed", summary.Passed,
		"failed", summary.Failed)
	return summary
}

func (r *Reporter) runOne(ctx context.Context, s Scenario) ir.Result {
	status, err := ir.StatusPending.Transition(ir.StatusRunning)
	if err != nil {
		r.logger.Error("status transition", "scenario", s.Name, "error", err)
	}

	observations := r.runner.Run(ctx, s)
	result := Check(s.Name, observations, s.Expected)

	final, err := status.Transition(result.Status)
	if err != nil {
		r.logger.Error("status transition", "scenario", s.Name, "error", err)
	}
	result.Status = final
	r.logger.Debug("scenario checked",
		"scenario", s.Name,
		"status", result.Status,
		"mismatches", len(result.Mismatches))
	return result
}

// WriteResult prints "PASS <name>" or "FAIL <name>", followed for a
// failure by one indented line per mismatch.
func WriteResult(w io.Writer, result ir.Result, style Styler) {
	if result.Passed {
		fmt.Fprintln(w, style.Pass("PASS")+" "+result.Scenario)
		return
	}
	fmt.Fprintln(w, style.Fail("FAIL")+" "+result.Scenario)
	for _, m := range result.Mismatches {
		fmt.Fprintln(w, "  "+style.Detail(m.String()))
	}
}

// WriteSummaryLine prints "<passed> passed, <failed> failed, <total> total".
func WriteSummaryLine(w io.Writer, summary *ir.Summary) {
	fmt.Fprintf(w, "%d passed, %d failed, %d total\n", summary.Passed, summary.Failed, summary.Total)
}
