package harness

import (
	"context"
	"io"
	"log/slog"

	"github.com/roach88/quirks/internal/ir"
)

// Runner executes scenario bodies in isolation.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a runner. A nil logger discards all log output.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{logger: logger}
}

// Run executes one scenario and returns its observations in emission order.
//
// Each call builds a fresh Env with its own clock, state and sandbox, so
// two runs of a deterministic scenario produce the same stream apart from
// identity values. If the body returns an error or panics, the failure is
// appended as exactly one error observation and the run stops there; Run
// itself never panics because of a scenario.
func (r *Runner) Run(ctx context.Context, s Scenario) []ir.Observation {
	env := newEnv(ctx, s.Name, r.logger)
	defer func() {
		if err := env.close(); err != nil {
			env.logger.Warn("sandbox close failed", "error", err)
		}
	}()

	if err := invoke(env, s); err != nil {
		env.logger.Debug("scenario body failed",
			"kind", err.Kind,
			"message", err.Message,
			"panicked", err.Panicked)
		env.fail(err)
	}

	observations := env.Observations()
	env.logger.Debug("scenario finished", "observations", len(observations))
	return observations
}

func invoke(env *Env, s Scenario) (execErr *ExecutionError) {
	if s.Body == nil {
		return newExecutionError(s.Name, &ConfigurationError{Scenario: s.Name, Reason: "body is nil"})
	}

	defer func() {
		if v := recover(); v != nil {
			execErr = panicError(s.Name, v)
		}
	}()

	if err := s.Body(env); err != nil {
		return newExecutionError(s.Name, err)
	}
	return nil
}
