package harness

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"unsafe"

	"github.com/roach88/quirks/internal/ir"
	"github.com/roach88/quirks/internal/store"
	"github.com/roach88/quirks/internal/testutil"
)

// Env is the fresh per-run context handed to a scenario body.
//
// Everything a body can observe or mutate lives here: its output, its
// identity facts, its keyed state and counters, and its sandbox database.
// The runner discards the Env when the body returns, so nothing leaks into
// the next scenario.
type Env struct {
	ctx      context.Context
	scenario string
	clock    *testutil.DeterministicClock
	logger   *slog.Logger

	observations []ir.Observation
	state        map[string]any
	counters     map[string]int
	handles      map[any]string
	anonymous    int
	sandbox      *store.Store
}

func newEnv(ctx context.Context, scenario string, logger *slog.Logger) *Env {
	return &Env{
		ctx:      ctx,
		scenario: scenario,
		clock:    testutil.NewDeterministicClock(),
		logger:   logger.With("scenario", scenario),
		state:    make(map[string]any),
		counters: make(map[string]int),
		handles:  make(map[any]string),
	}
}

// Context returns the run's context.
func (e *Env) Context() context.Context { return e.ctx }

// Scenario returns the name of the running scenario.
func (e *Env) Scenario() string { return e.scenario }

// Logger returns the run-scoped logger.
func (e *Env) Logger() *slog.Logger { return e.logger }

// Println records its operands, formatted as by fmt.Println, as output.
func (e *Env) Println(a ...any) {
	e.emitText(fmt.Sprintln(a...))
}

// Printf records formatted output.
func (e *Env) Printf(format string, a ...any) {
	e.emitText(fmt.Sprintf(format, a...))
}

// Print records its operands, formatted as by fmt.Print, as output.
func (e *Env) Print(a ...any) {
	e.emitText(fmt.Sprint(a...))
}

// emitText splits text into lines; each line is one output observation.
// A single trailing newline does not produce an empty line.
func (e *Env) emitText(text string) {
	text = strings.TrimSuffix(text, "\n")
	for _, line := range strings.Split(text, "\n") {
		e.emit(ir.KindOutput, line, "")
	}
}

// Identify records an identity fact for handle under label.
//
// The recorded value is derived from the handle's address: the data
// pointer for strings, the pointer for pointers, maps, channels, funcs and
// slices. Other comparable values are numbered in order of first use
// within this run. Empty strings, nil and non-comparable values have no
// identity to share, so each call gets a token of its own. Values differ
// between runs; only the relationships between them are meaningful.
func (e *Env) Identify(label string, handle any) {
	e.emit(ir.KindIdentity, e.handleOf(handle), label)
}

func (e *Env) handleOf(handle any) string {
	if s, ok := handle.(string); ok {
		if len(s) == 0 {
			return e.anonymousHandle()
		}
		return fmt.Sprintf("%#x", uintptr(unsafe.Pointer(unsafe.StringData(s))))
	}
	v := reflect.ValueOf(handle)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice, reflect.UnsafePointer:
		return fmt.Sprintf("%#x", v.Pointer())
	}
	if v.IsValid() && v.Type().Comparable() {
		if tok, ok := e.handles[handle]; ok {
			return tok
		}
		tok := fmt.Sprintf("h%d", len(e.handles)+1)
		e.handles[handle] = tok
		return tok
	}
	return e.anonymousHandle()
}

// anonymousHandle returns a token distinct from every other handle in the
// run, for values that have no address to compare: empty strings, nil and
// non-comparable values.
func (e *Env) anonymousHandle() string {
	e.anonymous++
	return fmt.Sprintf("u%d", e.anonymous)
}

// Set stores a value in the run's keyed state.
func (e *Env) Set(key string, v any) {
	e.state[key] = v
}

// Get returns a value stored with Set.
func (e *Env) Get(key string) (any, bool) {
	v, ok := e.state[key]
	return v, ok
}

// Counter increments the named counter and returns its new value.
// Counters start at zero for every run.
func (e *Env) Counter(name string) int {
	e.counters[name]++
	return e.counters[name]
}

// DB returns the run's private in-memory SQLite database, opening it on
// first use. The database starts empty and is closed when the run ends.
func (e *Env) DB() (*sql.DB, error) {
	if e.sandbox == nil {
		sb, err := store.OpenSandbox()
		if err != nil {
			return nil, fmt.Errorf("open sandbox: %w", err)
		}
		e.sandbox = sb
	}
	return e.sandbox.DB(), nil
}

// Observations returns a copy of everything recorded so far.
func (e *Env) Observations() []ir.Observation {
	out := make([]ir.Observation, len(e.observations))
	copy(out, e.observations)
	return out
}

func (e *Env) emit(kind ir.Kind, value, label string) {
	e.observations = append(e.observations, ir.Observation{
		Seq:   e.clock.Next(),
		Kind:  kind,
		Value: value,
		Label: label,
	})
}

// fail records the execution error as the run's final observation.
func (e *Env) fail(err *ExecutionError) {
	e.emit(ir.KindError, err.Description(), "")
}

func (e *Env) close() error {
	if e.sandbox == nil {
		return nil
	}
	err := e.sandbox.Close()
	e.sandbox = nil
	return err
}
