package harness

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"unicode"

	"cuelang.org/go/cue/token"

	"github.com/roach88/quirks/internal/ir"
)

// ConfigurationError is an authoring mistake detected while the scenario
// set is assembled: an empty or duplicate name, a missing body, an
// expectation naming an unknown scenario, or a bad filter pattern.
// It is fatal to the whole run and is raised before any scenario executes.
type ConfigurationError struct {
	Scenario string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Scenario == "" {
		return "harness configuration: " + e.Reason
	}
	return fmt.Sprintf("harness configuration: scenario %q: %s", e.Scenario, e.Reason)
}

// Kind names the error in observations.
func (e *ConfigurationError) Kind() string { return "ConfigurationError" }

// ExecutionError is a scenario body failure, normalized to a kind and a
// message. The runner turns it into a single error observation and moves on.
type ExecutionError struct {
	Scenario string
	Kind     string
	Message  string
	Panicked bool
	Err      error // nil for non-error panic values
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("scenario %q: %s", e.Scenario, e.Description())
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Description is the observation value: "<Kind>: <message>".
func (e *ExecutionError) Description() string {
	return e.Kind + ": " + e.Message
}

// ExpectationError carries the mismatches of a failed scenario for callers
// that want an error value rather than a Result.
type ExpectationError struct {
	Scenario   string
	Mismatches []ir.Mismatch
}

func (e *ExpectationError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "scenario %q: %d mismatch(es)", e.Scenario, len(e.Mismatches))
	for _, m := range e.Mismatches {
		buf.WriteString("\n  ")
		buf.WriteString(m.String())
	}
	return buf.String()
}

// ResultError returns nil for a passed result and an *ExpectationError
// otherwise.
func ResultError(r ir.Result) error {
	if r.Passed {
		return nil
	}
	return &ExpectationError{Scenario: r.Scenario, Mismatches: r.Mismatches}
}

// LoadError reports an expectation file that could not be read, parsed or
// validated. Pos is set when CUE reported a source position.
type LoadError struct {
	Path string
	Pos  token.Pos
	Err  error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %v", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// newExecutionError normalizes a body failure.
func newExecutionError(scenario string, err error) *ExecutionError {
	return &ExecutionError{
		Scenario: scenario,
		Kind:     errorKind(err),
		Message:  err.Error(),
		Err:      err,
	}
}

// panicError normalizes a recovered panic value. Error values keep their
// kind; anything else is reported as kind "panic".
func panicError(scenario string, v any) *ExecutionError {
	if err, ok := v.(error); ok {
		e := newExecutionError(scenario, err)
		e.Panicked = true
		return e
	}
	return &ExecutionError{
		Scenario: scenario,
		Kind:     "panic",
		Message:  fmt.Sprint(v),
		Panicked: true,
	}
}

// errorKind picks the name shown before the message of an error observation.
//
// Walking the wrap chain outermost first: an error with a Kind() method
// names itself; otherwise the first exported error type wins (NumError for
// *strconv.NumError). Runtime faults are "RuntimeError". Errors built with
// errors.New or fmt.Errorf have unexported types and fall back to "Error".
func errorKind(err error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if k, ok := e.(interface{ Kind() string }); ok {
			return k.Kind()
		}
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		if _, ok := e.(runtime.Error); ok {
			return "RuntimeError"
		}
		if name := exportedTypeName(e); name != "" {
			return name
		}
	}
	return "Error"
}

func exportedTypeName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" || !unicode.IsUpper([]rune(name)[0]) {
		return ""
	}
	return name
}
