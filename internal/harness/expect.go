package harness

import (
	"fmt"
	"regexp"

	"github.com/roach88/quirks/internal/ir"
)

// MatchKind selects how an Expectation compares with an observation.
type MatchKind string

const (
	MatchLine      MatchKind = "line"
	MatchError     MatchKind = "error"
	MatchPattern   MatchKind = "match"
	MatchSameAs    MatchKind = "same_as"
	MatchFresh     MatchKind = "fresh"
	MatchPredicate MatchKind = "satisfies"
)

// Expectation is the expected line at one position of a scenario's
// observation stream: a literal value or a predicate.
//
// Identity facts are run-dependent, so SameAs and Fresh check relationships
// between handles ("equal to the handle bound to label") instead of values.
type Expectation struct {
	Kind  MatchKind
	Value string // line text, "Kind: message", pattern source, label, or description

	re   *regexp.Regexp
	pred func(ir.Observation) bool
}

// Line expects an output observation equal to s.
func Line(s string) Expectation {
	return Expectation{Kind: MatchLine, Value: s}
}

// Lines expects consecutive output observations.
func Lines(ss ...string) []Expectation {
	out := make([]Expectation, len(ss))
	for i, s := range ss {
		out[i] = Line(s)
	}
	return out
}

// Error expects an error observation "<kind>: <message>".
func Error(kind, message string) Expectation {
	return Expectation{Kind: MatchError, Value: kind + ": " + message}
}

// Match expects an output or error observation whose value matches the
// regular expression. It panics if pattern does not compile.
func Match(pattern string) Expectation {
	return Expectation{Kind: MatchPattern, Value: pattern, re: regexp.MustCompile(pattern)}
}

// SameAs expects an identity fact whose handle equals the handle bound to
// label by an earlier Fresh.
func SameAs(label string) Expectation {
	return Expectation{Kind: MatchSameAs, Value: label}
}

// Fresh expects an identity fact whose handle is not bound to any earlier
// label, and binds it to label.
func Fresh(label string) Expectation {
	return Expectation{Kind: MatchFresh, Value: label}
}

// Satisfies expects an observation accepted by fn. desc is what mismatch
// reports print as the expected value.
func Satisfies(desc string, fn func(ir.Observation) bool) Expectation {
	return Expectation{Kind: MatchPredicate, Value: desc, pred: fn}
}

// String renders the expectation as mismatch reports show it.
func (e Expectation) String() string {
	switch e.Kind {
	case MatchError:
		return "error(" + e.Value + ")"
	case MatchPattern:
		return "/" + e.Value + "/"
	case MatchSameAs:
		return fmt.Sprintf("identity(same as %s)", e.Value)
	case MatchFresh:
		return fmt.Sprintf("identity(fresh %s)", e.Value)
	case MatchPredicate:
		return "<" + e.Value + ">"
	default:
		return e.Value
	}
}

// bindings tracks labels bound by Fresh during one check.
type bindings struct {
	byLabel map[string]string
	bound   map[string]bool
}

func newBindings() *bindings {
	return &bindings{byLabel: map[string]string{}, bound: map[string]bool{}}
}

// matches reports whether o satisfies e, binding a label on a Fresh match.
func (e Expectation) matches(o ir.Observation, b *bindings) bool {
	switch e.Kind {
	case MatchLine:
		return o.Kind == ir.KindOutput && o.Value == e.Value
	case MatchError:
		return o.Kind == ir.KindError && o.Value == e.Value
	case MatchPattern:
		return o.Kind != ir.KindIdentity && e.re != nil && e.re.MatchString(o.Value)
	case MatchSameAs:
		v, ok := b.byLabel[e.Value]
		return o.Kind == ir.KindIdentity && ok && o.Value == v
	case MatchFresh:
		if o.Kind != ir.KindIdentity || b.bound[o.Value] {
			return false
		}
		b.byLabel[e.Value] = o.Value
		b.bound[o.Value] = true
		return true
	case MatchPredicate:
		return e.pred != nil && e.satisfied(o)
	default:
		return false
	}
}

// satisfied runs the predicate. A panicking predicate counts as a mismatch.
func (e Expectation) satisfied(o ir.Observation) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return e.pred(o)
}

// Check compares observations with expectations position by position and
// returns the scenario's Result.
//
// Every differing position is recorded, not only the first. A position with
// an expectation but no observation reports "<missing>"; a surplus
// observation reports an expected value of "<none>". Identity values are
// shown as relationship tokens (#1, #2) so reports are stable across runs.
func Check(name string, observations []ir.Observation, expected []Expectation) ir.Result {
	shown := ir.Normalize(observations)
	b := newBindings()

	mismatches := []ir.Mismatch{}
	n := max(len(observations), len(expected))
	for i := 0; i < n; i++ {
		switch {
		case i >= len(observations):
			mismatches = append(mismatches, ir.Mismatch{
				Index:    i,
				Expected: expected[i].String(),
				Actual:   ir.MissingValue,
			})
		case i >= len(expected):
			mismatches = append(mismatches, ir.Mismatch{
				Index:    i,
				Expected: ir.NoneValue,
				Actual:   shown[i].String(),
			})
		case !expected[i].matches(observations[i], b):
			mismatches = append(mismatches, ir.Mismatch{
				Index:    i,
				Expected: expected[i].String(),
				Actual:   shown[i].String(),
			})
		}
	}

	passed := len(mismatches) == 0
	status := ir.StatusFailed
	if passed {
		status = ir.StatusPassed
	}
	return ir.Result{
		Scenario:     name,
		Status:       status,
		Passed:       passed,
		Mismatches:   mismatches,
		Observations: observations,
	}
}
