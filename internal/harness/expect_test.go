package harness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quirks/internal/ir"
)

func out(seq int64, v string) ir.Observation {
	return ir.Observation{Seq: seq, Kind: ir.KindOutput, Value: v}
}

func ident(seq int64, label, v string) ir.Observation {
	return ir.Observation{Seq: seq, Kind: ir.KindIdentity, Label: label, Value: v}
}

func failure(seq int64, v string) ir.Observation {
	return ir.Observation{Seq: seq, Kind: ir.KindError, Value: v}
}

func TestCheck_Greet(t *testing.T) {
	result := Check("greet", []ir.Observation{out(1, "hello")}, Lines("hello"))

	assert.Equal(t, "greet", result.Scenario)
	assert.True(t, result.Passed)
	assert.Equal(t, ir.StatusPassed, result.Status)
	assert.Empty(t, result.Mismatches)
	assert.NotNil(t, result.Mismatches)
}

func TestCheck_GreetWrong(t *testing.T) {
	result := Check("greet-wrong", []ir.Observation{out(1, "hi")}, Lines("hello"))

	assert.False(t, result.Passed)
	assert.Equal(t, ir.StatusFailed, result.Status)
	assert.Equal(t, []ir.Mismatch{{Index: 0, Expected: "hello", Actual: "hi"}}, result.Mismatches)
}

func TestCheck_MissingLine(t *testing.T) {
	result := Check("short", []ir.Observation{out(1, "a")}, Lines("a", "b"))

	assert.False(t, result.Passed)
	require.Len(t, result.Mismatches, 1)
	assert.Equal(t, ir.Mismatch{Index: 1, Expected: "b", Actual: ir.MissingValue}, result.Mismatches[0])
}

func TestCheck_ExtraLine(t *testing.T) {
	result := Check("long", []ir.Observation{out(1, "a"), out(2, "b")}, Lines("a"))

	assert.False(t, result.Passed)
	require.Len(t, result.Mismatches, 1)
	assert.Equal(t, ir.Mismatch{Index: 1, Expected: ir.NoneValue, Actual: "b"}, result.Mismatches[0])
}

func TestCheck_RecordsEveryMismatch(t *testing.T) {
	obs := []ir.Observation{out(1, "x"), out(2, "b"), out(3, "y")}
	result := Check("many", obs, Lines("a", "b", "c", "d"))

	require.Len(t, result.Mismatches, 3)
	assert.Equal(t, 0, result.Mismatches[0].Index)
	assert.Equal(t, 2, result.Mismatches[1].Index)
	assert.Equal(t, 3, result.Mismatches[2].Index)
	assert.Equal(t, ir.MissingValue, result.Mismatches[2].Actual)
}

func TestCheck_NoExpectationsNoObservations(t *testing.T) {
	result := Check("silent", nil, nil)
	assert.True(t, result.Passed)
}

func TestCheck_Error(t *testing.T) {
	obs := []ir.Observation{out(1, "start"), failure(2, "NumError: bad")}

	result := Check("fails", obs, []Expectation{Line("start"), Error("NumError", "bad")})
	assert.True(t, result.Passed)

	result = Check("fails", obs, []Expectation{Line("start"), Line("NumError: bad")})
	require.Len(t, result.Mismatches, 1)
	assert.Equal(t, "error(NumError: bad)", result.Mismatches[0].Actual)
}

func TestCheck_Pattern(t *testing.T) {
	obs := []ir.Observation{out(1, "page 42"), failure(2, "Error: timeout after 3s")}

	result := Check("pattern", obs, []Expectation{Match(`^page \d+$`), Match(`timeout`)})
	assert.True(t, result.Passed)

	result = Check("pattern", obs[:1], []Expectation{Match(`^page [a-z]+$`)})
	require.Len(t, result.Mismatches, 1)
	assert.Equal(t, "/^page [a-z]+$/", result.Mismatches[0].Expected)
}

func TestCheck_IdentityRelationships(t *testing.T) {
	obs := []ir.Observation{
		ident(1, "a", "0xc000010000"),
		ident(2, "b", "0xc000010000"),
		ident(3, "c", "0xc000020000"),
	}

	result := Check("identity", obs, []Expectation{Fresh("a"), SameAs("a"), Fresh("c")})
	assert.True(t, result.Passed)

	result = Check("identity", obs, []Expectation{Fresh("a"), Fresh("b"), SameAs("a")})
	assert.False(t, result.Passed)
	require.Len(t, result.Mismatches, 2)
	assert.Equal(t, ir.Mismatch{Index: 1, Expected: "identity(fresh b)", Actual: "identity(b=#1)"}, result.Mismatches[0])
	assert.Equal(t, ir.Mismatch{Index: 2, Expected: "identity(same as a)", Actual: "identity(c=#2)"}, result.Mismatches[1])
}

func TestCheck_FreshRebindsLabel(t *testing.T) {
	obs := []ir.Observation{
		ident(1, "first", "0xc000010000"),
		ident(2, "second", "0xc000020000"),
		ident(3, "again", "0xc000010000"),
	}

	result := Check("rebind", obs, []Expectation{Fresh("a"), Fresh("a"), SameAs("a")})
	assert.False(t, result.Passed)
	require.Len(t, result.Mismatches, 1)
	assert.Equal(t, ir.Mismatch{Index: 2, Expected: "identity(same as a)", Actual: "identity(again=#1)"}, result.Mismatches[0])

	obs[2].Value = "0xc000020000"
	assert.True(t, Check("rebind", obs, []Expectation{Fresh("a"), Fresh("a"), SameAs("a")}).Passed)
}

func TestCheck_SameAsUnboundLabel(t *testing.T) {
	result := Check("unbound", []ir.Observation{ident(1, "x", "0x1")}, []Expectation{SameAs("missing")})
	assert.False(t, result.Passed)
}

func TestCheck_IdentityNotLine(t *testing.T) {
	result := Check("kinds", []ir.Observation{ident(1, "x", "0x1")}, []Expectation{Line("0x1")})
	assert.False(t, result.Passed, "a line never matches an identity fact")
}

func TestCheck_Predicate(t *testing.T) {
	upper := Satisfies("upper case", func(o ir.Observation) bool {
		return o.Value == strings.ToUpper(o.Value)
	})

	assert.True(t, Check("p", []ir.Observation{out(1, "LOUD")}, []Expectation{upper}).Passed)

	result := Check("p", []ir.Observation{out(1, "quiet")}, []Expectation{upper})
	require.Len(t, result.Mismatches, 1)
	assert.Equal(t, "at 0: expected <upper case>, got quiet", result.Mismatches[0].String())
}

func TestCheck_PanickingPredicateIsMismatch(t *testing.T) {
	boom := Satisfies("never panics", func(ir.Observation) bool { panic("boom") })

	var result ir.Result
	require.NotPanics(t, func() {
		result = Check("p", []ir.Observation{out(1, "x"), out(2, "y")}, []Expectation{boom, Line("y")})
	})
	assert.False(t, result.Passed)
	require.Len(t, result.Mismatches, 1)
	assert.Equal(t, "at 0: expected <never panics>, got x", result.Mismatches[0].String())
}

func TestMatch_PanicsOnBadPattern(t *testing.T) {
	assert.Panics(t, func() { Match("(") })
}

func TestResultError(t *testing.T) {
	assert.NoError(t, ResultError(ir.Result{Scenario: "ok", Passed: true}))

	err := ResultError(ir.Result{
		Scenario:   "greet-wrong",
		Mismatches: []ir.Mismatch{{Index: 0, Expected: "hello", Actual: "hi"}},
	})
	var expErr *ExpectationError
	require.ErrorAs(t, err, &expErr)
	assert.Equal(t, "scenario \"greet-wrong\": 1 mismatch(es)\n  at 0: expected hello, got hi", err.Error())
}
