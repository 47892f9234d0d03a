package harness

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quirks/internal/ir"
)

type kindedError struct{}

func (kindedError) Error() string { return "custom failure" }
func (kindedError) Kind() string  { return "CustomKind" }

func run(t *testing.T, body func(*Env) error) []ir.Observation {
	t.Helper()
	return NewRunner(nil).Run(context.Background(), Scenario{Name: "test", Body: body})
}

func TestRun_RecordsOutputInOrder(t *testing.T) {
	obs := run(t, func(env *Env) error {
		env.Println("first")
		env.Printf("second %d\n", 2)
		env.Print("third")
		return nil
	})

	require.Len(t, obs, 3)
	for i, o := range obs {
		assert.Equal(t, int64(i+1), o.Seq, "seq starts at 1 and increases")
		assert.Equal(t, ir.KindOutput, o.Kind)
	}
	assert.Equal(t, "first", obs[0].Value)
	assert.Equal(t, "second 2", obs[1].Value)
	assert.Equal(t, "third", obs[2].Value)
}

func TestRun_SplitsMultilineOutput(t *testing.T) {
	obs := run(t, func(env *Env) error {
		env.Printf("a\nb\n")
		env.Println()
		return nil
	})

	require.Len(t, obs, 3)
	assert.Equal(t, "a", obs[0].Value)
	assert.Equal(t, "b", obs[1].Value)
	assert.Equal(t, "", obs[2].Value)
}

func TestRun_ErrorBecomesSingleObservation(t *testing.T) {
	obs := run(t, func(env *Env) error {
		env.Println("before")
		_, err := strconv.Atoi("abc")
		if err != nil {
			return err
		}
		env.Println("after")
		return nil
	})

	require.Len(t, obs, 2)
	assert.Equal(t, "before", obs[0].Value)
	assert.Equal(t, ir.KindError, obs[1].Kind)
	assert.Equal(t, `NumError: strconv.Atoi: parsing "abc": invalid syntax`, obs[1].Value)
	assert.Equal(t, int64(2), obs[1].Seq)
}

func TestRun_PanicIsRecovered(t *testing.T) {
	obs := run(t, func(env *Env) error {
		env.Println("before")
		panic("boom")
	})

	require.Len(t, obs, 2)
	assert.Equal(t, ir.KindError, obs[1].Kind)
	assert.Equal(t, "panic: boom", obs[1].Value)
}

func TestRun_RuntimePanic(t *testing.T) {
	obs := run(t, func(env *Env) error {
		var m map[string]int
		m["x"] = 1
		return nil
	})

	require.Len(t, obs, 1)
	assert.Equal(t, ir.KindError, obs[0].Kind)
	assert.Contains(t, obs[0].Value, "RuntimeError: ")
	assert.Contains(t, obs[0].Value, "nil map")
}

func TestRun_NilBody(t *testing.T) {
	obs := NewRunner(nil).Run(context.Background(), Scenario{Name: "empty"})

	require.Len(t, obs, 1)
	assert.Equal(t, `ConfigurationError: harness configuration: scenario "empty": body is nil`, obs[0].Value)
}

func TestErrorKind(t *testing.T) {
	_, numErr := strconv.Atoi("x")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"errors.New", errors.New("boom"), "Error"},
		{"fmt.Errorf", fmt.Errorf("plain %d", 1), "Error"},
		{"exported type", numErr, "NumError"},
		{"wrapped exported type", fmt.Errorf("page: %w", numErr), "NumError"},
		{"kind method", kindedError{}, "CustomKind"},
		{"wrapped kind method", fmt.Errorf("ctx: %w", kindedError{}), "CustomKind"},
		{"configuration error", &ConfigurationError{Reason: "x"}, "ConfigurationError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorKind(tt.err))
		})
	}
}

func TestRun_PanicWithErrorKeepsKind(t *testing.T) {
	obs := run(t, func(env *Env) error {
		panic(kindedError{})
	})

	require.Len(t, obs, 1)
	assert.Equal(t, "CustomKind: custom failure", obs[0].Value)
}

func TestRun_IsolatedState(t *testing.T) {
	body := func(env *Env) error {
		n := env.Counter("calls")
		_, seen := env.Get("marker")
		env.Set("marker", true)
		env.Printf("calls=%d seen=%v", n, seen)
		return nil
	}

	first := run(t, body)
	second := run(t, body)

	assert.Equal(t, first, second)
	assert.Equal(t, "calls=1 seen=false", first[0].Value)
}

func TestRun_IsolatedSandbox(t *testing.T) {
	body := func(env *Env) error {
		db, err := env.DB()
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(env.Context(), `CREATE TABLE t (id INTEGER)`); err != nil {
			return err
		}
		env.Println("created")
		return nil
	}

	// A shared database would make the second CREATE TABLE fail.
	assert.Equal(t, []string{"created"}, values(run(t, body)))
	assert.Equal(t, []string{"created"}, values(run(t, body)))
}

func TestIdentify_Relationships(t *testing.T) {
	obs := run(t, func(env *Env) error {
		a := new(int)
		b := new(int)
		s := "interned"
		env.Identify("a", a)
		env.Identify("a-again", a)
		env.Identify("b", b)
		env.Identify("s", s)
		env.Identify("s-slice", s[:3])
		env.Identify("k1", struct{ n int }{1})
		env.Identify("k1-again", struct{ n int }{1})
		return nil
	})

	require.Len(t, obs, 7)
	for _, o := range obs {
		assert.Equal(t, ir.KindIdentity, o.Kind)
	}
	assert.Equal(t, "a", obs[0].Label)
	assert.Equal(t, obs[0].Value, obs[1].Value, "same pointer")
	assert.NotEqual(t, obs[0].Value, obs[2].Value, "distinct allocations")
	assert.Equal(t, obs[3].Value, obs[4].Value, "substring shares data pointer")
	assert.Equal(t, "h1", obs[5].Value)
	assert.Equal(t, obs[5].Value, obs[6].Value, "equal comparable values share a token")
}

func TestIdentify_UnaddressableHandlesAreDistinct(t *testing.T) {
	obs := run(t, func(env *Env) error {
		env.Identify("empty", "")
		env.Identify("empty-again", "")
		env.Identify("nil", nil)
		env.Identify("func-struct", struct{ f func() }{})
		env.Identify("func-struct-again", struct{ f func() }{})
		return nil
	})

	require.Len(t, obs, 5)
	seen := map[string]bool{}
	for _, o := range obs {
		assert.False(t, seen[o.Value], "handle %s for %s reused", o.Value, o.Label)
		seen[o.Value] = true
	}

	result := Check("anon", obs, []Expectation{Fresh("a"), Fresh("b"), Fresh("c"), Fresh("d"), Fresh("e")})
	assert.True(t, result.Passed)
	result = Check("anon", obs[:2], []Expectation{Fresh("a"), SameAs("a")})
	assert.False(t, result.Passed)
}

func TestRun_Deterministic(t *testing.T) {
	body := func(env *Env) error {
		x := new(int)
		env.Println("start")
		env.Identify("x", x)
		env.Identify("x", x)
		env.Identify("y", new(int))
		return nil
	}

	first := run(t, body)
	second := run(t, body)

	assert.Equal(t, ir.Normalize(first), ir.Normalize(second))
	assert.Equal(t, ir.MustStreamDigest(first), ir.MustStreamDigest(second))
}

func values(obs []ir.Observation) []string {
	out := make([]string, len(obs))
	for i, o := range obs {
		out[i] = o.Value
	}
	return out
}
