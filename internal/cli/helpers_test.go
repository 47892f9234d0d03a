package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/quirks/internal/harness"
	"github.com/roach88/quirks/internal/testutil"
)

const greetReport = "PASS greet\n" +
	"FAIL greet-wrong\n" +
	"  at 0: expected hello, got hi\n" +
	"1 passed, 1 failed, 2 total\n"

func greetRegistry() (*harness.Registry, error) {
	reg := harness.NewRegistry()
	err := reg.Register(harness.Scenario{
		Name:        "greet",
		Description: "prints hello",
		Body:        func(env *harness.Env) error { env.Println("hello"); return nil },
		Expected:    harness.Lines("hello"),
	})
	if err != nil {
		return nil, err
	}
	err = reg.Register(harness.Scenario{
		Name:        "greet-wrong",
		Description: "prints hi but expects hello",
		Body:        func(env *harness.Env) error { env.Println("hi"); return nil },
		Expected:    harness.Lines("hello"),
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func testOptions(runIDs ...string) *RootOptions {
	return &RootOptions{
		Registry: greetRegistry,
		RunIDs:   testutil.NewFixedRunIDGenerator(runIDs...),
	}
}

// execute runs the root command and returns stdout, stderr and the exit code.
func execute(t *testing.T, opts *RootOptions, args ...string) (string, string, int) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), GetExitCode(err)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
