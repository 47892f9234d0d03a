package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"failure", NewExitError(ExitFailure, "failed"), ExitFailure},
		{"wrapped", fmt.Errorf("outer: %w", NewExitError(ExitFailure, "failed")), ExitFailure},
		{"command", WrapExitError(ExitCommandError, "bad", errors.New("x")), ExitCommandError},
		{"plain error", errors.New("unknown flag"), ExitCommandError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitError_Message(t *testing.T) {
	err := WrapExitError(ExitFailure, "load", errors.New("boom"))
	assert.Equal(t, "load: boom", err.Error())
	assert.Equal(t, "only", NewExitError(ExitFailure, "only").Error())
}

func TestOutputFormatter_JSONError(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	assert.NoError(t, f.Error(ErrCodeNotFound, "missing", nil))
	assert.JSONEq(t, `{"status":"error","error":{"code":"E004","message":"missing"}}`, buf.String())
}

func TestStyleFor_NonTerminalIsPlain(t *testing.T) {
	var buf bytes.Buffer
	style := styleFor(&buf)
	assert.Equal(t, "PASS", style.Pass("PASS"))
	assert.False(t, isTTYWriter(&buf))
}
