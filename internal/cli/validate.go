package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/quirks/internal/harness"
)

// ValidateResult is the JSON payload of a successful validation.
type ValidateResult struct {
	File      string   `json:"file"`
	Scenarios []string `json:"scenarios"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <expectations-file>",
		Short: "Check an expectation file against the registry",
		Long: `Load a YAML or CUE expectation file, check every entry and confirm each
named scenario is registered. Nothing is run.

Exits 0 when the file is valid, 1 when it is not, 2 when it cannot be read.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runValidate(cmd *cobra.Command, opts *RootOptions, path string) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	reg, err := loadRegistry(opts)
	if err != nil {
		return err
	}

	doc, err := harness.LoadExpectations(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return WrapExitError(ExitCommandError, "expectation file not found", err)
		}
		if ferr := formatter.Error(ErrCodeInvalidFile, err.Error(), nil); ferr != nil {
			return WrapExitError(ExitCommandError, "failed to write output", ferr)
		}
		return WrapExitError(ExitFailure, "invalid expectation file", err)
	}

	if _, err := doc.Apply(reg.Scenarios()); err != nil {
		if ferr := formatter.Error(ErrCodeUnknown, err.Error(), nil); ferr != nil {
			return WrapExitError(ExitCommandError, "failed to write output", ferr)
		}
		return WrapExitError(ExitFailure, "invalid expectation file", err)
	}

	names := make([]string, len(doc.Scenarios))
	for i, s := range doc.Scenarios {
		names[i] = s.Name
	}
	if opts.Format == "json" {
		return formatter.Success(ValidateResult{File: path, Scenarios: names})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d scenarios valid\n", path, len(names))
	return nil
}
