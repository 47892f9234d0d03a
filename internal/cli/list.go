package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Filter string
}

// ScenarioInfo describes one registered scenario.
type ScenarioInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Expected    int    `json:"expected"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "glob selecting scenarios by name or group")

	return cmd
}

func runList(cmd *cobra.Command, opts *ListOptions) error {
	reg, err := loadRegistry(opts.RootOptions)
	if err != nil {
		return err
	}
	scenarios, err := reg.Filter(opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}

	infos := make([]ScenarioInfo, len(scenarios))
	for i, s := range scenarios {
		infos[i] = ScenarioInfo{Name: s.Name, Description: s.Description, Expected: len(s.Expected)}
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: out}
		return formatter.Success(infos)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\n", info.Name, info.Description)
	}
	return tw.Flush()
}
