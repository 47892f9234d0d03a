// Command quirks runs the scenario catalog and reports PASS/FAIL per scenario.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/quirks/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cli.Execute(ctx, args, stdout, stderr)
}
